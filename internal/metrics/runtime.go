package metrics

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// RuntimeStats собирает сведения о процессе для итогового отчёта
type RuntimeStats struct {
	StartTime time.Time
}

// NewRuntimeStats создаёт новый экземпляр, отсчитывая время с текущего момента
func NewRuntimeStats() *RuntimeStats {
	return &RuntimeStats{
		StartTime: time.Now(),
	}
}

// GetUptime возвращает время работы в человекочитаемом виде
func (rs *RuntimeStats) GetUptime() string {
	return formatUptime(time.Since(rs.StartTime))
}

func formatUptime(uptime time.Duration) string {
	hours := int(uptime.Hours())
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60
	millis := int(uptime.Milliseconds()) % 1000

	switch {
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%d.%03dс", seconds, millis)
	}
}

// GetMemoryUsage возвращает размер кучи Go в MB
func (rs *RuntimeStats) GetMemoryUsage() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return float64(m.Alloc) / 1024 / 1024
}

// GetCPUUsage возвращает использование CPU процессом в процентах
func (rs *RuntimeStats) GetCPUUsage() (float64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		// Если не удалось получить метрику процесса, берём системную
		cpuPercents, err := cpu.Percent(100*time.Millisecond, false)
		if err != nil || len(cpuPercents) == 0 {
			return 0, err
		}
		return cpuPercents[0], nil
	}
	return cpuPercent, nil
}
