package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/annel0/voxel-terrain/internal/config"
	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/annel0/voxel-terrain/internal/metrics"
	"github.com/annel0/voxel-terrain/internal/observability"
)

func main() {
	os.Exit(cli(os.Args[1:]))
}

// cli выполняет генерацию и возвращает код выхода.
// Все отложенные завершения (логгеры, /metrics, трассировка) отрабатывают до выхода.
func cli(args []string) int {
	fs := flag.NewFlagSet("voxelgen", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "", "Path to YAML config (env VOXEL_CONFIG)")
		radius      = fs.Int("radius", 2, "Horizontal radius in chunks around (0,0)")
		minY        = fs.Int("min-y", -1, "Lowest chunk Y coordinate")
		maxY        = fs.Int("max-y", 1, "Highest chunk Y coordinate")
		outPath     = fs.String("out", "terrain.obj", "Output file")
		format      = fs.String("format", formatOBJ, "Output format: obj, vxm")
		compress    = fs.Bool("compress", false, "zstd-compress vxm output")
		withNormals = fs.Bool("normals", false, "Compute per-vertex normals")
		metricsAddr = fs.String("metrics-addr", "", "Serve Prometheus /metrics on this address (e.g. :2112)")
		logLevel    = fs.String("log-level", "", "Log level: trace, debug, info, warn, error")
		logDir      = fs.String("log-dir", "", "Directory for log files")
		cacheDir    = fs.String("cache-dir", "", "BadgerDB directory for generated chunks")
		trace       = fs.Bool("trace", false, "Export OpenTelemetry traces over OTLP/HTTP")
		otlpAddr    = fs.String("otlp-endpoint", "", "OTLP/HTTP collector, e.g. localhost:4318")
		hold        = fs.Bool("hold", false, "Keep serving /metrics until interrupted")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Ошибка загрузки конфигурации: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logDir != "" {
		cfg.Logging.Dir = *logDir
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *cacheDir != "" {
		cfg.Cache.Dir = *cacheDir
	}
	if *trace {
		cfg.Tracing.Enabled = true
	}
	if *otlpAddr != "" {
		cfg.Tracing.Endpoint = *otlpAddr
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	logging.SetLogDir(cfg.Logging.Dir)
	logging.SetDefaultLevels(level, fileLevel(level))
	if err := logging.InitDefaultLogger("voxelgen"); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Ошибка инициализации логирования: %v\n", err)
		return 1
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	if cfg.Tracing.Enabled {
		shutdown, err := observability.InitTelemetry(context.Background(), "voxelgen", cfg.Tracing.Endpoint)
		if err != nil {
			logging.Warn("Трассировка недоступна: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Warn("Ошибка остановки трассировки: %v", err)
				}
			}()
		}
	}

	var pipeline *metrics.Pipeline
	if addr := cfg.Metrics.GetAddr(); addr != "" {
		pipeline = metrics.NewPipeline(nil)
		srv := metrics.StartHTTP(addr, nil)
		defer srv.Close()
	}

	stats := metrics.NewRuntimeStats()
	summary, err := run(cfg, runOptions{
		Radius:   *radius,
		MinY:     *minY,
		MaxY:     *maxY,
		Out:      *outPath,
		Format:   *format,
		Compress: *compress,
		Normals:  *withNormals,
	}, pipeline)
	if err != nil {
		logging.Error("❌ Генерация не удалась: %v", err)
		return 1
	}

	logging.Info("✅ Чанков: %d, вершин: %d, треугольников: %d -> %s",
		summary.Chunks, summary.Vertices, summary.Triangles, summary.Out)
	cpu, err := stats.GetCPUUsage()
	if err != nil {
		logging.Debug("CPU недоступен: %v", err)
	}
	logging.Info("⏱️ Время: %s, память: %.1f MB, CPU: %.1f%%", stats.GetUptime(), stats.GetMemoryUsage(), cpu)

	if *hold && pipeline != nil {
		logging.Info("📈 Ожидание сигнала завершения, /metrics остаётся доступным")
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
	}
	return 0
}

// fileLevel возвращает уровень файлового лога: не выше DEBUG
func fileLevel(console logging.LogLevel) logging.LogLevel {
	if console < logging.DEBUG {
		return console
	}
	return logging.DEBUG
}
