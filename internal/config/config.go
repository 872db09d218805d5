package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/annel0/voxel-terrain/internal/noise"
)

// Config корневая структура конфигурации генератора
type Config struct {
	Noise      NoiseConfig      `yaml:"noise"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Generation GenerationConfig `yaml:"generation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type NoiseConfig struct {
	Seed        int64   `yaml:"seed"`
	Scale       float64 `yaml:"scale"`
	Backend     string  `yaml:"backend"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
}

type TerrainConfig struct {
	ChunkSize  int         `yaml:"chunk_size"`
	BaseHeight float64     `yaml:"base_height"`
	Amplitude  float64     `yaml:"amplitude"`
	Caves      CavesConfig `yaml:"caves"`
}

type CavesConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Scale     float64 `yaml:"scale"`
	Threshold float64 `yaml:"threshold"`
}

type GenerationConfig struct {
	// Workers - размер пула генерации; 0 означает runtime.NumCPU()
	Workers int `yaml:"workers"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
	// Endpoint OTLP/HTTP коллектора, например "localhost:4318"
	Endpoint string `yaml:"endpoint"`
}

// CacheConfig - каталог BadgerDB для готовых чанков; пустой - кэш выключен
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	opts := noise.DefaultOptions()
	return &Config{
		Noise: NoiseConfig{
			Seed:        noise.DefaultSeed,
			Scale:       50,
			Backend:     string(opts.Backend),
			Octaves:     opts.Octaves,
			Persistence: opts.Persistence,
			Lacunarity:  opts.Lacunarity,
		},
		Terrain: TerrainConfig{
			ChunkSize:  32,
			BaseHeight: 16,
			Amplitude:  16,
			Caves: CavesConfig{
				Scale:     12,
				Threshold: 0.45,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// GetSeed возвращает сид шума с поддержкой fallback значений
func (n *NoiseConfig) GetSeed() int64 {
	if n.Seed != 0 {
		return n.Seed
	}
	if envVal := os.Getenv("VOXEL_SEED"); envVal != "" {
		if seed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return seed
		}
	}
	return noise.DefaultSeed
}

// GetWorkers возвращает размер пула с поддержкой fallback значений
func (g *GenerationConfig) GetWorkers() int {
	return getIntWithEnvFallback(g.Workers, "VOXEL_WORKERS", 0)
}

// GetAddr возвращает адрес /metrics; пустая строка - экспорт выключен
func (m *MetricsConfig) GetAddr() string {
	if m.Addr != "" {
		return m.Addr
	}
	return os.Getenv("VOXEL_METRICS_ADDR")
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	if configValue > 0 {
		return configValue
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	return defaultValue
}

// NoiseOptions переводит секцию noise в параметры поля
func (c *Config) NoiseOptions() noise.Options {
	return noise.Options{
		Backend:     noise.Backend(c.Noise.Backend),
		Octaves:     c.Noise.Octaves,
		Persistence: c.Noise.Persistence,
		Lacunarity:  c.Noise.Lacunarity,
	}
}

// Fingerprint возвращает отпечаток параметров, от которых зависит содержимое чанков.
// Используется как пространство ключей кэша.
func (c *Config) Fingerprint() string {
	noiseCfg := c.Noise
	noiseCfg.Seed = noiseCfg.GetSeed()

	data, err := yaml.Marshal(struct {
		Noise   NoiseConfig   `yaml:"noise"`
		Terrain TerrainConfig `yaml:"terrain"`
	}{noiseCfg, c.Terrain})
	if err != nil {
		// Структуры из простых полей всегда сериализуются
		panic(fmt.Sprintf("config: fingerprint: %v", err))
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Validate проверяет согласованность значений.
// Масштаб шума не проверяется: поле само поднимает его до noise.MinScale.
func (c *Config) Validate() error {
	if c.Terrain.ChunkSize <= 0 {
		return fmt.Errorf("terrain.chunk_size должен быть > 0, получено %d", c.Terrain.ChunkSize)
	}
	switch noise.Backend(c.Noise.Backend) {
	case "", noise.BackendSimplex, noise.BackendPerlin:
	default:
		return fmt.Errorf("noise.backend: неизвестный backend %q", c.Noise.Backend)
	}
	if c.Noise.Octaves < 0 {
		return fmt.Errorf("noise.octaves не может быть отрицательным: %d", c.Noise.Octaves)
	}
	if c.Generation.Workers < 0 {
		return fmt.Errorf("generation.workers не может быть отрицательным: %d", c.Generation.Workers)
	}
	return nil
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV VOXEL_CONFIG или возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
