package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxel-terrain/internal/config"
	"github.com/annel0/voxel-terrain/internal/export"
	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/annel0/voxel-terrain/internal/mesh"
	"github.com/annel0/voxel-terrain/internal/metrics"
	"github.com/annel0/voxel-terrain/internal/noise"
	"github.com/annel0/voxel-terrain/internal/storage"
	"github.com/annel0/voxel-terrain/internal/terrain"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
)

const (
	formatOBJ = "obj"
	formatVXM = "vxm"
)

type runOptions struct {
	Radius   int
	MinY     int
	MaxY     int
	Out      string
	Format   string
	Compress bool
	Normals  bool
}

type runSummary struct {
	Chunks    int
	Vertices  int
	Triangles int
	Out       string
}

// buildGenerator собирает поле высот, генератор и, при необходимости, пещеры
func buildGenerator(cfg *config.Config) (*world.Generator, error) {
	field, err := noise.NewWithOptions(cfg.Noise.GetSeed(), cfg.Noise.Scale, cfg.NoiseOptions())
	if err != nil {
		return nil, fmt.Errorf("поле шума: %w", err)
	}

	gen := world.NewGenerator(field,
		world.LinearHeight(cfg.Terrain.BaseHeight, cfg.Terrain.Amplitude),
		cfg.Terrain.ChunkSize)

	if cfg.Terrain.Caves.Enabled {
		caveField, err := noise.NewWithOptions(field.Seed()+1, cfg.Terrain.Caves.Scale, cfg.NoiseOptions())
		if err != nil {
			return nil, fmt.Errorf("поле пещер: %w", err)
		}
		gen.Caves = &world.CaveCarver{Field: caveField, Threshold: float32(cfg.Terrain.Caves.Threshold)}
	}
	return gen, nil
}

func run(cfg *config.Config, opts runOptions, pipeline *metrics.Pipeline) (*runSummary, error) {
	if opts.Format != formatOBJ && opts.Format != formatVXM {
		return nil, fmt.Errorf("неизвестный формат %q", opts.Format)
	}
	if opts.Radius < 0 {
		return nil, fmt.Errorf("radius не может быть отрицательным: %d", opts.Radius)
	}

	gen, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	genLog := logging.GetGeneratorLogger()
	manager := terrain.NewManager(gen, cfg.Generation.GetWorkers(), pipeline)

	if cfg.Cache.Dir != "" {
		store, err := storage.NewChunkStore(cfg.Cache.Dir, cfg.Fingerprint())
		if err != nil {
			return nil, fmt.Errorf("кэш чанков: %w", err)
		}
		defer store.Close()
		manager.SetCache(store)
		genLog.Info("💾 Кэш чанков: %s", cfg.Cache.Dir)
	}
	coords := terrain.Box(
		vec.Vec3{X: -opts.Radius, Y: opts.MinY, Z: -opts.Radius},
		vec.Vec3{X: opts.Radius, Y: opts.MaxY, Z: opts.Radius},
	)
	genLog.Info("🌍 Генерация %d чанков (S=%d, seed=%d, workers=%d)",
		len(coords), gen.Size(), gen.Field().Seed(), manager.Workers())

	generated, err := manager.GenerateRegion(coords)
	if err != nil {
		return nil, err
	}
	genLog.Debug("Сгенерировано %d чанков", generated)

	m := manager.Mesh()
	logging.GetMesherLogger().Info("🧱 Сетка: %d вершин, %d треугольников", m.VertexCount(), m.TriangleCount())

	var normals []mgl32.Vec3
	if opts.Normals {
		normals = mesh.ComputeNormals(m)
	}

	if err := writeOutput(opts, m, normals); err != nil {
		return nil, err
	}
	logging.GetExportLogger().Debug("Записан файл %s (%s)", opts.Out, opts.Format)

	return &runSummary{
		Chunks:    manager.Chunks().Len(),
		Vertices:  m.VertexCount(),
		Triangles: m.TriangleCount(),
		Out:       opts.Out,
	}, nil
}

func writeOutput(opts runOptions, m *mesh.Mesh, normals []mgl32.Vec3) (err error) {
	f, err := os.Create(opts.Out)
	if err != nil {
		return fmt.Errorf("создание %s: %w", opts.Out, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if err := encode(w, opts, m, normals); err != nil {
		return fmt.Errorf("экспорт %s: %w", opts.Out, err)
	}
	return w.Flush()
}

func encode(w io.Writer, opts runOptions, m *mesh.Mesh, normals []mgl32.Vec3) error {
	if opts.Format == formatVXM {
		return export.WriteBuffers(w, m, normals, export.Options{Compress: opts.Compress})
	}
	return export.WriteOBJ(w, m, normals)
}
