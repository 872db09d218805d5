package terrain

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/annel0/voxel-terrain/internal/mesh"
	"github.com/annel0/voxel-terrain/internal/metrics"
	"github.com/annel0/voxel-terrain/internal/observability"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
)

// ChunkCache - необязательный кэш готовых чанков (см. storage.ChunkStore)
type ChunkCache interface {
	LoadChunk(coord vec.Vec3, size int) (*world.Chunk, bool, error)
	SaveChunk(c *world.Chunk) error
}

// Manager управляет генерацией набора чанков и построением общей сетки.
// Генерация и построение сетки - две последовательные фазы: Mesh читает
// карту чанков только после завершения GenerateRegion.
type Manager struct {
	gen     *world.Generator
	chunks  *world.ChunkMap
	workers int
	metrics *metrics.Pipeline
	cache   ChunkCache
}

// NewManager создаёт менеджер. workers <= 0 означает runtime.NumCPU(); metrics может быть nil.
func NewManager(gen *world.Generator, workers int, pipeline *metrics.Pipeline) *Manager {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Manager{
		gen:     gen,
		chunks:  world.NewChunkMap(gen.Size()),
		workers: workers,
		metrics: pipeline,
	}
}

// SetCache подключает кэш чанков; nil отключает его
func (m *Manager) SetCache(cache ChunkCache) { m.cache = cache }

// Chunks возвращает карту сгенерированных чанков
func (m *Manager) Chunks() *world.ChunkMap { return m.chunks }

// Workers возвращает размер пула генерации
func (m *Manager) Workers() int { return m.workers }

// GenerateRegion добавляет в карту чанки по координатам и возвращает число новых чанков.
// Повторы в coords и уже имеющиеся в карте чанки пропускаются.
// Ошибки кэша не прерывают генерацию: чанк строится заново.
func (m *Manager) GenerateRegion(coords []vec.Vec3) (int, error) {
	_, span := observability.Tracer().Start(context.Background(), "terrain.GenerateRegion")
	defer span.End()

	seen := make(map[vec.Vec3]struct{}, len(coords))
	pending := make([]vec.Vec3, 0, len(coords))
	for _, c := range coords {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if m.chunks.Has(c) {
			m.metrics.ChunkSkipped()
			continue
		}
		pending = append(pending, c)
	}
	span.SetAttributes(
		attribute.Int("terrain.requested", len(coords)),
		attribute.Int("terrain.pending", len(pending)),
	)
	if len(pending) == 0 {
		return 0, nil
	}

	pool := pond.NewPool(m.workers)

	var (
		mu       sync.Mutex
		added    int
		firstErr error
	)

	tasks := make([]pond.Task, 0, len(pending))
	for _, coord := range pending {
		coord := coord
		tasks = append(tasks, pool.Submit(func() {
			chunk, cached := m.produce(coord)
			err := m.chunks.Insert(chunk)
			if err == nil && !cached && m.cache != nil {
				if serr := m.cache.SaveChunk(chunk); serr != nil {
					logging.GetGeneratorLogger().Warn("Не удалось сохранить чанк %s: %v", coord, serr)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				added++
			case errors.Is(err, world.ErrChunkExists):
				// Чанк вставлен параллельным вызовом
				m.metrics.ChunkSkipped()
			case firstErr == nil:
				firstErr = fmt.Errorf("вставка чанка %s: %w", coord, err)
			}
		}))
	}

	pool.StopAndWait()

	// pond перехватывает панику задачи и возвращает её как ошибку.
	// Нарушение предусловия в генераторе остаётся фатальным.
	for i, task := range tasks {
		if err := task.Wait(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			panic(fmt.Sprintf("terrain: генерация чанка %s: %v", pending[i], err))
		}
	}

	span.SetAttributes(attribute.Int("terrain.added", added))
	if firstErr != nil {
		span.RecordError(firstErr)
		span.SetStatus(codes.Error, firstErr.Error())
	}
	return added, firstErr
}

// produce берёт чанк из кэша или генерирует его
func (m *Manager) produce(coord vec.Vec3) (*world.Chunk, bool) {
	if m.cache != nil {
		c, ok, err := m.cache.LoadChunk(coord, m.gen.Size())
		if err != nil {
			logging.GetGeneratorLogger().Warn("Кэш чанка %s недоступен: %v", coord, err)
		} else if ok {
			m.metrics.ChunkCached()
			return c, true
		}
	}

	start := time.Now()
	c := m.gen.Generate(coord)
	m.metrics.ChunkGenerated(c.SolidCount(), time.Since(start))
	return c, false
}

// Mesh строит общую сетку по всем сгенерированным чанкам
func (m *Manager) Mesh() *mesh.Mesh {
	_, span := observability.Tracer().Start(context.Background(), "terrain.Mesh")
	defer span.End()

	start := time.Now()
	out := mesh.BuildParallel(m.chunks, m.workers)
	m.metrics.MeshBuilt(out.VertexCount(), len(out.Indices), time.Since(start))

	span.SetAttributes(
		attribute.Int("mesh.chunks", m.chunks.Len()),
		attribute.Int("mesh.vertices", out.VertexCount()),
		attribute.Int("mesh.triangles", out.TriangleCount()),
	)
	return out
}

// Box перечисляет координаты чанков в параллелепипеде [min, max] включительно,
// в порядке Z, затем Y, затем X. Пустой, если хотя бы по одной оси min > max.
func Box(min, max vec.Vec3) []vec.Vec3 {
	if min.X > max.X || min.Y > max.Y || min.Z > max.Z {
		return nil
	}

	out := make([]vec.Vec3, 0, (max.X-min.X+1)*(max.Y-min.Y+1)*(max.Z-min.Z+1))
	for z := min.Z; z <= max.Z; z++ {
		for y := min.Y; y <= max.Y; y++ {
			for x := min.X; x <= max.X; x++ {
				out = append(out, vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// Column перечисляет вертикальный столбец чанков (x, minY..maxY, z)
func Column(x, z, minY, maxY int) []vec.Vec3 {
	return Box(vec.Vec3{X: x, Y: minY, Z: z}, vec.Vec3{X: x, Y: maxY, Z: z})
}
