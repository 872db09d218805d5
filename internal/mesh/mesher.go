package mesh

import (
	"fmt"
	"math"
	"runtime"

	"github.com/annel0/voxel-terrain/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// BuildChunk строит «кубический суп» для одного чанка: каждый твёрдый воксель
// даёт 8 собственных вершин и 12 треугольников. Соседи не учитываются.
func BuildChunk(c *world.Chunk) *Mesh {
	s := c.Size()
	solid := c.SolidCount()
	if uint64(solid)*cubeVertexCount > math.MaxUint32 {
		panic(fmt.Sprintf("mesh: чанк %v даёт слишком много вершин", c.Coord()))
	}

	m := &Mesh{
		Vertices: make([]mgl32.Vec3, 0, solid*cubeVertexCount),
		Indices:  make([]uint32, 0, solid*cubeIndexCount),
	}

	origin := c.Origin()
	for z := 0; z < s; z++ {
		for y := 0; y < s; y++ {
			for x := 0; x < s; x++ {
				if !c.At(x, y, z).Solid {
					continue
				}
				m.appendCube(mgl32.Vec3{
					float32(origin.X + x),
					float32(origin.Y + y),
					float32(origin.Z + z),
				})
			}
		}
	}
	return m
}

// Build строит сетку для всех чанков карты в порядке ChunkMap.Coords
func Build(chunks *world.ChunkMap) *Mesh {
	out := &Mesh{}
	chunks.Range(func(c *world.Chunk) bool {
		out.Append(BuildChunk(c))
		return true
	})
	return out
}

// BuildParallel строит сетки чанков параллельно (не более workers одновременно),
// затем последовательно склеивает их в порядке Coords. Результат совпадает с Build.
func BuildParallel(chunks *world.ChunkMap, workers int) *Mesh {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	coords := chunks.Coords()
	parts := make([]*Mesh, len(coords))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, coord := range coords {
		c, ok := chunks.Get(coord)
		if !ok {
			continue
		}
		i := i
		g.Go(func() error {
			parts[i] = BuildChunk(c)
			return nil
		})
	}
	_ = g.Wait() // задачи не возвращают ошибок

	total := &Mesh{}
	var vertices, indices int
	for _, p := range parts {
		if p != nil {
			vertices += len(p.Vertices)
			indices += len(p.Indices)
		}
	}
	total.Vertices = make([]mgl32.Vec3, 0, vertices)
	total.Indices = make([]uint32, 0, indices)

	// Базовые смещения считаются строго последовательно
	for _, p := range parts {
		total.Append(p)
	}
	return total
}
