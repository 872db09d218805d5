package mesh

import (
	"testing"

	"github.com/annel0/voxel-terrain/internal/noise"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkWith создаёт чанк, в котором твёрдые только перечисленные ячейки
func chunkWith(t *testing.T, coord vec.Vec3, size int, cells ...[3]int) *world.Chunk {
	t.Helper()

	voxels := make([]world.Voxel, size*size*size)
	for _, c := range cells {
		voxels[c[2]*size*size+c[1]*size+c[0]] = world.Voxel{Solid: true, Material: world.MaterialStone}
	}
	chunk, err := world.NewChunkFromVoxels(coord, size, voxels)
	require.NoError(t, err)
	return chunk
}

func fullChunk(t *testing.T, coord vec.Vec3, size int) *world.Chunk {
	t.Helper()

	voxels := make([]world.Voxel, size*size*size)
	for i := range voxels {
		voxels[i] = world.Voxel{Solid: true}
	}
	chunk, err := world.NewChunkFromVoxels(coord, size, voxels)
	require.NoError(t, err)
	return chunk
}

func TestBuildChunkEmpty(t *testing.T) {
	m := BuildChunk(world.NewEmptyChunk(vec.Vec3{}, 4))

	assert.True(t, m.IsEmpty())
	assert.Empty(t, m.Vertices, "Пустой чанк не даёт вершин")
	assert.Empty(t, m.Indices, "Пустой чанк не даёт индексов")
	assert.NoError(t, m.Validate())
}

func TestBuildChunkSingleVoxel(t *testing.T) {
	m := BuildChunk(chunkWith(t, vec.Vec3{}, 2, [3]int{0, 0, 0}))

	require.Len(t, m.Vertices, 8)
	require.Len(t, m.Indices, 36)

	// Все восемь комбинаций {0,1}³
	seen := make(map[mgl32.Vec3]bool)
	for _, v := range m.Vertices {
		for _, c := range v {
			assert.True(t, c == 0 || c == 1, "Координата вершины %v вне {0,1}", v)
		}
		seen[v] = true
	}
	assert.Len(t, seen, 8, "Все углы куба должны быть различными")

	for _, idx := range m.Indices {
		assert.Less(t, idx, uint32(8))
	}

	// Нормали направлены от центра куба
	center := mgl32.Vec3{0.5, 0.5, 0.5}
	for tri := 0; tri < 12; tri++ {
		a := m.Vertices[m.Indices[tri*3]]
		b := m.Vertices[m.Indices[tri*3+1]]
		c := m.Vertices[m.Indices[tri*3+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3.0)

		assert.Greater(t, n.Dot(centroid.Sub(center)), float32(0), "Треугольник %d повёрнут внутрь", tri)
	}
}

func TestCubeTemplateIsWatertight(t *testing.T) {
	// Каждое ориентированное ребро встречается один раз, и обратное ему тоже есть
	edges := make(map[[2]uint32]int)
	for tri := 0; tri < 12; tri++ {
		a, b, c := cubeIndices[tri*3], cubeIndices[tri*3+1], cubeIndices[tri*3+2]
		edges[[2]uint32{a, b}]++
		edges[[2]uint32{b, c}]++
		edges[[2]uint32{c, a}]++
	}

	assert.Len(t, edges, 36)
	for e, n := range edges {
		assert.Equal(t, 1, n, "Ребро %v встречается %d раз", e, n)
		assert.Equal(t, 1, edges[[2]uint32{e[1], e[0]}], "Нет парного ребра для %v", e)
	}

	// Ни один треугольник не повторяет вершину
	for tri := 0; tri < 12; tri++ {
		a, b, c := cubeIndices[tri*3], cubeIndices[tri*3+1], cubeIndices[tri*3+2]
		assert.True(t, a != b && b != c && a != c, "Вырожденный треугольник %d", tri)
	}
}

func TestBuildChunkWorldOffset(t *testing.T) {
	m := BuildChunk(chunkWith(t, vec.Vec3{X: 1, Y: -1, Z: 2}, 2, [3]int{1, 0, 1}))

	require.Len(t, m.Vertices, 8)
	minCorner := mgl32.Vec3{3, -2, 5}
	assert.Equal(t, minCorner, m.Vertices[0], "Минимальный угол = локальная позиция + coord·S")
	for _, v := range m.Vertices {
		d := v.Sub(minCorner)
		for _, c := range d {
			assert.True(t, c == 0 || c == 1)
		}
	}
}

func TestBuildChunkScanOrder(t *testing.T) {
	// Порядок обхода z, y, x: (1,0,0) раньше (0,1,0), тот раньше (0,0,1)
	m := BuildChunk(chunkWith(t, vec.Vec3{}, 2, [3]int{0, 0, 1}, [3]int{0, 1, 0}, [3]int{1, 0, 0}))

	require.Len(t, m.Vertices, 24)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, m.Vertices[0])
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, m.Vertices[8])
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, m.Vertices[16])

	// Индексы второго куба сдвинуты на 8
	assert.Equal(t, cubeIndices[0]+8, m.Indices[36])
	assert.Equal(t, cubeIndices[0]+16, m.Indices[72])
}

func TestBuildChunkFullSolid(t *testing.T) {
	for _, size := range []int{2, 4, world.DefaultChunkSize} {
		m := BuildChunk(fullChunk(t, vec.Vec3{}, size))
		cubes := size * size * size

		assert.Equal(t, 8*cubes, m.VertexCount(), "Размер %d", size)
		assert.Len(t, m.Indices, 36*cubes, "Размер %d", size)
		assert.Equal(t, 12*cubes, m.TriangleCount())
		assert.NoError(t, m.Validate())
	}
}

func TestBuildGeneratedTerrainIsWellFormed(t *testing.T) {
	gen := world.NewGenerator(noise.New(42, 20), world.LinearHeight(4, 8), 8)
	chunks := world.NewChunkMap(8)

	solid := 0
	for _, coord := range []vec.Vec3{{}, {X: 1}, {Z: -1}, {X: -1, Y: 1}, {Y: -1}} {
		c := gen.Generate(coord)
		solid += c.SolidCount()
		require.NoError(t, chunks.Insert(c))
	}

	m := Build(chunks)
	assert.NoError(t, m.Validate())
	assert.Equal(t, 0, len(m.Indices)%3)
	assert.Equal(t, 8*solid, m.VertexCount(), "8 вершин на каждый твёрдый воксель")
	assert.Equal(t, 36*solid, len(m.Indices))
}

func TestBuildParallelMatchesBuild(t *testing.T) {
	gen := world.NewGenerator(noise.New(7, 12), world.LinearHeight(3, 6), 4)
	chunks := world.NewChunkMap(4)
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			require.NoError(t, chunks.Insert(gen.Generate(vec.Vec3{X: x, Z: z})))
		}
	}

	sequential := Build(chunks)
	for _, workers := range []int{0, 1, 3, 16} {
		parallel := BuildParallel(chunks, workers)
		assert.Equal(t, sequential.Vertices, parallel.Vertices, "workers=%d", workers)
		assert.Equal(t, sequential.Indices, parallel.Indices, "workers=%d", workers)
	}
}

func TestBuildEmptyMap(t *testing.T) {
	chunks := world.NewChunkMap(2)
	require.NoError(t, chunks.Insert(world.NewEmptyChunk(vec.Vec3{}, 2)))

	assert.True(t, Build(chunks).IsEmpty())
	assert.True(t, BuildParallel(chunks, 2).IsEmpty())
}

func TestMeshAppendRebasesIndices(t *testing.T) {
	a := BuildChunk(chunkWith(t, vec.Vec3{}, 2, [3]int{0, 0, 0}))
	b := BuildChunk(chunkWith(t, vec.Vec3{X: 1}, 2, [3]int{1, 1, 1}))

	a.Append(b)
	require.Len(t, a.Vertices, 16)
	require.Len(t, a.Indices, 72)
	for i := 36; i < 72; i++ {
		assert.Equal(t, b.Indices[i-36]+8, a.Indices[i])
	}
	assert.NoError(t, a.Validate())

	a.Append(nil)
	a.Append(&Mesh{})
	assert.Len(t, a.Vertices, 16, "Пустые сетки ничего не добавляют")
}

func TestMeshValidate(t *testing.T) {
	bad := &Mesh{Vertices: make([]mgl32.Vec3, 3), Indices: []uint32{0, 1}}
	assert.Error(t, bad.Validate(), "Число индексов не кратно 3")

	bad = &Mesh{Vertices: make([]mgl32.Vec3, 3), Indices: []uint32{0, 1, 3}}
	assert.Error(t, bad.Validate(), "Индекс вне буфера")
}
