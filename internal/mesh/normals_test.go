package mesh

import (
	"testing"

	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaceNormal(t *testing.T) {
	n := FaceNormal(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, n)

	degenerate := FaceNormal(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, 2, 2})
	assert.Equal(t, mgl32.Vec3{}, degenerate, "Вырожденный треугольник даёт нулевую нормаль")
}

func TestFaceNormalsOfCube(t *testing.T) {
	m := BuildChunk(chunkWith(t, vec.Vec3{}, 2, [3]int{0, 0, 0}))
	normals := FaceNormals(m)

	require.Len(t, normals, 12)
	counts := make(map[mgl32.Vec3]int)
	for _, n := range normals {
		counts[n]++
	}
	// Шесть осевых направлений, по два треугольника на каждое
	for _, axis := range []mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}} {
		assert.Equal(t, 2, counts[axis], "Направление %v", axis)
	}
}

func TestComputeNormals(t *testing.T) {
	m := BuildChunk(chunkWith(t, vec.Vec3{}, 2, [3]int{0, 0, 0}))
	normals := ComputeNormals(m)

	require.Len(t, normals, m.VertexCount(), "Одна нормаль на вершину")

	center := mgl32.Vec3{0.5, 0.5, 0.5}
	for i, n := range normals {
		assert.InDelta(t, 1.0, n.Len(), 1e-5, "Нормаль %d должна быть единичной", i)
		assert.Greater(t, n.Dot(m.Vertices[i].Sub(center)), float32(0), "Нормаль %d смотрит внутрь", i)
	}

	assert.Empty(t, ComputeNormals(&Mesh{}))
}
