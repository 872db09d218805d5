package export

import (
	"bytes"
	"encoding/binary"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/annel0/voxel-terrain/internal/mesh"
	"github.com/annel0/voxel-terrain/internal/noise"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMesh(t *testing.T) *mesh.Mesh {
	t.Helper()

	gen := world.NewGenerator(noise.New(5, 10), world.LinearHeight(2, 3), 4)
	chunks := world.NewChunkMap(4)
	require.NoError(t, chunks.Insert(gen.Generate(vec.Vec3{})))
	require.NoError(t, chunks.Insert(gen.Generate(vec.Vec3{X: 1})))

	m := mesh.Build(chunks)
	require.False(t, m.IsEmpty(), "Тестовая сетка не должна быть пустой")
	return m
}

func TestWriteOBJ(t *testing.T) {
	m := testMesh(t)

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, m, nil))

	var v, vn, f int
	for _, line := range strings.Split(buf.String(), "\n") {
		switch {
		case strings.HasPrefix(line, "v "):
			v++
		case strings.HasPrefix(line, "vn "):
			vn++
		case strings.HasPrefix(line, "f "):
			f++
		}
	}
	assert.Equal(t, m.VertexCount(), v)
	assert.Equal(t, 0, vn)
	assert.Equal(t, m.TriangleCount(), f)
}

func TestWriteOBJWithNormals(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:  []uint32{0, 1, 2},
	}
	normals := mesh.ComputeNormals(m)

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, m, normals))

	out := buf.String()
	assert.Contains(t, out, "v 1 0 0\n")
	assert.Contains(t, out, "vn 0 0 1\n")
	assert.Contains(t, out, "f 1//1 2//2 3//3\n", "Индексы OBJ начинаются с 1")

	err := WriteOBJ(&buf, m, normals[:1])
	assert.Error(t, err, "Длина нормалей должна совпадать с числом вершин")
}

func TestBuffersRoundTrip(t *testing.T) {
	m := testMesh(t)
	normals := mesh.ComputeNormals(m)

	cases := []struct {
		name     string
		normals  []mgl32.Vec3
		compress bool
	}{
		{name: "raw", normals: nil, compress: false},
		{name: "zstd+normals", normals: normals, compress: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteBuffers(&buf, m, tc.normals, Options{Compress: tc.compress}))

			if tc.compress {
				assert.Equal(t, zstdMagic, buf.Bytes()[:4])
			} else {
				assert.Equal(t, magic[:], buf.Bytes()[:4])
			}

			got, gotNormals, err := ReadBuffers(&buf)
			require.NoError(t, err)
			assert.Equal(t, m.Vertices, got.Vertices)
			assert.Equal(t, m.Indices, got.Indices)
			assert.Equal(t, tc.normals, gotNormals)
		})
	}
}

func TestBuffersEmptyMesh(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBuffers(&buf, &mesh.Mesh{}, nil, Options{}))

	got, normals, err := ReadBuffers(&buf)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	assert.Nil(t, normals)
}

func TestReadBuffersRejectsGarbage(t *testing.T) {
	_, _, err := ReadBuffers(strings.NewReader("not a mesh dump at all"))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, _, err = ReadBuffers(strings.NewReader("VX"))
	assert.Error(t, err, "Слишком короткий поток")

	var buf bytes.Buffer
	require.NoError(t, WriteBuffers(&buf, testMesh(t), nil, Options{}))
	data := buf.Bytes()
	_, _, err = ReadBuffers(bytes.NewReader(data[:len(data)/2]))
	assert.Error(t, err, "Обрезанный поток")
}

func TestWriteRejectsInvalidMesh(t *testing.T) {
	bad := &mesh.Mesh{Vertices: make([]mgl32.Vec3, 1), Indices: []uint32{0, 0, 5}}

	var buf bytes.Buffer
	assert.Error(t, WriteBuffers(&buf, bad, nil, Options{}))
	assert.Error(t, WriteOBJ(&buf, bad, nil))
}

func TestReadBuffersForgedCountsDoNotAllocate(t *testing.T) {
	cases := []struct {
		name     string
		vertices uint32
		indices  uint32
		flags    uint16
	}{
		{"huge vertices", 0xFFFFFFFF, 0, 0},
		{"huge indices", 0, 0xFFFFFFFF, 0},
		{"huge with normals", 100_000_000, 100_000_000, FlagNormals},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, header{
				Magic: magic, Version: Version, Flags: tc.flags,
				Vertices: tc.vertices, Indices: tc.indices,
			}))
			require.Equal(t, 16, buf.Len(), "Заголовок без данных")

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			_, _, err := ReadBuffers(&buf)
			runtime.ReadMemStats(&after)

			assert.ErrorIs(t, err, io.EOF)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(8<<20),
				"Память не должна выделяться по счётчикам из заголовка")
		})
	}
}

func TestReadBuffersMultiBlock(t *testing.T) {
	m := &mesh.Mesh{}
	for i := 0; i < readBlock+37; i++ {
		m.Vertices = append(m.Vertices, mgl32.Vec3{float32(i), 0, 0})
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		m.Indices = append(m.Indices, uint32(i), uint32(i+1), uint32(i+2))
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBuffers(&buf, m, nil, Options{}))

	got, _, err := ReadBuffers(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Vertices, got.Vertices)
	assert.Equal(t, m.Indices, got.Indices)
}
