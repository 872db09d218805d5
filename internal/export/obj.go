// Package export выгружает буферы сетки для внешних рендереров и инструментов.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/annel0/voxel-terrain/internal/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// WriteOBJ пишет сетку в формате Wavefront OBJ.
// normals может быть nil; иначе его длина должна совпадать с числом вершин.
func WriteOBJ(w io.Writer, m *mesh.Mesh, normals []mgl32.Vec3) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("некорректная сетка: %w", err)
	}
	if normals != nil && len(normals) != len(m.Vertices) {
		return fmt.Errorf("нормалей %d, вершин %d", len(normals), len(m.Vertices))
	}

	bw := bufio.NewWriterSize(w, 256*1024)

	fmt.Fprintf(bw, "# voxel-terrain: %d vertices, %d triangles\n", m.VertexCount(), m.TriangleCount())
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, n := range normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
	}

	// Индексы OBJ начинаются с 1
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1
		if normals != nil {
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}

	return bw.Flush()
}
