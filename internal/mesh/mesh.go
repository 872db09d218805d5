// Package mesh превращает воксели в треугольную сетку для растеризации.
package mesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh - пара параллельных буферов: позиции вершин (мировые координаты)
// и индексы треугольников (по 3 на треугольник).
type Mesh struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
}

// VertexCount возвращает количество вершин
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount возвращает количество треугольников
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty возвращает true, если в сетке нет геометрии
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 && len(m.Indices) == 0
}

// Validate проверяет, что индексы образуют треугольники и не выходят за буфер вершин
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("количество индексов %d не кратно 3", len(m.Indices))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("индекс %d на позиции %d вне буфера из %d вершин", idx, i, n)
		}
	}
	return nil
}

// Append дописывает other в конец m, сдвигая его индексы на текущее число вершин
func (m *Mesh) Append(other *Mesh) {
	if other == nil || other.IsEmpty() {
		return
	}

	base := len(m.Vertices)
	if uint64(base)+uint64(len(other.Vertices)) > math.MaxUint32 {
		panic(fmt.Sprintf("mesh: %d вершин не помещаются в uint32-индексы", base+len(other.Vertices)))
	}

	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, idx+uint32(base))
	}
}
