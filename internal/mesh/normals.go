package mesh

import "github.com/go-gl/mathgl/mgl32"

// FaceNormal возвращает единичную нормаль треугольника (a, b, c) по правилу правой руки.
// Для вырожденного треугольника возвращается нулевой вектор.
func FaceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}

// FaceNormals возвращает по одной нормали на треугольник
func FaceNormals(m *Mesh) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		out = append(out, FaceNormal(a, b, c))
	}
	return out
}

// ComputeNormals вычисляет нормали вершин как нормированную сумму нормалей
// прилегающих треугольников. Длина результата равна числу вершин.
// Нормали - производный атрибут: считаются после сборки сетки.
func ComputeNormals(m *Mesh) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		ia, ib, ic := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		n := FaceNormal(m.Vertices[ia], m.Vertices[ib], m.Vertices[ic])
		normals[ia] = normals[ia].Add(n)
		normals[ib] = normals[ib].Add(n)
		normals[ic] = normals[ic].Add(n)
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	return normals
}
