package mesh

import "github.com/go-gl/mathgl/mgl32"

const (
	cubeVertexCount = 8
	cubeIndexCount  = 36
)

// cubeCorners - смещения восьми углов от минимального угла вокселя
var cubeCorners = [cubeVertexCount]mgl32.Vec3{
	{0, 0, 0}, // 0
	{1, 0, 0}, // 1
	{1, 1, 0}, // 2
	{0, 1, 0}, // 3
	{0, 0, 1}, // 4
	{1, 0, 1}, // 5
	{1, 1, 1}, // 6
	{0, 1, 1}, // 7
}

// cubeFaces - четыре угла каждой грани против часовой стрелки при взгляде снаружи
var cubeFaces = [6][4]uint32{
	{0, 3, 2, 1}, // -Z
	{4, 5, 6, 7}, // +Z
	{0, 4, 7, 3}, // -X
	{1, 2, 6, 5}, // +X
	{0, 1, 5, 4}, // -Y
	{3, 7, 6, 2}, // +Y
}

// cubeIndices разворачивает каждую грань {a,b,c,d} в треугольники {a,b,c, c,d,a}
var cubeIndices = func() [cubeIndexCount]uint32 {
	var out [cubeIndexCount]uint32
	for i, f := range cubeFaces {
		copy(out[i*6:], []uint32{f[0], f[1], f[2], f[2], f[3], f[0]})
	}
	return out
}()

// appendCube добавляет единичный куб с минимальным углом в pos
func (m *Mesh) appendCube(pos mgl32.Vec3) {
	base := uint32(len(m.Vertices))
	for _, c := range cubeCorners {
		m.Vertices = append(m.Vertices, pos.Add(c))
	}
	for _, idx := range cubeIndices {
		m.Indices = append(m.Indices, base+idx)
	}
}
