package world

import (
	"math"

	"github.com/annel0/voxel-terrain/internal/noise"
	"github.com/annel0/voxel-terrain/internal/vec"
)

// HeightFunc переводит значение шума в мировую высоту (в тех же единицах, что и Y)
type HeightFunc func(h float32) float64

// LinearHeight возвращает отображение base + h·amplitude
func LinearHeight(base, amplitude float64) HeightFunc {
	return func(h float32) float64 {
		return base + float64(h)*amplitude
	}
}

// CaveCarver вырезает пустоты под поверхностью по трёхмерному шуму
type CaveCarver struct {
	Field     *noise.Field
	Threshold float32 // Ячейка пустеет, если шум строго больше порога
}

// Carve сообщает, нужно ли вырезать ячейку с мировыми координатами (x, y, z)
func (cc *CaveCarver) Carve(x, y, z int) bool {
	return cc.Field.Sample3(float64(x), float64(y), float64(z)) > cc.Threshold
}

// Generator заполняет чанк по полю высот.
// Читает только общее неизменяемое поле и пишет только в новый чанк,
// поэтому Generate можно вызывать одновременно для разных координат.
type Generator struct {
	field  *noise.Field
	height HeightFunc
	size   int

	Caves *CaveCarver // nil - без пещер
}

// NewGenerator создаёт генератор. size <= 0 заменяется на DefaultChunkSize.
func NewGenerator(field *noise.Field, height HeightFunc, size int) *Generator {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if height == nil {
		height = LinearHeight(float64(size)/2, float64(size)/2)
	}
	return &Generator{
		field:  field,
		height: height,
		size:   size,
	}
}

// Size возвращает длину ребра генерируемых чанков
func (g *Generator) Size() int { return g.size }

// Field возвращает поле высот генератора
func (g *Generator) Field() *noise.Field { return g.field }

// SurfaceAt возвращает мировую высоту поверхности в столбце (worldX, worldZ)
func (g *Generator) SurfaceAt(worldX, worldZ int) float64 {
	return g.height(g.field.Sample(float64(worldX), float64(worldZ)))
}

// Generate строит чанк по его координатам.
// Ячейка твёрдая, если её мировая высота не выше поверхности столбца.
// Всегда возвращает полный буфер S³, даже если твёрдых ячеек нет.
func (g *Generator) Generate(coord vec.Vec3) *Chunk {
	s := g.size
	origin := coord.Scale(s)

	// Высота нужна один раз на столбец: окно S×S по осям (x, z)
	hm := g.field.HeightMap(origin.X, origin.Z, s, s)
	surfaces := make([]float64, s*s)
	for z := 0; z < s; z++ {
		for x := 0; x < s; x++ {
			surfaces[z*s+x] = g.height(hm.At(x, z))
		}
	}

	voxels := make([]Voxel, s*s*s)
	for z := 0; z < s; z++ {
		for y := 0; y < s; y++ {
			worldY := origin.Y + y
			for x := 0; x < s; x++ {
				surface := surfaces[z*s+x]
				if !(float64(worldY) <= surface) {
					continue
				}

				depth := int(math.Floor(surface)) - worldY
				if g.Caves != nil && depth > 0 && g.Caves.Carve(origin.X+x, worldY, origin.Z+z) {
					continue
				}

				voxels[z*s*s+y*s+x] = Voxel{Solid: true, Material: materialForDepth(depth)}
			}
		}
	}

	return &Chunk{coord: coord, size: s, voxels: voxels}
}
