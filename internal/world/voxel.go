package world

// Material идентифицирует материал вокселя
type Material uint8

const (
	MaterialAir Material = iota
	MaterialStone
	MaterialDirt
	MaterialGrass
)

// Глубина слоёв под поверхностью (в вокселях)
const (
	GrassDepth = 0 // Верхний твёрдый воксель столбца
	DirtDepth  = 3 // До этой глубины включительно - земля, ниже камень
)

// String возвращает человекочитаемое имя материала
func (m Material) String() string {
	switch m {
	case MaterialAir:
		return "air"
	case MaterialStone:
		return "stone"
	case MaterialDirt:
		return "dirt"
	case MaterialGrass:
		return "grass"
	default:
		return "unknown"
	}
}

// Voxel - состояние одной ячейки чанка. Копируется по значению.
type Voxel struct {
	Solid    bool
	Material Material
}

// Empty - пустой воксель
var Empty = Voxel{}

// materialForDepth выбирает материал по глубине под поверхностью столбца
func materialForDepth(depth int) Material {
	switch {
	case depth <= GrassDepth:
		return MaterialGrass
	case depth <= DirtDepth:
		return MaterialDirt
	default:
		return MaterialStone
	}
}
