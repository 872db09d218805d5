package noise

import "fmt"

// HeightMap - прямоугольное окно значений поля.
// Хранение построчное: values[y*Width+x], те же оси, что и при обходе.
type HeightMap struct {
	Width   int
	Height  int
	OriginX int // Мировая координата столбца x=0
	OriginY int // Мировая координата строки y=0
	values  []float32
}

// HeightMap сэмплирует окно width×height, начиная с мировой точки (originX, originY).
// Значения вычисляются сразу для всего окна; сама карта не кешируется полем.
func (f *Field) HeightMap(originX, originY, width, height int) *HeightMap {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("noise: отрицательный размер карты высот %dx%d", width, height))
	}

	hm := &HeightMap{
		Width:   width,
		Height:  height,
		OriginX: originX,
		OriginY: originY,
		values:  make([]float32, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			hm.values[y*width+x] = f.Sample(float64(originX+x), float64(originY+y))
		}
	}
	return hm
}

// GenerateHeightMap заполняет карту width×height из поля с DefaultSeed и заданным масштабом
func GenerateHeightMap(width, height int, scale float64) *HeightMap {
	return New(DefaultSeed, scale).HeightMap(0, 0, width, height)
}

// At возвращает значение в локальной точке (x, y). Выход за границы - ошибка программиста.
func (h *HeightMap) At(x, y int) float32 {
	if x < 0 || x >= h.Width || y < 0 || y >= h.Height {
		panic(fmt.Sprintf("noise: точка (%d,%d) вне карты высот %dx%d", x, y, h.Width, h.Height))
	}
	return h.values[y*h.Width+x]
}

// Values возвращает копию значений в построчном порядке
func (h *HeightMap) Values() []float32 {
	out := make([]float32, len(h.values))
	copy(out, h.values)
	return out
}
