package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeightMapIndexingIsNotTransposed(t *testing.T) {
	f := New(8, 12)
	hm := f.HeightMap(100, -40, 5, 3)

	assert.Equal(t, 5, hm.Width)
	assert.Equal(t, 3, hm.Height)

	values := hm.Values()
	assert.Len(t, values, 15)

	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			expected := f.Sample(float64(100+x), float64(-40+y))
			assert.Equal(t, expected, hm.At(x, y), "At(%d,%d)", x, y)
			assert.Equal(t, expected, values[y*hm.Width+x], "Построчное хранение (%d,%d)", x, y)
		}
	}
}

func TestHeightMapOutOfRangePanics(t *testing.T) {
	hm := New(1, 10).HeightMap(0, 0, 4, 2)

	assert.Panics(t, func() { hm.At(4, 0) })
	assert.Panics(t, func() { hm.At(0, 2) })
	assert.Panics(t, func() { hm.At(-1, 0) })
	assert.NotPanics(t, func() { hm.At(3, 1) })
}

func TestGenerateHeightMap(t *testing.T) {
	hm := GenerateHeightMap(6, 4, 50)
	ref := New(DefaultSeed, 50).HeightMap(0, 0, 6, 4)

	assert.Equal(t, ref.Values(), hm.Values())

	// Нулевой масштаб не должен ломать генерацию
	degenerate := GenerateHeightMap(3, 3, 0)
	assert.Len(t, degenerate.Values(), 9)
}

func TestHeightMapValuesIsCopy(t *testing.T) {
	hm := New(1, 10).HeightMap(0, 0, 2, 2)
	values := hm.Values()
	values[0] = 42

	assert.NotEqual(t, float32(42), hm.At(0, 0), "Values должен возвращать копию")
}
