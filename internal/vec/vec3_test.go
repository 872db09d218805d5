package vec

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{X: 1, Y: -2, Z: 3}
	b := Vec3{X: 4, Y: 5, Z: -6}

	assert.Equal(t, Vec3{X: 5, Y: 3, Z: -3}, a.Add(b), "Сумма векторов")
	assert.Equal(t, Vec3{X: 32, Y: -64, Z: 96}, a.Scale(32), "Масштабирование вектора")
	assert.True(t, a.Equals(Vec3{X: 1, Y: -2, Z: 3}))
	assert.False(t, a.Equals(b))
	assert.Equal(t, "(1,-2,3)", a.String())
}

func TestVec3LessOrdersZThenYThenX(t *testing.T) {
	coords := []Vec3{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 0},
		{X: -1, Y: 1, Z: 0},
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })

	expected := []Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: -1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	assert.Equal(t, expected, coords, "Порядок сортировки должен быть Z, Y, X")

	a := Vec3{X: 2, Y: 2, Z: 2}
	assert.False(t, a.Less(a), "Вектор не может быть меньше самого себя")
}

func TestVec3AsMapKey(t *testing.T) {
	m := map[Vec3]int{}
	m[Vec3{X: 1, Y: 2, Z: 3}] = 7
	m[Vec3{X: 1, Y: 2, Z: 3}] = 8

	assert.Len(t, m, 1, "Одинаковые координаты должны давать один ключ")
	assert.Equal(t, 8, m[Vec3{X: 1, Y: 2, Z: 3}])
}
