package world

import (
	"errors"
	"fmt"

	"github.com/annel0/voxel-terrain/internal/vec"
)

// DefaultChunkSize - длина ребра чанка по умолчанию
const DefaultChunkSize = 32

// ErrVoxelCount возвращается, если длина буфера не равна S³
var ErrVoxelCount = errors.New("неверное количество вокселей в чанке")

// Chunk представляет кубический участок мира S×S×S вокселей.
// Воксели хранятся в плоском буфере: индекс (x, y, z) = z·S² + y·S + x.
// После создания чанк не изменяется.
type Chunk struct {
	coord  vec.Vec3 // Координаты чанка в мире (в чанках)
	size   int      // Длина ребра S
	voxels []Voxel  // Ровно S³ элементов
}

// NewEmptyChunk создаёт полностью пустой чанк корректного размера
func NewEmptyChunk(coord vec.Vec3, size int) *Chunk {
	if size <= 0 {
		panic(fmt.Sprintf("world: недопустимый размер чанка %d", size))
	}
	return &Chunk{
		coord:  coord,
		size:   size,
		voxels: make([]Voxel, size*size*size),
	}
}

// NewChunkFromVoxels создаёт чанк из готового буфера. Буфер копируется.
func NewChunkFromVoxels(coord vec.Vec3, size int, voxels []Voxel) (*Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("недопустимый размер чанка %d", size)
	}
	if len(voxels) != size*size*size {
		return nil, fmt.Errorf("%w: %d, ожидалось %d", ErrVoxelCount, len(voxels), size*size*size)
	}

	buf := make([]Voxel, len(voxels))
	copy(buf, voxels)
	return &Chunk{coord: coord, size: size, voxels: buf}, nil
}

// Coord возвращает координаты чанка
func (c *Chunk) Coord() vec.Vec3 { return c.coord }

// Size возвращает длину ребра S
func (c *Chunk) Size() int { return c.size }

// Len возвращает длину буфера вокселей (всегда S³)
func (c *Chunk) Len() int { return len(c.voxels) }

// Origin возвращает мировую позицию минимального угла чанка: coord·S
func (c *Chunk) Origin() vec.Vec3 {
	return c.coord.Scale(c.size)
}

// Index переводит локальные координаты в линейный индекс.
// Координаты вне [0, S) - нарушение контракта, вызывает панику.
func (c *Chunk) Index(x, y, z int) int {
	s := c.size
	if x < 0 || x >= s || y < 0 || y >= s || z < 0 || z >= s {
		panic(fmt.Sprintf("world: локальная точка (%d,%d,%d) вне чанка размера %d", x, y, z, s))
	}
	return z*s*s + y*s + x
}

// At возвращает воксель по локальным координатам
func (c *Chunk) At(x, y, z int) Voxel {
	return c.voxels[c.Index(x, y, z)]
}

// VoxelAt возвращает воксель по линейному индексу
func (c *Chunk) VoxelAt(i int) Voxel {
	if i < 0 || i >= len(c.voxels) {
		panic(fmt.Sprintf("world: индекс %d вне буфера чанка [0, %d)", i, len(c.voxels)))
	}
	return c.voxels[i]
}

// SolidCount возвращает количество твёрдых вокселей
func (c *Chunk) SolidCount() int {
	n := 0
	for _, v := range c.voxels {
		if v.Solid {
			n++
		}
	}
	return n
}

// IsEmpty возвращает true, если в чанке нет твёрдых вокселей
func (c *Chunk) IsEmpty() bool {
	for _, v := range c.voxels {
		if v.Solid {
			return false
		}
	}
	return true
}
