package storage

import (
	"fmt"

	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
)

const solidBit = 0x80

// EncodeVoxels упаковывает воксели чанка по одному байту: старший бит -
// твёрдость, младшие - материал. Порядок совпадает с Chunk.Index.
func EncodeVoxels(c *world.Chunk) []byte {
	out := make([]byte, c.Len())
	for i := range out {
		v := c.VoxelAt(i)
		b := byte(v.Material) &^ solidBit
		if v.Solid {
			b |= solidBit
		}
		out[i] = b
	}
	return out
}

// DecodeVoxels восстанавливает чанк, упакованный EncodeVoxels
func DecodeVoxels(coord vec.Vec3, size int, data []byte) (*world.Chunk, error) {
	if size <= 0 || len(data) != size*size*size {
		return nil, fmt.Errorf("%w: %d байт для размера %d", world.ErrVoxelCount, len(data), size)
	}

	voxels := make([]world.Voxel, len(data))
	for i, b := range data {
		voxels[i] = world.Voxel{
			Solid:    b&solidBit != 0,
			Material: world.Material(b &^ solidBit),
		}
	}
	return world.NewChunkFromVoxels(coord, size, voxels)
}
