package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/annel0/voxel-terrain/internal/vec"
)

var (
	// ErrChunkExists возвращается при повторной вставке чанка с теми же координатами
	ErrChunkExists = errors.New("чанк уже существует")
	// ErrChunkSize возвращается, если размер чанка не совпадает с размером карты
	ErrChunkSize = errors.New("размер чанка не совпадает с картой")
)

// ChunkMap - разреженное отображение координат чанка в чанк.
// Вставки разных ключей могут выполняться конкурентно; удаление не предусмотрено.
type ChunkMap struct {
	size   int
	chunks map[vec.Vec3]*Chunk
	mu     sync.RWMutex
}

// NewChunkMap создаёт пустую карту для чанков с ребром size
func NewChunkMap(size int) *ChunkMap {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &ChunkMap{
		size:   size,
		chunks: make(map[vec.Vec3]*Chunk),
	}
}

// Size возвращает длину ребра чанков этой карты
func (m *ChunkMap) Size() int { return m.size }

// Insert добавляет чанк. Для каждого ключа допускается ровно одна запись.
func (m *ChunkMap) Insert(c *Chunk) error {
	if c.Size() != m.size {
		return fmt.Errorf("%w: %d, ожидалось %d", ErrChunkSize, c.Size(), m.size)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.chunks[c.Coord()]; exists {
		return fmt.Errorf("%w: %v", ErrChunkExists, c.Coord())
	}
	m.chunks[c.Coord()] = c
	return nil
}

// Get возвращает чанк по координатам
func (m *ChunkMap) Get(coord vec.Vec3) (*Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.chunks[coord]
	return c, ok
}

// Has проверяет наличие чанка
func (m *ChunkMap) Has(coord vec.Vec3) bool {
	_, ok := m.Get(coord)
	return ok
}

// Len возвращает количество чанков
func (m *ChunkMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.chunks)
}

// Coords возвращает координаты всех чанков в детерминированном порядке (Z, Y, X)
func (m *ChunkMap) Coords() []vec.Vec3 {
	m.mu.RLock()
	coords := make([]vec.Vec3, 0, len(m.chunks))
	for coord := range m.chunks {
		coords = append(coords, coord)
	}
	m.mu.RUnlock()

	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}

// Range обходит чанки в порядке Coords. Обход прекращается, если fn вернула false.
func (m *ChunkMap) Range(fn func(c *Chunk) bool) {
	for _, coord := range m.Coords() {
		c, ok := m.Get(coord)
		if !ok {
			continue
		}
		if !fn(c) {
			return
		}
	}
}
