package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"

	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
)

// ErrNotReady возвращается после закрытия хранилища
var ErrNotReady = errors.New("storage: хранилище не готово")

// ChunkStore кэширует сгенерированные чанки в BadgerDB.
// Ключи содержат отпечаток параметров генерации, поэтому чанки
// с другим сидом или масштабом никогда не смешиваются.
type ChunkStore struct {
	db          *badger.DB
	dbPath      string
	fingerprint string
	mutex       sync.RWMutex
	isReady     bool
}

// NewChunkStore открывает хранилище в dataPath/chunks
func NewChunkStore(dataPath, fingerprint string) (*ChunkStore, error) {
	dbPath := filepath.Join(dataPath, "chunks")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &ChunkStore{
		db:          db,
		dbPath:      dbPath,
		fingerprint: fingerprint,
		isReady:     true,
	}, nil
}

// Close закрывает хранилище данных
func (cs *ChunkStore) Close() error {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	if !cs.isReady {
		return nil
	}

	cs.isReady = false
	return cs.db.Close()
}

func (cs *ChunkStore) key(coord vec.Vec3) []byte {
	return []byte(fmt.Sprintf("chunk:%s:%d:%d:%d", cs.fingerprint, coord.X, coord.Y, coord.Z))
}

// SaveChunk сохраняет чанк
func (cs *ChunkStore) SaveChunk(c *world.Chunk) error {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	if !cs.isReady {
		return ErrNotReady
	}

	data := EncodeVoxels(c)
	err := cs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cs.key(c.Coord()), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	return nil
}

// LoadChunk загружает чанк. Второй результат false, если чанка нет.
func (cs *ChunkStore) LoadChunk(coord vec.Vec3, size int) (*world.Chunk, bool, error) {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	if !cs.isReady {
		return nil, false, ErrNotReady
	}

	var data []byte
	err := cs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cs.key(coord))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	c, err := DecodeVoxels(coord, size, data)
	if err != nil {
		return nil, false, fmt.Errorf("чанк %s: %w", coord, err)
	}
	return c, true, nil
}

// Count возвращает число сохранённых чанков с текущим отпечатком
func (cs *ChunkStore) Count() (int, error) {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	if !cs.isReady {
		return 0, ErrNotReady
	}

	prefix := []byte(fmt.Sprintf("chunk:%s:", cs.fingerprint))
	count := 0
	err := cs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
