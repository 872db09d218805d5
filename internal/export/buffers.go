package export

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/annel0/voxel-terrain/internal/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
)

// Формат буферов (little-endian):
//
//	magic   [4]byte "VXMB"
//	version uint16
//	flags   uint16  (FlagNormals)
//	nverts  uint32
//	nidx    uint32
//	float32 x,y,z × nverts
//	uint32        × nidx
//	float32 nx,ny,nz × nverts (если FlagNormals)
const (
	Version     uint16 = 1
	FlagNormals uint16 = 1 << 0
)

var (
	magic     = [4]byte{'V', 'X', 'M', 'B'}
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

	// ErrBadMagic - поток не является дампом буферов
	ErrBadMagic = errors.New("неверная сигнатура буферов сетки")
	// ErrVersion - неподдерживаемая версия формата
	ErrVersion = errors.New("неподдерживаемая версия буферов сетки")
)

// Options управляет записью буферов
type Options struct {
	Compress bool // Сжать поток zstd
}

type header struct {
	Magic    [4]byte
	Version  uint16
	Flags    uint16
	Vertices uint32
	Indices  uint32
}

// WriteBuffers пишет вершины, индексы и (опционально) нормали в бинарном виде
func WriteBuffers(w io.Writer, m *mesh.Mesh, normals []mgl32.Vec3, opts Options) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("некорректная сетка: %w", err)
	}
	if normals != nil && len(normals) != len(m.Vertices) {
		return fmt.Errorf("нормалей %d, вершин %d", len(normals), len(m.Vertices))
	}
	if uint64(len(m.Vertices)) > math.MaxUint32 || uint64(len(m.Indices)) > math.MaxUint32 {
		return fmt.Errorf("сетка слишком велика для формата: %d вершин, %d индексов", len(m.Vertices), len(m.Indices))
	}

	if opts.Compress {
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("zstd: %w", err)
		}
		if err := writeRaw(enc, m, normals); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	}
	return writeRaw(w, m, normals)
}

func writeRaw(w io.Writer, m *mesh.Mesh, normals []mgl32.Vec3) error {
	bw := bufio.NewWriterSize(w, 256*1024)

	h := header{
		Magic:    magic,
		Version:  Version,
		Vertices: uint32(len(m.Vertices)),
		Indices:  uint32(len(m.Indices)),
	}
	if normals != nil {
		h.Flags |= FlagNormals
	}

	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("запись заголовка: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, m.Vertices); err != nil {
		return fmt.Errorf("запись вершин: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, m.Indices); err != nil {
		return fmt.Errorf("запись индексов: %w", err)
	}
	if normals != nil {
		if err := binary.Write(bw, binary.LittleEndian, normals); err != nil {
			return fmt.Errorf("запись нормалей: %w", err)
		}
	}
	return bw.Flush()
}

// ReadBuffers читает дамп, записанный WriteBuffers. Сжатие zstd определяется автоматически.
// Нормали возвращаются nil, если их нет в потоке.
func ReadBuffers(r io.Reader) (*mesh.Mesh, []mgl32.Vec3, error) {
	br := bufio.NewReaderSize(r, 256*1024)

	prefix, err := br.Peek(4)
	if err != nil {
		return nil, nil, fmt.Errorf("чтение сигнатуры: %w", err)
	}

	var src io.Reader = br
	if bytes.Equal(prefix, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		src = bufio.NewReaderSize(dec, 256*1024)
	}

	var h header
	if err := binary.Read(src, binary.LittleEndian, &h); err != nil {
		return nil, nil, fmt.Errorf("чтение заголовка: %w", err)
	}
	if h.Magic != magic {
		return nil, nil, ErrBadMagic
	}
	if h.Version != Version {
		return nil, nil, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}

	vertices, err := readVec3s(src, h.Vertices)
	if err != nil {
		return nil, nil, fmt.Errorf("чтение вершин: %w", err)
	}
	indices, err := readUint32s(src, h.Indices)
	if err != nil {
		return nil, nil, fmt.Errorf("чтение индексов: %w", err)
	}
	m := &mesh.Mesh{Vertices: vertices, Indices: indices}

	var normals []mgl32.Vec3
	if h.Flags&FlagNormals != 0 {
		normals, err = readVec3s(src, h.Vertices)
		if err != nil {
			return nil, nil, fmt.Errorf("чтение нормалей: %w", err)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, nil, fmt.Errorf("повреждённые буферы: %w", err)
	}
	return m, normals, nil
}

// readBlock - сколько элементов читается за один раз. Срезы растут по мере
// поступления данных, поэтому заголовок с завышенными счётчиками не приводит
// к выделению памяти под несуществующий payload.
const readBlock = 16 * 1024

func readVec3s(r io.Reader, n uint32) ([]mgl32.Vec3, error) {
	out := make([]mgl32.Vec3, 0, initialCap(n))
	buf := make([]mgl32.Vec3, initialCap(n))
	for remaining := uint64(n); remaining > 0; {
		step := nextStep(remaining)
		if err := binary.Read(r, binary.LittleEndian, buf[:step]); err != nil {
			return nil, err
		}
		out = append(out, buf[:step]...)
		remaining -= uint64(step)
	}
	return out, nil
}

func readUint32s(r io.Reader, n uint32) ([]uint32, error) {
	out := make([]uint32, 0, initialCap(n))
	buf := make([]uint32, initialCap(n))
	for remaining := uint64(n); remaining > 0; {
		step := nextStep(remaining)
		if err := binary.Read(r, binary.LittleEndian, buf[:step]); err != nil {
			return nil, err
		}
		out = append(out, buf[:step]...)
		remaining -= uint64(step)
	}
	return out, nil
}

func initialCap(n uint32) int {
	if uint64(n) < readBlock {
		return int(n)
	}
	return readBlock
}

func nextStep(remaining uint64) int {
	if remaining < readBlock {
		return int(remaining)
	}
	return readBlock
}
