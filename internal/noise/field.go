// Package noise описывает непрерывное поле высот, из которого строится ландшафт.
package noise

const (
	// MinScale - нижняя граница масштаба; меньшие (и неположительные) значения заменяются ею.
	MinScale = 1e-4

	// DefaultSeed используется вспомогательной картой высот, когда сид не задан явно.
	DefaultSeed int64 = 1
)

// Options задаёт параметры поля помимо сида и масштаба
type Options struct {
	Backend     Backend
	Octaves     int     // <= 1 означает одну октаву
	Persistence float64 // Множитель амплитуды на каждую октаву
	Lacunarity  float64 // Множитель частоты на каждую октаву
}

// DefaultOptions возвращает одну октаву simplex-шума
func DefaultOptions() Options {
	return Options{
		Backend:     BackendSimplex,
		Octaves:     1,
		Persistence: 0.5,
		Lacunarity:  2.0,
	}
}

// Field - детерминированная функция (seed, scale, x, y) -> float32.
// Поле не изменяется после создания и может читаться из любого числа горутин.
type Field struct {
	seed        int64
	scale       float64
	source      Source
	octaves     int
	persistence float64
	lacunarity  float64
}

// New создаёт поле simplex-шума с одной октавой. Никогда не возвращает ошибку:
// некорректный масштаб заменяется на MinScale.
func New(seed int64, scale float64) *Field {
	f, _ := NewWithOptions(seed, scale, DefaultOptions())
	return f
}

// NewWithOptions создаёт поле с указанными параметрами.
// Ошибка возможна только при неизвестном backend'е.
func NewWithOptions(seed int64, scale float64, opts Options) (*Field, error) {
	src, err := NewSource(opts.Backend, seed)
	if err != nil {
		return nil, err
	}

	octaves := opts.Octaves
	if octaves < 1 {
		octaves = 1
	}
	persistence := opts.Persistence
	if persistence <= 0 {
		persistence = 0.5
	}
	lacunarity := opts.Lacunarity
	if lacunarity <= 0 {
		lacunarity = 2.0
	}

	return &Field{
		seed:        seed,
		scale:       clampScale(scale),
		source:      src,
		octaves:     octaves,
		persistence: persistence,
		lacunarity:  lacunarity,
	}, nil
}

// clampScale заменяет 0, отрицательные значения и NaN на MinScale
func clampScale(scale float64) float64 {
	if !(scale >= MinScale) {
		return MinScale
	}
	return scale
}

// Seed возвращает сид поля
func (f *Field) Seed() int64 { return f.seed }

// Scale возвращает фактический (уже ограниченный снизу) масштаб
func (f *Field) Scale() float64 { return f.scale }

// Sample возвращает значение шума в точке (x, y), обычно в диапазоне [-1, 1].
// Больший масштаб даёт более низкую частоту и более гладкий рельеф.
func (f *Field) Sample(x, y float64) float32 {
	sx, sy := x/f.scale, y/f.scale
	if f.octaves == 1 {
		return float32(f.source.Noise2D(sx, sy))
	}

	var total, maxAmp float64
	amplitude, frequency := 1.0, 1.0
	for i := 0; i < f.octaves; i++ {
		total += f.source.Noise2D(sx*frequency, sy*frequency) * amplitude
		maxAmp += amplitude
		amplitude *= f.persistence
		frequency *= f.lacunarity
	}
	return float32(total / maxAmp)
}

// Sample3 - трёхмерный вариант Sample
func (f *Field) Sample3(x, y, z float64) float32 {
	sx, sy, sz := x/f.scale, y/f.scale, z/f.scale
	if f.octaves == 1 {
		return float32(f.source.Noise3D(sx, sy, sz))
	}

	var total, maxAmp float64
	amplitude, frequency := 1.0, 1.0
	for i := 0; i < f.octaves; i++ {
		total += f.source.Noise3D(sx*frequency, sy*frequency, sz*frequency) * amplitude
		maxAmp += amplitude
		amplitude *= f.persistence
		frequency *= f.lacunarity
	}
	return float32(total / maxAmp)
}
