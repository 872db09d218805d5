package noise

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Backend определяет алгоритм когерентного шума
type Backend string

const (
	BackendSimplex Backend = "simplex" // OpenSimplex
	BackendPerlin  Backend = "perlin"  // Классический шум Перлина
)

// Параметры шума Перлина (как в генераторе мира)
const (
	perlinAlpha  = 2.0 // Сглаживание шума
	perlinBeta   = 2.0 // Частота шума
	perlinOctave = 3   // Количество октав внутри go-perlin
)

// Source - детерминированный источник градиентного шума.
// После создания только читает свои таблицы, поэтому безопасен для конкурентного использования.
type Source interface {
	Noise2D(x, y float64) float64
	Noise3D(x, y, z float64) float64
}

type simplexSource struct {
	n opensimplex.Noise
}

func (s simplexSource) Noise2D(x, y float64) float64 { return s.n.Eval2(x, y) }

func (s simplexSource) Noise3D(x, y, z float64) float64 { return s.n.Eval3(x, y, z) }

type perlinSource struct {
	p *perlin.Perlin
}

func (s perlinSource) Noise2D(x, y float64) float64 { return s.p.Noise2D(x, y) }

func (s perlinSource) Noise3D(x, y, z float64) float64 { return s.p.Noise3D(x, y, z) }

// NewSource создаёт источник шума для указанного backend'а
func NewSource(backend Backend, seed int64) (Source, error) {
	switch backend {
	case BackendSimplex, "":
		return simplexSource{n: opensimplex.New(seed)}, nil
	case BackendPerlin:
		return perlinSource{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctave, seed)}, nil
	default:
		return nil, fmt.Errorf("неизвестный backend шума %q", backend)
	}
}
