// Package heightgen produces procedural heightmaps from layered simplex
// noise. Output is deterministic for a fixed non-zero seed.
package heightgen

import (
	"errors"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Faultbox/terracast/pkg/math"
	"github.com/Faultbox/terracast/pkg/terrain"
)

// Generator parameter errors.
var (
	ErrInvalidDimensions = errors.New("generator dimensions must be at least 2x2")
	ErrInvalidOctaves    = errors.New("generator octaves must be positive")
)

// Config holds heightmap generation parameters.
type Config struct {
	Width, Height int
	CellSize      float32 // World units per grid cell
	VerticalScale float32
	Amplitude     float32 // Peak raw height; samples land in [0, Amplitude]
	Octaves       int
	Frequency     float64
	Persistence   float64
	Seed          int64 // 0 = random
}

// Default returns a reasonable starting configuration.
func Default() Config {
	return Config{
		Width:         257,
		Height:        257,
		CellSize:      1,
		VerticalScale: 1,
		Amplitude:     40,
		Octaves:       5,
		Frequency:     0.01,
		Persistence:   0.5,
		Seed:          1,
	}
}

// Generate creates a heightmap from fractal noise.
func Generate(cfg Config) (*terrain.Heightmap, error) {
	if cfg.Width < 2 || cfg.Height < 2 {
		return nil, ErrInvalidDimensions
	}
	if cfg.Octaves < 1 {
		return nil, ErrInvalidOctaves
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	noise := opensimplex.NewNormalized(seed)

	heights := make([]float32, cfg.Width*cfg.Height)
	for z := 0; z < cfg.Height; z++ {
		for x := 0; x < cfg.Width; x++ {
			n := octaveNoise(noise, float64(x), float64(z), cfg.Octaves, cfg.Frequency, cfg.Persistence)
			heights[z*cfg.Width+x] = float32(n) * cfg.Amplitude
		}
	}

	hm := &terrain.Heightmap{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Heights:       heights,
		Scale:         math.Vec2{X: cfg.CellSize, Y: cfg.CellSize},
		VerticalScale: cfg.VerticalScale,
	}
	hm.ComputeHeightBounds()
	if err := hm.Validate(); err != nil {
		return nil, err
	}
	return hm, nil
}

// octaveNoise generates fractal noise by layering multiple frequencies. The
// weighted sum of normalized octaves stays in [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
