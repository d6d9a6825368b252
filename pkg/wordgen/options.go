package wordgen

import (
	"log/slog"
	"math/rand/v2"
)

// DefaultMaxDepth bounds nested {name} expansions.
const DefaultMaxDepth = 64

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source. The generator takes ownership of r for
// the duration of its use; r must not be shared across goroutines.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rnd = r
		}
	}
}

// WithSeed seeds a PCG source so results are reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rnd = NewRand(seed)
	}
}

// WithMaxDepth overrides DefaultMaxDepth. Non-positive values are ignored.
func WithMaxDepth(depth int) Option {
	return func(g *Generator) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

// WithLogger sets the logger used for debug and warning output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewRand returns a PCG-backed generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
