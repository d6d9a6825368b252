package wordgen

import (
	"log/slog"
	"math/rand/v2"
	"strings"
)

// maxBranchWeight caps a single branch weight so that it fits an int on
// every platform. Weights are summed as uint64.
const maxBranchWeight = 1<<31 - 1

// chainTail limits how many references a RecursionError reports.
const chainTail = 8

// Generator expands patterns against a fixed definition table.
type Generator struct {
	defs     map[string]string
	rnd      *rand.Rand
	maxDepth int
	logger   *slog.Logger
}

// New creates a Generator for defs, merged with last-write-wins semantics.
// Without WithRand or WithSeed the generator draws its seed from the
// runtime's random source.
func New(defs []Definition, opts ...Option) *Generator {
	g := &Generator{
		defs:     Merge(defs),
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// Definitions returns the number of distinct definition names.
func (g *Generator) Definitions() int {
	return len(g.defs)
}

// Evaluate expands pattern into one literal string. Top-level '^' filters
// are not interpreted here; see Batch.
func (g *Generator) Evaluate(pattern string) (string, error) {
	var sb strings.Builder
	if err := g.evalPattern(&sb, pattern, nil); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// evalPattern resolves the top-level choice of pattern and expands the
// chosen branch.
func (g *Generator) evalPattern(sb *strings.Builder, pattern string, chain []string) error {
	return g.evalSequence(sb, g.choose(SplitChoices(pattern)), chain)
}

// choose picks one branch with probability proportional to its weight.
// A single draw over the summed weights is mapped onto the branches in
// order, which selects exactly like a pool holding each branch weight times.
func (g *Generator) choose(branches []string) string {
	w := weigh(branches)
	if w.fallback {
		g.logger.Debug("all branches have zero weight, choosing uniformly",
			slog.Int("branches", len(branches)))
	}
	if len(w.bases) == 1 {
		return w.bases[0]
	}

	r := g.rnd.Uint64N(w.total)
	for i, weight := range w.weights {
		if r < uint64(weight) {
			return w.bases[i]
		}
		r -= uint64(weight)
	}
	return w.bases[len(w.bases)-1]
}

// evalSequence walks a branch left to right, expanding groups and
// references and copying everything else.
func (g *Generator) evalSequence(sb *strings.Builder, seq string, chain []string) error {
	for i := 0; i < len(seq); {
		c := seq[i]
		if c != '{' && c != '[' && c != '(' {
			next := strings.IndexAny(seq[i:], "{[(")
			if next == -1 {
				sb.WriteString(seq[i:])
				return nil
			}
			sb.WriteString(seq[i : i+next])
			i += next
			continue
		}

		j := MatchBracket(seq, i)
		if j == NotFound {
			sb.WriteByte(c)
			i++
			continue
		}

		inner := seq[i+1 : j]
		var err error
		switch c {
		case '{':
			err = g.expandRef(sb, inner, chain)
		case '[':
			err = g.evalPattern(sb, inner, chain)
		case '(':
			if g.rnd.Float64() < 0.5 {
				err = g.evalPattern(sb, inner, chain)
			}
		}
		if err != nil {
			return err
		}
		i = j + 1
	}
	return nil
}

// expandRef expands {name}. Unknown names expand to nothing.
func (g *Generator) expandRef(sb *strings.Builder, name string, chain []string) error {
	pattern, ok := g.defs[name]
	if !ok {
		return nil
	}
	if len(chain) >= g.maxDepth {
		tail := chain
		if len(tail) > chainTail {
			tail = tail[len(tail)-chainTail:]
		}
		return &RecursionError{
			Name:  name,
			Depth: g.maxDepth,
			Chain: append([]string(nil), tail...),
		}
	}
	return g.evalPattern(sb, pattern, append(chain, name))
}

// weights holds the parsed branches of one choice.
type weights struct {
	bases    []string
	weights  []int
	total    uint64
	fallback bool // every branch had weight 0
}

func weigh(branches []string) weights {
	w := weights{
		bases:   make([]string, len(branches)),
		weights: make([]int, len(branches)),
	}
	for i, b := range branches {
		base, weight := ParseWeight(b)
		weight = min(weight, maxBranchWeight)
		w.bases[i] = base
		w.weights[i] = weight
		w.total += uint64(weight)
	}
	if w.total == 0 {
		w.fallback = true
		for i := range w.weights {
			w.weights[i] = 1
		}
		w.total = uint64(len(w.weights))
	}
	return w
}
