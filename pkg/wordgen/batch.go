package wordgen

import (
	"log/slog"
	"math"
	"strings"
)

// Batch is the result of one batch generation.
type Batch struct {
	Words      []string // distinct accepted words in generation order
	Requested  int      // count asked for
	Attempts   int      // patterns evaluated
	Filtered   int      // candidates rejected by a filter
	Duplicates int      // candidates rejected as already present
	Filters    []string // filter substrings parsed from the main pattern
}

// Short reports whether fewer words than requested were produced.
func (b *Batch) Short() bool {
	return len(b.Words) < b.Requested
}

// MaxAttempts is the attempt bound for a batch of count words.
func MaxAttempts(count int) int {
	if count > (math.MaxInt-100)/10 {
		return math.MaxInt
	}
	return count*10 + 100
}

// Batch generates up to count distinct words from mainPattern.
//
// The main pattern is split on '^': the first segment is expanded once per
// attempt and every later segment is a forbidden substring. A candidate is
// kept when it contains no filter and has not been produced before. The
// loop stops at count words or after MaxAttempts(count) attempts, so the
// result may be short; that is not an error.
func (g *Generator) Batch(mainPattern string, count int) (*Batch, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}

	base, filters := SplitFilters(mainPattern)
	b := &Batch{
		Words:     make([]string, 0, min(count, 1024)),
		Requested: count,
		Filters:   filters,
	}
	seen := make(map[string]struct{}, min(count, 1024))
	limit := MaxAttempts(count)

	for len(b.Words) < count && b.Attempts < limit {
		b.Attempts++
		word, err := g.Evaluate(base)
		if err != nil {
			return nil, err
		}
		if containsAny(word, filters) {
			b.Filtered++
			continue
		}
		if _, dup := seen[word]; dup {
			b.Duplicates++
			continue
		}
		seen[word] = struct{}{}
		b.Words = append(b.Words, word)
	}

	if b.Short() {
		g.logger.Warn("attempt bound reached before count",
			slog.Int("requested", count),
			slog.Int("generated", len(b.Words)),
			slog.Int("attempts", b.Attempts),
			slog.Int("filtered", b.Filtered),
			slog.Int("duplicates", b.Duplicates))
	}
	return b, nil
}

// Generate builds a Generator for defs and returns up to count distinct
// words produced from mainPattern.
func Generate(mainPattern string, defs []Definition, count int, opts ...Option) ([]string, error) {
	b, err := New(defs, opts...).Batch(mainPattern, count)
	if err != nil {
		return nil, err
	}
	return b.Words, nil
}

func containsAny(word string, filters []string) bool {
	for _, f := range filters {
		if strings.Contains(word, f) {
			return true
		}
	}
	return false
}
