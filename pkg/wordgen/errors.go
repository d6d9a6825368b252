package wordgen

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCount is returned when a batch is requested with count <= 0.
	ErrInvalidCount = errors.New("count must be positive")

	// ErrRecursionLimit is wrapped by RecursionError.
	ErrRecursionLimit = errors.New("reference depth limit exceeded")
)

// RecursionError reports a reference chain deeper than the generator's
// limit, usually a definition that refers to itself directly or indirectly.
type RecursionError struct {
	Name  string   // reference being expanded when the limit was hit
	Depth int      // configured limit
	Chain []string // most recent references, outermost first
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("expanding {%s}: %v (limit %d, chain %v)", e.Name, ErrRecursionLimit, e.Depth, e.Chain)
}

func (e *RecursionError) Unwrap() error {
	return ErrRecursionLimit
}
