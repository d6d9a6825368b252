// Package state keeps a history of generation runs in SQLite so a batch can
// be listed, inspected and reproduced later.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/wordgen/pkg/wordgen"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Store persists generation runs.
type Store interface {
	RecordRun(ctx context.Context, in RunInput) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	DeleteRun(ctx context.Context, id string) error
	Close() error
}

// RunInput describes a finished batch to record.
type RunInput struct {
	Grammar     string
	Pattern     string
	Definitions []wordgen.Definition
	Seed        uint64
	Requested   int
	Attempts    int
	Words       []string
}

// Run is a recorded batch. Words is only populated by GetRun.
type Run struct {
	ID          string               `json:"id"`
	Grammar     string               `json:"grammar,omitempty"`
	Pattern     string               `json:"pattern"`
	Definitions []wordgen.Definition `json:"definitions"`
	Seed        uint64               `json:"seed"`
	Requested   int                  `json:"requested"`
	Attempts    int                  `json:"attempts"`
	Generated   int                  `json:"generated"`
	CreatedAt   time.Time            `json:"created_at"`
	Words       []string             `json:"words,omitempty"`
}

// Short reports whether the run produced fewer words than requested.
func (r *Run) Short() bool {
	return r.Generated < r.Requested
}

var _ Store = (*SQLiteStore)(nil)
