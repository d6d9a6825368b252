package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/leapstack-labs/wordgen/pkg/wordgen"
)

const runColumns = `id, grammar, pattern, definitions, seed, requested, attempts, generated, created_at`

// RecordRun stores a batch and its words.
func (s *SQLiteStore) RecordRun(ctx context.Context, in RunInput) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	defs := in.Definitions
	if defs == nil {
		defs = []wordgen.Definition{}
	}
	defsJSON, err := json.Marshal(defs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode definitions: %w", err)
	}

	run := &Run{
		ID:          generateID(),
		Grammar:     in.Grammar,
		Pattern:     in.Pattern,
		Definitions: defs,
		Seed:        in.Seed,
		Requested:   in.Requested,
		Attempts:    in.Attempts,
		Generated:   len(in.Words),
		CreatedAt:   time.Now().UTC(),
		Words:       in.Words,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Grammar, run.Pattern, string(defsJSON),
		strconv.FormatUint(run.Seed, 10), run.Requested, run.Attempts, run.Generated,
		run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_words (run_id, position, word) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare word insert: %w", err)
	}
	defer stmt.Close()

	for i, w := range in.Words {
		if _, err := stmt.ExecContext(ctx, run.ID, i, w); err != nil {
			return nil, fmt.Errorf("failed to insert word %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debug("recorded run",
		slog.String("id", run.ID),
		slog.String("grammar", run.Grammar),
		slog.Int("words", run.Generated))
	return run, nil
}

// ListRuns returns the most recent runs first, without their words.
// A limit <= 0 returns every run.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRun retrieves a run and its words. Returns ErrRunNotFound for an
// unknown ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT word FROM run_words WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	defer rows.Close()

	run.Words = make([]string, 0, run.Generated)
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		run.Words = append(run.Words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	return run, nil
}

// DeleteRun removes a run and its words.
func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	s.logger.Debug("deleted run", slog.String("id", id))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run       Run
		defsJSON  string
		seed      string
		createdAt int64
	)
	err := row.Scan(&run.ID, &run.Grammar, &run.Pattern, &defsJSON, &seed,
		&run.Requested, &run.Attempts, &run.Generated, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	if err := json.Unmarshal([]byte(defsJSON), &run.Definitions); err != nil {
		return nil, fmt.Errorf("failed to decode definitions of run %s: %w", run.ID, err)
	}
	if run.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("failed to decode seed of run %s: %w", run.ID, err)
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()
	return &run, nil
}
