package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores or updates a run.
func (s *runStore) Save(ctx context.Context, run domain.DiscoveryRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO discovery_runs (id, knot_dir, tap_name, tap_version, started_at, ended_at, success, error, stream_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			knot_dir = excluded.knot_dir,
			tap_name = excluded.tap_name,
			tap_version = excluded.tap_version,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			success = excluded.success,
			error = excluded.error,
			stream_count = excluded.stream_count
	`, run.ID, run.KnotDir, run.TapName, run.TapVersion,
		run.StartedAt.UTC().Format(time.RFC3339Nano), formatNullableTime(run.EndedAt),
		boolToInt(run.Success), nullString(run.Error), run.StreamCount)

	if err != nil {
		return fmt.Errorf("saving discovery run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *runStore) Get(ctx context.Context, id string) (*domain.DiscoveryRun, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, knot_dir, tap_name, tap_version, started_at, ended_at, success, error, stream_count
		FROM discovery_runs WHERE id = ?
	`, id)
	return scanRun(row)
}

// List returns runs newest first, at most limit entries when limit > 0.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.DiscoveryRun, error) {
	query := `
		SELECT id, knot_dir, tap_name, tap_version, started_at, ended_at, success, error, stream_count
		FROM discovery_runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying discovery runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.DiscoveryRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating discovery runs: %w", err)
	}
	return runs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.DiscoveryRun, error) {
	var (
		run       domain.DiscoveryRun
		startedAt string
		endedAt   sql.NullString
		success   int
		errMsg    sql.NullString
	)

	err := row.Scan(&run.ID, &run.KnotDir, &run.TapName, &run.TapVersion,
		&startedAt, &endedAt, &success, &errMsg, &run.StreamCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning discovery run: %w", err)
	}

	run.StartedAt = parseNullableTime(sql.NullString{String: startedAt, Valid: true})
	run.EndedAt = parseNullableTime(endedAt)
	run.Success = success != 0
	run.Error = errMsg.String
	return &run, nil
}

// formatNullableTime formats a time as RFC3339, or nil if zero.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{} // Return zero time on parse error
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
