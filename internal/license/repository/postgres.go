package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"timeclock-control-plane/internal/license/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a license window repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the window for orgID, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) Get(ctx context.Context, orgID string) (*domain.Window, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT org_id, active, window_start, duration_ms
		 FROM license_windows WHERE org_id = $1`,
		orgID,
	)
	w, err := scanWindow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}

// Upsert inserts or fully replaces the window row keyed by orgID.
func (r *PostgresRepository) Upsert(ctx context.Context, w *domain.Window) error {
	var durationMs sql.NullInt64
	if ms, ok := w.Span.Millis(); ok {
		durationMs = sql.NullInt64{Int64: ms, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO license_windows (org_id, active, window_start, duration_ms)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (org_id) DO UPDATE SET
		   active = EXCLUDED.active,
		   window_start = EXCLUDED.window_start,
		   duration_ms = EXCLUDED.duration_ms`,
		w.OrgID, w.Active, w.WindowStart, durationMs,
	)
	return err
}

// Deactivate sets active=false for orgID without touching the window values.
func (r *PostgresRepository) Deactivate(ctx context.Context, orgID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE license_windows SET active = false WHERE org_id = $1`, orgID)
	return err
}

// ListActiveBounded returns all active windows with a bounded span.
func (r *PostgresRepository) ListActiveBounded(ctx context.Context) ([]*domain.Window, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT org_id, active, window_start, duration_ms
		 FROM license_windows WHERE active = true AND duration_ms IS NOT NULL`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Window
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWindow(row rowScanner) (*domain.Window, error) {
	var (
		orgID      string
		active     bool
		start      time.Time
		durationMs sql.NullInt64
	)
	if err := row.Scan(&orgID, &active, &start, &durationMs); err != nil {
		return nil, err
	}
	span := domain.Unbounded()
	if durationMs.Valid {
		span = domain.Bounded(durationMs.Int64)
	}
	return &domain.Window{OrgID: orgID, Active: active, WindowStart: start, Span: span}, nil
}
