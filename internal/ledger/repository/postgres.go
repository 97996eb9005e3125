package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"timeclock-control-plane/internal/ledger/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the session for (orgID, userID), or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) Get(ctx context.Context, orgID, userID string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT org_id, user_id, accumulated_ms, open_since
		 FROM time_sessions WHERE org_id = $1 AND user_id = $2`,
		orgID, userID,
	)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Upsert inserts or fully replaces the session row keyed by (orgID, userID).
func (r *PostgresRepository) Upsert(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO time_sessions (org_id, user_id, accumulated_ms, open_since)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (org_id, user_id) DO UPDATE SET
		   accumulated_ms = EXCLUDED.accumulated_ms,
		   open_since = EXCLUDED.open_since`,
		s.OrgID, s.UserID, s.AccumulatedMs, timeToNullTime(s.OpenSince),
	)
	return err
}

// FindOpenElsewhere returns an open session for userID in any org other than
// orgID, or nil if there is none. Returns an error only for database failures.
func (r *PostgresRepository) FindOpenElsewhere(ctx context.Context, userID, orgID string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT org_id, user_id, accumulated_ms, open_since
		 FROM time_sessions
		 WHERE user_id = $1 AND open_since IS NOT NULL AND org_id != $2
		 LIMIT 1`,
		userID, orgID,
	)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// ListOpen returns all sessions with an open clock.
func (r *PostgresRepository) ListOpen(ctx context.Context) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT org_id, user_id, accumulated_ms, open_since
		 FROM time_sessions WHERE open_since IS NOT NULL`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var openSince sql.NullTime
	if err := row.Scan(&s.OrgID, &s.UserID, &s.AccumulatedMs, &openSince); err != nil {
		return nil, err
	}
	s.OpenSince = nullTimeToPtr(openSince)
	return &s, nil
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}
