package repository

import (
	"context"

	"timeclock-control-plane/internal/ledger/domain"
)

// Repository defines persistence for time sessions.
type Repository interface {
	// Get returns the session for (orgID, userID), or nil if none exists.
	Get(ctx context.Context, orgID, userID string) (*domain.Session, error)
	// Upsert inserts or fully replaces the session row keyed by (orgID, userID).
	Upsert(ctx context.Context, s *domain.Session) error
	// FindOpenElsewhere returns an open session for userID in any org other
	// than orgID, or nil if there is none.
	FindOpenElsewhere(ctx context.Context, userID, orgID string) (*domain.Session, error)
	// ListOpen returns all sessions with an open clock, for the auto-close sweep.
	ListOpen(ctx context.Context) ([]*domain.Session, error)
}
