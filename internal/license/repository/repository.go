package repository

import (
	"context"

	"timeclock-control-plane/internal/license/domain"
)

// Repository defines persistence for license windows.
type Repository interface {
	// Get returns the window for orgID, or nil if none exists. Absence is not
	// an error; the service materializes a default window in that case.
	Get(ctx context.Context, orgID string) (*domain.Window, error)
	// Upsert inserts or fully replaces the window row keyed by orgID.
	Upsert(ctx context.Context, w *domain.Window) error
	// Deactivate sets active=false for orgID, leaving the window start and
	// span untouched. A later re-authorization writes fresh values.
	Deactivate(ctx context.Context, orgID string) error
	// ListActiveBounded returns all active windows with a bounded span, for
	// the expiry sweep.
	ListActiveBounded(ctx context.Context) ([]*domain.Window, error)
}
