// Package service implements the license window operations: materialization
// on first access, relative and absolute duration adjustments, deactivation,
// and the gating predicate consulted before any tracked action.
package service

import (
	"context"
	"time"

	"timeclock-control-plane/internal/duration"
	"timeclock-control-plane/internal/license/domain"
	"timeclock-control-plane/internal/license/repository"
)

// AuditLogger records administrative mutations. Best-effort; implementations
// must not fail the calling operation.
type AuditLogger interface {
	LogEvent(ctx context.Context, orgID, userID, action, resource, metadata string)
}

// Service exposes the license window operations.
type Service struct {
	repo  repository.Repository
	audit AuditLogger
	now   func() time.Time
}

// NewService returns a license service backed by repo. audit may be nil; then
// administrative changes are not audited.
func NewService(repo repository.Repository, audit AuditLogger) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// Get returns the org's license window, materializing and persisting the
// default active unbounded window on first access.
func (s *Service) Get(ctx context.Context, orgID string) (*domain.Window, error) {
	w, err := s.repo.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return w, nil
	}
	w = domain.NewDefaultWindow(orgID, s.now().UTC())
	if err := s.repo.Upsert(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// SetRelative applies a signed delta to the window's remaining time and
// restarts the window clock at now. The result is always bounded and never
// negative; an unbounded window contributes a zero baseline, so a positive
// delta converts it to a bounded window of exactly that delta.
func (s *Service) SetRelative(ctx context.Context, orgID string, deltaMs int64) (*domain.Window, error) {
	w, err := s.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	next := &domain.Window{
		OrgID:       orgID,
		Active:      true,
		WindowStart: now,
		Span:        w.Span.Extend(w.WindowStart, now, deltaMs),
	}
	if err := s.repo.Upsert(ctx, next); err != nil {
		return nil, err
	}
	s.logChange(ctx, orgID, "set_relative", next)
	return next, nil
}

// SetAbsolute replaces the window with a bounded span of durationMs counting
// from now, activating the org regardless of its previous state.
func (s *Service) SetAbsolute(ctx context.Context, orgID string, durationMs int64) (*domain.Window, error) {
	next := &domain.Window{
		OrgID:       orgID,
		Active:      true,
		WindowStart: s.now().UTC(),
		Span:        domain.Bounded(durationMs),
	}
	if err := s.repo.Upsert(ctx, next); err != nil {
		return nil, err
	}
	s.logChange(ctx, orgID, "set_absolute", next)
	return next, nil
}

// Deactivate gates the org off until an operator re-authorizes it. The window
// start and span are left in place; re-authorization writes fresh values.
func (s *Service) Deactivate(ctx context.Context, orgID string) error {
	if err := s.repo.Deactivate(ctx, orgID); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, orgID, "", "deactivate", "license_window", "")
	}
	return nil
}

// IsGated reports whether tracked actions for the org must be blocked. A
// window found expired here is deactivated before the result is returned, so
// the stored active flag converges even between sweep passes.
func (s *Service) IsGated(ctx context.Context, orgID string) (bool, error) {
	w, err := s.Get(ctx, orgID)
	if err != nil {
		return false, err
	}
	now := s.now().UTC()
	if w.Expired(now) {
		if err := s.repo.Deactivate(ctx, orgID); err != nil {
			return true, err
		}
	}
	return w.Gated(now), nil
}

func (s *Service) logChange(ctx context.Context, orgID, action string, w *domain.Window) {
	if s.audit == nil {
		return
	}
	desc := "unbounded"
	if ms, ok := w.Span.Millis(); ok {
		desc = duration.Format(ms)
	}
	s.audit.LogEvent(ctx, orgID, "", action, "license_window", desc)
}
