// Package service implements the time ledger: the clock-in/clock-out state
// machine and administrative corrections, all persisted through the session
// repository so the engine holds no authoritative in-memory state.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timeclock-control-plane/internal/duration"
	"timeclock-control-plane/internal/ledger/domain"
	"timeclock-control-plane/internal/ledger/repository"
)

// Sentinel errors for ledger operations; callers map them to user-facing messages.
var (
	ErrTrackedElsewhere = errors.New("user already has an open session in another organization")
	ErrNoOpenSession    = errors.New("no open session")
)

// MaxSessionMs caps a single session's contribution to the accumulated total.
// Time beyond the cap is discarded, not carried over.
const MaxSessionMs = duration.Day

// AuditLogger records administrative mutations. Best-effort; implementations
// must not fail the calling operation.
type AuditLogger interface {
	LogEvent(ctx context.Context, orgID, userID, action, resource, metadata string)
}

// Service exposes the time ledger operations.
type Service struct {
	repo  repository.Repository
	audit AuditLogger
	now   func() time.Time
}

// NewService returns a ledger service backed by repo. audit may be nil; then
// administrative corrections are not audited.
func NewService(repo repository.Repository, audit AuditLogger) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// ClockIn opens a session for the user in the org. Returns ErrTrackedElsewhere
// if the user has an open session in any other organization. Clocking in while
// already open in the same org overwrites OpenSince, discarding the elapsed
// time of the earlier open.
func (s *Service) ClockIn(ctx context.Context, orgID, userID string) error {
	elsewhere, err := s.repo.FindOpenElsewhere(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if elsewhere != nil {
		return ErrTrackedElsewhere
	}
	sess, err := s.repo.Get(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if sess == nil {
		sess = &domain.Session{OrgID: orgID, UserID: userID}
	}
	now := s.now().UTC()
	sess.OpenSince = &now
	return s.repo.Upsert(ctx, sess)
}

// ClockOut closes the user's open session, adds the elapsed time to the
// accumulated total (capped at MaxSessionMs), and returns the formatted
// duration. Returns ErrNoOpenSession if no session is open.
func (s *Service) ClockOut(ctx context.Context, orgID, userID string) (string, error) {
	sess, err := s.repo.Get(ctx, orgID, userID)
	if err != nil {
		return "", err
	}
	if !sess.Open() {
		return "", ErrNoOpenSession
	}
	elapsed := s.now().Sub(*sess.OpenSince).Milliseconds()
	closed := elapsed
	if closed > MaxSessionMs {
		closed = MaxSessionMs
	}
	if closed < 0 {
		closed = 0
	}
	sess.AccumulatedMs += closed
	sess.OpenSince = nil
	if err := s.repo.Upsert(ctx, sess); err != nil {
		return "", err
	}
	return duration.Format(closed), nil
}

// Total returns the user's live total in milliseconds: accumulated time plus
// the elapsed portion of a currently open session. Read-only.
func (s *Service) Total(ctx context.Context, orgID, userID string) (int64, error) {
	sess, err := s.repo.Get(ctx, orgID, userID)
	if err != nil {
		return 0, err
	}
	return sess.TotalMs(s.now()), nil
}

// Adjust applies a signed administrative correction to the accumulated total,
// clamping the result at zero. An open session is unaffected. Returns a
// human-readable description of the applied delta.
func (s *Service) Adjust(ctx context.Context, orgID, userID string, deltaMs int64) (string, error) {
	sess, err := s.repo.Get(ctx, orgID, userID)
	if err != nil {
		return "", err
	}
	if sess == nil {
		sess = &domain.Session{OrgID: orgID, UserID: userID}
	}
	newTotal := sess.AccumulatedMs + deltaMs
	if newTotal < 0 {
		newTotal = 0
	}
	sess.AccumulatedMs = newTotal
	if err := s.repo.Upsert(ctx, sess); err != nil {
		return "", err
	}
	verb := "added"
	abs := deltaMs
	if deltaMs < 0 {
		verb = "removed"
		abs = -deltaMs
	}
	desc := fmt.Sprintf("%s %s for user %s", verb, duration.Format(abs), userID)
	if s.audit != nil {
		s.audit.LogEvent(ctx, orgID, userID, "adjust", "time_session", desc)
	}
	return desc, nil
}

// SetTotal replaces the accumulated total with totalMs (clamped at zero) in a
// single write, so concurrent readers never observe an intermediate value.
func (s *Service) SetTotal(ctx context.Context, orgID, userID string, totalMs int64) (string, error) {
	sess, err := s.repo.Get(ctx, orgID, userID)
	if err != nil {
		return "", err
	}
	if sess == nil {
		sess = &domain.Session{OrgID: orgID, UserID: userID}
	}
	if totalMs < 0 {
		totalMs = 0
	}
	sess.AccumulatedMs = totalMs
	if err := s.repo.Upsert(ctx, sess); err != nil {
		return "", err
	}
	desc := fmt.Sprintf("set total to %s for user %s", duration.Format(totalMs), userID)
	if s.audit != nil {
		s.audit.LogEvent(ctx, orgID, userID, "set_total", "time_session", desc)
	}
	return desc, nil
}
