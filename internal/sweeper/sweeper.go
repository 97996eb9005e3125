// Package sweeper runs the two background reconciliation passes: closing
// sessions left open past the 24h cap and deactivating expired license
// windows. The passes are independent, touch disjoint rows, and tolerate
// interleaving with foreground writes; the cost of a race is at most a
// one-cycle delay, never a wrong permanent state.
package sweeper

import (
	"context"
	"log"
	"time"

	"timeclock-control-plane/internal/duration"
	ledgerdomain "timeclock-control-plane/internal/ledger/domain"
	licensedomain "timeclock-control-plane/internal/license/domain"
	"timeclock-control-plane/internal/telemetry"
)

// SessionStore is the slice of the ledger repository the session sweep needs.
type SessionStore interface {
	ListOpen(ctx context.Context) ([]*ledgerdomain.Session, error)
	Upsert(ctx context.Context, s *ledgerdomain.Session) error
}

// LicenseStore is the slice of the license repository the expiry sweep needs.
type LicenseStore interface {
	ListActiveBounded(ctx context.Context) ([]*licensedomain.Window, error)
	Deactivate(ctx context.Context, orgID string) error
}

// Notice describes one auto-closed session.
type Notice struct {
	OrgID      string
	UserID     string
	DurationMs int64
}

// Notifier delivers auto-close notices. Best-effort; a failed delivery must
// not fail the sweep.
type Notifier interface {
	NotifyAutoClose(ctx context.Context, n Notice)
}

// Sweeper owns the two periodic passes.
type Sweeper struct {
	sessions        SessionStore
	licenses        LicenseStore
	notifier        Notifier
	metrics         *telemetry.Metrics
	sessionInterval time.Duration
	licenseInterval time.Duration
	now             func() time.Time
}

// New returns a Sweeper. notifier and metrics may be nil.
func New(sessions SessionStore, licenses LicenseStore, notifier Notifier, metrics *telemetry.Metrics,
	sessionInterval, licenseInterval time.Duration) *Sweeper {
	return &Sweeper{
		sessions:        sessions,
		licenses:        licenses,
		notifier:        notifier,
		metrics:         metrics,
		sessionInterval: sessionInterval,
		licenseInterval: licenseInterval,
		now:             time.Now,
	}
}

// Run ticks both sweeps on their own intervals until ctx is done. Errors from
// a pass are logged and the next tick runs normally.
func (s *Sweeper) Run(ctx context.Context) {
	sessionTicker := time.NewTicker(s.sessionInterval)
	defer sessionTicker.Stop()
	licenseTicker := time.NewTicker(s.licenseInterval)
	defer licenseTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sessionTicker.C:
			if _, err := s.SweepSessions(ctx); err != nil {
				log.Printf("sweeper: session pass failed: %v", err)
			}
		case <-licenseTicker.C:
			if _, err := s.SweepLicenses(ctx); err != nil {
				log.Printf("sweeper: license pass failed: %v", err)
			}
		}
	}
}

// SweepSessions closes every session open for 24h or more, crediting exactly
// the 24h cap, and emits one notice per closure. Returns the number of
// sessions closed. A failed row write is logged and skipped; the session is
// picked up again on the next pass.
func (s *Sweeper) SweepSessions(ctx context.Context) (int, error) {
	open, err := s.sessions.ListOpen(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	closed := 0
	for _, sess := range open {
		if now.Sub(*sess.OpenSince).Milliseconds() < duration.Day {
			continue
		}
		sess.AccumulatedMs += duration.Day
		sess.OpenSince = nil
		if err := s.sessions.Upsert(ctx, sess); err != nil {
			log.Printf("sweeper: close %s/%s failed: %v", sess.OrgID, sess.UserID, err)
			continue
		}
		closed++
		if s.notifier != nil {
			s.notifier.NotifyAutoClose(ctx, Notice{OrgID: sess.OrgID, UserID: sess.UserID, DurationMs: duration.Day})
		}
	}
	s.metrics.RecordAutoClosed(ctx, int64(closed))
	return closed, nil
}

// SweepLicenses deactivates every active bounded window past its span.
// Returns the number deactivated. Deactivation is silent; the next gated
// interaction surfaces the expiry to the org.
func (s *Sweeper) SweepLicenses(ctx context.Context) (int, error) {
	windows, err := s.licenses.ListActiveBounded(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	expired := 0
	for _, w := range windows {
		if !w.Expired(now) {
			continue
		}
		if err := s.licenses.Deactivate(ctx, w.OrgID); err != nil {
			log.Printf("sweeper: deactivate %s failed: %v", w.OrgID, err)
			continue
		}
		expired++
	}
	s.metrics.RecordLicensesExpired(ctx, int64(expired))
	return expired, nil
}
