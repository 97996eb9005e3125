package sweeper

import (
	"context"
	"fmt"
	"log"
	"time"

	"timeclock-control-plane/internal/channel"
	"timeclock-control-plane/internal/duration"
	licensedomain "timeclock-control-plane/internal/license/domain"
)

// LicenseReader returns an org's license window; used to suppress notices for
// gated orgs.
type LicenseReader interface {
	Get(ctx context.Context, orgID string) (*licensedomain.Window, error)
}

// ChannelNotifier delivers auto-close notices to the org's notify channel.
// Orgs that are gated or have no notify channel configured get nothing.
type ChannelNotifier struct {
	resolver channel.Resolver
	licenses LicenseReader
	now      func() time.Time
}

// NewChannelNotifier returns a Notifier backed by the channel resolver.
func NewChannelNotifier(resolver channel.Resolver, licenses LicenseReader) *ChannelNotifier {
	return &ChannelNotifier{resolver: resolver, licenses: licenses, now: time.Now}
}

// NotifyAutoClose sends one notice. Every failure path logs and returns; the
// sweep must never block or fail on notification delivery.
func (n *ChannelNotifier) NotifyAutoClose(ctx context.Context, notice Notice) {
	w, err := n.licenses.Get(ctx, notice.OrgID)
	if err != nil {
		log.Printf("notifier: license lookup for %s failed: %v", notice.OrgID, err)
		return
	}
	if w.Gated(n.now()) {
		return
	}
	ch, err := n.resolver.Resolve(ctx, notice.OrgID, channel.RoleNotify)
	if err != nil {
		if err != channel.ErrNotConfigured {
			log.Printf("notifier: resolve notify channel for %s failed: %v", notice.OrgID, err)
		}
		return
	}
	text := fmt.Sprintf("Session auto-closed for user %s. Duration: %s",
		notice.UserID, duration.Format(notice.DurationMs))
	if err := ch.Send(ctx, text); err != nil {
		log.Printf("notifier: send to %s failed: %v", notice.OrgID, err)
	}
}
