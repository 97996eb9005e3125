// Package channel resolves an organization's logical channels (panel, notify,
// payment) to destinations that can send a text message and await the next
// inbound message matching a predicate. The engine never talks to a transport
// directly; everything goes through a Resolver.
package channel

import (
	"context"
	"errors"
	"time"
)

// Role identifies the logical purpose of an org channel.
type Role string

const (
	RolePanel   Role = "panel"
	RoleNotify  Role = "notify"
	RolePayment Role = "payment"
)

// Sentinel errors for channel resolution and awaiting.
var (
	// ErrNotConfigured means the org has no channel id stored for the role.
	ErrNotConfigured = errors.New("channel not configured for role")
	// ErrAwaitTimeout means no matching message arrived within the window.
	ErrAwaitTimeout = errors.New("no matching message within timeout")
)

// Channel is one resolved destination.
type Channel interface {
	// Send delivers a text message to the channel.
	Send(ctx context.Context, text string) error
	// Await blocks until the next inbound message for which match returns
	// true, or until timeout elapses (ErrAwaitTimeout) or ctx is done.
	// Exactly one of the message or an error is returned.
	Await(ctx context.Context, match func(string) bool, timeout time.Duration) (string, error)
}

// Resolver maps an org and role to a Channel.
type Resolver interface {
	Resolve(ctx context.Context, orgID string, role Role) (Channel, error)
}
