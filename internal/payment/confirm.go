// Package payment implements the subscription confirmation handshake with the
// external payment gateway. The gateway is reachable only through the org's
// payment channel: one activation request goes out, one correlated reply is
// awaited, and the reply either extends the org's license or maps to a
// terminal failure. There are no retries; callers re-run the whole exchange.
package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"timeclock-control-plane/internal/channel"
	licensedomain "timeclock-control-plane/internal/license/domain"
	"timeclock-control-plane/internal/telemetry"
)

// Sentinel errors; each one is a terminal outcome for a single confirmation.
var (
	ErrChannelNotConfigured = errors.New("payment channel not configured")
	ErrChannelUnreachable   = errors.New("payment channel unreachable")
	ErrProcessingFailure    = errors.New("payment could not be processed")
	ErrPaymentDeclined      = errors.New("payment declined")
	ErrUnexpectedResponse   = errors.New("unexpected gateway response")
	ErrConfirmationTimeout  = errors.New("no gateway response within timeout")
)

// activationVerb is the command the gateway recognizes on the payment channel.
const activationVerb = "!active"

// Licenses is the license operation the confirmer needs on success.
type Licenses interface {
	SetAbsolute(ctx context.Context, orgID string, durationMs int64) (*licensedomain.Window, error)
}

// Confirmer runs the one-shot payment confirmation protocol.
type Confirmer struct {
	resolver     channel.Resolver
	licenses     Licenses
	metrics      *telemetry.Metrics
	beneficiary  string
	price        string
	grantMs      int64
	replyTimeout time.Duration
}

// NewConfirmer returns a Confirmer. beneficiary and price are included
// verbatim in the activation request; grantMs is the license span granted on
// an approved payment; replyTimeout bounds the wait for the gateway reply.
// metrics may be nil.
func NewConfirmer(resolver channel.Resolver, licenses Licenses, metrics *telemetry.Metrics,
	beneficiary, price string, grantMs int64, replyTimeout time.Duration) *Confirmer {
	return &Confirmer{
		resolver:     resolver,
		licenses:     licenses,
		metrics:      metrics,
		beneficiary:  beneficiary,
		price:        price,
		grantMs:      grantMs,
		replyTimeout: replyTimeout,
	}
}

// Confirm hashes the caller's payment key, sends the activation request on
// the org's payment channel, and awaits the gateway reply correlated by the
// requesting user's id. On an approved payment the org's license is replaced
// with the configured grant. The raw key never leaves this function; only
// its SHA-256 hex digest is transmitted.
func (c *Confirmer) Confirm(ctx context.Context, orgID, userID, paymentKey string) error {
	err := c.confirm(ctx, orgID, userID, paymentKey)
	c.metrics.RecordPaymentOutcome(ctx, outcomeLabel(err))
	return err
}

func (c *Confirmer) confirm(ctx context.Context, orgID, userID, paymentKey string) error {
	digest := sha256.Sum256([]byte(paymentKey))

	ch, err := c.resolver.Resolve(ctx, orgID, channel.RolePayment)
	if err != nil {
		if errors.Is(err, channel.ErrNotConfigured) {
			return ErrChannelNotConfigured
		}
		return fmt.Errorf("%w: %v", ErrChannelUnreachable, err)
	}

	request := fmt.Sprintf("%s %s %s %s", activationVerb, hex.EncodeToString(digest[:]), c.beneficiary, c.price)
	if err := ch.Send(ctx, request); err != nil {
		return fmt.Errorf("%w: %v", ErrChannelUnreachable, err)
	}

	reply, err := ch.Await(ctx, func(m string) bool {
		return strings.HasPrefix(m, userID)
	}, c.replyTimeout)
	if err != nil {
		if errors.Is(err, channel.ErrAwaitTimeout) {
			return ErrConfirmationTimeout
		}
		return fmt.Errorf("%w: %v", ErrChannelUnreachable, err)
	}

	id, status, ok := strings.Cut(reply, ":")
	if !ok {
		return ErrUnexpectedResponse
	}
	switch status {
	case "false":
		if allZero(id) {
			return ErrProcessingFailure
		}
		return ErrPaymentDeclined
	case "true":
		if _, err := c.licenses.SetAbsolute(ctx, orgID, c.grantMs); err != nil {
			return err
		}
		return nil
	default:
		return ErrUnexpectedResponse
	}
}

func allZero(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '0' {
			return false
		}
	}
	return true
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "approved"
	case errors.Is(err, ErrPaymentDeclined):
		return "declined"
	case errors.Is(err, ErrProcessingFailure):
		return "processing_failure"
	case errors.Is(err, ErrConfirmationTimeout):
		return "timeout"
	case errors.Is(err, ErrUnexpectedResponse):
		return "unexpected_response"
	case errors.Is(err, ErrChannelNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrChannelUnreachable):
		return "unreachable"
	default:
		return "error"
	}
}
