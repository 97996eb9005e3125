package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"timeclock-control-plane/internal/channel"
	"timeclock-control-plane/internal/duration"
	licensedomain "timeclock-control-plane/internal/license/domain"
)

type fakeChannel struct {
	mu      sync.Mutex
	sent    []string
	replies []string
	sendErr error
}

func (c *fakeChannel) Send(ctx context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, text)
	return nil
}

func (c *fakeChannel) Await(ctx context.Context, match func(string) bool, timeout time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.replies {
		if match(m) {
			return m, nil
		}
	}
	return "", channel.ErrAwaitTimeout
}

type fakeResolver struct {
	ch  channel.Channel
	err error
}

func (r *fakeResolver) Resolve(ctx context.Context, orgID string, role channel.Role) (channel.Channel, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.ch, nil
}

type fakeLicenses struct {
	mu      sync.Mutex
	orgID   string
	grantMs int64
	calls   int
}

func (l *fakeLicenses) SetAbsolute(ctx context.Context, orgID string, durationMs int64) (*licensedomain.Window, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orgID = orgID
	l.grantMs = durationMs
	l.calls++
	return &licensedomain.Window{OrgID: orgID, Active: true, Span: licensedomain.Bounded(durationMs)}, nil
}

func newTestConfirmer(ch *fakeChannel) (*Confirmer, *fakeLicenses) {
	licenses := &fakeLicenses{}
	c := NewConfirmer(&fakeResolver{ch: ch}, licenses, nil, "owner-1", "10.0", 30*duration.Day, 5*time.Second)
	return c, licenses
}

func TestConfirm_ApprovedExtendsLicense(t *testing.T) {
	ch := &fakeChannel{replies: []string{"123:true"}}
	c, licenses := newTestConfirmer(ch)

	if err := c.Confirm(context.Background(), "org1", "123", "secret-key"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if licenses.calls != 1 || licenses.orgID != "org1" || licenses.grantMs != 30*duration.Day {
		t.Errorf("license grant = %d calls, org %q, %d ms; want 1, org1, %d",
			licenses.calls, licenses.orgID, licenses.grantMs, 30*duration.Day)
	}
}

func TestConfirm_SendsDigestNotKey(t *testing.T) {
	ch := &fakeChannel{replies: []string{"123:true"}}
	c, _ := newTestConfirmer(ch)

	if err := c.Confirm(context.Background(), "org1", "123", "secret-key"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(ch.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(ch.sent))
	}
	sum := sha256.Sum256([]byte("secret-key"))
	want := "!active " + hex.EncodeToString(sum[:]) + " owner-1 10.0"
	if ch.sent[0] != want {
		t.Errorf("request = %q, want %q", ch.sent[0], want)
	}
	if strings.Contains(ch.sent[0], "secret-key") {
		t.Error("raw payment key must never be transmitted")
	}
}

func TestConfirm_OutcomeMapping(t *testing.T) {
	cases := []struct {
		name   string
		userID string
		reply  string
		want   error
	}{
		{"processing failure", "0000", "0000:false", ErrProcessingFailure},
		{"declined", "123", "123:false", ErrPaymentDeclined},
		{"unexpected status", "123", "123:maybe", ErrUnexpectedResponse},
		{"missing separator", "123", "123true", ErrUnexpectedResponse},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ch := &fakeChannel{replies: []string{c.reply}}
			conf, licenses := newTestConfirmer(ch)
			err := conf.Confirm(context.Background(), "org1", c.userID, "key")
			if !errors.Is(err, c.want) {
				t.Errorf("Confirm err = %v, want %v", err, c.want)
			}
			if licenses.calls != 0 {
				t.Error("license must not be extended on failure")
			}
		})
	}
}

func TestConfirm_Timeout(t *testing.T) {
	ch := &fakeChannel{} // no replies at all
	c, licenses := newTestConfirmer(ch)

	err := c.Confirm(context.Background(), "org1", "123", "key")
	if !errors.Is(err, ErrConfirmationTimeout) {
		t.Errorf("Confirm err = %v, want ErrConfirmationTimeout", err)
	}
	if licenses.calls != 0 {
		t.Error("license must not be extended on timeout")
	}
}

func TestConfirm_ReplyForAnotherUserIgnored(t *testing.T) {
	ch := &fakeChannel{replies: []string{"456:true"}}
	c, licenses := newTestConfirmer(ch)

	err := c.Confirm(context.Background(), "org1", "123", "key")
	if !errors.Is(err, ErrConfirmationTimeout) {
		t.Errorf("Confirm err = %v, want ErrConfirmationTimeout", err)
	}
	if licenses.calls != 0 {
		t.Error("license must not be extended off another user's reply")
	}
}

func TestConfirm_ChannelErrors(t *testing.T) {
	c, _ := newTestConfirmer(&fakeChannel{})
	c.resolver = &fakeResolver{err: channel.ErrNotConfigured}
	if err := c.Confirm(context.Background(), "org1", "123", "key"); !errors.Is(err, ErrChannelNotConfigured) {
		t.Errorf("Confirm err = %v, want ErrChannelNotConfigured", err)
	}

	c, _ = newTestConfirmer(&fakeChannel{sendErr: errors.New("broker down")})
	if err := c.Confirm(context.Background(), "org1", "123", "key"); !errors.Is(err, ErrChannelUnreachable) {
		t.Errorf("Confirm err = %v, want ErrChannelUnreachable", err)
	}
}
