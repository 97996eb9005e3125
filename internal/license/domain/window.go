// Package domain models an organization's license window: a time-boxed
// authorization that gates tracked actions for the whole org.
package domain

import "time"

// Span is the authorized length of a license window: either a bounded
// millisecond count or unbounded (never expires).
type Span struct {
	ms      int64
	bounded bool
}

// Bounded returns a Span of ms milliseconds, clamped at zero.
func Bounded(ms int64) Span {
	if ms < 0 {
		ms = 0
	}
	return Span{ms: ms, bounded: true}
}

// Unbounded returns a Span that never expires.
func Unbounded() Span {
	return Span{}
}

// IsBounded reports whether the span has a finite length.
func (s Span) IsBounded() bool { return s.bounded }

// Millis returns the span length and true for bounded spans, or 0 and false
// for unbounded ones.
func (s Span) Millis() (int64, bool) { return s.ms, s.bounded }

// Remaining returns the milliseconds left at now for a window started at
// start, clamped at zero, and true. For unbounded spans it returns 0, false.
func (s Span) Remaining(start, now time.Time) (int64, bool) {
	if !s.bounded {
		return 0, false
	}
	left := s.ms - now.Sub(start).Milliseconds()
	if left < 0 {
		left = 0
	}
	return left, true
}

// Expired reports whether a bounded span started at start has run out at now.
// Unbounded spans never expire.
func (s Span) Expired(start, now time.Time) bool {
	if !s.bounded {
		return false
	}
	return now.Sub(start).Milliseconds() > s.ms
}

// Extend returns a new bounded span of the remaining time plus deltaMs,
// clamped at zero. Extending an unbounded span converts it to a bounded one
// of exactly deltaMs; the unbounded baseline contributes nothing.
func (s Span) Extend(start, now time.Time, deltaMs int64) Span {
	var base int64
	if left, ok := s.Remaining(start, now); ok {
		base = left
	}
	return Bounded(base + deltaMs)
}

// Window is an organization's license state. One row per org; never deleted.
type Window struct {
	OrgID       string
	Active      bool
	WindowStart time.Time
	Span        Span
}

// NewDefaultWindow returns the window materialized on an org's first access:
// active and unbounded, counting from now.
func NewDefaultWindow(orgID string, now time.Time) *Window {
	return &Window{OrgID: orgID, Active: true, WindowStart: now, Span: Unbounded()}
}

// RemainingMs returns the milliseconds left at now and true for bounded
// windows, or 0 and false for unbounded ones. Never negative.
func (w *Window) RemainingMs(now time.Time) (int64, bool) {
	return w.Span.Remaining(w.WindowStart, now)
}

// Expired reports whether the window is active but past its bounded span.
func (w *Window) Expired(now time.Time) bool {
	return w.Active && w.Span.Expired(w.WindowStart, now)
}

// Gated reports whether tracked actions must be blocked: the window is
// inactive, or its bounded span has run out.
func (w *Window) Gated(now time.Time) bool {
	return !w.Active || w.Span.Expired(w.WindowStart, now)
}
