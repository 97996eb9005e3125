package domain

import (
	"testing"
	"time"
)

func TestSpan_Remaining(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	left, ok := Bounded(10000).Remaining(start, start.Add(4*time.Second))
	if !ok || left != 6000 {
		t.Errorf("Remaining = %d, %v; want 6000, true", left, ok)
	}

	// Past the span end: clamped at zero, never negative.
	left, ok = Bounded(10000).Remaining(start, start.Add(time.Minute))
	if !ok || left != 0 {
		t.Errorf("Remaining past end = %d, %v; want 0, true", left, ok)
	}

	if _, ok := Unbounded().Remaining(start, start); ok {
		t.Error("unbounded span should report no remaining count")
	}
}

func TestSpan_Expired(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if Bounded(1000).Expired(start, start.Add(time.Second)) {
		t.Error("span exactly at its end is not expired")
	}
	if !Bounded(1000).Expired(start, start.Add(2*time.Second)) {
		t.Error("span past its end should be expired")
	}
	if Unbounded().Expired(start, start.Add(1000000*time.Hour)) {
		t.Error("unbounded span never expires")
	}
}

func TestSpan_Extend(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(2 * time.Second)

	got := Bounded(10000).Extend(start, now, 5000)
	if ms, ok := got.Millis(); !ok || ms != 13000 {
		t.Errorf("Extend bounded = %d, %v; want 13000, true", ms, ok)
	}

	// Negative delta larger than remaining clamps at zero.
	got = Bounded(10000).Extend(start, now, -999999)
	if ms, ok := got.Millis(); !ok || ms != 0 {
		t.Errorf("Extend negative = %d, %v; want 0, true", ms, ok)
	}

	// Extending unbounded converts to bounded of exactly the delta.
	got = Unbounded().Extend(start, now, 5000)
	if ms, ok := got.Millis(); !ok || ms != 5000 {
		t.Errorf("Extend unbounded = %d, %v; want 5000, true", ms, ok)
	}
}

func TestWindow_Gated(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	w := NewDefaultWindow("org1", now)
	if w.Gated(now.Add(10000 * time.Hour)) {
		t.Error("default unbounded active window is never gated")
	}

	w = &Window{OrgID: "org1", Active: false, WindowStart: now, Span: Unbounded()}
	if !w.Gated(now) {
		t.Error("inactive window is gated")
	}

	w = &Window{OrgID: "org1", Active: true, WindowStart: now.Add(-2 * time.Second), Span: Bounded(1000)}
	if !w.Gated(now) {
		t.Error("expired bounded window is gated")
	}
	if !w.Expired(now) {
		t.Error("expired bounded active window should report Expired")
	}
}
