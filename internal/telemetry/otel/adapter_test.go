package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
)

func TestNewAuditEmitter_NilProvider_ReturnsNoop(t *testing.T) {
	em := NewAuditEmitter(nil)
	if em == nil {
		t.Fatal("NewAuditEmitter(nil) returned nil")
	}
	// Must not panic.
	em.LogEvent(context.Background(), "org1", "user1", "adjust", "time_session", "")
}

// recordCapture stores the last Record passed to Emit for assertion.
type recordCapture struct {
	rec   otellog.Record
	calls int
}

func (r *recordCapture) Emit(ctx context.Context, rec otellog.Record) {
	r.rec = rec
	r.calls++
}

func recordAttrs(rec otellog.Record) map[string]string {
	attrs := make(map[string]string)
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	return attrs
}

func TestLogEvent_AttributeAndBodyMapping(t *testing.T) {
	cap := &recordCapture{}
	em := NewAuditEmitterWithLogger(cap)

	before := time.Now().UTC()
	em.LogEvent(context.Background(), "org1", "user1", "set_total", "time_session", "set 1d 00h 00m 00s")
	after := time.Now().UTC()

	rec := cap.rec
	if rec.Body().Empty() {
		t.Error("body should be set when metadata is non-empty")
	}
	if got := rec.Body().AsString(); got != "set 1d 00h 00m 00s" {
		t.Errorf("body = %q, want metadata text", got)
	}

	attrs := recordAttrs(rec)
	want := map[string]string{
		"org_id": "org1", "user_id": "user1",
		"action": "set_total", "resource": "time_session",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %q = %q, want %q", k, attrs[k], v)
		}
	}

	ts := rec.Timestamp()
	if ts.Before(before) || ts.After(after) {
		t.Errorf("timestamp = %v, should be between %v and %v", ts, before, after)
	}
}

func TestLogEvent_EmptyFieldsOmitted(t *testing.T) {
	cap := &recordCapture{}
	em := NewAuditEmitterWithLogger(cap)

	em.LogEvent(context.Background(), "org1", "", "deactivate", "license_window", "")

	rec := cap.rec
	if !rec.Body().Empty() {
		t.Error("body should be empty when metadata is empty")
	}
	attrs := recordAttrs(rec)
	if attrs["org_id"] != "org1" || attrs["action"] != "deactivate" {
		t.Errorf("attributes = %v", attrs)
	}
	if _, ok := attrs["user_id"]; ok {
		t.Errorf("user_id should not be set for empty string, got %q", attrs["user_id"])
	}
}

func TestFanout_ForwardsToAll(t *testing.T) {
	first := &recordCapture{}
	second := &recordCapture{}
	em := Fanout(NewAuditEmitterWithLogger(first), nil, NewAuditEmitterWithLogger(second))

	em.LogEvent(context.Background(), "org1", "user1", "adjust", "time_session", "")

	if first.calls != 1 || second.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", first.calls, second.calls)
	}
}
