package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"timeclock-control-plane/internal/audit"
)

// recordEmitter is the slice of otellog.Logger the emitter needs.
type recordEmitter interface {
	Emit(ctx context.Context, record otellog.Record)
}

// NewAuditEmitter returns an AuditLogger that mirrors audit events to OTel log
// records via the given LoggerProvider. If provider is nil, returns a no-op logger.
func NewAuditEmitter(provider *sdklog.LoggerProvider) audit.AuditLogger {
	if provider == nil {
		return noopEmitter{}
	}
	return NewAuditEmitterWithLogger(provider.Logger("timeclock.audit"))
}

// NewAuditEmitterWithLogger returns an AuditLogger emitting to the given logger.
func NewAuditEmitterWithLogger(logger recordEmitter) audit.AuditLogger {
	return &auditEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) LogEvent(context.Context, string, string, string, string, string) {}

type auditEmitter struct {
	logger recordEmitter
}

// LogEvent converts the audit event to an OTel log record and emits it. Best-effort.
func (e *auditEmitter) LogEvent(ctx context.Context, orgID, userID, action, resource, metadata string) {
	rec := otellog.Record{}
	rec.SetTimestamp(time.Now().UTC())
	if metadata != "" {
		rec.SetBody(otellog.StringValue(metadata))
	}
	if orgID != "" {
		rec.AddAttributes(otellog.String("org_id", orgID))
	}
	if userID != "" {
		rec.AddAttributes(otellog.String("user_id", userID))
	}
	if action != "" {
		rec.AddAttributes(otellog.String("action", action))
	}
	if resource != "" {
		rec.AddAttributes(otellog.String("resource", resource))
	}
	e.logger.Emit(ctx, rec)
}

// Fanout returns an AuditLogger that forwards each event to every logger in
// order. Nil entries are skipped.
func Fanout(loggers ...audit.AuditLogger) audit.AuditLogger {
	return fanout(loggers)
}

type fanout []audit.AuditLogger

func (f fanout) LogEvent(ctx context.Context, orgID, userID, action, resource, metadata string) {
	for _, l := range f {
		if l == nil {
			continue
		}
		l.LogEvent(ctx, orgID, userID, action, resource, metadata)
	}
}
