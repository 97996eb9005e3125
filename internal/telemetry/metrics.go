// Package telemetry provides the engine's OpenTelemetry instrumentation:
// counters for sweep and payment activity, and the OTLP provider setup in the
// otel subpackage.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the engine counters. A nil *Metrics is safe to use; all
// record methods are then no-ops, so instrumentation stays optional.
type Metrics struct {
	sessionsAutoClosed metric.Int64Counter
	licensesExpired    metric.Int64Counter
	paymentOutcomes    metric.Int64Counter
}

// NewMetrics registers the engine counters on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	sessionsAutoClosed, err := meter.Int64Counter("timeclock.sessions.auto_closed",
		metric.WithDescription("Sessions closed by the stale-session sweep"))
	if err != nil {
		return nil, err
	}
	licensesExpired, err := meter.Int64Counter("timeclock.licenses.expired",
		metric.WithDescription("License windows deactivated by the expiry sweep"))
	if err != nil {
		return nil, err
	}
	paymentOutcomes, err := meter.Int64Counter("timeclock.payment.outcomes",
		metric.WithDescription("Payment confirmation outcomes by result"))
	if err != nil {
		return nil, err
	}
	return &Metrics{
		sessionsAutoClosed: sessionsAutoClosed,
		licensesExpired:    licensesExpired,
		paymentOutcomes:    paymentOutcomes,
	}, nil
}

// RecordAutoClosed counts sessions closed by one sweep pass.
func (m *Metrics) RecordAutoClosed(ctx context.Context, n int64) {
	if m == nil {
		return
	}
	m.sessionsAutoClosed.Add(ctx, n)
}

// RecordLicensesExpired counts windows deactivated by one sweep pass.
func (m *Metrics) RecordLicensesExpired(ctx context.Context, n int64) {
	if m == nil {
		return
	}
	m.licensesExpired.Add(ctx, n)
}

// RecordPaymentOutcome counts one payment confirmation result
// (e.g. "approved", "declined", "timeout").
func (m *Metrics) RecordPaymentOutcome(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.paymentOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
