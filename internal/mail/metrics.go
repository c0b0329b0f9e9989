package mail

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of the worker counters.
const MeterName = "github.com/dtroode/gatekeeper-server/internal/mail"

// Metrics counts worker outcomes per template.
type Metrics struct {
	sent    metric.Int64Counter
	retried metric.Int64Counter
	failed  metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	sent, err := meter.Int64Counter("mail.jobs.sent",
		metric.WithDescription("Emails handed to the transport successfully"))
	if err != nil {
		return nil, fmt.Errorf("failed to create sent counter: %w", err)
	}

	retried, err := meter.Int64Counter("mail.jobs.retried",
		metric.WithDescription("Delivery attempts rescheduled after a failure"))
	if err != nil {
		return nil, fmt.Errorf("failed to create retried counter: %w", err)
	}

	failed, err := meter.Int64Counter("mail.jobs.failed",
		metric.WithDescription("Jobs that exhausted their attempts"))
	if err != nil {
		return nil, fmt.Errorf("failed to create failed counter: %w", err)
	}

	return &Metrics{sent: sent, retried: retried, failed: failed}, nil
}

func templateAttr(template string) metric.AddOption {
	return metric.WithAttributes(attribute.String("template", template))
}

func (m *Metrics) Sent(ctx context.Context, template string) {
	m.sent.Add(ctx, 1, templateAttr(template))
}

func (m *Metrics) Retried(ctx context.Context, template string) {
	m.retried.Add(ctx, 1, templateAttr(template))
}

func (m *Metrics) Failed(ctx context.Context, template string) {
	m.failed.Add(ctx, 1, templateAttr(template))
}
