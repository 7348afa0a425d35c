package auth

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultError   = "error"
)

// Metrics holds the auth instruments shared by every Store.
type Metrics struct {
	attempts metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	attempts, err := meter.Int64Counter("storefront.auth.attempts",
		metric.WithDescription("Login and register attempts, by operation and result."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth attempts counter: %w", err)
	}
	return &Metrics{attempts: attempts}, nil
}

func (m *Metrics) recordAttempt(ctx context.Context, operation, result string) {
	if m == nil {
		return
	}
	m.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("result", result),
	))
}
