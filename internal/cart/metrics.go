package cart

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the cart instruments shared by every Store.
type Metrics struct {
	actions metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	actions, err := meter.Int64Counter("storefront.cart.actions",
		metric.WithDescription("Cart actions dispatched, by action kind."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart actions counter: %w", err)
	}
	return &Metrics{actions: actions}, nil
}

func (m *Metrics) recordAction(ctx context.Context, action Action) {
	if m == nil {
		return
	}
	m.actions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action.Name())))
}
