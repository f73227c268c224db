package telemetry

import (
	"context"
	"fmt"

	"github.com/mead/backend/internal/domain/notification"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MarketplaceMetrics records cart, order and notification business metrics
type MarketplaceMetrics struct {
	cartMutations  metric.Int64Counter
	ordersPlaced   metric.Int64Counter
	orderAmount    metric.Float64Histogram
	orderLines     metric.Int64Histogram
	fanouts        metric.Int64Counter
	inboxAppends   metric.Int64Counter
	fanoutFailures metric.Int64Counter
}

// NewMarketplaceMetrics registers the instruments on the given meter
func NewMarketplaceMetrics(meter metric.Meter) (*MarketplaceMetrics, error) {
	m := &MarketplaceMetrics{}
	var err error

	if m.cartMutations, err = meter.Int64Counter("cart_mutations_total",
		metric.WithDescription("Cart mutations by operation"),
	); err != nil {
		return nil, fmt.Errorf("create cart_mutations_total: %w", err)
	}
	if m.ordersPlaced, err = meter.Int64Counter("order_placed_total",
		metric.WithDescription("Orders placed from carts"),
		metric.WithUnit("{order}"),
	); err != nil {
		return nil, fmt.Errorf("create order_placed_total: %w", err)
	}
	if m.orderAmount, err = meter.Float64Histogram("order_amount",
		metric.WithDescription("Order totals"),
		metric.WithUnit("{currency}"),
		metric.WithExplicitBucketBoundaries(10, 50, 100, 500, 1000, 5000, 10000, 50000),
	); err != nil {
		return nil, fmt.Errorf("create order_amount: %w", err)
	}
	if m.orderLines, err = meter.Int64Histogram("order_lines",
		metric.WithDescription("Line items per order"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 50),
	); err != nil {
		return nil, fmt.Errorf("create order_lines: %w", err)
	}
	if m.fanouts, err = meter.Int64Counter("notification_fanout_total",
		metric.WithDescription("Notification fan-outs run"),
	); err != nil {
		return nil, fmt.Errorf("create notification_fanout_total: %w", err)
	}
	if m.inboxAppends, err = meter.Int64Counter("notification_inbox_appends_total",
		metric.WithDescription("Inbox entries appended by fan-out"),
	); err != nil {
		return nil, fmt.Errorf("create notification_inbox_appends_total: %w", err)
	}
	if m.fanoutFailures, err = meter.Int64Counter("notification_inbox_failures_total",
		metric.WithDescription("Inbox appends that failed during fan-out"),
	); err != nil {
		return nil, fmt.Errorf("create notification_inbox_failures_total: %w", err)
	}
	return m, nil
}

// RecordCartMutation counts one cart mutation
func (m *MarketplaceMetrics) RecordCartMutation(ctx context.Context, operation string) {
	m.cartMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordOrderPlaced counts an order with its line count and total
func (m *MarketplaceMetrics) RecordOrderPlaced(ctx context.Context, lineCount int, total decimal.Decimal) {
	m.ordersPlaced.Add(ctx, 1)
	m.orderLines.Record(ctx, int64(lineCount))
	m.orderAmount.Record(ctx, total.InexactFloat64())
}

// RecordFanout counts one fan-out with its delivered and failed appends
func (m *MarketplaceMetrics) RecordFanout(ctx context.Context, kind notification.Kind, delivered, failed int) {
	attrs := metric.WithAttributes(attribute.String("kind", string(kind)))
	outcome := "complete"
	if failed > 0 {
		outcome = "partial"
	}
	m.fanouts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("outcome", outcome),
	))
	m.inboxAppends.Add(ctx, int64(delivered), attrs)
	if failed > 0 {
		m.fanoutFailures.Add(ctx, int64(failed), attrs)
	}
}
