package app

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type engineMetrics struct {
	ordersProcessed metric.Int64Counter
	ordersSkipped   metric.Int64Counter
	ordersFailed    metric.Int64Counter
	clearsMined     metric.Int64Counter
}

func newEngineMetrics() (*engineMetrics, error) {
	meter := otel.Meter("clearing.engine")

	ordersProcessed, err := meter.Int64Counter("clearing_orders_processed_total",
		metric.WithDescription("Orders examined by the clearing engine"))
	if err != nil {
		return nil, err
	}
	ordersSkipped, err := meter.Int64Counter("clearing_orders_skipped_total",
		metric.WithDescription("Orders skipped before submission, by reason"))
	if err != nil {
		return nil, err
	}
	ordersFailed, err := meter.Int64Counter("clearing_orders_failed_total",
		metric.WithDescription("Orders that errored, by pipeline stage"))
	if err != nil {
		return nil, err
	}
	clearsMined, err := meter.Int64Counter("clearing_clears_mined_total",
		metric.WithDescription("Clearing transactions mined successfully"))
	if err != nil {
		return nil, err
	}

	return &engineMetrics{
		ordersProcessed: ordersProcessed,
		ordersSkipped:   ordersSkipped,
		ordersFailed:    ordersFailed,
		clearsMined:     clearsMined,
	}, nil
}
