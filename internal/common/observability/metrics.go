// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	renderCounter  otelmetric.Int64Counter
	renderDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	renderCounter, _ := meter.Int64Counter(
		"receipts.rendered",
		otelmetric.WithDescription("Number of receipt documents rendered"),
	)

	renderDuration, _ := meter.Float64Histogram(
		"receipts.render.duration",
		otelmetric.WithDescription("Receipt render duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		renderCounter:  renderCounter,
		renderDuration: renderDuration,
	}
}

// RecordRender counts one finished render, labelled with the delivery mode
// (stream/file) and outcome status.
func (o *Observability) RecordRender(ctx context.Context, delivery, status string) {
	if o.renderCounter != nil {
		o.renderCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("delivery", delivery),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordRenderDuration(ctx context.Context, duration time.Duration, delivery string) {
	if o.renderDuration != nil {
		o.renderDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("delivery", delivery),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
