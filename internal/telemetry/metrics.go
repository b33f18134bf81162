package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// InitMeterProvider installs a Prometheus-backed MeterProvider and starts Go
// runtime metrics. It returns the /metrics handler and a shutdown function.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	if err := runtime.Start(runtime.WithMeterProvider(mp)); err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, nil, err
	}

	return promhttp.Handler(), mp.Shutdown, nil
}

// Instruments resolve through the global provider, so they start reporting
// once InitMeterProvider has run.
var (
	meter = otel.Meter("github.com/joao-fontenele/storefront-admin")

	skippedRecords, _ = meter.Int64Counter("dashboard.records.skipped",
		metric.WithDescription("Order records left out of some dashboard figures, by reason"),
	)
	missingUser, _ = meter.Int64Counter("dashboard.orders.missing_user",
		metric.WithDescription("Orders without a userId seen while summarizing customers"),
	)
)

func RecordSkipped(ctx context.Context, collection, reason string) {
	skippedRecords.Add(ctx, 1, metric.WithAttributes(
		attribute.String("collection", collection),
		attribute.String("reason", reason),
	))
}

func RecordMissingUser(ctx context.Context, n int) {
	if n > 0 {
		missingUser.Add(ctx, int64(n))
	}
}
