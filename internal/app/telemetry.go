package app

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// metrics holds the instruments for booking traffic. Conflicts are counted
// separately from failures so lost seat races are visible as contention, not
// errors.
type metrics struct {
	bookingsCommitted otelmetric.Int64Counter
	seatConflicts     otelmetric.Int64Counter
	loyaltyAccruals   otelmetric.Int64Counter
}

func newMetrics() (metrics, error) {
	meter := otel.Meter("cinema-ticketing-api")

	bookingsCommitted, err := meter.Int64Counter(
		"bookings.committed",
		otelmetric.WithDescription("Number of bookings committed successfully"),
	)
	if err != nil {
		return metrics{}, err
	}

	seatConflicts, err := meter.Int64Counter(
		"bookings.seat_conflicts",
		otelmetric.WithDescription("Number of booking attempts rejected because a requested seat was already booked"),
	)
	if err != nil {
		return metrics{}, err
	}

	loyaltyAccruals, err := meter.Int64Counter(
		"loyalty.accruals",
		otelmetric.WithDescription("Number of loyalty point accruals credited"),
	)
	if err != nil {
		return metrics{}, err
	}

	return metrics{
		bookingsCommitted: bookingsCommitted,
		seatConflicts:     seatConflicts,
		loyaltyAccruals:   loyaltyAccruals,
	}, nil
}

// InitTelemetry initializes the OpenTelemetry providers and returns a shutdown function.
func (app *Application) InitTelemetry() (func(context.Context), error) {
	if app.config.OtelCollectorUrl == "" {
		app.logger.Info("OpenTelemetry collector URL not set, skipping initialization")

		return func(context.Context) {}, nil
	}

	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("cinema-ticketing-api"),
			semconv.ServiceVersion(version),
			semconv.DeploymentEnvironment(app.config.Env),
		),
	)
	if err != nil {
		return nil, errors.New("failed to create otel resource")
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(app.config.OtelCollectorUrl),
	)
	if err != nil {
		return nil, errors.New("failed to create otel trace exporter")
	}

	bsp := trace.NewBatchSpanProcessor(traceExporter)
	tracerProvider := trace.NewTracerProvider(
		trace.WithSampler(trace.AlwaysSample()),
		trace.WithResource(res),
		trace.WithSpanProcessor(bsp),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithInsecure(),
		otlpmetricgrpc.WithEndpoint(app.config.OtelCollectorUrl),
	)
	if err != nil {
		return nil, errors.New("failed to create otel metric exporter")
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(metricExporter, metric.WithInterval(15*time.Second))),
	)

	otel.SetMeterProvider(meterProvider)

	// The meter provider changed, so instruments created before this point
	// belong to the no-op provider and must be rebuilt.
	app.metrics, err = newMetrics()
	if err != nil {
		return nil, err
	}

	shutdown := func(ctx context.Context) {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		err := errors.Join(
			tracerProvider.Shutdown(shutdownCtx),
			meterProvider.Shutdown(shutdownCtx),
		)
		if err != nil {
			app.logger.Error("failed to shutdown telemetry providers", "error", err)
		}
	}

	return shutdown, nil
}
