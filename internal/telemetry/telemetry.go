// Package telemetry sets up optional OpenTelemetry pipelines. Both are
// opt-in via CLI flags and export to stdout; when disabled, the global
// no-op providers stay in place and instrumented code costs nothing.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Setup installs stdout trace and/or metric providers. The returned
// shutdown function flushes and stops whatever was installed; it is safe
// to call even when both pipelines are disabled.
func Setup(traces, metrics bool, logger *slog.Logger) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	if traces {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
		otel.SetTracerProvider(tp)
		shutdowns = append(shutdowns, tp.Shutdown)
		logger.Debug("stdout trace pipeline enabled")
	}

	if metrics {
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("create metric exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp,
				sdkmetric.WithInterval(30*time.Second))),
		)
		otel.SetMeterProvider(mp)
		shutdowns = append(shutdowns, mp.Shutdown)
		logger.Debug("stdout metric pipeline enabled")
	}

	return func(ctx context.Context) error {
		var firstErr error
		for _, stop := range shutdowns {
			if err := stop(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}, nil
}
