// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package tracing installs the global OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/wneessen/geoservices/internal/logger"
)

// ShutdownFunc flushes pending spans and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

var version = "dev"

// Setup installs a tracer provider that exports spans to the Zipkin collector at zipkinURL. With
// an empty zipkinURL tracing stays disabled and the returned ShutdownFunc does nothing.
func Setup(zipkinURL, serviceName string, log *logger.Logger) (ShutdownFunc, error) {
	if zipkinURL == "" {
		log.Debug("no zipkin collector configured, tracing is disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := zipkin.New(zipkinURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create zipkin exporter: %w", err)
	}
	provider, err := Install(exporter, serviceName)
	if err != nil {
		return nil, err
	}
	log.Debug("tracing enabled", slog.String("collector", zipkinURL))
	return provider.Shutdown, nil
}

// Install registers a batching tracer provider for the given exporter as the global provider.
func Install(exporter sdktrace.SpanExporter, serviceName string) (*sdktrace.TracerProvider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracing resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{},
		propagation.Baggage{}))

	return provider, nil
}
