// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	serviceName = "hoptrace"

	batchTimeout = 5 * time.Second
	maxQueueSize = 1000
	maxBatchSize = 100
)

// PlatformKey is the resource attribute naming the operating system,
// which decides the traceroute tool behind the spans.
const PlatformKey = attribute.Key("hoptrace.platform")

// newTracerProvider builds the tracer provider for the exporter and
// installs it together with the w3c trace context propagator.
func newTracerProvider(ctx context.Context, config *Config, exporter Exporter, instance, platform string) (*sdktrace.TracerProvider, error) {
	res, err := newResource(ctx, instance, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	spanExporter, err := exporter.Create(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(newSampler(config)),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(spanExporter,
			sdktrace.WithBatchTimeout(batchTimeout),
			sdktrace.WithMaxQueueSize(maxQueueSize),
			sdktrace.WithMaxExportBatchSize(maxBatchSize),
		)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp, nil
}

// newResource describes the hoptrace instance the spans originate from
func newResource(ctx context.Context, instance, platform string) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithHost(),
		resource.WithContainer(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion()),
			semconv.ServiceInstanceIDKey.String(instance),
			PlatformKey.String(platform),
		),
	)
}

// newSampler follows the sampling decision of a remote parent and samples
// root spans by the configured ratio.
func newSampler(config *Config) sdktrace.Sampler {
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.sampleRatio()))
}
