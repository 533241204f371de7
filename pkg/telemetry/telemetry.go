// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/telekom/hoptrace/internal/logger"
	"github.com/telekom/hoptrace/pkg"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var _ Provider = (*hub)(nil)

// Provider holds the metrics registry and the span pipeline of hoptrace.
//
//go:generate go tool moq -out telemetry_moq.go . Provider
type Provider interface {
	// GetRegistry returns the registry the trace metrics are registered on
	GetRegistry() *prometheus.Registry
	// InitTracing installs the global tracer provider that records the
	// spans of traces and the requests that started them
	InitTracing(ctx context.Context) error
	// Shutdown flushes the pending spans
	Shutdown(ctx context.Context) error
}

// hub is the telemetry of a single hoptrace instance
type hub struct {
	config   Config
	instance string
	platform string
	registry *prometheus.Registry
	tp       *sdktrace.TracerProvider
}

// New creates the registry with the runtime collectors and the instance
// info metric of this hoptrace instance.
//
//nolint:gocritic
func New(config Config) Provider {
	h := &hub{
		config:   config,
		instance: config.instanceName(),
		platform: runtime.GOOS,
		registry: prometheus.NewRegistry(),
	}
	h.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		newInstanceInfo(h.instance, h.platform),
	)
	return h
}

func (h *hub) GetRegistry() *prometheus.Registry {
	return h.registry
}

// InitTracing installs the tracer provider. Spans are sampled by trace id
// unless the caller already made a sampling decision, and are dropped
// unless telemetry is enabled.
func (h *hub) InitTracing(ctx context.Context) error {
	log := logger.FromContext(ctx)

	exporter := NOOP
	if h.config.Enabled {
		exporter = h.config.Exporter
	}
	tp, err := newTracerProvider(ctx, &h.config, exporter, h.instance, h.platform)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize tracing", "error", err)
		return err
	}
	h.tp = tp
	log.DebugContext(ctx, "Tracing initialized", "exporter", exporter, "instance", h.instance, "sampleRatio", h.config.sampleRatio())
	return nil
}

// Shutdown flushes the spans of finished traces to the exporter
func (h *hub) Shutdown(ctx context.Context) error {
	if h.tp == nil {
		return nil
	}
	if err := h.tp.Shutdown(ctx); err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	logger.FromContext(ctx).DebugContext(ctx, "Tracing shutdown")
	return nil
}

func serviceVersion() string {
	if pkg.Version == "" {
		return "dev"
	}
	return pkg.Version
}
