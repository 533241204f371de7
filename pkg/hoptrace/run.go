// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package hoptrace

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/telekom/hoptrace/internal/logger"
	"github.com/telekom/hoptrace/internal/traceroute"
	"github.com/telekom/hoptrace/pkg/api"
	"github.com/telekom/hoptrace/pkg/config"
	"github.com/telekom/hoptrace/pkg/telemetry"
)

const shutdownTimeout = time.Second * 30

// Hoptrace serves traces over http
type Hoptrace struct {
	// config is the startup configuration of hoptrace
	config *config.Config
	// api is the http api traces are requested through
	api api.API
	// tracer runs the traces, one at a time
	tracer traceroute.Client
	// telemetry is used to collect metrics and export spans
	telemetry telemetry.Provider
	// cErr is used to handle non-recoverable errors of the hoptrace components
	cErr chan error
	// cDone is used to signal that hoptrace was shut down
	cDone chan struct{}
	// shutOnce is used to ensure that the shutdown function is only called once
	shutOnce sync.Once
}

// New creates a new hoptrace server from the given configuration
func New(cfg *config.Config) *Hoptrace {
	t := telemetry.New(cfg.Telemetry)
	tracer := traceroute.NewTracer()
	t.GetRegistry().MustRegister(tracer.Collectors()...)

	return &Hoptrace{
		config:    cfg,
		api:       api.New(cfg.Api),
		tracer:    tracer,
		telemetry: t,
		cErr:      make(chan error, 1),
		cDone:     make(chan struct{}, 1),
	}
}

// Run starts the api and blocks until hoptrace was shut down
func (h *Hoptrace) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	log := logger.FromContext(ctx)
	defer cancel()

	err := h.telemetry.InitTracing(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	go func() {
		h.cErr <- h.startupAPI(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
		case err := <-h.cErr:
			if err != nil {
				log.ErrorContext(ctx, "Non-recoverable error in hoptrace component", "error", err)
				h.shutdown(ctx)
			}
		case <-h.cDone:
			log.InfoContext(ctx, "Hoptrace was shut down")
			return ErrFinalShutdown
		}
	}
}

// startupAPI registers the routes and serves the api
func (h *Hoptrace) startupAPI(ctx context.Context) error {
	routes := []api.Route{
		{Path: "/v1/trace", Method: http.MethodGet, Handler: h.handleTrace},
		{Path: "/v1/trace", Method: http.MethodDelete, Handler: h.handleCancel},
		{Path: "/openapi", Method: http.MethodGet, Handler: h.handleOpenAPI},
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.HandlerFor(h.telemetry.GetRegistry(), promhttp.HandlerOpts{Registry: h.telemetry.GetRegistry()}).ServeHTTP,
		},
	}

	if err := h.api.RegisterRoutes(ctx, routes...); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}
	return h.api.Run(ctx)
}

// shutdown kills the active trace and shuts down all components gracefully.
func (h *Hoptrace) shutdown(ctx context.Context) {
	errC := ctx.Err()
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	ctx = logger.IntoContext(ctx, log)

	h.shutOnce.Do(func() {
		log.InfoContext(ctx, "Shutting down hoptrace")
		h.tracer.CancelActive()

		var sErrs ErrShutdown
		sErrs.errAPI = h.api.Shutdown(ctx)
		sErrs.errTelemetry = h.telemetry.Shutdown(ctx)

		if sErrs.HasError() {
			log.ErrorContext(ctx, "Failed to shutdown gracefully", "contextError", errC, "errors", sErrs)
		}

		// Signal that shutdown is complete
		h.cDone <- struct{}{}
	})
}
