// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package hoptrace

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/telekom/hoptrace/internal/logger"
	"github.com/telekom/hoptrace/internal/traceroute"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

const (
	ndjsonContentType = "application/x-ndjson"
	// TracerName is the name of the OpenTelemetry tracer of the api
	TracerName = "hoptrace/api"
)

// handleTrace starts a trace and streams its events as newline-delimited JSON.
// The stream ends without a completion event if the trace is superseded.
// The span of the request continues the trace context sent by the client.
func (h *Hoptrace) handleTrace(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := otel.Tracer(TracerName).Start(ctx, "GET /v1/trace",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(r.Method),
			semconv.URLPath(r.URL.Path),
		),
	)
	defer span.End()
	log := logger.FromContext(ctx)

	q := r.URL.Query()
	target := strings.TrimSpace(q.Get("target"))
	if target == "" {
		span.SetStatus(codes.Error, "missing target")
		http.Error(w, "query parameter target is required", http.StatusBadRequest)
		return
	}
	opts, err := h.traceOptions(q)
	if err != nil {
		log.WarnContext(ctx, "Invalid trace options", "error", err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("traceroute.target", target))

	w.Header().Set("Content-Type", ndjsonContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	broken, completed := false, false
	defer func() {
		span.SetAttributes(attribute.Bool("hoptrace.stream.completed", completed))
		if broken {
			span.SetStatus(codes.Error, "client stopped reading")
		}
	}()
	for ev := range h.tracer.Stream(ctx, target, opts) {
		completed = completed || ev.Kind == traceroute.EventComplete
		// Keep draining so the trace is not blocked on its event buffer.
		if broken {
			continue
		}
		if err := enc.Encode(ev); err != nil {
			log.WarnContext(ctx, "Failed to write trace event", "error", err)
			broken = true
			continue
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			log.WarnContext(ctx, "Failed to flush trace event", "error", err)
			broken = true
		}
	}
}

// traceOptions applies the query parameters to the configured trace options
func (h *Hoptrace) traceOptions(q url.Values) (traceroute.Options, error) {
	opts := h.config.Trace
	if v := q.Get("maxHops"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid maxHops %q: %w", v, err)
		}
		opts.MaxHops = n
	}
	if v := q.Get("timeout"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return opts, fmt.Errorf("invalid timeout %q: %w", v, err)
		}
		opts.Timeout = d
	}
	return opts, opts.Validate()
}

// handleCancel kills the active trace
func (h *Hoptrace) handleCancel(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).InfoContext(r.Context(), "Cancelling active trace")
	h.tracer.CancelActive()
	w.WriteHeader(http.StatusNoContent)
}

// handleOpenAPI serves the openapi document of the api as yaml,
// or as json if the client accepts it.
func (h *Hoptrace) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	oapi, err := OpenAPI()
	if err != nil {
		log.ErrorContext(ctx, "Failed to create openapi document", "error", err)
		http.Error(w, "failed to create openapi document", http.StatusInternalServerError)
		return
	}

	var (
		body        []byte
		contentType string
	)
	switch r.Header.Get("Accept") {
	case "application/json":
		contentType = "application/json"
		body, err = json.Marshal(oapi)
	default:
		contentType = "text/yaml"
		body, err = yaml.Marshal(oapi)
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to encode openapi document", "error", err)
		http.Error(w, "failed to encode openapi document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(body); err != nil {
		log.ErrorContext(ctx, "Failed to write openapi document", "error", err)
	}
}
