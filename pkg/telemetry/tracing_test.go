// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

func TestNewResource(t *testing.T) {
	res, err := newResource(context.Background(), "edge-fra-1", "darwin")
	require.NoError(t, err)

	set := res.Set()
	for key, want := range map[attribute.Key]string{
		semconv.ServiceNameKey:       serviceName,
		semconv.ServiceInstanceIDKey: "edge-fra-1",
		PlatformKey:                  "darwin",
	} {
		got, ok := set.Value(key)
		require.True(t, ok, "resource attribute %s missing", key)
		assert.Equal(t, want, got.AsString(), string(key))
	}
}

func TestNewSampler(t *testing.T) {
	// The lower half of the trace id decides the ratio based sampling.
	unlikely := trace.TraceID{0x01, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	likely := trace.TraceID{0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x01}

	sampledParent := trace.ContextWithRemoteSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    unlikely,
		SpanID:     trace.SpanID{0x01},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))

	tests := []struct {
		name   string
		ratio  float64
		ctx    context.Context
		id     trace.TraceID
		wanted sdktrace.SamplingDecision
	}{
		{name: "zero ratio records every trace", ratio: 0, ctx: context.Background(), id: unlikely, wanted: sdktrace.RecordAndSample},
		{name: "ratio drops high trace ids", ratio: 0.5, ctx: context.Background(), id: unlikely, wanted: sdktrace.Drop},
		{name: "ratio keeps low trace ids", ratio: 0.5, ctx: context.Background(), id: likely, wanted: sdktrace.RecordAndSample},
		{name: "sampled caller wins over ratio", ratio: 0.5, ctx: sampledParent, id: unlikely, wanted: sdktrace.RecordAndSample},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler := newSampler(&Config{SampleRatio: tt.ratio})
			got := sampler.ShouldSample(sdktrace.SamplingParameters{
				ParentContext: tt.ctx,
				TraceID:       tt.id,
				Name:          "Trace",
				Kind:          trace.SpanKindServer,
			})
			assert.Equal(t, tt.wanted, got.Decision)
		})
	}
}
