// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/hoptrace/internal/helper"
	"github.com/telekom/hoptrace/internal/traceroute"
	"github.com/telekom/hoptrace/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"gopkg.in/yaml.v3"
)

func rtt(v float64) *float64 {
	return &v
}

var (
	testHops = []traceroute.Hop{
		{Number: 1, Address: "192.0.2.1", RoundTripMs: rtt(0.5)},
		{Number: 2},
		{Number: 3, Address: "198.51.100.3", Hostname: "edge.example.net", RoundTripMs: rtt(12.25)},
	}
	testStarted = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func completeResult(target string) traceroute.Result {
	return traceroute.Result{Target: target, Hops: testHops, StartedAt: testStarted, Complete: true}
}

func streamOf(res traceroute.Result) <-chan traceroute.Event {
	ch := make(chan traceroute.Event, len(res.Hops)+1)
	for _, h := range res.Hops {
		ch <- traceroute.Event{Kind: traceroute.EventHop, Hop: h}
	}
	ch <- traceroute.Event{Kind: traceroute.EventComplete, Result: res}
	close(ch)
	return ch
}

func testConfig() *config.Config {
	return &config.Config{Trace: traceroute.DefaultOptions()}
}

func TestRunTrace_text(t *testing.T) {
	tests := []struct {
		name    string
		result  traceroute.Result
		wantErr error
		want    []string
	}{
		{
			name:   "complete trace",
			result: completeResult("example.com"),
			want: []string{
				"trace to example.com, 30 hops max",
				testHops[0].String(),
				testHops[1].String(),
				testHops[2].String(),
				"trace complete with 3 hops",
			},
		},
		{
			name: "partial trace",
			result: traceroute.Result{
				Target: "example.com", Hops: testHops[:2], Complete: true, Error: "exit status 1",
			},
			want: []string{
				"trace to example.com, 30 hops max",
				testHops[0].String(),
				testHops[1].String(),
				"trace complete with 2 hops (exit status 1)",
			},
		},
		{
			name:    "incomplete trace",
			result:  traceroute.Result{Target: "example.com", Error: "executable file not found in $PATH"},
			wantErr: ErrIncompleteTrace,
			want: []string{
				"trace to example.com, 30 hops max",
				"trace incomplete: executable file not found in $PATH",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &traceroute.ClientMock{
				StreamFunc: func(_ context.Context, _ string, _ traceroute.Options) <-chan traceroute.Event {
					return streamOf(tt.result)
				},
			}
			var out bytes.Buffer

			err := runTrace(t.Context(), testConfig(), client, []string{"example.com"}, outputText, &out)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
			require.Len(t, client.StreamCalls(), 1)
			assert.Equal(t, traceroute.DefaultOptions(), client.StreamCalls()[0].Opts)
		})
	}
}

func TestRunTrace_textSuperseded(t *testing.T) {
	client := &traceroute.ClientMock{
		StreamFunc: func(_ context.Context, _ string, _ traceroute.Options) <-chan traceroute.Event {
			ch := make(chan traceroute.Event, 1)
			ch <- traceroute.Event{Kind: traceroute.EventHop, Hop: testHops[0]}
			close(ch)
			return ch
		},
	}

	err := runTrace(t.Context(), testConfig(), client, []string{"example.com"}, outputText, &bytes.Buffer{})
	assert.ErrorIs(t, err, traceroute.ErrSuperseded)
}

func TestRunTrace_textCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	client := &traceroute.ClientMock{
		StreamFunc: func(_ context.Context, _ string, _ traceroute.Options) <-chan traceroute.Event {
			cancel()
			ch := make(chan traceroute.Event)
			close(ch)
			return ch
		},
	}

	err := runTrace(ctx, testConfig(), client, []string{"example.com", "example.org"}, outputText, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, client.StreamCalls(), 1)
}

func TestRunTrace_structured(t *testing.T) {
	targets := []string{"example.com", "192.0.2.1"}
	client := &traceroute.ClientMock{
		RunFunc: func(_ context.Context, target string, _ traceroute.Options) (traceroute.Result, error) {
			return completeResult(target), nil
		},
	}

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runTrace(t.Context(), testConfig(), client, targets, outputJSON, &out))

		var got []map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "example.com", got[0]["target"])
		assert.Equal(t, "192.0.2.1", got[1]["target"])
		assert.Nil(t, got[0]["error"])
		hops := got[0]["hops"].([]any)
		require.Len(t, hops, 3)
		assert.Nil(t, hops[1].(map[string]any)["address"])
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runTrace(t.Context(), testConfig(), client, targets, outputYAML, &out))

		var got []traceroute.Result
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
		want := []traceroute.Result{completeResult("example.com"), completeResult("192.0.2.1")}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("yaml output mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRunTrace_retry(t *testing.T) {
	tests := []struct {
		name      string
		retry     helper.RetryConfig
		results   []traceroute.Result
		wantCalls int
		wantErr   error
	}{
		{
			name:  "retried until hops are found",
			retry: helper.RetryConfig{Count: 2, Delay: time.Millisecond},
			results: []traceroute.Result{
				{Target: "example.com", Error: "exit status 2"},
				completeResult("example.com"),
			},
			wantCalls: 2,
		},
		{
			name:  "retries exhausted",
			retry: helper.RetryConfig{Count: 1, Delay: time.Millisecond},
			results: []traceroute.Result{
				{Target: "example.com", Error: "exit status 2"},
				{Target: "example.com", Error: "exit status 2"},
			},
			wantCalls: 2,
			wantErr:   ErrIncompleteTrace,
		},
		{
			name:  "partial path is not retried",
			retry: helper.RetryConfig{Count: 3, Delay: time.Millisecond},
			results: []traceroute.Result{
				{Target: "example.com", Hops: testHops[:1], Error: "budget exceeded"},
			},
			wantCalls: 1,
			wantErr:   ErrIncompleteTrace,
		},
		{
			name:  "no retries configured",
			retry: helper.RetryConfig{},
			results: []traceroute.Result{
				{Target: "example.com", Error: "exit status 2"},
			},
			wantCalls: 1,
			wantErr:   ErrIncompleteTrace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := &traceroute.ClientMock{
				RunFunc: func(_ context.Context, _ string, _ traceroute.Options) (traceroute.Result, error) {
					res := tt.results[calls]
					calls++
					return res, nil
				},
			}
			cfg := testConfig()
			cfg.Retry = tt.retry

			err := runTrace(t.Context(), cfg, client, []string{"example.com"}, outputJSON, &bytes.Buffer{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, client.RunCalls(), tt.wantCalls)
		})
	}
}

func TestRunTrace_abortIsNotRetried(t *testing.T) {
	client := &traceroute.ClientMock{
		RunFunc: func(_ context.Context, _ string, _ traceroute.Options) (traceroute.Result, error) {
			return traceroute.Result{}, traceroute.ErrSuperseded
		},
	}
	cfg := testConfig()
	cfg.Retry = helper.RetryConfig{Count: 3, Delay: time.Millisecond}

	err := runTrace(t.Context(), cfg, client, []string{"example.com", "example.org"}, outputJSON, &bytes.Buffer{})
	assert.ErrorIs(t, err, traceroute.ErrSuperseded)
	assert.Len(t, client.RunCalls(), 1)
}

func TestRunTrace_spans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(noop.NewTracerProvider())
	})

	var parents []trace.SpanID
	client := &traceroute.ClientMock{
		RunFunc: func(ctx context.Context, target string, _ traceroute.Options) (traceroute.Result, error) {
			parents = append(parents, trace.SpanContextFromContext(ctx).SpanID())
			if target == "example.org" && len(parents) == 2 {
				return traceroute.Result{Target: target, Error: "exit status 2"}, nil
			}
			return completeResult(target), nil
		},
	}
	cfg := testConfig()
	cfg.Retry = helper.RetryConfig{Count: 1, Delay: time.Millisecond}

	err := runTrace(t.Context(), cfg, client, []string{"example.com", "example.org"}, outputJSON, &bytes.Buffer{})
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	require.Len(t, parents, 3)
	for i, want := range []struct {
		target   string
		attempts int64
	}{{"example.com", 1}, {"example.org", 2}} {
		span := spans[i]
		assert.Equal(t, "Trace target", span.Name())
		attrs := map[string]any{}
		for _, kv := range span.Attributes() {
			attrs[string(kv.Key)] = kv.Value.AsInterface()
		}
		assert.Equal(t, want.target, attrs["traceroute.target"])
		assert.Equal(t, want.attempts, attrs["hoptrace.attempts"])
		assert.Equal(t, true, attrs["traceroute.complete"])
		assert.Equal(t, codes.Unset, span.Status().Code)
	}
	assert.Equal(t, []trace.SpanID{
		spans[0].SpanContext().SpanID(),
		spans[1].SpanContext().SpanID(),
		spans[1].SpanContext().SpanID(),
	}, parents, "every attempt must run within the span of its target")
}

func TestCollectTargets(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "targets.yaml")
	require.NoError(t, os.WriteFile(file, []byte("targets:\n  - example.org\n  - 2001:db8::1\n"), 0o600))

	tests := []struct {
		name    string
		args    []string
		file    string
		want    []string
		wantErr error
	}{
		{name: "arguments only", args: []string{"example.com"}, want: []string{"example.com"}},
		{name: "file only", file: file, want: []string{"example.org", "2001:db8::1"}},
		{
			name: "arguments before file",
			args: []string{"example.com"},
			file: file,
			want: []string{"example.com", "example.org", "2001:db8::1"},
		},
		{name: "nothing", wantErr: ErrNoTargetsGiven},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Targets.File = tt.file

			got, err := collectTargets(t.Context(), cfg, tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
