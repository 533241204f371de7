// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package hoptrace

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/hoptrace/internal/traceroute"
	"github.com/telekom/hoptrace/pkg/api"
	"github.com/telekom/hoptrace/pkg/config"
	"github.com/telekom/hoptrace/pkg/telemetry"
)

func newMockedHoptrace(runAPI func(ctx context.Context) error) (*Hoptrace, *api.APIMock, *telemetry.ProviderMock, *traceroute.ClientMock) {
	registry := prometheus.NewRegistry()
	a := &api.APIMock{
		RegisterRoutesFunc: func(context.Context, ...api.Route) error { return nil },
		RunFunc:            runAPI,
		ShutdownFunc:       func(context.Context) error { return nil },
	}
	tel := &telemetry.ProviderMock{
		GetRegistryFunc: func() *prometheus.Registry { return registry },
		InitTracingFunc: func(context.Context) error { return nil },
		ShutdownFunc:    func(context.Context) error { return nil },
	}
	client := &traceroute.ClientMock{CancelActiveFunc: func() {}}

	return &Hoptrace{
		config:    &config.Config{Trace: traceroute.DefaultOptions()},
		api:       a,
		tracer:    client,
		telemetry: tel,
		cErr:      make(chan error, 1),
		cDone:     make(chan struct{}, 1),
	}, a, tel, client
}

func runAsync(ctx context.Context, h *Hoptrace) <-chan error {
	errC := make(chan error, 1)
	go func() { errC <- h.Run(ctx) }()
	return errC
}

func awaitRun(t *testing.T, errC <-chan error) error {
	t.Helper()
	select {
	case err := <-errC:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("hoptrace did not shut down in time")
		return nil
	}
}

func TestHoptrace_Run_ContextCancel(t *testing.T) {
	h, a, tel, client := newMockedHoptrace(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	ctx, cancel := context.WithCancel(t.Context())
	errC := runAsync(ctx, h)

	require.Eventually(t, func() bool { return len(a.RunCalls()) == 1 }, time.Second, time.Millisecond)
	cancel()

	assert.ErrorIs(t, awaitRun(t, errC), ErrFinalShutdown)
	assert.Len(t, a.ShutdownCalls(), 1)
	assert.Len(t, tel.ShutdownCalls(), 1)
	assert.Len(t, client.CancelActiveCalls(), 1)

	require.Len(t, a.RegisterRoutesCalls(), 1)
	routes := a.RegisterRoutesCalls()[0].Routes
	var registered []string
	for _, r := range routes {
		registered = append(registered, r.Method+" "+r.Path)
	}
	assert.ElementsMatch(t, []string{
		http.MethodGet + " /v1/trace",
		http.MethodDelete + " /v1/trace",
		http.MethodGet + " /openapi",
		http.MethodGet + " /metrics",
	}, registered)
}

func TestHoptrace_Run_APIFailure(t *testing.T) {
	h, a, tel, _ := newMockedHoptrace(func(context.Context) error {
		return errors.New("address already in use")
	})

	assert.ErrorIs(t, awaitRun(t, runAsync(t.Context(), h)), ErrFinalShutdown)
	assert.Len(t, a.ShutdownCalls(), 1)
	assert.Len(t, tel.ShutdownCalls(), 1)
}

func TestHoptrace_Run_TracingFailure(t *testing.T) {
	h, a, tel, _ := newMockedHoptrace(func(context.Context) error { return nil })
	tel.InitTracingFunc = func(context.Context) error { return assert.AnError }

	err := awaitRun(t, runAsync(t.Context(), h))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, a.RunCalls())
}

func TestNew_RegistersInstanceInfo(t *testing.T) {
	h := New(&config.Config{Telemetry: telemetry.Config{InstanceName: "edge-fra-1"}})

	families, err := h.telemetry.GetRegistry().Gather()
	require.NoError(t, err)
	var instances []string
	for _, f := range families {
		if f.GetName() != "hoptrace_instance_info" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "instance_name" {
					instances = append(instances, l.GetValue())
				}
			}
		}
	}
	assert.Equal(t, []string{"edge-fra-1"}, instances)
}

func TestHoptrace_shutdown_once(t *testing.T) {
	h, a, tel, client := newMockedHoptrace(nil)
	a.ShutdownFunc = func(context.Context) error { return assert.AnError }

	h.shutdown(t.Context())
	h.shutdown(t.Context())

	assert.Len(t, a.ShutdownCalls(), 1)
	assert.Len(t, tel.ShutdownCalls(), 1)
	assert.Len(t, client.CancelActiveCalls(), 1)
	assert.Len(t, h.cDone, 1)
}

func TestErrShutdown(t *testing.T) {
	assert.False(t, ErrShutdown{}.HasError())
	e := ErrShutdown{errAPI: assert.AnError}
	assert.True(t, e.HasError())
	assert.Contains(t, e.Error(), assert.AnError.Error())
}
