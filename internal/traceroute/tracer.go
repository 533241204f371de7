// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/hoptrace/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ Client = (*Tracer)(nil)

// TracerName is the name of the OpenTelemetry tracer that records traces.
const TracerName = "hoptrace/traceroute"

// Tracer runs the traceroute tool of the operating system and streams the
// hops it reports. At most one trace is active per Tracer: starting a trace
// supersedes the running one, whose process is killed before the new one is
// spawned.
type Tracer struct {
	// mu guards active and last
	mu sync.Mutex
	// active is the trace currently owned by the tracer
	active *run
	// last is the most recently started trace, kept after it was cancelled
	// until its process has exited
	last *run
	// tracer records a span per trace
	tracer trace.Tracer
	// goos selects the traceroute tool
	goos string
	// start spawns the traceroute tool
	start   startFunc
	metrics metrics
}

// NewTracer creates a tracer for the running operating system.
func NewTracer() *Tracer {
	return &Tracer{
		goos:    runtime.GOOS,
		start:   startProcess,
		tracer:  otel.Tracer(TracerName),
		metrics: newMetrics(),
	}
}

// run is a single trace attempt.
type run struct {
	target    string
	opts      Options
	startedAt time.Time
	// ctx is cancelled when the run is superseded or the caller gives up
	ctx    context.Context
	cancel context.CancelCauseFunc
	// superseded is set before ctx is cancelled by a newer run or CancelActive
	superseded atomic.Bool
	state      atomic.Int32
	events     chan Event
	// done is closed once the process of the run has exited
	done chan struct{}

	// mu guards the fields below, which are written from both output streams
	mu          sync.Mutex
	hops        []Hop
	last        int
	diagnostics []string
}

func newRun(ctx context.Context, target string, opts Options) *run {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancelCause(ctx)
	return &run{
		target:    target,
		opts:      opts,
		startedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
		// Hops beyond MaxHops are not expected, so sends only block on a slow consumer.
		events: make(chan Event, max(opts.MaxHops, 0)+1),
		done:   make(chan struct{}),
	}
}

func (r *run) setState(s State) {
	r.state.Store(int32(s)) // #nosec G115 // State has a handful of values
}

// supersede marks the run as replaced and kills its process.
func (r *run) supersede() {
	r.superseded.Store(true)
	r.cancel(ErrSuperseded)
}

// State returns the lifecycle state of the active trace.
func (t *Tracer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return StateIdle
	}
	return State(t.active.state.Load())
}

// Collectors returns the prometheus collectors of the tracer.
func (t *Tracer) Collectors() []prometheus.Collector {
	return t.metrics.List()
}

// CancelActive kills the active trace, if any, and clears it.
// No further events of that trace are delivered.
func (t *Tracer) CancelActive() {
	t.mu.Lock()
	r := t.active
	t.active = nil
	t.mu.Unlock()

	if r != nil {
		r.supersede()
	}
}

// Stream starts a trace to the target and returns its events. The channel
// receives an [EventHop] per discovered hop followed by exactly one
// [EventComplete], and is closed afterwards. If the trace is superseded or
// ctx is cancelled, the channel is closed without a completion event.
func (t *Tracer) Stream(ctx context.Context, target string, opts Options) <-chan Event {
	return t.begin(ctx, target, opts).events
}

// RunStreaming starts a trace to the target without blocking. onHop is called
// for every discovered hop in discovery order, onComplete once with the
// result afterwards. onComplete is never called for a superseded trace, since
// the result is only emitted while the trace still owns the tracer. A hop
// callback that is already running when the trace is superseded is not
// interrupted.
func (t *Tracer) RunStreaming(ctx context.Context, target string, opts Options, onHop func(Hop), onComplete func(Result)) {
	r := t.begin(ctx, target, opts)
	go func() {
		for ev := range r.events {
			if r.superseded.Load() {
				continue
			}
			switch ev.Kind {
			case EventHop:
				if onHop != nil {
					onHop(ev.Hop)
				}
			case EventComplete:
				if onComplete != nil {
					onComplete(ev.Result)
				}
			}
		}
	}()
}

// Run traces the target and blocks until the result is available.
// It returns [ErrSuperseded] if a newer trace replaced this one.
func (t *Tracer) Run(ctx context.Context, target string, opts Options) (Result, error) {
	for ev := range t.Stream(ctx, target, opts) {
		if ev.Kind == EventComplete {
			return ev.Result, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return Result{}, ErrSuperseded
}

// begin installs a new run as the active one, supersedes the previous one
// and starts executing the new run in the background. The new run waits for
// the process of the previously started run, even if that one was already
// cancelled through CancelActive.
func (t *Tracer) begin(ctx context.Context, target string, opts Options) *run {
	r := newRun(ctx, target, opts)

	t.mu.Lock()
	active, prev := t.active, t.last
	t.active, t.last = r, r
	t.mu.Unlock()

	if active != nil {
		active.supersede()
	}

	go t.execute(r, prev)
	return r
}

// execute runs the traceroute tool for r once prev has exited and delivers the result.
func (t *Tracer) execute(r *run, prev *run) {
	defer r.cancel(nil)
	defer close(r.done)
	r.setState(StateSpawning)

	ctx, span := t.tracer.Start(r.ctx, "Trace", trace.WithAttributes(
		attribute.String("traceroute.target", r.target),
		attribute.Int("traceroute.options.max_hops", r.opts.MaxHops),
		attribute.Stringer("traceroute.options.timeout", r.opts.Timeout),
	))
	defer span.End()
	log := logger.FromContext(ctx).With("target", r.target)
	ctx = logger.IntoContext(ctx, log)

	if err := r.opts.Validate(); err != nil {
		t.finish(ctx, r, wrapError(ctx, err, "invalid trace options"))
		return
	}
	target, err := normalizeTarget(r.target)
	if err != nil {
		t.finish(ctx, r, wrapError(ctx, err, "invalid trace target"))
		return
	}
	r.target = target

	cmd, err := commandFor(t.goos, target, r.opts)
	if err != nil {
		t.finish(ctx, r, wrapError(ctx, err, "failed to select traceroute command"))
		return
	}

	// Never own more than one live process.
	if prev != nil {
		<-prev.done
	}
	if ctx.Err() != nil {
		t.finish(ctx, r, nil)
		return
	}

	budget := cmd.budget(r.opts.Margin)
	execCtx, stop := context.WithTimeoutCause(ctx, budget, ErrBudgetExceeded)
	defer stop()

	stdout := newLineWriter(func(line string) { t.handleLine(ctx, r, line, false) })
	stderr := newLineWriter(func(line string) { t.handleLine(ctx, r, line, true) })

	log.DebugContext(ctx, "Starting traceroute", "command", cmd.name, "args", cmd.args, "budget", budget)
	proc, err := t.start(execCtx, cmd, stdout, stderr)
	if err != nil {
		t.finish(ctx, r, wrapError(ctx, err, "failed to start %s", cmd.name))
		return
	}

	r.setState(StateStreaming)
	waitErr := proc.Wait()

	r.setState(StateFinalizing)
	stdout.Flush()
	stderr.Flush()

	switch {
	case ctx.Err() != nil:
		waitErr = nil
	case errors.Is(context.Cause(execCtx), ErrBudgetExceeded):
		waitErr = wrapError(ctx, fmt.Errorf("%w of %s", ErrBudgetExceeded, budget), "traceroute killed")
	case waitErr != nil:
		waitErr = wrapError(ctx, waitErr, "%s exited unsuccessfully", cmd.name)
	}
	t.finish(ctx, r, waitErr)
}

// handleLine parses a line of tool output and delivers the hop it contains.
// Hops must arrive in increasing order; a hop number that was already
// delivered is dropped so the first occurrence stays authoritative.
func (t *Tracer) handleLine(ctx context.Context, r *run, line string, fromStderr bool) {
	hop, ok := ParseLine(line)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctx.Err() != nil {
		return
	}

	if !ok {
		if fromStderr && strings.TrimSpace(line) != "" && len(r.diagnostics) < maxDiagnostics {
			r.diagnostics = append(r.diagnostics, strings.TrimSpace(line))
		}
		return
	}
	if hop.Number <= r.last {
		logger.FromContext(ctx).DebugContext(ctx, "Dropping out of order hop", "hop", hop.Number, "last", r.last)
		return
	}
	r.last = hop.Number
	r.hops = append(r.hops, hop)

	trace.SpanFromContext(ctx).AddEvent("Hop discovered", trace.WithAttributes(
		attribute.Int("traceroute.hop.number", hop.Number),
		attribute.Stringer("traceroute.hop", hop),
		attribute.Bool("traceroute.hop.timeout", hop.Timeout()),
	))
	t.metrics.hop()

	select {
	case r.events <- Event{Kind: EventHop, Hop: hop}:
	case <-r.ctx.Done():
	}
}

// finish builds the result of r and delivers it, unless r is no longer the
// active trace. runErr is the reason the trace did not run cleanly.
func (t *Tracer) finish(ctx context.Context, r *run, runErr error) {
	defer close(r.events)
	log := logger.FromContext(ctx)

	r.mu.Lock()
	hops := make([]Hop, len(r.hops))
	copy(hops, r.hops)
	diagnostics := r.diagnostics
	r.mu.Unlock()

	t.mu.Lock()
	owned := t.active == r
	if owned {
		t.active = nil
	}
	t.mu.Unlock()

	span := trace.SpanFromContext(ctx)
	if !owned || r.ctx.Err() != nil {
		log.DebugContext(ctx, "Discarding result of cancelled trace", "cause", context.Cause(r.ctx), "hops", len(hops))
		span.SetAttributes(attribute.Bool("traceroute.superseded", r.superseded.Load()), attribute.Int("traceroute.hops", len(hops)))
		t.metrics.superseded()
		return
	}

	res := Result{
		Target:    r.target,
		Hops:      hops,
		StartedAt: r.startedAt,
	}
	switch {
	case runErr == nil:
		res.Complete = true
	case errors.Is(runErr, ErrBudgetExceeded):
		res.Error = runErr.Error()
	case len(hops) > 0:
		// The tools commonly exit non-zero when the destination is
		// unreachable, the path up to that point is still valid.
		res.Complete = true
		res.Error = runErr.Error()
	default:
		res.Error = failureMessage(runErr, diagnostics)
	}

	r.setState(StateTerminal)
	if runErr != nil {
		span.RecordError(runErr)
	}
	if !res.Complete {
		span.SetStatus(codes.Error, res.Error)
	}
	span.SetAttributes(
		attribute.Int("traceroute.hops", len(hops)),
		attribute.Bool("traceroute.complete", res.Complete),
	)
	t.metrics.finished(res, time.Since(r.startedAt))
	logHops(ctx, hops)
	log.InfoContext(ctx, "Trace finished", "hops", len(hops), "complete", res.Complete, "error", res.Error)

	select {
	case r.events <- Event{Kind: EventComplete, Result: res}:
	case <-r.ctx.Done():
	}
}
