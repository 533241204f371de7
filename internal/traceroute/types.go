// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	// DefaultMaxHops is the hop limit used when [Options.MaxHops] is not set.
	DefaultMaxHops = 30
	// DefaultTimeout is the per-hop timeout used when [Options.Timeout] is not set.
	DefaultTimeout = 3 * time.Second
	// DefaultMargin is added to the overall time budget of a trace.
	DefaultMargin = 10 * time.Second
)

// Options contains the optional configuration for a trace.
type Options struct {
	// MaxHops is the maximum number of hops the traceroute tool probes.
	MaxHops int `json:"maxHops" yaml:"maxHops" mapstructure:"maxHops"`
	// Timeout is how long the tool waits for the response of a single hop.
	// The tools only accept whole seconds, so it is rounded up.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// Margin is added to MaxHops * Timeout to form the overall time budget of a trace.
	Margin time.Duration `json:"margin" yaml:"margin" mapstructure:"margin"`
	// Binary overrides the path of a traceroute tool, keyed by its default
	// name ("traceroute", "traceroute6" or "tracert").
	Binary map[string]string `json:"binary,omitempty" yaml:"binary,omitempty" mapstructure:"binary"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxHops: DefaultMaxHops,
		Timeout: DefaultTimeout,
		Margin:  DefaultMargin,
	}
}

// withDefaults fills unset fields with their default values.
func (o Options) withDefaults() Options {
	if o.MaxHops == 0 {
		o.MaxHops = DefaultMaxHops
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	return o
}

// Validate checks that the options can be passed to a traceroute tool.
func (o Options) Validate() error {
	var err error
	if o.MaxHops < 0 || o.MaxHops > 255 {
		err = errors.Join(err, fmt.Errorf("max hops must be between 1 and 255, got %d", o.MaxHops))
	}
	if o.Timeout < 0 {
		err = errors.Join(err, fmt.Errorf("timeout must be positive, got %s", o.Timeout))
	}
	if o.Margin < 0 {
		err = errors.Join(err, fmt.Errorf("margin must not be negative, got %s", o.Margin))
	}
	return err
}

// waitSeconds returns the per-hop timeout in whole seconds, at least one.
func (o Options) waitSeconds() int {
	s := int(math.Ceil(o.Timeout.Seconds()))
	return max(s, 1)
}

// Hop is a single step of a network path as reported by the traceroute tool.
// Empty strings and a nil RoundTripMs mean the value was not reported.
type Hop struct {
	// Number is the 1-based position of the hop.
	Number int `json:"hopNumber" yaml:"hopNumber"`
	// Address is the IPv4 or IPv6 address of the responding device.
	Address string `json:"address" yaml:"address"`
	// Hostname is the reverse-DNS name of the responding device.
	// It is never equal to Address.
	Hostname string `json:"hostname" yaml:"hostname"`
	// RoundTripMs is the first latency the tool reported for this hop.
	// tracert prints latencies below one millisecond as "<1 ms", which is
	// recorded as 1.
	RoundTripMs *float64 `json:"roundTripMs" yaml:"roundTripMs"`
}

// Timeout reports whether no device responded for this hop.
func (h Hop) Timeout() bool {
	return h.Address == "" && h.Hostname == ""
}

func (h Hop) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Number      int      `json:"hopNumber"`
		Address     *string  `json:"address"`
		Hostname    *string  `json:"hostname"`
		RoundTripMs *float64 `json:"roundTripMs"`
	}{
		Number:      h.Number,
		Address:     nullable(h.Address),
		Hostname:    nullable(h.Hostname),
		RoundTripMs: h.RoundTripMs,
	})
}

func (h Hop) String() string {
	const maxNameLength = 45
	name := h.Hostname
	if name == "" || len(name) > maxNameLength {
		name = h.Address
	}
	if name == "" {
		name = "*"
	}

	addr := ""
	if name == h.Hostname && h.Address != "" {
		addr = " (" + h.Address + ")"
	}

	latency := "*"
	if h.RoundTripMs != nil {
		latency = strconv.FormatFloat(*h.RoundTripMs, 'f', 3, 64) + " ms"
	}

	return fmt.Sprintf("%-2d  %s%s  %s", h.Number, name, addr, latency)
}

// Result is the terminal record of one trace.
type Result struct {
	// Target is the normalized hostname or address the trace ran against.
	Target string `json:"target" yaml:"target"`
	// Hops are the hops in discovery order.
	Hops []Hop `json:"hops" yaml:"hops"`
	// StartedAt is the time the trace was requested.
	StartedAt time.Time `json:"startedAt" yaml:"startedAt"`
	// Complete is true when the tool exited successfully or at least one hop was recovered.
	Complete bool `json:"complete" yaml:"complete"`
	// Error describes why the trace did not complete or did not run cleanly.
	Error string `json:"error" yaml:"error,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	hops := r.Hops
	if hops == nil {
		hops = []Hop{}
	}
	return json.Marshal(&struct {
		alias
		Hops  []Hop   `json:"hops"`
		Error *string `json:"error"`
	}{
		alias: alias(r),
		Hops:  hops,
		Error: nullable(r.Error),
	})
}

// EventKind distinguishes the events of a trace stream.
type EventKind int

const (
	// EventHop carries a newly discovered hop.
	EventHop EventKind = iota + 1
	// EventComplete carries the final result of a trace. It is the last event of a stream.
	EventComplete
)

func (k EventKind) String() string {
	switch k {
	case EventHop:
		return "hop"
	case EventComplete:
		return "complete"
	default:
		return "unknown"
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is emitted on a trace stream. Hop is set for [EventHop], Result for [EventComplete].
type Event struct {
	Kind   EventKind
	Hop    Hop
	Result Result
}

func (e Event) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind   EventKind `json:"type"`
		Hop    *Hop      `json:"hop,omitempty"`
		Result *Result   `json:"result,omitempty"`
	}{Kind: e.Kind}

	switch e.Kind {
	case EventHop:
		out.Hop = &e.Hop
	case EventComplete:
		out.Result = &e.Result
	}
	return json.Marshal(out)
}

// State is the lifecycle state of a trace.
type State int

const (
	StateIdle State = iota
	StateSpawning
	StateStreaming
	StateFinalizing
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpawning:
		return "spawning"
	case StateStreaming:
		return "streaming"
	case StateFinalizing:
		return "finalizing"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
