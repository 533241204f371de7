// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package traceroute discovers the network path to a target by running the
// traceroute tool of the operating system and parsing its output while it
// is produced.
//
// It exposes a [Tracer] that owns at most one running trace at a time and a
// pure [ParseLine] function that decodes a single line of tool output.
//
// Key features:
//   - Platform commands for Linux (traceroute), macOS (traceroute,
//     traceroute6) and Windows (tracert), selected per address family
//   - Incremental line buffering of both output streams, so hops are
//     delivered as soon as the tool prints them
//   - Last-writer-wins: starting a trace kills the running one and no event
//     of the superseded trace is delivered afterwards
//   - Partial paths count as complete: the tools exit non-zero when the
//     destination is unreachable, the hops up to that point are still returned
//   - An overall time budget of MaxHops * Timeout + Margin after which the
//     tool is killed
//   - OpenTelemetry span events and prometheus metrics per trace and hop
//
// Typical usage:
//
//	tracer := traceroute.NewTracer()
//	for ev := range tracer.Stream(ctx, "example.com", traceroute.DefaultOptions()) {
//		switch ev.Kind {
//		case traceroute.EventHop:
//			fmt.Println(ev.Hop)
//		case traceroute.EventComplete:
//			fmt.Println(ev.Result.Complete, ev.Result.Error)
//		}
//	}
package traceroute
