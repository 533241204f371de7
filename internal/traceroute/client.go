// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
)

// Client is able to trace the network path to a target.
//
//go:generate go tool moq -out client_moq.go . Client
type Client interface {
	// Stream starts a trace and returns the channel its events are delivered on.
	Stream(ctx context.Context, target string, opts Options) <-chan Event
	// RunStreaming starts a trace and delivers its hops and result to the callbacks.
	RunStreaming(ctx context.Context, target string, opts Options, onHop func(Hop), onComplete func(Result))
	// Run traces the target and blocks until the result is available.
	Run(ctx context.Context, target string, opts Options) (Result, error)
	// CancelActive kills the active trace, if any.
	CancelActive()
}
