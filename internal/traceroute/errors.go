// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"os/exec"
)

var (
	// ErrUnsupportedPlatform is returned when no traceroute tool is known for the running operating system.
	ErrUnsupportedPlatform = errors.New("no traceroute command available for this operating system")
	// ErrInvalidTarget is returned when the target cannot be handed to the traceroute tool.
	ErrInvalidTarget = errors.New("invalid trace target")
	// ErrBudgetExceeded is returned when the traceroute tool runs longer than
	// MaxHops * Timeout + Margin and had to be killed.
	ErrBudgetExceeded = errors.New("trace exceeded its time budget")
	// ErrSuperseded is the cancellation cause of a trace that was replaced by a newer one.
	ErrSuperseded = errors.New("trace superseded by a newer trace")
)

// isTraceError checks if the error is one of the
// expected outcomes of running a traceroute tool.
func isTraceError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) ||
		errors.Is(err, ErrBudgetExceeded) ||
		errors.Is(err, ErrSuperseded) ||
		errors.Is(err, context.Canceled)
}
