// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"io"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait keeps draining the output
// pipes after the process was killed.
const waitDelay = 2 * time.Second

// process is a started traceroute tool.
type process interface {
	// Wait blocks until the process has exited and its output was written.
	Wait() error
}

// startFunc starts the command, writing its standard output and standard
// error to the given writers. The process is killed once ctx is done.
type startFunc func(ctx context.Context, c command, stdout, stderr io.Writer) (process, error)

// startProcess starts the command as an operating system process.
func startProcess(ctx context.Context, c command, stdout, stderr io.Writer) (process, error) {
	cmd := exec.CommandContext(ctx, c.name, c.args...) // #nosec G204 // arguments are built by commandFor
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}
