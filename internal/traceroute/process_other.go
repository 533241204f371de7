// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package traceroute

import "os/exec"

// configureProcess keeps the default behaviour of killing the process on cancellation.
func configureProcess(*exec.Cmd) {}
