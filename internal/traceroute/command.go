// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"fmt"
	"strconv"
	"time"
)

// command is a traceroute tool invocation.
type command struct {
	// name is the binary to execute.
	name string
	// args are the arguments, the target being the last one.
	args []string
	// hops is the maximum number of hops the tool probes.
	hops int
	// probes is the number of probes the tool sends per hop.
	probes int
	// wait is the per-hop timeout passed to the tool.
	wait time.Duration
}

// budget returns the wall-clock time the tool may run before it is killed.
func (c command) budget(margin time.Duration) time.Duration {
	return time.Duration(c.hops*c.probes)*c.wait + margin
}

// commandFor selects the traceroute tool and its arguments for the given
// operating system. Targets containing a colon are traced over IPv6.
func commandFor(goos, target string, opts Options) (command, error) {
	maxHops := strconv.Itoa(opts.MaxHops)
	wait := opts.waitSeconds()
	v6 := isIPv6(target)

	var c command
	switch goos {
	case "linux":
		c = command{name: "traceroute", probes: 1}
		if v6 {
			c.args = append(c.args, "-6")
		}
		c.args = append(c.args, "-q", "1", "-m", maxHops, "-w", strconv.Itoa(wait), target)
	case "darwin":
		c = command{name: "traceroute", probes: 1}
		if v6 {
			c.name = "traceroute6"
		}
		c.args = []string{"-q", "1", "-m", maxHops, "-w", strconv.Itoa(wait), target}
	case "windows":
		// tracert always sends three probes per hop and takes the timeout in milliseconds.
		c = command{name: "tracert", probes: 3}
		family := "-4"
		if v6 {
			family = "-6"
		}
		c.args = []string{family, "-h", maxHops, "-w", strconv.Itoa(wait * 1000), target}
	default:
		return command{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}

	c.wait = time.Duration(wait) * time.Second
	c.hops = opts.MaxHops
	if bin, ok := opts.Binary[c.name]; ok && bin != "" {
		c.name = bin
	}
	return c, nil
}
