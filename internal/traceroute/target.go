// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"fmt"
	"net/netip"
	"strings"

	"golang.org/x/net/idna"
)

// normalizeTarget prepares a bare hostname or IP literal to be passed to the
// traceroute tool as a single process argument. Internationalized hostnames
// are converted to their ASCII form.
func normalizeTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	switch {
	case target == "":
		return "", fmt.Errorf("%w: target cannot be empty", ErrInvalidTarget)
	case strings.HasPrefix(target, "-"):
		return "", fmt.Errorf("%w: target %q must not start with '-'", ErrInvalidTarget, target)
	case strings.ContainsAny(target, " \t/?#@"):
		return "", fmt.Errorf("%w: target %q must be a bare hostname or address", ErrInvalidTarget, target)
	}

	if isIPv6(target) {
		addr, err := netip.ParseAddr(strings.TrimSuffix(strings.TrimPrefix(target, "["), "]"))
		if err != nil || !addr.Is6() {
			return "", fmt.Errorf("%w: %q is not a valid IPv6 address", ErrInvalidTarget, target)
		}
		return addr.String(), nil
	}

	if addr, err := netip.ParseAddr(target); err == nil {
		return addr.String(), nil
	}

	ascii, err := idna.Lookup.ToASCII(target)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	return ascii, nil
}

// isIPv6 reports whether the target is to be traced over IPv6.
// Hostnames never contain a colon, so any colon marks an IPv6 literal.
func isIPv6(target string) bool {
	return strings.Contains(target, ":")
}
