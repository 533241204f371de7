// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"net/netip"
	"regexp"
	"strconv"
	"strings"
)

var (
	// hopLine matches the leading hop number of a hop line.
	hopLine = regexp.MustCompile(`^\s*(\d+)\s+(.*)$`)
	// timeoutLine matches a remainder made only of unanswered probe markers,
	// optionally followed by the message tracert prints for them.
	timeoutLine = regexp.MustCompile(`^(?:\*\s*)+(?:Request timed out\.?)?$`)
	// namedAddress matches "host (address)" as printed by traceroute and
	// "host [address]" as printed by tracert.
	namedAddress = regexp.MustCompile(`(\S+)\s+[(\[]([0-9A-Fa-f.:%]+)[)\]]`)
	// latency matches a round-trip time such as "1.234 ms", "12ms" or "<1 ms".
	// The bound of "<1 ms" is taken as the latency.
	latency = regexp.MustCompile(`(?:^|\s)<?(\d+(?:\.\d+)?)\s*ms\b`)
	// hostname matches the characters a DNS name printed by the tools can have.
	hostname = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_.-]*[A-Za-z0-9_.])?$`)
	// hyphenatedIPv6 matches 4 to 8 hyphen separated hextets, an IPv6
	// address encoded in a DNS label, e.g. "2001-db8-0-1".
	hyphenatedIPv6 = regexp.MustCompile(`^[0-9A-Fa-f]{1,4}(?:-[0-9A-Fa-f]{1,4}){3,7}$`)
)

// ParseLine decodes a single line of traceroute or tracert output.
// It returns false for everything that is not a hop line, like banners,
// headers, blank lines or diagnostic noise.
func ParseLine(line string) (Hop, bool) {
	m := hopLine.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return Hop{}, false
	}

	number, err := strconv.Atoi(m[1])
	if err != nil || number < 1 {
		return Hop{}, false
	}
	hop := Hop{Number: number}

	rest := strings.TrimSpace(m[2])
	if rest == "" {
		return Hop{}, false
	}
	if timeoutLine.MatchString(rest) {
		return hop, true
	}

	hop.Address, hop.Hostname = parseResponder(rest)
	if hop.Address == "" && hop.Hostname == "" {
		return Hop{}, false
	}
	hop.RoundTripMs = parseLatency(rest)

	return hop, true
}

// parseResponder extracts the address and hostname of the device that
// answered the probe. The hostname is dropped if it only repeats the address.
func parseResponder(rest string) (address, name string) {
	if m := namedAddress.FindStringSubmatch(rest); m != nil {
		if addr, err := netip.ParseAddr(m[2]); err == nil {
			address = addr.String()
			if m[1] != m[2] && m[1] != address {
				name = m[1]
			}
			return address, name
		}
	}

	tokens := responderTokens(rest)
	for _, tok := range tokens {
		if addr, err := netip.ParseAddr(tok); err == nil && addr.Is4() {
			return addr.String(), ""
		}
	}
	for _, tok := range tokens {
		if !strings.Contains(tok, ":") {
			continue
		}
		if addr, err := netip.ParseAddr(tok); err == nil && addr.Is6() {
			return addr.String(), ""
		}
	}

	for _, tok := range tokens {
		if !hostname.MatchString(tok) {
			continue
		}
		return decodeHyphenatedIPv6(tok), tok
	}
	return "", ""
}

// responderTokens splits the remainder of a hop line into tokens after
// removing latencies, unanswered probe markers and annotations like "!H".
func responderTokens(rest string) []string {
	fields := strings.Fields(latency.ReplaceAllString(rest, " "))
	tokens := fields[:0]
	for _, f := range fields {
		if f == "*" || strings.HasPrefix(f, "!") || f == "ms" {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// decodeHyphenatedIPv6 returns the IPv6 address encoded in the leading label
// of name, or an empty string if the label does not encode one.
func decodeHyphenatedIPv6(name string) string {
	label, _, _ := strings.Cut(name, ".")
	if !hyphenatedIPv6.MatchString(label) {
		return ""
	}
	return strings.ReplaceAll(label, "-", ":")
}

// parseLatency returns the first round-trip time of the remainder. A value
// that is not a valid number is treated as no latency.
func parseLatency(rest string) *float64 {
	m := latency.FindStringSubmatch(rest)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}
