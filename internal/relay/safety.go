package relay

import (
	"net"
	"net/url"

	"nostr-search/internal/util"
)

// IsURLSafe validates that a relay URL is safe to connect to.
// Allows localhost for development but blocks other private IP ranges.
func IsURLSafe(relayURL string) bool {
	parsed, err := url.Parse(relayURL)
	if err != nil {
		return false
	}

	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return false
	}

	host := parsed.Hostname()
	if host == "" {
		return false
	}

	if util.IsLoopbackHost(host) {
		return true
	}

	if ip := net.ParseIP(host); ip != nil {
		return isIPSafe(ip)
	}

	// Unresolvable hosts are allowed unless they look internal; the dial fails anyway.
	ips, err := net.LookupIP(host)
	if err != nil {
		return !util.IsInternalHost(host)
	}

	for _, ip := range ips {
		if !isIPSafe(ip) {
			return false
		}
	}
	return true
}

// isIPSafe allows loopback but blocks private, link-local, unspecified and multicast ranges
// (169.254.169.254 metadata included).
func isIPSafe(ip net.IP) bool {
	if ip == nil {
		return false
	}
	if ip.IsLoopback() {
		return true
	}
	return !ip.IsPrivate() &&
		!ip.IsLinkLocalUnicast() &&
		!ip.IsLinkLocalMulticast() &&
		!ip.IsUnspecified() &&
		!ip.IsMulticast()
}

// IsRelayURL reports whether s has a websocket scheme and a host
func IsRelayURL(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "ws" || parsed.Scheme == "wss") && parsed.Host != ""
}
