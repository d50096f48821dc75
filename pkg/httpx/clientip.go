package httpx

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the caller's address. Forwarding headers are attacker
// controlled unless a trusted proxy writes them, so they are only consulted
// when trustProxy is set. Exactly one trusted proxy is assumed in front of the
// service: it appends the peer it saw to X-Forwarded-For, so only the last
// entry is trusted and anything to its left is whatever the caller sent.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := lastForwardedFor(r.Header.Values("X-Forwarded-For")); ip != "" {
			return ip
		}
		if ip := normalizeIP(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := normalizeIP(host); ip != "" {
		return ip
	}
	return host
}

// lastForwardedFor returns the rightmost X-Forwarded-For entry across all
// header lines, or "" when it is not an IP.
func lastForwardedFor(values []string) string {
	if len(values) == 0 {
		return ""
	}
	last := values[len(values)-1]
	if i := strings.LastIndexByte(last, ','); i >= 0 {
		last = last[i+1:]
	}
	return normalizeIP(last)
}

// normalizeIP returns the canonical textual form of s, or "" when s is not an IP.
func normalizeIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
