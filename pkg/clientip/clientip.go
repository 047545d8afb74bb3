// Package clientip identifies the caller for per-IP rate limiting.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown keys requests whose remote address is empty.
const Unknown = "unknown"

// RealClientIP returns the host part of r.RemoteAddr. chi's RealIP
// middleware runs earlier in the chain, so a proxy-provided X-Real-IP or
// X-Forwarded-For has already replaced RemoteAddr when present.
func RealClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if addr == "" {
		return Unknown
	}
	return addr
}
