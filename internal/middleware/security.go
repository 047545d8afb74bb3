package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnshRaj112/serenify-engagement/pkg/clientip"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
	headerReferrerPolicy          = "Referrer-Policy"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerContentSecurityPolicy, "default-src 'none'")
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		w.Header().Set(headerReferrerPolicy, "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// HostCheck returns 403 when r.Host does not match allowedHost.
// allowedHost should be the bare hostname without scheme or port.
func HostCheck(allowedHost string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedHost == "" {
				next.ServeHTTP(w, r)
				return
			}
			reqHost := r.Host
			if host, _, err := net.SplitHostPort(reqHost); err == nil {
				reqHost = host
			}
			if !strings.EqualFold(strings.TrimSpace(reqHost), strings.TrimSpace(allowedHost)) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	ipRateLimitRPS    = 1
	ipRateLimitBurst  = 10
	ipCleanupInterval = 5 * time.Minute
	ipLimiterTTL      = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// IPRateLimiter keeps one token bucket per client IP in memory.
type IPRateLimiter struct {
	mu          sync.Mutex
	entries     map[string]*limiterEntry
	limit       rate.Limit
	burst       int
	cleanupOnce sync.Once
}

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   limit,
		burst:   burst,
	}
}

func (l *IPRateLimiter) get(ip string) *rate.Limiter {
	l.cleanupOnce.Do(func() { go l.cleanupLoop() })

	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func (l *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(ipCleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for ip, e := range l.entries {
			if now.Sub(e.lastUse) > ipLimiterTTL {
				delete(l.entries, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware returns 429 once an IP exhausts its bucket.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.get(clientip.RealClientIP(r)).Allow() {
			writeTooManyRequests(w, "Too many requests. Please slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProductionSecurity returns middlewares for production: SecurityHeaders → HostCheck → per-IP limit.
func ProductionSecurity(allowedHost string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		HostCheck(allowedHost),
		NewIPRateLimiter(rate.Limit(ipRateLimitRPS), ipRateLimitBurst).Middleware,
	}
}
