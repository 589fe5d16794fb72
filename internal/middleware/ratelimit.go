package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// sweepThreshold is the number of tracked clients above which idle ones are dropped.
	sweepThreshold = 1000
	idleAfter      = 10 * time.Minute
)

type bucket uint8

const (
	bucketGeneral bucket = iota
	bucketAuth
)

type visitorKey struct {
	ip     string
	bucket bucket
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware keeps a token bucket per client IP. Sign-in attempts
// draw from a separate, smaller budget than ordinary browsing.
type RateLimitMiddleware struct {
	generalRPM int
	authRPM    int

	mu       sync.Mutex
	visitors map[visitorKey]*visitor
	now      func() time.Time
}

func NewRateLimitMiddleware(generalRPM int, authRPM int) *RateLimitMiddleware {
	if generalRPM <= 0 {
		generalRPM = 100
	}
	if authRPM <= 0 {
		authRPM = 10
	}

	return &RateLimitMiddleware{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		visitors:   map[visitorKey]*visitor{},
		now:        time.Now,
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isUnlimitedPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		b := bucketGeneral
		if isAuthAttempt(r) {
			b = bucketAuth
		}

		if !m.allow(ClientIP(r), b) {
			w.Header().Set("Retry-After", "60")
			writeJSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) allow(ip string, b bucket) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	key := visitorKey{ip: ip, bucket: b}
	v, ok := m.visitors[key]
	if !ok {
		rpm := m.generalRPM
		if b == bucketAuth {
			rpm = m.authRPM
		}
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm), lastSeen: now}
		m.visitors[key] = v
		if len(m.visitors) > sweepThreshold {
			m.sweepLocked(now)
		}
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

func (m *RateLimitMiddleware) sweepLocked(now time.Time) {
	cutoff := now.Add(-idleAfter)
	for key, v := range m.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(m.visitors, key)
		}
	}
}

func isUnlimitedPath(path string) bool {
	path = strings.ToLower(path)
	return path == "/health" || path == "/metrics" || strings.HasPrefix(path, "/static/")
}

// isAuthAttempt covers the JSON auth endpoints and the login form post.
func isAuthAttempt(r *http.Request) bool {
	path := strings.ToLower(r.URL.Path)
	if strings.HasPrefix(path, "/api/v1/auth") {
		return true
	}
	return path == "/login" && r.Method == http.MethodPost
}

// ClientIP is the first X-Forwarded-For hop, then X-Real-IP, then the
// remote address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	remote := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(remote); err == nil && host != "" {
		return host
	}
	if remote == "" {
		return "unknown"
	}
	return remote
}
