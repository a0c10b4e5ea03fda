package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
	"github.com/gov-dx-sandbox/home-inventory/v1/i18n"
	"github.com/rs/cors"
)

// ContentSecurityPolicy restricts resource loading to this origin, plus https images
const ContentSecurityPolicy = "default-src 'self'; img-src 'self' data: https:; script-src 'self' 'unsafe-inline' 'unsafe-eval'; style-src 'self' 'unsafe-inline';"

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Content-Security-Policy", ContentSecurityPolicy)

		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware allows credentialed requests from a single configured origin.
// An empty allowedOrigin disables cross-origin access.
func CORSMiddleware(allowedOrigin string, maxAge int) func(http.Handler) http.Handler {
	if maxAge <= 0 {
		maxAge = 86400 // 24 hours
	}

	options := cors.Options{
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           maxAge,
	}
	if allowedOrigin == "" {
		options.AllowOriginFunc = func(string) bool { return false }
	} else {
		options.AllowedOrigins = []string{allowedOrigin}
	}

	return cors.New(options).Handler
}

// RateLimiter is a sliding-window limiter keyed by client IP
type RateLimiter struct {
	requests  map[string][]time.Time
	mutex     sync.Mutex
	maxReqs   int
	window    time.Duration
	lastSweep time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		maxReqs:  maxRequests,
		window:   window,
	}
}

// IsAllowed records a request from clientIP and reports whether it is within the limit
func (rl *RateLimiter) IsAllowed(clientIP string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) >= rl.window {
		rl.sweep(now)
	}

	valid := rl.requests[clientIP][:0]
	for _, at := range rl.requests[clientIP] {
		if now.Sub(at) < rl.window {
			valid = append(valid, at)
		}
	}

	if len(valid) >= rl.maxReqs {
		rl.requests[clientIP] = valid
		return false
	}

	rl.requests[clientIP] = append(valid, now)
	return true
}

// sweep drops clients whose requests have all left the window
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, times := range rl.requests {
		if len(times) == 0 || now.Sub(times[len(times)-1]) >= rl.window {
			delete(rl.requests, ip)
		}
	}
	rl.lastSweep = now
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := clientIP(r)
		if !rl.IsAllowed(clientIP) {
			slog.Warn("Rate limit exceeded", "ip", clientIP, "path", r.URL.Path)
			utils.RespondWithError(w, http.StatusTooManyRequests, i18n.T(i18n.FromContext(r.Context()), "errors.tooManyRequests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr; chi's RealIP middleware runs first in the chain
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
