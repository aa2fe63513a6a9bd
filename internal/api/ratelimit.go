package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// Credential endpoints get a tight per-IP budget; everything else is
// unthrottled.
const (
	authRateLimit    = 20
	authRateInterval = time.Minute
	authRateBurst    = 5
)

// NewAuthRateLimiter builds the limiter used for login and refresh requests.
func NewAuthRateLimiter() *RateLimiter {
	rps := float64(authRateLimit) / authRateInterval.Seconds()
	return ratelimit.New(rps, authRateBurst)
}

// rateLimitAuthEndpoints throttles the credential endpoints per client IP.
// Returns 429 Too Many Requests when the budget is exhausted.
func (s *Server) rateLimitAuthEndpoints(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isCredentialRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := getClientIP(r)
		if !s.authLimiter.Allow(key) {
			s.logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":"RATE_LIMITED","message":"too many requests, try again later"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isCredentialRequest reports whether the request carries credentials or
// creates an account. Registration shares the login budget so a single IP
// cannot mass-create accounts.
func isCredentialRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/v1/users/auth") {
		return true
	}
	return r.Method == http.MethodPost && r.URL.Path == "/api/v1/users"
}

// getClientIP extracts the client IP from the request.
// chi's RealIP middleware has already folded X-Forwarded-For and X-Real-IP
// into RemoteAddr; this just strips the port.
func getClientIP(r *http.Request) string {
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
