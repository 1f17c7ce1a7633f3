package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/autohouse-service/internal/ratelimit"
	"github.com/princekumarofficial/autohouse-service/internal/utils/response"
)

// Rate-limited actions.
const (
	ActionLogin  = "login"
	ActionSignUp = "signup"
	ActionOffers = "offers"
)

type RateLimitConfig struct {
	limiters map[string]*ratelimit.TokenBucket
}

func NewRateLimitConfig(redisClient *redis.Client) *RateLimitConfig {
	config := &RateLimitConfig{
		limiters: make(map[string]*ratelimit.TokenBucket),
	}

	// POST /login: 10/min per IP
	config.limiters[ActionLogin] = ratelimit.NewTokenBucket(redisClient, 10, 10)

	// POST /signup: 5/min per IP
	config.limiters[ActionSignUp] = ratelimit.NewTokenBucket(redisClient, 5, 5)

	// POST /offers: 20/min per user
	config.limiters[ActionOffers] = ratelimit.NewTokenBucket(redisClient, 20, 20)

	return config
}

// subjectFunc picks what a request is limited on.
type subjectFunc func(r *http.Request) (string, bool)

func byUser(r *http.Request) (string, bool) {
	return GetUserIDFromContext(r.Context())
}

func byIP(r *http.Request) (string, bool) {
	return ClientIP(r), true
}

// ClientIP returns the first X-Forwarded-For hop, else the remote address
// without its port.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware limits per authenticated user; auth middleware must run
// first.
func (rlc *RateLimitConfig) RateLimitMiddleware(action string) func(http.Handler) http.Handler {
	return rlc.limit(action, byUser)
}

// IPRateLimitMiddleware limits per client IP, for unauthenticated routes.
func (rlc *RateLimitConfig) IPRateLimitMiddleware(action string) func(http.Handler) http.Handler {
	return rlc.limit(action, byIP)
}

func (rlc *RateLimitConfig) limit(action string, subjectOf subjectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter, exists := rlc.limiters[action]
			if !exists {
				next.ServeHTTP(w, r)
				return
			}

			subject, ok := subjectOf(r)
			if !ok {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(
					errors.New("user not authenticated")))
				return
			}

			allowed, err := limiter.Allow(r.Context(), subject, action)
			if err != nil {
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
					fmt.Errorf("rate limit check failed: %w", err)))
				return
			}

			remaining, _ := limiter.GetRemaining(r.Context(), subject, action)
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limiter.Capacity(), 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(limiter.Window().Seconds())))

			if !allowed {
				response.WriteJSON(w, http.StatusTooManyRequests, response.GeneralError(
					errors.New("rate limit exceeded")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitedHandler wraps a handler with per-user rate limiting for action
func (rlc *RateLimitConfig) RateLimitedHandler(action string, handler http.HandlerFunc) http.Handler {
	return rlc.RateLimitMiddleware(action)(handler)
}
