package api

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimit rejects requests beyond rps (with burst) across all clients.
func rateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				_ = WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
