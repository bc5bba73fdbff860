package server

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimitMiddleware — глобальный token bucket на весь API.
// Отказ не ставится в очередь (Allow, не Wait): при перегрузе клиент
// сразу получает 429 и может отступить сам.
func rateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success": false, "error": "rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
