package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"greengain/metrics"
)

// RateLimitMiddleware spends a token from the client's bucket for route
// and answers 429 with Retry-After once it is empty.
func RateLimitMiddleware(limiter *RateLimiter, reg *metrics.Registry, route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, wait := limiter.Allow(route, clientIP(r))
		if !allowed {
			reg.Inc(metrics.RateLimited, route)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys the limiter on the peer address. Forwarding headers are
// not trusted.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
