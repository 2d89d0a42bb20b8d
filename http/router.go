package http

import (
	"net/http"

	"go.uber.org/zap"

	"greengain/config"
	"greengain/metrics"
)

// RouterDeps is everything the HTTP surface needs.
type RouterDeps struct {
	Credits     *CreditHandler
	Roadmaps    *RoadmapHandler
	RateLimiter *RateLimiter
	Metrics     *metrics.Registry
	Logger      *zap.Logger
}

// NewRouter wires the routes. Mutating routes are rate limited per route
// and client.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	handle := func(route string, h http.HandlerFunc, limited bool) {
		var next http.Handler = h
		if limited {
			next = RateLimitMiddleware(deps.RateLimiter, deps.Metrics, route, next)
		}
		mux.Handle(route, LoggingMiddleware(logger, deps.Metrics, route, next))
	}

	handle(config.CalculateRoute, deps.Credits.Calculate, true)
	handle("/credits/autofill", deps.Credits.AutoFill, true)
	handle("/credits/export", deps.Credits.Export, false)
	handle("/credits/rules", deps.Credits.Rules, false)
	handle("/roadmap/analyze", deps.Roadmaps.Analyze, true)
	handle("/healthz", healthz, false)
	mux.Handle("/metrics", deps.Metrics.Handler())

	return mux
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
