package http

import (
	"sync"
	"time"

	"greengain/config"
)

const (
	idleBucketTTL   = 1 * time.Hour
	cleanupInterval = 30 * time.Minute
)

// Limit sizes one bucket: Capacity requests, refilled in full once Window
// has passed since the last refill.
type Limit struct {
	Capacity int
	Window   time.Duration
}

type bucketKey struct {
	route  string
	client string
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter keeps one token bucket per route and client. Routes without
// their own Limit use the fallback size.
type RateLimiter struct {
	fallback Limit
	routes   map[string]Limit

	mu      sync.Mutex
	buckets map[bucketKey]*bucket
	now     func() time.Time

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewRateLimiter(fallback Limit, routes map[string]Limit) *RateLimiter {
	own := make(map[string]Limit, len(routes))
	for route, l := range routes {
		own[route] = l
	}
	rl := &RateLimiter{
		fallback:    fallback,
		routes:      own,
		buckets:     make(map[bucketKey]*bucket),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// NewRateLimiterFromConfig sizes the buckets from the rate_limit section.
// A route limit without a window inherits the top-level one.
func NewRateLimiterFromConfig(cfg config.RateLimitConfig) *RateLimiter {
	fallback := Limit{Capacity: cfg.Capacity, Window: cfg.Window}
	routes := make(map[string]Limit, len(cfg.Routes))
	for route, l := range cfg.Routes {
		window := l.Window
		if window == 0 {
			window = cfg.Window
		}
		routes[route] = Limit{Capacity: l.Capacity, Window: window}
	}
	return NewRateLimiter(fallback, routes)
}

// LimitFor returns the bucket size applied to route.
func (r *RateLimiter) LimitFor(route string) Limit {
	if l, ok := r.routes[route]; ok {
		return l
	}
	return r.fallback
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

// cleanup drops buckets that have been full for a while.
func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, b := range r.buckets {
		idle := now.Sub(b.lastRefill)
		if idle > idleBucketTTL && idle >= r.LimitFor(key.route).Window {
			delete(r.buckets, key)
		}
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

// Allow takes a token from client's bucket for route. When none is left
// it reports how long until that bucket refills.
func (r *RateLimiter) Allow(route, client string) (bool, time.Duration) {
	limit := r.LimitFor(route)
	key := bucketKey{route: route, client: client}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.buckets[key]
	if !ok {
		r.buckets[key] = &bucket{tokens: limit.Capacity - 1, lastRefill: now}
		return true, 0
	}

	if now.Sub(b.lastRefill) >= limit.Window {
		b.tokens = limit.Capacity
		b.lastRefill = now
	}
	if b.tokens <= 0 {
		return false, b.lastRefill.Add(limit.Window).Sub(now)
	}
	b.tokens--
	return true, 0
}
