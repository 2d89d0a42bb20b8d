package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"greengain/config"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(Limit{Capacity: 2, Window: time.Minute}, nil)
	defer rl.Stop()
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("/a", "10.0.0.1")
	assert.True(t, ok)
	ok, _ = rl.Allow("/a", "10.0.0.1")
	assert.True(t, ok)

	now = now.Add(20 * time.Second)
	ok, wait := rl.Allow("/a", "10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, wait)

	ok, _ = rl.Allow("/a", "10.0.0.2")
	assert.True(t, ok, "clients have separate buckets")
	ok, _ = rl.Allow("/b", "10.0.0.1")
	assert.True(t, ok, "routes have separate buckets")

	now = now.Add(40 * time.Second)
	ok, _ = rl.Allow("/a", "10.0.0.1")
	assert.True(t, ok, "bucket refills after the window")
}

func TestRateLimiter_RouteLimits(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(Limit{Capacity: 1, Window: time.Minute}, map[string]Limit{
		"/fast": {Capacity: 3, Window: 10 * time.Second},
	})
	defer rl.Stop()
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("/fast", "10.0.0.1")
		assert.True(t, ok, "request %d", i)
	}
	ok, wait := rl.Allow("/fast", "10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 10*time.Second, wait)

	ok, _ = rl.Allow("/slow", "10.0.0.1")
	assert.True(t, ok)
	ok, wait = rl.Allow("/slow", "10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, wait)
}

func TestNewRateLimiterFromConfig(t *testing.T) {
	rl := NewRateLimiterFromConfig(config.RateLimitConfig{
		Capacity: 5,
		Window:   time.Minute,
		Routes: map[string]config.RouteLimit{
			"/credits/calculate": {Capacity: 300},
			"/roadmap/analyze":   {Capacity: 2, Window: time.Hour},
		},
	})
	defer rl.Stop()

	assert.Equal(t, Limit{Capacity: 300, Window: time.Minute}, rl.LimitFor("/credits/calculate"))
	assert.Equal(t, Limit{Capacity: 2, Window: time.Hour}, rl.LimitFor("/roadmap/analyze"))
	assert.Equal(t, Limit{Capacity: 5, Window: time.Minute}, rl.LimitFor("/credits/autofill"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(Limit{Capacity: 1, Window: time.Minute}, map[string]Limit{
		"/daily": {Capacity: 1, Window: 24 * time.Hour},
	})
	defer rl.Stop()
	rl.now = func() time.Time { return now }

	rl.Allow("/a", "10.0.0.1")
	rl.Allow("/daily", "10.0.0.1")
	now = now.Add(2 * time.Hour)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.buckets, 1, "a bucket is kept until its window has passed")
	assert.Contains(t, rl.buckets, bucketKey{route: "/daily", client: "10.0.0.1"})
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(Limit{Capacity: 1, Window: time.Minute}, nil)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
