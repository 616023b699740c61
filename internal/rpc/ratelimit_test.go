package rpc

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/todolist/internal/config"
)

func TestRateLimiterDisabled(t *testing.T) {
	assert.Nil(t, newRateLimiter(config.RateLimitConfig{Enabled: false, RPS: 1, Burst: 1}))
	assert.Nil(t, newRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 0, Burst: 1}))

	var l *rateLimiter
	assert.True(t, l.allow("anyone", time.Now()))
}

func TestRateLimiterPerKey(t *testing.T) {
	l := newRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1})
	now := time.Now()

	assert.True(t, l.allow("a", now))
	assert.False(t, l.allow("a", now))
	assert.True(t, l.allow("b", now))
	// one token refills after a second
	assert.True(t, l.allow("a", now.Add(time.Second)))
}

func TestRateLimiterEvictsIdleKeys(t *testing.T) {
	l := newRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 100, Burst: 100})
	start := time.Now()
	l.allow("stale", start)

	later := start.Add(limiterIdleTTL + time.Minute)
	for i := 0; i < limiterSweepEvery; i++ {
		l.allow("fresh", later)
	}
	assert.Equal(t, 1, l.size())
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest("POST", "/rpc", nil)
	r.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", clientKey(r))

	r.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientKey(r))
}
