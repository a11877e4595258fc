package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket_BurstThenDeny(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 10; i++ {
		require.True(t, bucket.allow(), "request %d should be allowed", i+1)
	}
	assert.False(t, bucket.allow(), "bucket should be empty after burst")
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)
	for i := 0; i < 10; i++ {
		bucket.allow()
	}

	// Credit two seconds of refill without waiting for them.
	bucket.mu.Lock()
	bucket.refillLocked(bucket.lastRefill.Add(2 * time.Second))
	bucket.mu.Unlock()

	assert.True(t, bucket.allow())
	assert.True(t, bucket.allow())
	assert.False(t, bucket.allow(), "only two tokens should have accrued")
}

func TestTokenBucket_RefillCapsAtCapacity(t *testing.T) {
	bucket := newTokenBucket(5, 1.0)

	bucket.mu.Lock()
	bucket.refillLocked(bucket.lastRefill.Add(time.Hour))
	bucket.mu.Unlock()

	remaining, _ := bucket.getStatus()
	assert.Equal(t, 5, remaining)
}

func TestTokenBucket_GetStatus(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)
	for i := 0; i < 5; i++ {
		bucket.allow()
	}

	remaining, resetTime := bucket.getStatus()
	assert.Equal(t, 5, remaining)
	assert.True(t, resetTime.After(time.Now()), "reset time should be in the future while depleted")
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "whitelisted client must never be throttled")
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("192.168.1.1", "/test", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/applications/ingest", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/applications/ingest", "POST")
		require.True(t, allowed, "request %d should fit in the burst", i+1)
		assert.Equal(t, 5, info.Limit)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/applications/ingest", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 5, info.Limit)

	// Other endpoints stay on the default limit.
	allowed, info = limiter.Allow("127.0.0.1", "/other", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_SeparateBucketsPerClient(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1", "/test", "GET")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1", "/test", "GET")
	require.False(t, allowed, "first client is out of tokens")

	allowed, _ = limiter.Allow("10.0.0.2", "/test", "GET")
	assert.True(t, allowed, "second client has its own bucket")
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount)
}

func TestLimiter_CleanupEvictsIdleBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		clientID := fmt.Sprintf("127.0.0.%d", i+1)
		allowed, _ := limiter.Allow(clientID, "/test", "GET")
		require.True(t, allowed)
	}

	// Backdate half the buckets past the idle cutoff, then sweep.
	limiter.accessMu.Lock()
	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("127.0.0.%d:/test:GET", i+1)
		limiter.lastAccess[key] = time.Now().Add(-2 * time.Hour)
	}
	limiter.accessMu.Unlock()

	limiter.cleanupBuckets()

	limiter.mu.RLock()
	defer limiter.mu.RUnlock()
	assert.Len(t, limiter.buckets, 5)
	assert.NotContains(t, limiter.buckets, "127.0.0.1:/test:GET")
	assert.Contains(t, limiter.buckets, "127.0.0.6:/test:GET")
}

func TestLimiter_Burst(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/burst", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/burst", "POST")
		require.True(t, allowed, "burst request %d should be allowed", i+1)
	}

	allowed, _ := limiter.Allow("127.0.0.1", "/burst", "POST")
	assert.False(t, allowed, "burst capacity caps below the window limit")
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/applications/ingest", Method: "POST", Limit: 30},
		{Path: "/applications/", Method: "PUT", Limit: 100},
	}

	exact := MatchEndpoint("/applications/ingest", "POST", configs)
	require.NotNil(t, exact)
	assert.Equal(t, 30, exact.Limit)

	prefix := MatchEndpoint("/applications/123", "PUT", configs)
	require.NotNil(t, prefix)
	assert.Equal(t, 100, prefix.Limit)

	health := MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, health)
	assert.Zero(t, health.Limit, "health check resolves to an unlimited endpoint")

	assert.Nil(t, MatchEndpoint("/applications/123", "GET", configs))
	assert.Nil(t, MatchEndpoint("/companies", "POST", configs))
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}
