package ratelimiter

import (
	"sync"
	"time"
)

// bucket is a token bucket for a single identity
type bucket struct {
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
}

// UserRateLimiter keeps one bucket per identity. Buckets idle for longer than
// expirationTime are dropped.
type UserRateLimiter struct {
	buckets        map[string]*bucket
	mu             sync.RWMutex
	rate           float64 // tokens per second
	capacity       float64
	expirationTime time.Duration
}

func New(rate float64, capacity float64, expirationTime time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		buckets:        make(map[string]*bucket),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

// PerMinute allows n requests per minute with a burst of n.
func PerMinute(n int) *UserRateLimiter {
	return New(float64(n)/60, float64(n), time.Hour)
}

func (u *UserRateLimiter) touch(identity string, b *bucket) {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(u.expirationTime, func() {
		u.mu.Lock()
		delete(u.buckets, identity)
		u.mu.Unlock()
	})
}

func (u *UserRateLimiter) get(identity string) *bucket {
	u.mu.RLock()
	b, exists := u.buckets[identity]
	u.mu.RUnlock()
	if exists {
		return b
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	// Double-check after acquiring write lock
	if b, exists = u.buckets[identity]; exists {
		return b
	}
	b = &bucket{tokens: u.capacity, lastRefill: time.Now()}
	u.buckets[identity] = b
	return b
}

// Allow consumes one token of identity if available.
func (u *UserRateLimiter) Allow(identity string) bool {
	b := u.get(identity)

	b.mu.Lock()
	defer b.mu.Unlock()
	u.touch(identity, b)

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * u.rate
	if b.tokens > u.capacity {
		b.tokens = u.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Stop cancels all expiry timers
func (u *UserRateLimiter) Stop() {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, b := range u.buckets {
		b.mu.Lock()
		if b.timer != nil {
			b.timer.Stop()
		}
		b.mu.Unlock()
	}
}
