package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures a rate limiter.
type RateLimiterConfig struct {
	// Name identifies this rate limiter in logs.
	Name string `yaml:"name" mapstructure:"name"`
	// Rate is the number of requests allowed per second.
	Rate float64 `yaml:"rate" mapstructure:"rate"`
	// Burst is the maximum burst size.
	Burst int `yaml:"burst" mapstructure:"burst"`
}

// DefaultRateLimiterConfig returns sensible defaults for an interactive client.
func DefaultRateLimiterConfig(name string) RateLimiterConfig {
	return RateLimiterConfig{
		Name:  name,
		Rate:  5.0,
		Burst: 10,
	}
}

// RateLimiter implements a token bucket. Callers wait for a token; nothing
// is ever rejected.
type RateLimiter struct {
	config RateLimiterConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 5.0
	}
	if config.Burst <= 0 {
		config.Burst = max(1, int(config.Rate))
	}

	return &RateLimiter{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// Allow takes a token if one is available without blocking.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is done. A cancelled wait
// gives its reserved token back.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	wait := rl.reserve()
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		rl.mu.Lock()
		rl.tokens++
		rl.mu.Unlock()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// reserve takes a token, possibly going into debt, and returns how long the
// caller must wait for it.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	rl.tokens--
	if rl.tokens >= 0 {
		return 0
	}
	return time.Duration(-rl.tokens / rl.config.Rate * float64(time.Second))
}

// refill adds tokens based on time elapsed, capped at the burst size.
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.lastRefill = now

	rl.tokens += elapsed * rl.config.Rate
	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// Tokens returns the current number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

// Rate returns the rate limit (requests per second).
func (rl *RateLimiter) Rate() float64 {
	return rl.config.Rate
}

// Burst returns the burst size.
func (rl *RateLimiter) Burst() int {
	return rl.config.Burst
}
