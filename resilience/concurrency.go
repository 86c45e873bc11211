package resilience

import "context"

// ConcurrencyLimiter caps how many calls run at once. Unlike a bulkhead that
// rejects excess work, callers queue for a slot until their context ends.
type ConcurrencyLimiter struct {
	sem chan struct{}
}

// NewConcurrencyLimiter creates a limiter admitting up to n concurrent calls.
// n <= 0 admits one.
func NewConcurrencyLimiter(n int) *ConcurrencyLimiter {
	if n <= 0 {
		n = 1
	}
	return &ConcurrencyLimiter{sem: make(chan struct{}, n)}
}

// Acquire waits for a slot. The returned release func must be called exactly
// once when the call finishes.
func (l *ConcurrencyLimiter) Acquire(ctx context.Context) (release func(), err error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// InUse returns the number of slots currently held.
func (l *ConcurrencyLimiter) InUse() int {
	return len(l.sem)
}

// Max returns the slot count.
func (l *ConcurrencyLimiter) Max() int {
	return cap(l.sem)
}
