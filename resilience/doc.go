// Package resilience paces outgoing API calls.
//
//   - RateLimiter: token bucket; callers wait for a token
//   - ConcurrencyLimiter: caps calls in flight; callers queue for a slot
//
// Neither drops nor repeats a call. Failed calls are never retried here.
package resilience
