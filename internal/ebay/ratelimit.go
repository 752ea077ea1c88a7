package ebay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached is returned when the daily call quota is used up.
var ErrDailyLimitReached = errors.New("daily API limit reached")

const quotaWindow = 24 * time.Hour

// Usage is a point-in-time view of the daily quota.
type Usage struct {
	Count     int64     `json:"count"`
	Limit     int64     `json:"limit"`
	Remaining int64     `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// RateLimiter paces calls to eBay with a token bucket and caps the number
// of calls in a rolling 24-hour window. It never retries; a call over the
// quota fails immediately.
type RateLimiter struct {
	limiter *rate.Limiter
	nowFunc func() time.Time

	mu       sync.Mutex
	count    int64
	maxDaily int64
	resetAt  time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a limiter allowing perSecond calls with the given
// burst and at most maxDaily calls per window. A maxDaily of zero or less
// disables the quota.
func NewRateLimiter(
	perSecond float64,
	burst int,
	maxDaily int64,
	opts ...RateLimiterOption,
) *RateLimiter {
	r := &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(quotaWindow)
	return r
}

// Wait reserves one call from the quota and blocks until the token bucket
// allows it or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.reserve(); err != nil {
		return err
	}
	if err := r.limiter.Wait(ctx); err != nil {
		r.release()
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// DailyCount returns the number of calls made in the current window.
func (r *RateLimiter) DailyCount() int64 {
	return r.Usage().Count
}

// Usage reports the quota state.
func (r *RateLimiter) Usage() Usage {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rollLocked()
	remaining := r.maxDaily - r.count
	if remaining < 0 || r.maxDaily <= 0 {
		remaining = 0
	}
	return Usage{
		Count:     r.count,
		Limit:     r.maxDaily,
		Remaining: remaining,
		ResetAt:   r.resetAt,
	}
}

func (r *RateLimiter) reserve() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rollLocked()
	if r.maxDaily > 0 && r.count >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, r.count, r.maxDaily)
	}
	r.count++
	return nil
}

func (r *RateLimiter) release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count > 0 {
		r.count--
	}
}

func (r *RateLimiter) rollLocked() {
	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.count = 0
		r.resetAt = now.Add(quotaWindow)
	}
}
