package worker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out provider calls.
type Pacer interface {
	Wait(ctx context.Context) error
}

// RatePacer lets one call through per delay.
type RatePacer struct {
	limiter *rate.Limiter
}

// NewRatePacer builds a pacer allowing one call per delay. A non-positive
// delay disables pacing.
func NewRatePacer(delay time.Duration) *RatePacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &RatePacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (p *RatePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
