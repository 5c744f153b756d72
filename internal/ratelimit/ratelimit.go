// Package ratelimit wraps a single shared dial rate limiter the
// connection supervisor uses so its worker pool, however many replicas
// and interfaces it fans out over, never dials faster than one connection
// per configured interval in aggregate.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Dialer gates connection attempts to at most one per interval, shared
// across every worker that calls Wait.
type Dialer struct {
	limiter *rate.Limiter
}

// New builds a Dialer allowing one dial every interval with a burst of 1
// — the original's mutex-guarded "minimum interval since last dial"
// check, expressed as a token bucket.
func New(everyDials rate.Limit) *Dialer {
	return &Dialer{limiter: rate.NewLimiter(everyDials, 1)}
}

// Wait blocks until the next dial is permitted or ctx is done.
func (d *Dialer) Wait(ctx context.Context) error {
	return d.limiter.Wait(ctx)
}
