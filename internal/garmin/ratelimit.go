package garmin

import (
	"context"
	"sync"
	"time"
)

// The Connect API is unofficial and publishes no rate-limit headers, so the
// only safe policy is fixed spacing between requests.

// Limiter enforces a minimum interval between requests
type Limiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastRequest time.Time
}

// NewLimiter creates a limiter with the default request spacing
func NewLimiter() *Limiter {
	return &Limiter{
		minInterval: 300 * time.Millisecond,
	}
}

// Wait blocks until the next request may be sent
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	elapsed := time.Since(l.lastRequest)
	if elapsed < l.minInterval {
		waitTime := l.minInterval - elapsed
		l.mu.Unlock()
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			return ctx.Err()
		}
		l.mu.Lock()
	}
	l.lastRequest = time.Now()
	l.mu.Unlock()
	return nil
}
