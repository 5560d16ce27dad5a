package healthfeed

import (
	"sync"
	"time"
)

// throttle is a token-bucket limiter for a single feed connection. A
// misbehaving collaborator can flood health updates; the bucket caps the
// sustained update rate while allowing short bursts after idle periods.
type throttle struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	refill   float64 // tokens per second
	last     time.Time
}

func newThrottle(capacity int, refillPerSecond float64) *throttle {
	return &throttle{
		tokens:   float64(capacity),
		capacity: float64(capacity),
		refill:   refillPerSecond,
		last:     time.Now(),
	}
}

// allow consumes one token if available.
func (t *throttle) allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(t.last).Seconds()
	t.last = now

	t.tokens += elapsed * t.refill
	if t.tokens > t.capacity {
		t.tokens = t.capacity
	}
	if t.tokens < 1 {
		return false
	}
	t.tokens--
	return true
}
