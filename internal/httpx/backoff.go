package httpx

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Backoff produces exponentially growing retry delays, optionally spread by
// jitter so concurrent clients do not retry in lockstep.
type Backoff struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Jitter    float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBackoff returns a Backoff over the supplied delay bounds. Non-positive
// bounds fall back to 50ms and 1s; negative jitter is treated as none.
func NewBackoff(base, max time.Duration, jitter float64) Backoff {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if max <= 0 {
		max = time.Second
	}
	if jitter < 0 {
		jitter = 0
	}
	return Backoff{
		BaseDelay: base,
		MaxDelay:  max,
		Jitter:    jitter,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ForAttempt returns the delay before retry attempt n (0-indexed): the base
// delay doubled n times, capped at MaxDelay.
func (b *Backoff) ForAttempt(n int) time.Duration {
	delay := b.BaseDelay
	for i := 0; i < n; i++ {
		delay *= 2
		if delay <= 0 || delay >= b.MaxDelay {
			delay = b.MaxDelay
			break
		}
	}
	if delay > b.MaxDelay {
		delay = b.MaxDelay
	}
	return b.jittered(delay)
}

func (b *Backoff) jittered(delay time.Duration) time.Duration {
	if b.Jitter <= 0 || delay <= 0 {
		return delay
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	spread := math.Min(b.Jitter, 1)
	factor := 1 + (b.rng.Float64()*2-1)*spread
	if factor < 0 {
		factor = 0
	}
	return time.Duration(float64(delay) * factor)
}
