package geocode

import (
	"context"
	"sync"
	"time"
)

// Throttle spaces calls at least interval apart. A caller claims the slot
// only after waking, under the lock, so the recorded time is the time the
// call is actually let through.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// Wait blocks until interval has passed since the last admitted call, then
// admits the caller.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.interval <= 0 {
		return ctx.Err()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.mu.Lock()
		now := t.now()
		wait := time.Duration(0)
		if !t.last.IsZero() {
			wait = t.last.Add(t.interval).Sub(now)
		}
		if wait <= 0 {
			t.last = now
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()

		if err := t.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// ThrottleRegistry hands out one Throttle per provider name, shared by every
// resolver in the process.
type ThrottleRegistry struct {
	mu        sync.Mutex
	interval  time.Duration
	throttles map[string]*Throttle
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

type ThrottleOption func(*ThrottleRegistry)

// WithClock replaces wall-clock time, for tests.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) ThrottleOption {
	return func(r *ThrottleRegistry) {
		if now != nil {
			r.now = now
		}
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// NewThrottleRegistry creates a registry; interval <= 0 disables throttling.
func NewThrottleRegistry(interval time.Duration, opts ...ThrottleOption) *ThrottleRegistry {
	r := &ThrottleRegistry{
		interval:  interval,
		throttles: map[string]*Throttle{},
		now:       time.Now,
		sleep:     sleepCtx,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// For returns the shared throttle for a provider.
func (r *ThrottleRegistry) For(provider string) *Throttle {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.throttles[provider]
	if !ok {
		t = r.newThrottle()
		r.throttles[provider] = t
	}
	return t
}

// newThrottle returns an unshared throttle with the registry's clock.
func (r *ThrottleRegistry) newThrottle() *Throttle {
	return &Throttle{interval: r.interval, now: r.now, sleep: r.sleep}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
