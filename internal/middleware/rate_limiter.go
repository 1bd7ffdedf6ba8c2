package middleware

import (
	"context"
	"sync"
	"time"
)

// Rate limited actions
const (
	ActionMatching     = "matching"
	ActionAnalysis     = "analysis"
	ActionNotification = "notification"
)

// Limits maps an action to the requests allowed per window. Actions without
// an entry are not limited.
type Limits map[string]int

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// RateLimiter is a fixed window limiter over (action, key) pairs
type RateLimiter interface {
	Allow(ctx context.Context, action, key string) (Decision, error)
}

// MemoryRateLimiter implements RateLimiter for a single process
type MemoryRateLimiter struct {
	windows map[string]*window
	mu      sync.Mutex

	limits Limits
	period time.Duration
	now    func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	requests  int
	resetTime time.Time
}

// NewMemoryRateLimiter creates a limiter and starts its cleanup goroutine
func NewMemoryRateLimiter(limits Limits, period time.Duration) *MemoryRateLimiter {
	rl := newMemoryRateLimiter(limits, period, time.Now)
	go rl.cleanup(5 * time.Minute)
	return rl
}

func newMemoryRateLimiter(limits Limits, period time.Duration, now func() time.Time) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		windows: make(map[string]*window),
		limits:  limits,
		period:  period,
		now:     now,
		stop:    make(chan struct{}),
	}
}

// Allow counts one request for key under action
func (rl *MemoryRateLimiter) Allow(_ context.Context, action, key string) (Decision, error) {
	limit, limited := rl.limits[action]
	if !limited {
		return Decision{Allowed: true, Remaining: -1}, nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	id := action + ":" + key

	w, exists := rl.windows[id]
	if !exists || !now.Before(w.resetTime) {
		rl.windows[id] = &window{
			requests:  1,
			resetTime: now.Add(rl.period),
		}
		return Decision{Allowed: true, Remaining: limit - 1, ResetIn: rl.period}, nil
	}

	// Check if limit exceeded
	if w.requests >= limit {
		return Decision{Allowed: false, Remaining: 0, ResetIn: w.resetTime.Sub(now)}, nil
	}

	w.requests++
	return Decision{Allowed: true, Remaining: limit - w.requests, ResetIn: w.resetTime.Sub(now)}, nil
}

// cleanup removes expired windows until Close
func (rl *MemoryRateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for id, w := range rl.windows {
				if !now.Before(w.resetTime) {
					delete(rl.windows, id)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *MemoryRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Reset clears all windows
func (rl *MemoryRateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.windows = make(map[string]*window)
}
