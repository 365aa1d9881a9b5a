// Package ratelimit bounds how often a caller may hit the API.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter admits at most limit requests per key in any
// windowSize interval
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
	now        func() time.Time
	done       chan struct{}
	once       sync.Once
}

type window struct {
	requests []time.Time
}

var _ Limiter = (*SlidingWindowLimiter)(nil)

// NewSlidingWindowLimiter creates a limiter. Idle keys are dropped once per
// window until Close is called.
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
		done:       make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow records a request for key and reports whether it fits in the window
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists {
		w = &window{}
		l.windows[key] = w
	}

	now := l.now()
	w.trim(now.Add(-l.windowSize))
	if len(w.requests) >= l.limit {
		return false, nil
	}
	w.requests = append(w.requests, now)
	return true, nil
}

// RetryAfter reports how long until key may make another request
func (l *SlidingWindowLimiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || len(w.requests) < l.limit {
		return 0
	}
	return w.requests[0].Add(l.windowSize).Sub(l.now())
}

// Reset forgets every request recorded for key
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)
	return nil
}

// Close stops the cleanup goroutine
func (l *SlidingWindowLimiter) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *SlidingWindowLimiter) cleanup() {
	ticker := time.NewTicker(l.windowSize)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.done:
			return
		}
	}
}

func (l *SlidingWindowLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := l.now().Add(-l.windowSize)
	for key, w := range l.windows {
		w.trim(windowStart)
		if len(w.requests) == 0 {
			delete(l.windows, key)
		}
	}
}

// trim drops requests at or before windowStart; requests are kept in order
func (w *window) trim(windowStart time.Time) {
	i := 0
	for i < len(w.requests) && !w.requests[i].After(windowStart) {
		i++
	}
	w.requests = w.requests[i:]
}
