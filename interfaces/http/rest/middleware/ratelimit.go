package middleware

import (
	"net/http"
	"sync"
	"time"

	"pursuit-backend/pkg/common"
)

// slidingWindow tracks request timestamps per client
type slidingWindow struct {
	requests []time.Time
	mu       sync.Mutex
}

// RateLimiter applies a per-IP sliding-window limit
type RateLimiter struct {
	mu         sync.Mutex
	windows    map[string]*slidingWindow
	limit      int
	windowSize time.Duration
	stopCh     chan struct{}
}

// NewRateLimiter creates a limiter allowing requestsPerMinute per client IP
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	l := &RateLimiter{
		windows:    make(map[string]*slidingWindow),
		limit:      requestsPerMinute,
		windowSize: time.Minute,
		stopCh:     make(chan struct{}),
	}

	go l.cleanup()

	return l
}

// Allow reports whether a request from the given client may proceed
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	w, exists := l.windows[key]
	if !exists {
		w = &slidingWindow{}
		l.windows[key] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-l.windowSize)

	valid := w.requests[:0]
	for _, t := range w.requests {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	w.requests = valid

	if len(w.requests) >= l.limit {
		return false
	}

	w.requests = append(w.requests, now)
	return true
}

// Close stops the cleanup goroutine
func (l *RateLimiter) Close() {
	close(l.stopCh)
}

// cleanup drops windows idle for longer than an hour
func (l *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-time.Hour)
			l.mu.Lock()
			for key, w := range l.windows {
				w.mu.Lock()
				idle := len(w.requests) == 0 || w.requests[len(w.requests)-1].Before(cutoff)
				w.mu.Unlock()
				if idle {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Limit rejects requests exceeding the per-IP budget with 429
func Limit(limiter *RateLimiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// RealIP middleware has already rewritten RemoteAddr
			if !limiter.Allow(r.RemoteAddr) {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
