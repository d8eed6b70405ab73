package inkwell

import (
	"sync"
	"time"
)

// sweepThreshold is the map size past which allow runs a full eviction
// sweep, so IPs that never come back cannot grow the map without bound.
const sweepThreshold = 64

// loginLimiter rate-limits admin login attempts per IP address. Stale
// entries are pruned on the way through; no background goroutine.
type loginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
}

func newLoginLimiter(max int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
	}
}

// allow reports whether the IP is under the limit and records the attempt.
func (l *loginLimiter) allow(ip string) bool {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.attempts) > sweepThreshold {
		l.sweep(cutoff)
	}

	kept := l.attempts[ip][:0]
	for _, t := range l.attempts[ip] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.max {
		l.attempts[ip] = kept
		return false
	}
	l.attempts[ip] = append(kept, time.Now())
	return true
}

// sweep drops every IP whose attempts all fell outside the window. Caller
// holds the lock.
func (l *loginLimiter) sweep(cutoff time.Time) {
	for ip, hits := range l.attempts {
		kept := hits[:0]
		for _, t := range hits {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(l.attempts, ip)
		} else {
			l.attempts[ip] = kept
		}
	}
}
