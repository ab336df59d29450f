package ratelimit

import (
	"sync"
	"time"

	"consultacnpj/cmd/internal/utils"
)

const (
	DefaultLimit  = 10
	DefaultWindow = 60 * time.Second
)

// SlidingWindow counts the hits of each client over the trailing window.
// Only hits at or after now-window count. Rejected calls are not recorded.
type SlidingWindow struct {
	mu     sync.Mutex
	hits   map[string][]int64
	limit  int
	window int64
	now    func() int64
}

type Option func(*SlidingWindow)

// WithClock overrides the epoch millisecond clock.
func WithClock(now func() int64) Option {
	return func(s *SlidingWindow) {
		s.now = now
	}
}

func New(limit int, window time.Duration, opts ...Option) *SlidingWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	s := &SlidingWindow{
		hits:   make(map[string][]int64),
		limit:  limit,
		window: window.Milliseconds(),
		now:    utils.NowUTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow records a hit for the client and reports whether it fits the budget.
func (s *SlidingWindow) Allow(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now - s.window)

	if len(s.hits[clientID]) >= s.limit {
		return false
	}
	s.hits[clientID] = append(s.hits[clientID], now)
	return true
}

func (s *SlidingWindow) Remaining(clientID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.limit - s.countSince(clientID, s.now()-s.window)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RetryAfter is how long until the client's oldest counted hit leaves the
// window. Zero when the client still has budget.
func (s *SlidingWindow) RetryAfter(clientID string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now - s.window
	if s.countSince(clientID, cutoff) < s.limit {
		return 0
	}

	oldest := now
	for _, ts := range s.hits[clientID] {
		if ts >= cutoff && ts < oldest {
			oldest = ts
		}
	}
	return time.Duration(oldest-cutoff+1) * time.Millisecond
}

// Sweep drops every hit that left the window and returns how many were removed.
func (s *SlidingWindow) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prune(s.now() - s.window)
}

func (s *SlidingWindow) Limit() int {
	return s.limit
}

func (s *SlidingWindow) Window() time.Duration {
	return time.Duration(s.window) * time.Millisecond
}

// Clients is the number of clients with at least one stored hit.
func (s *SlidingWindow) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hits)
}

func (s *SlidingWindow) countSince(clientID string, cutoff int64) int {
	count := 0
	for _, ts := range s.hits[clientID] {
		if ts >= cutoff {
			count++
		}
	}
	return count
}

// prune must be called with mu held. Hits are not assumed to be in order,
// since the wall clock can step backwards.
func (s *SlidingWindow) prune(cutoff int64) int {
	removed := 0
	for clientID, hits := range s.hits {
		kept := hits[:0]
		for _, ts := range hits {
			if ts >= cutoff {
				kept = append(kept, ts)
			}
		}

		removed += len(hits) - len(kept)
		if len(kept) == 0 {
			delete(s.hits, clientID)
			continue
		}
		s.hits[clientID] = kept
	}
	return removed
}
