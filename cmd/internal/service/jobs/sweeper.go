package jobs

import (
	"context"
	"time"

	"consultacnpj/cmd/internal/metrics"

	"github.com/labstack/gommon/log"
)

const DefaultSweepInterval = 60 * time.Second

type CacheStore interface {
	Sweep() (int, error)
}

type RateLimiter interface {
	Sweep() int
}

// Sweeper evicts expired cache entries and stale rate limit hits, so memory
// stays bounded when reads are rare.
type Sweeper struct {
	cache    CacheStore
	limiter  RateLimiter
	interval time.Duration
}

func NewSweeper(cache CacheStore, limiter RateLimiter, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{cache: cache, limiter: limiter, interval: interval}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Infof("Sweeper cron started, running every %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping sweeper...")
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *Sweeper) cleanup() {
	removed, err := s.cache.Sweep()
	if err != nil {
		log.Errorf("Sweeper: failed to delete expired company cache: %v", err)
	} else if removed > 0 {
		metrics.CacheEvictions.Add(float64(removed))
	}

	hits := s.limiter.Sweep()
	log.Debugf("Sweeper: removed %d cache entries and %d rate limit hits", removed, hits)
}
