package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/AdiKsOnDev/climatetime-sub000/internal/cache"
)

// Sweeper periodically evicts expired cache entries so keys that are never
// re-read do not accumulate for the life of the process.
type Sweeper struct {
	scheduler *gocron.Scheduler
	cache     *cache.Cache
	interval  time.Duration
	log       *zap.SugaredLogger
}

// New creates a Sweeper for the given cache.
func New(c *cache.Cache, interval time.Duration, log *zap.SugaredLogger) *Sweeper {
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		cache:     c,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Sweeper) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		removed := s.cache.Sweep()
		if removed > 0 {
			s.log.Infow("cache sweep removed expired entries",
				"removed", removed, "remaining", s.cache.Len())
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future sweeps.
func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
