// internal/app/system/workers/limitersweep.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper drops idle per-key state. ratelimit.Limiter satisfies it.
type Sweeper interface {
	Sweep()
	Len() int
}

// LimiterSweep is a background worker that drops idle rate-limit buckets
// so the limiter does not grow with every user who ever joined a group.
type LimiterSweep struct {
	target   Sweeper
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewLimiterSweep creates a sweep worker that runs every interval.
func NewLimiterSweep(target Sweeper, logger *zap.Logger, interval time.Duration) *LimiterSweep {
	return &LimiterSweep{
		target:   target,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *LimiterSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("rate limit sweep worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *LimiterSweep) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("rate limit sweep worker stopped")
	})
}

func (w *LimiterSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *LimiterSweep) sweep() {
	before := w.target.Len()
	w.target.Sweep()
	if dropped := before - w.target.Len(); dropped > 0 {
		w.log.Debug("dropped idle rate limit buckets", zap.Int("count", dropped))
	}
}
