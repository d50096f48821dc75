package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// HousekeepingService periodically prunes elapsed quota windows so the
// in-memory backend does not grow without bound.
type HousekeepingService struct {
	Admission *AdmissionControl
	Logger    *slog.Logger
	Interval  time.Duration
	Clock     clock.Clock

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewHousekeepingService creates a housekeeping service. If interval is 0 or
// negative it defaults to 1 minute.
func NewHousekeepingService(admission *AdmissionControl, logger *slog.Logger, interval time.Duration, clk clock.Clock) *HousekeepingService {
	if interval <= 0 {
		interval = time.Minute
	}
	if clk == nil {
		clk = clock.New()
	}

	return &HousekeepingService{
		Admission: admission,
		Logger:    logger,
		Interval:  interval,
		Clock:     clk,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker and waits for any in-progress pass. It is a
// no-op if the worker was never started.
func (s *HousekeepingService) Stop() {
	if !s.started.Load() {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := s.Clock.Ticker(s.Interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	removed, err := s.Admission.Prune(context.Background())
	if err != nil {
		s.Logger.Error("failed to prune quota windows", "error", err)
		return
	}
	s.Logger.Debug("housekeeping cleanup completed", "pruned_windows", removed)
}
