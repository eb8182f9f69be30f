package automation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/google/uuid"
)

const DefaultInterval = 5 * time.Minute

type Config struct {
	// Interval between ticks started by Start.
	Interval time.Duration
}

func (c *Config) defaults() {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
}

type TickResult struct {
	Due       int `json:"due"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Inserted  int `json:"inserted"`
}

type Scheduler struct {
	automations storage.AutomationStore
	refresher   *Refresher
	config      Config
	logger      *slog.Logger

	mu      sync.Mutex
	running bool
}

func New(automations storage.AutomationStore, refresher *Refresher, cfg Config, logger *slog.Logger) *Scheduler {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		automations: automations,
		refresher:   refresher,
		config:      cfg,
		logger:      logger,
	}
}

// RunTick refreshes every automation due at now, each in its own goroutine.
// A failing automation is logged and left due; only failing to list the due
// set aborts the tick.
func (s *Scheduler) RunTick(ctx context.Context, now time.Time) (TickResult, error) {
	if !s.begin() {
		return TickResult{}, ErrTickAlreadyRunning
	}
	defer s.end()

	due, err := s.automations.FindAutomationsDue(ctx, now)
	if err != nil {
		return TickResult{}, err
	}

	var (
		wg        sync.WaitGroup
		processed atomic.Int64
		failed    atomic.Int64
		inserted  atomic.Int64
	)
	for _, a := range due {
		wg.Add(1)
		go func(a domain.Automation) {
			defer wg.Done()
			n, err := s.process(ctx, a, now)
			if err != nil {
				failed.Add(1)
				s.logger.Error("automation failed", "automation_id", a.ID, "search_id", a.SavedQueryID, "error", err)
				return
			}
			processed.Add(1)
			inserted.Add(int64(n))
		}(a)
	}
	wg.Wait()

	res := TickResult{
		Due:       len(due),
		Processed: int(processed.Load()),
		Failed:    int(failed.Load()),
		Inserted:  int(inserted.Load()),
	}
	s.logger.Info("automation tick completed", "due", res.Due, "processed", res.Processed, "failed", res.Failed, "inserted", res.Inserted)
	return res, nil
}

// RunNow refreshes one automation immediately and moves its schedule forward.
func (s *Scheduler) RunNow(ctx context.Context, id uuid.UUID, now time.Time) (int, error) {
	a, err := s.automations.FindAutomation(ctx, id)
	if err != nil {
		return 0, err
	}
	if !a.IsActive {
		return 0, ErrAutomationInactive
	}
	return s.process(ctx, a, now)
}

// process advances the schedule only after the merge has succeeded. Zero new
// results still counts as success.
func (s *Scheduler) process(ctx context.Context, a domain.Automation, now time.Time) (int, error) {
	lastRun, nextRun, err := a.Advance(now)
	if err != nil {
		return 0, &ProcessingError{AutomationID: a.ID, Err: err}
	}

	inserted, err := s.refresher.Refresh(ctx, a.SavedQueryID)
	if err != nil {
		return inserted, &ProcessingError{AutomationID: a.ID, Err: err}
	}

	if err := s.automations.UpdateAutomationRun(ctx, a.ID, lastRun, nextRun); err != nil {
		return inserted, &ProcessingError{AutomationID: a.ID, Err: err}
	}

	s.logger.Debug("automation processed", "automation_id", a.ID, "inserted", inserted, "next_run", nextRun)
	return inserted, nil
}

// Start runs one tick immediately, then one per interval until ctx is done.
// A fire that lands while the previous tick is still running is skipped.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("automation scheduler started", "interval", s.config.Interval)

	var wg sync.WaitGroup
	fire := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RunTick(ctx, time.Now().UTC())
			switch {
			case errors.Is(err, ErrTickAlreadyRunning):
				s.logger.Warn("automation tick skipped, previous tick still running")
			case err != nil && ctx.Err() == nil:
				s.logger.Error("automation tick failed", "error", err)
			}
		}()
	}

	fire()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			s.logger.Info("automation scheduler stopped")
			return
		case <-ticker.C:
			fire()
		}
	}
}

func (s *Scheduler) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
