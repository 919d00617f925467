package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
)

// systemUserID is recorded as the author of records created by scheduled runs.
const systemUserID = "system"

// RecurringScheduler periodically materializes due recurring rules in the
// background.
type RecurringScheduler struct {
	recurringService portssvc.RecurringSvc
	interval         time.Duration
	logger           *slog.Logger

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRecurringScheduler creates a scheduler that runs materialization every
// interval.
func NewRecurringScheduler(recurringService portssvc.RecurringSvc, interval time.Duration, logger *slog.Logger) *RecurringScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecurringScheduler{
		recurringService: recurringService,
		interval:         interval,
		logger:           logger,
	}
}

// Start launches the background loop. Calling Start on a running scheduler is
// a no-op.
func (s *RecurringScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run(s.ticker, s.stop)

	s.logger.Info("Recurring scheduler started", slog.Duration("interval", s.interval))
}

// Stop halts the background loop and waits for an in-flight pass to finish.
func (s *RecurringScheduler) Stop() {
	s.mu.Lock()
	if s.ticker == nil {
		s.mu.Unlock()
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.ticker = nil
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Recurring scheduler stopped")
}

func (s *RecurringScheduler) run(ticker *time.Ticker, stop chan struct{}) {
	defer s.wg.Done()

	// Run one pass immediately so due rules do not wait a full interval
	// after startup.
	s.runOnce()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-stop:
			return
		}
	}
}

// RunNow triggers a single materialization pass outside the schedule.
func (s *RecurringScheduler) RunNow() {
	s.runOnce()
}

func (s *RecurringScheduler) runOnce() {
	ctx := context.Background()
	asOf := time.Now().UTC()

	report, err := s.recurringService.MaterializeDueRules(ctx, asOf, systemUserID)
	if err != nil {
		s.logger.Error("Scheduled materialization pass failed", slog.String("error", err.Error()))
		return
	}

	s.logger.Info("Scheduled materialization pass finished",
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)
}
