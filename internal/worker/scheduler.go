package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

// Runner executes one reconciliation pass.
type Runner interface {
	Run(ctx context.Context) (*model.ReconcileSummary, error)
}

// Scheduler triggers reconciliation on a cron schedule evaluated in UTC.
type Scheduler struct {
	runner Runner
	spec   string
	cron   *cron.Cron
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler. An empty spec disables scheduled runs.
func NewScheduler(runner Runner, spec string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		spec:   spec,
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger.With("component", "reconcile_scheduler"),
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		s.logger.InfoContext(ctx, "scheduled reconciliation disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if _, err := s.cron.AddFunc(s.spec, func() { s.trigger(runCtx) }); err != nil {
		cancel()
		return err
	}
	s.cancel = cancel

	s.cron.Start()
	s.logger.InfoContext(ctx, "reconcile scheduler started", slog.String("schedule", s.spec))
	return nil
}

// Stop cancels a running pass and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("reconcile scheduler stopped")
}

func (s *Scheduler) trigger(ctx context.Context) {
	if _, err := s.runner.Run(ctx); err != nil {
		s.logger.ErrorContext(ctx, "scheduled reconciliation failed", slog.String("error", err.Error()))
	}
}
