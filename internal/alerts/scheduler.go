package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// jobTimeout bounds a single scheduled check
const jobTimeout = 2 * time.Minute

// Scheduler runs the alert checks on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	checker *Checker
	logger  *zap.Logger
}

// NewScheduler creates a scheduler using the standard five-field cron syntax.
func NewScheduler(checker *Checker, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		checker: checker,
		logger:  logger,
	}
}

// RegisterAll registers the SSD and profit checks.
func (s *Scheduler) RegisterAll(ssdCron, profitCron string) error {
	if _, err := s.cron.AddFunc(ssdCron, s.ssdTask); err != nil {
		return fmt.Errorf("register ssd check: %w", err)
	}
	if _, err := s.cron.AddFunc(profitCron, s.profitTask); err != nil {
		return fmt.Errorf("register profit check: %w", err)
	}
	return nil
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting alert scheduler", zap.Int("jobs", s.Entries()))
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping alert scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) ssdTask() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.checker.RunSSDCheck(ctx); err != nil {
		s.logger.Error("ssd check failed", zap.Error(err))
	}
}

func (s *Scheduler) profitTask() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.checker.RunProfitCheck(ctx); err != nil {
		s.logger.Error("profit check failed", zap.Error(err))
	}
}
