package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	rentalapp "github.com/rentmgr/backend/internal/application/rental"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/infrastructure/telemetry"
)

// ReminderRunner performs one reminder check for a civil date
type ReminderRunner interface {
	RunCheck(ctx context.Context, today time.Time) (*rentalapp.RunSummary, error)
}

// ReminderScheduler runs the reminder check once a day at the configured time
type ReminderScheduler struct {
	trigger *dailyTrigger
	runner  ReminderRunner
	logger  *zap.Logger
}

// NewReminderScheduler creates a reminder scheduler. It does nothing until Start.
func NewReminderScheduler(cfg Config, runner ReminderRunner, logger *zap.Logger) (*ReminderScheduler, error) {
	if runner == nil {
		return nil, ErrRunnerMissing
	}
	trigger, err := newDailyTrigger(telemetry.JobReminders, cfg, logger)
	if err != nil {
		return nil, err
	}
	s := &ReminderScheduler{
		trigger: trigger,
		runner:  runner,
		logger:  trigger.logger,
	}
	trigger.fire = func(ctx context.Context) {
		_, _ = s.RunNow(ctx)
	}
	return s, nil
}

// SetRentalMetrics records run durations on m
func (s *ReminderScheduler) SetRentalMetrics(m *telemetry.RentalMetrics) {
	s.trigger.metrics = m
}

// SetClock replaces the wall clock. Call before Start.
func (s *ReminderScheduler) SetClock(now func() time.Time) {
	s.trigger.now = now
}

// Start begins the daily timer
func (s *ReminderScheduler) Start(ctx context.Context) error {
	return s.trigger.start(ctx)
}

// Stop cancels the timer and any scheduled run in progress
func (s *ReminderScheduler) Stop(ctx context.Context) error {
	return s.trigger.stop(ctx)
}

// IsRunning reports whether the timer is active
func (s *ReminderScheduler) IsRunning() bool {
	return s.trigger.running()
}

// Status describes the schedule and the last run
func (s *ReminderScheduler) Status() map[string]any {
	return s.trigger.status()
}

// RunNow runs the check synchronously for today's date in the scheduler's
// timezone. It works whether or not the timer is started.
func (s *ReminderScheduler) RunNow(ctx context.Context) (*rentalapp.RunSummary, error) {
	var summary *rentalapp.RunSummary
	err := s.trigger.run(ctx, func(ctx context.Context, now time.Time) error {
		var err error
		summary, err = s.runner.RunCheck(ctx, rental.Today(now, s.trigger.loc))
		return err
	})
	if err != nil {
		s.logger.Error("Reminder run failed", zap.Error(err))
		return summary, err
	}
	s.logger.Info("Reminder run completed",
		zap.String("date", summary.Date),
		zap.Int("tenants_checked", summary.TenantsChecked),
		zap.Int("reminders_sent", summary.RemindersSent),
		zap.Int("failures", summary.Failures),
	)
	return summary, nil
}
