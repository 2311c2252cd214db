package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	rentalapp "github.com/rentmgr/backend/internal/application/rental"
	"github.com/rentmgr/backend/internal/infrastructure/telemetry"
)

// Reconciler removes duplicate obligations
type Reconciler interface {
	Run(ctx context.Context) (*rentalapp.ReconcileResult, error)
}

// ReconciliationScheduler runs duplicate cleanup nightly
type ReconciliationScheduler struct {
	trigger    *dailyTrigger
	reconciler Reconciler
	logger     *zap.Logger
}

// NewReconciliationScheduler creates a reconciliation scheduler
func NewReconciliationScheduler(cfg Config, reconciler Reconciler, logger *zap.Logger) (*ReconciliationScheduler, error) {
	if reconciler == nil {
		return nil, ErrRunnerMissing
	}
	trigger, err := newDailyTrigger(telemetry.JobReconciliation, cfg, logger)
	if err != nil {
		return nil, err
	}
	s := &ReconciliationScheduler{
		trigger:    trigger,
		reconciler: reconciler,
		logger:     trigger.logger,
	}
	trigger.fire = func(ctx context.Context) {
		_, _ = s.RunNow(ctx)
	}
	return s, nil
}

func (s *ReconciliationScheduler) SetRentalMetrics(m *telemetry.RentalMetrics) {
	s.trigger.metrics = m
}

func (s *ReconciliationScheduler) SetClock(now func() time.Time) {
	s.trigger.now = now
}

func (s *ReconciliationScheduler) Start(ctx context.Context) error {
	return s.trigger.start(ctx)
}

func (s *ReconciliationScheduler) Stop(ctx context.Context) error {
	return s.trigger.stop(ctx)
}

func (s *ReconciliationScheduler) IsRunning() bool {
	return s.trigger.running()
}

func (s *ReconciliationScheduler) Status() map[string]any {
	return s.trigger.status()
}

// RunNow runs reconciliation synchronously
func (s *ReconciliationScheduler) RunNow(ctx context.Context) (*rentalapp.ReconcileResult, error) {
	var result *rentalapp.ReconcileResult
	err := s.trigger.run(ctx, func(ctx context.Context, _ time.Time) error {
		var err error
		result, err = s.reconciler.Run(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("Reconciliation run failed", zap.Error(err))
		return result, err
	}
	s.logger.Info("Reconciliation run completed",
		zap.Int("groups_with_duplicates", result.GroupsWithDuplicates),
		zap.Int64("records_deleted", result.RecordsDeleted),
		zap.Int("remaining_duplicate_groups", result.RemainingDuplicateGroups),
	)
	return result, nil
}
