package rental

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultReconcileBatchSize is how many ids one delete statement removes
const DefaultReconcileBatchSize = 500

// ReconciliationService collapses obligations that share a key down to one
// record. It takes no locks: a row inserted for a key between the scan and
// the delete survives and shows up in the re-scan.
type ReconciliationService struct {
	repo      rental.ObligationRepository
	batchSize int
	logger    *zap.Logger
	metrics   *telemetry.RentalMetrics
}

// NewReconciliationService creates a new ReconciliationService. A batchSize
// below one uses DefaultReconcileBatchSize.
func NewReconciliationService(repo rental.ObligationRepository, batchSize int, logger *zap.Logger) *ReconciliationService {
	if batchSize < 1 {
		batchSize = DefaultReconcileBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{repo: repo, batchSize: batchSize, logger: logger}
}

// SetRentalMetrics sets the metrics collector
func (s *ReconciliationService) SetRentalMetrics(m *telemetry.RentalMetrics) {
	s.metrics = m
}

// Run deletes every duplicate, keeping one record per key (see
// rental.SelectKeeper), then re-scans once and reports what is left.
func (s *ReconciliationService) Run(ctx context.Context) (*ReconcileResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "run",
		telemetry.WithAttribute(telemetry.SpanAttrJob, telemetry.JobReconciliation),
	)
	defer span.End()

	groups, err := s.repo.FindDuplicateGroups(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("scan duplicates: %w", err)
	}

	result := &ReconcileResult{GroupsWithDuplicates: len(groups)}
	if len(groups) == 0 {
		s.logger.Info("Reconciliation found no duplicate obligations")
		return result, nil
	}

	var discard []uuid.UUID
	for _, g := range groups {
		discard = append(discard, rental.DiscardIDs(g.Members)...)
	}

	for start := 0; start < len(discard); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			telemetry.RecordError(span, err)
			s.metrics.RecordReconciliationDeleted(ctx, result.RecordsDeleted)
			return result, err
		}
		end := min(start+s.batchSize, len(discard))
		n, err := s.repo.DeleteByIDs(ctx, discard[start:end])
		result.RecordsDeleted += n
		if err != nil {
			telemetry.RecordError(span, err)
			s.metrics.RecordReconciliationDeleted(ctx, result.RecordsDeleted)
			return result, fmt.Errorf("delete duplicates: %w", err)
		}
	}
	s.metrics.RecordReconciliationDeleted(ctx, result.RecordsDeleted)

	remaining, err := s.repo.FindDuplicateGroups(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return result, fmt.Errorf("re-scan duplicates: %w", err)
	}
	result.RemainingDuplicateGroups = len(remaining)
	if len(remaining) > 0 {
		result.Warning = fmt.Sprintf("%d duplicate groups remain after reconciliation; records were created during the run", len(remaining))
		s.logger.Warn("Duplicate obligations remain after reconciliation",
			zap.Int("remaining_groups", len(remaining)),
		)
	}

	s.logger.Info("Reconciliation finished",
		zap.Int("groups", result.GroupsWithDuplicates),
		zap.Int64("deleted", result.RecordsDeleted),
		zap.Int("remaining_groups", result.RemainingDuplicateGroups),
	)
	return result, nil
}
