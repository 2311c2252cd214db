package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/domain/shared"
	"github.com/rentmgr/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MaxMonthsAhead bounds GenerateAhead
const MaxMonthsAhead = 24

// GeneratorService creates monthly obligations. Creation is idempotent: the
// store's unique key is the only guard, and losing an insert race returns the
// winning record.
type GeneratorService struct {
	repo      rental.ObligationRepository
	directory rental.Directory
	logger    *zap.Logger
	calendar  calendar
	metrics   *telemetry.RentalMetrics
}

// NewGeneratorService creates a new GeneratorService
func NewGeneratorService(
	repo rental.ObligationRepository,
	directory rental.Directory,
	loc *time.Location,
	logger *zap.Logger,
) *GeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneratorService{
		repo:      repo,
		directory: directory,
		logger:    logger,
		calendar:  newCalendar(loc),
	}
}

// SetRentalMetrics sets the metrics collector
func (s *GeneratorService) SetRentalMetrics(m *telemetry.RentalMetrics) {
	s.metrics = m
}

// SetClock overrides the time source
func (s *GeneratorService) SetClock(now Clock) {
	s.calendar.now = now
}

// Ensure returns the obligation for (tenant, property, period), creating a
// pending one at the tenant's monthly rate when none exists. An existing
// record is returned unchanged whatever its status.
func (s *GeneratorService) Ensure(ctx context.Context, tenantID, propertyID uuid.UUID, period time.Time) (*EnsureResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "obligation", "ensure",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID),
		telemetry.WithAttribute(telemetry.SpanAttrPropertyID, propertyID),
	)
	defer span.End()

	if period.IsZero() {
		return nil, rental.ErrInvalidPeriod
	}

	tenant, err := s.directory.GetTenant(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result, err := s.ensureFor(ctx, tenant, propertyID, rental.NormalizePeriod(period))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, "created", result.Created)
	return result, nil
}

// EnsureBatch applies Ensure to every (tenant, month) pair of year. Pairs are
// independent: a failing pair is reported in Errors and the rest continue.
func (s *GeneratorService) EnsureBatch(ctx context.Context, tenantIDs []uuid.UUID, propertyID uuid.UUID, year int, months []int) (*BatchResult, error) {
	if err := validateBatch(tenantIDs, propertyID); err != nil {
		return nil, err
	}
	if len(months) == 0 {
		return nil, invalidInput("at least one month is required")
	}

	targets := make([]batchTarget, len(months))
	for i, m := range months {
		p, err := rental.NewPeriod(year, m)
		targets[i] = batchTarget{period: p, label: fmt.Sprintf("%04d-%02d", year, m), err: err}
	}
	return s.ensureMany(ctx, "ensure_batch", tenantIDs, propertyID, targets)
}

// GenerateAhead ensures obligations for the n months following the current
// month in the business timezone. The range may cross a year boundary.
func (s *GeneratorService) GenerateAhead(ctx context.Context, tenantIDs []uuid.UUID, propertyID uuid.UUID, n int) (*BatchResult, error) {
	if err := validateBatch(tenantIDs, propertyID); err != nil {
		return nil, err
	}
	if n < 1 || n > MaxMonthsAhead {
		return nil, invalidInput(fmt.Sprintf("months ahead must be between 1 and %d", MaxMonthsAhead))
	}

	first := rental.AddMonths(s.calendar.currentPeriod(), 1)
	targets := make([]batchTarget, n)
	for i := range targets {
		p := rental.AddMonths(first, i)
		targets[i] = batchTarget{period: p, label: rental.PeriodKey(p)}
	}
	return s.ensureMany(ctx, "generate_ahead", tenantIDs, propertyID, targets)
}

type batchTarget struct {
	period time.Time
	label  string
	err    error
}

func validateBatch(tenantIDs []uuid.UUID, propertyID uuid.UUID) error {
	if len(tenantIDs) == 0 {
		return invalidInput("at least one tenant is required")
	}
	if propertyID == uuid.Nil {
		return invalidInput("property is required")
	}
	return nil
}

func (s *GeneratorService) ensureMany(ctx context.Context, method string, tenantIDs []uuid.UUID, propertyID uuid.UUID, targets []batchTarget) (*BatchResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "obligation", method,
		telemetry.WithAttribute(telemetry.SpanAttrPropertyID, propertyID),
		telemetry.WithAttribute(telemetry.SpanAttrCount, len(tenantIDs)*len(targets)),
	)
	defer span.End()

	result := newBatchResult()
	fail := func(tenantID uuid.UUID, label string, err error) {
		code, msg := describe(err)
		result.Errors = append(result.Errors, PairError{TenantID: tenantID, PeriodMonth: label, Code: code, Message: msg})
	}

	for _, tenantID := range tenantIDs {
		if err := ctx.Err(); err != nil {
			telemetry.RecordError(span, err)
			return result, err
		}

		tenant, err := s.directory.GetTenant(ctx, tenantID)
		if err != nil {
			for _, t := range targets {
				fail(tenantID, t.label, err)
			}
			continue
		}

		for _, t := range targets {
			if t.err != nil {
				fail(tenantID, t.label, t.err)
				continue
			}
			ensured, err := s.ensureFor(ctx, tenant, propertyID, t.period)
			if err != nil {
				fail(tenantID, t.label, err)
				continue
			}
			item := EnsuredItem{ObligationID: ensured.ObligationID, TenantID: tenantID, PeriodMonth: t.label}
			if ensured.Created {
				result.Created = append(result.Created, item)
			} else {
				result.Existing = append(result.Existing, item)
			}
		}
	}

	s.logger.Info("Obligations ensured",
		zap.String("operation", method),
		zap.String("property_id", propertyID.String()),
		zap.Int("created", len(result.Created)),
		zap.Int("existing", len(result.Existing)),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

func (s *GeneratorService) ensureFor(ctx context.Context, tenant *rental.TenantProfile, propertyID uuid.UUID, period time.Time) (*EnsureResult, error) {
	rate, err := tenant.RateFor()
	if err != nil {
		return nil, err
	}
	if !tenant.LinkedTo(propertyID) {
		return nil, rental.ErrPropertyNotLinked
	}

	key := rental.NewObligationKey(tenant.TenantID, propertyID, period)
	existing, err := s.repo.FindByKey(ctx, key)
	switch {
	case err == nil:
		return &EnsureResult{ObligationID: existing.ID}, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("find obligation %s: %w", key, err)
	}

	o, err := rental.NewObligation(tenant.TenantID, propertyID, period, rate)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, fmt.Errorf("create obligation %s: %w", key, err)
		}
		// lost the race; the other writer's record is the obligation
		winner, ferr := s.repo.FindByKey(ctx, key)
		if ferr != nil {
			return nil, fmt.Errorf("re-fetch obligation %s: %w", key, ferr)
		}
		s.logger.Debug("Concurrent ensure resolved to existing obligation",
			zap.String("key", key.String()),
			zap.String("obligation_id", winner.ID.String()),
		)
		return &EnsureResult{ObligationID: winner.ID}, nil
	}

	s.metrics.RecordObligationsCreated(ctx, 1)
	return &EnsureResult{ObligationID: o.ID, Created: true}, nil
}
