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

// StatusService moves obligations between pending, paid and overdue.
//
// The status write commits on its own. Confirmations for obligations that
// entered paid are enqueued afterwards, one event per tenant; an enqueue
// failure is logged and counted but never undoes the write.
type StatusService struct {
	repo      rental.ObligationRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
	calendar  calendar
	metrics   *telemetry.RentalMetrics
}

// NewStatusService creates a new StatusService. publisher is normally the
// outbox publisher.
func NewStatusService(
	repo rental.ObligationRepository,
	publisher shared.EventPublisher,
	loc *time.Location,
	logger *zap.Logger,
) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		calendar:  newCalendar(loc),
	}
}

// SetRentalMetrics sets the metrics collector
func (s *StatusService) SetRentalMetrics(m *telemetry.RentalMetrics) {
	s.metrics = m
}

// SetClock overrides the time source
func (s *StatusService) SetClock(now Clock) {
	s.calendar.now = now
}

// SetStatus changes one obligation. notes replaces the stored notes only when non-nil.
func (s *StatusService) SetStatus(ctx context.Context, id uuid.UUID, status rental.ObligationStatus, notes *string) (*StatusResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "obligation", "set_status",
		telemetry.WithAttribute(telemetry.SpanAttrObligationID, id),
		telemetry.WithAttribute(telemetry.SpanAttrStatus, string(status)),
	)
	defer span.End()

	if !status.IsValid() {
		return nil, rental.ErrInvalidStatus
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, rental.ErrObligationMissing
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load obligation %s: %w", id, err)
	}

	today := s.calendar.today()
	becamePaid, err := o.ChangeStatus(status, notes, today)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatuses(ctx, []*rental.Obligation{o}); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("update obligation %s: %w", id, err)
	}
	s.metrics.RecordStatusTransitions(ctx, string(status), 1)

	result := &StatusResult{Obligation: o}
	if becamePaid {
		_, result.NotificationFailures = s.enqueueConfirmations(ctx, []*rental.Obligation{o}, today)
	}
	return result, nil
}

// SetStatusBulk changes many obligations in one transaction. Unknown ids are
// reported in NotFound and do not fail the call.
func (s *StatusService) SetStatusBulk(ctx context.Context, ids []uuid.UUID, status rental.ObligationStatus, notes *string) (*BulkStatusResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "obligation", "set_status_bulk",
		telemetry.WithAttribute(telemetry.SpanAttrStatus, string(status)),
		telemetry.WithAttribute(telemetry.SpanAttrCount, len(ids)),
	)
	defer span.End()

	if !status.IsValid() {
		return nil, rental.ErrInvalidStatus
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, invalidInput("at least one obligation id is required")
	}

	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load obligations: %w", err)
	}
	byID := make(map[uuid.UUID]*rental.Obligation, len(found))
	for _, o := range found {
		byID[o.ID] = o
	}

	today := s.calendar.today()
	result := &BulkStatusResult{NotFound: []uuid.UUID{}, Items: make([]BulkItemResult, 0, len(ids))}
	updated := make([]*rental.Obligation, 0, len(found))
	var paid []*rental.Obligation
	for _, id := range ids {
		o, ok := byID[id]
		if !ok {
			result.NotFound = append(result.NotFound, id)
			result.Items = append(result.Items, BulkItemResult{ID: id, Result: ItemNotFound})
			continue
		}
		becamePaid, err := o.ChangeStatus(status, notes, today)
		if err != nil {
			return nil, err
		}
		if becamePaid {
			paid = append(paid, o)
		}
		updated = append(updated, o)
		result.Items = append(result.Items, BulkItemResult{ID: id, Result: ItemUpdated})
	}

	if err := s.repo.UpdateStatuses(ctx, updated); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("update obligations: %w", err)
	}
	result.Updated = len(updated)
	s.metrics.RecordStatusTransitions(ctx, string(status), len(updated))

	result.NotificationsQueued, result.NotificationFailures = s.enqueueConfirmations(ctx, paid, today)

	s.logger.Info("Obligation statuses updated",
		zap.String("status", string(status)),
		zap.Int("updated", result.Updated),
		zap.Int("not_found", len(result.NotFound)),
		zap.Int("notifications_queued", result.NotificationsQueued),
		zap.Int("notification_failures", result.NotificationFailures),
	)
	return result, nil
}

// enqueueConfirmations runs after the status write committed. It detaches
// from ctx cancellation so an aborted request still queues its confirmations.
func (s *StatusService) enqueueConfirmations(ctx context.Context, paid []*rental.Obligation, paymentDate time.Time) (queued, failed int) {
	if len(paid) == 0 {
		return 0, 0
	}
	ctx = context.WithoutCancel(ctx)

	for _, event := range rental.GroupPaidByTenant(paid, paymentDate) {
		if s.publisher == nil {
			failed++
			s.logger.Warn("No confirmation publisher configured",
				zap.String("tenant_id", event.TenantID().String()))
			continue
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			failed++
			s.logger.Error("Failed to enqueue payment confirmation",
				zap.String("tenant_id", event.TenantID().String()),
				zap.Int("obligations", len(event.Items)),
				zap.Error(err),
			)
			continue
		}
		queued++
	}
	s.metrics.RecordConfirmations(ctx, queued, failed)
	return queued, failed
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
