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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReminderService sends rent reminders to tenants whose trigger date is today.
// It only reads obligations and never creates them.
type ReminderService struct {
	repo      rental.ObligationRepository
	directory rental.Directory
	notifier  rental.Notifier
	logger    *zap.Logger
	metrics   *telemetry.RentalMetrics
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	repo rental.ObligationRepository,
	directory rental.Directory,
	notifier rental.Notifier,
	logger *zap.Logger,
) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		repo:      repo,
		directory: directory,
		notifier:  notifier,
		logger:    logger,
	}
}

// SetRentalMetrics sets the metrics collector
func (s *ReminderService) SetRentalMetrics(m *telemetry.RentalMetrics) {
	s.metrics = m
}

// RunCheck evaluates every tenant with a notice day against today, a civil
// date. A failure on one tenant or property is recorded and the run goes on.
// The returned error is non-nil only when the tenant list cannot be read or
// ctx ends, and the summary then covers the tenants handled so far.
func (s *ReminderService) RunCheck(ctx context.Context, today time.Time) (*RunSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reminder", "run_check",
		telemetry.WithAttribute(telemetry.SpanAttrJob, telemetry.JobReminders),
	)
	defer span.End()

	today = rental.CivilDate(today)
	summary := &RunSummary{Date: today.Format(time.DateOnly), Errors: []RunError{}}

	tenants, err := s.directory.ListTenantsWithNoticeDay(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return summary, fmt.Errorf("list tenants: %w", err)
	}

	for i := range tenants {
		if err := ctx.Err(); err != nil {
			telemetry.RecordError(span, err)
			s.finish(ctx, summary)
			return summary, err
		}
		summary.TenantsChecked++
		s.checkTenant(ctx, &tenants[i], today, summary)
	}

	s.finish(ctx, summary)
	telemetry.SetAttributes(span,
		"tenants_checked", summary.TenantsChecked,
		"reminders_sent", summary.RemindersSent,
		"failures", summary.Failures,
	)
	return summary, nil
}

func (s *ReminderService) finish(ctx context.Context, summary *RunSummary) {
	s.metrics.RecordReminders(ctx, summary.RemindersSent, summary.Failures)
	s.logger.Info("Reminder check finished",
		zap.String("date", summary.Date),
		zap.Int("tenants_checked", summary.TenantsChecked),
		zap.Int("reminders_sent", summary.RemindersSent),
		zap.Int("failures", summary.Failures),
	)
}

func (s *ReminderService) checkTenant(ctx context.Context, tenant *rental.TenantProfile, today time.Time, summary *RunSummary) {
	noticeDay, err := tenant.ValidNoticeDay()
	if err != nil {
		s.recordFailure(summary, tenant.TenantID, nil, err)
		return
	}

	period, due := rental.ReminderDue(today, noticeDay)
	if !due {
		return
	}

	for _, propertyID := range tenant.PropertyIDs {
		sent, err := s.remind(ctx, tenant, propertyID, period)
		if err != nil {
			pid := propertyID
			s.recordFailure(summary, tenant.TenantID, &pid, err)
			continue
		}
		if sent {
			summary.RemindersSent++
		}
	}
}

// remind sends the reminder for one property unless the obligation is paid.
// The amount comes from the obligation, or from the monthly rate when the
// obligation has not been generated yet.
func (s *ReminderService) remind(ctx context.Context, tenant *rental.TenantProfile, propertyID uuid.UUID, period time.Time) (bool, error) {
	var amount decimal.Decimal
	o, err := s.repo.FindByKey(ctx, rental.NewObligationKey(tenant.TenantID, propertyID, period))
	switch {
	case err == nil:
		if o.IsPaid() {
			return false, nil
		}
		amount = o.Amount
	case errors.Is(err, shared.ErrNotFound):
		if amount, err = tenant.RateFor(); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("find obligation: %w", err)
	}

	property, err := s.directory.GetProperty(ctx, propertyID)
	if err != nil {
		return false, err
	}

	err = s.notifier.SendPaymentReminder(ctx, rental.Reminder{
		TenantID:     tenant.TenantID,
		PropertyID:   propertyID,
		Period:       period,
		PeriodLabel:  rental.PeriodLabel(period),
		Amount:       amount,
		PropertyName: property.Name,
	})
	if err != nil {
		return false, fmt.Errorf("send reminder: %w", err)
	}

	s.logger.Debug("Payment reminder sent",
		zap.String("tenant_id", tenant.TenantID.String()),
		zap.String("property_id", propertyID.String()),
		zap.String("period", rental.PeriodKey(period)),
	)
	return true, nil
}

func (s *ReminderService) recordFailure(summary *RunSummary, tenantID uuid.UUID, propertyID *uuid.UUID, err error) {
	code, msg := describe(err)
	summary.Failures++
	summary.Errors = append(summary.Errors, RunError{
		TenantID:   tenantID,
		PropertyID: propertyID,
		Code:       code,
		Message:    msg,
	})

	fields := []zap.Field{zap.String("tenant_id", tenantID.String()), zap.String("code", code), zap.Error(err)}
	if propertyID != nil {
		fields = append(fields, zap.String("property_id", propertyID.String()))
	}
	s.logger.Warn("Reminder failed", fields...)
}
