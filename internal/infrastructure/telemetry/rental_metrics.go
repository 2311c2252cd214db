package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Job names used for the job duration histogram
const (
	JobReminders      = "reminders"
	JobReconciliation = "reconciliation"
)

// RentalMetrics counts obligation lifecycle activity. All methods are safe
// on a nil receiver so services can run without metrics.
type RentalMetrics struct {
	obligationsCreated    *Counter
	statusTransitions     *Counter
	remindersSent         *Counter
	reminderFailures      *Counter
	confirmationsQueued   *Counter
	notificationFailures  *Counter
	reconciliationDeleted *Counter
	jobDuration           *Histogram
}

// NewRentalMetrics creates the instruments on meter
func NewRentalMetrics(meter metric.Meter) (*RentalMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &RentalMetrics{}
	counters := []struct {
		dst         **Counter
		name, descr string
	}{
		{&m.obligationsCreated, "rental_obligations_created_total", "Obligations inserted by ensure"},
		{&m.statusTransitions, "rental_status_transitions_total", "Obligation status changes by target status"},
		{&m.remindersSent, "rental_reminders_sent_total", "Payment reminders handed to the notifier"},
		{&m.reminderFailures, "rental_reminder_failures_total", "Tenants or properties whose reminder failed"},
		{&m.confirmationsQueued, "rental_confirmations_queued_total", "Payment confirmations written to the outbox"},
		{&m.notificationFailures, "rental_confirmation_enqueue_failures_total", "Payment confirmations that could not be queued"},
		{&m.reconciliationDeleted, "rental_reconciliation_deleted_total", "Duplicate obligations removed"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.descr, "1")
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	m.jobDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "rental_job_duration_seconds",
		Description: "Duration of scheduled and manual job runs",
		Unit:        "s",
		Boundaries:  JobDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *RentalMetrics) RecordObligationsCreated(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.obligationsCreated.Add(ctx, int64(n))
}

func (m *RentalMetrics) RecordStatusTransitions(ctx context.Context, status string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.statusTransitions.Add(ctx, int64(n), AttrStatus.String(status))
}

func (m *RentalMetrics) RecordReminders(ctx context.Context, sent, failed int) {
	if m == nil {
		return
	}
	if sent > 0 {
		m.remindersSent.Add(ctx, int64(sent))
	}
	if failed > 0 {
		m.reminderFailures.Add(ctx, int64(failed))
	}
}

func (m *RentalMetrics) RecordConfirmations(ctx context.Context, queued, failed int) {
	if m == nil {
		return
	}
	if queued > 0 {
		m.confirmationsQueued.Add(ctx, int64(queued))
	}
	if failed > 0 {
		m.notificationFailures.Add(ctx, int64(failed))
	}
}

func (m *RentalMetrics) RecordReconciliationDeleted(ctx context.Context, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.reconciliationDeleted.Add(ctx, n)
}

// RecordJobDuration records how long a job run took
func (m *RentalMetrics) RecordJobDuration(ctx context.Context, job string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.jobDuration.RecordDuration(ctx, d, AttrJob.String(job), AttrOutcome.String(outcome))
}
