package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManualMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewRentalMetrics_NilMeter(t *testing.T) {
	_, err := NewRentalMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestRentalMetrics_Record(t *testing.T) {
	reader, mp := newManualMeter(t)
	m, err := NewRentalMetrics(mp.Meter("rental"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordObligationsCreated(ctx, 3)
	m.RecordObligationsCreated(ctx, 0)
	m.RecordStatusTransitions(ctx, "paid", 2)
	m.RecordStatusTransitions(ctx, "overdue", 1)
	m.RecordReminders(ctx, 4, 1)
	m.RecordConfirmations(ctx, 2, 1)
	m.RecordReconciliationDeleted(ctx, 5)
	m.RecordJobDuration(ctx, JobReminders, 1500*time.Millisecond, nil)
	m.RecordJobDuration(ctx, JobReconciliation, time.Second, errors.New("boom"))

	got := collect(t, reader)
	assert.Equal(t, int64(3), sumOf(t, got["rental_obligations_created_total"]))
	assert.Equal(t, int64(3), sumOf(t, got["rental_status_transitions_total"]))
	assert.Equal(t, int64(4), sumOf(t, got["rental_reminders_sent_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["rental_reminder_failures_total"]))
	assert.Equal(t, int64(2), sumOf(t, got["rental_confirmations_queued_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["rental_confirmation_enqueue_failures_total"]))
	assert.Equal(t, int64(5), sumOf(t, got["rental_reconciliation_deleted_total"]))

	hist, ok := got["rental_job_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)
}

func TestRentalMetrics_NilReceiver(t *testing.T) {
	var m *RentalMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordObligationsCreated(ctx, 1)
		m.RecordStatusTransitions(ctx, "paid", 1)
		m.RecordReminders(ctx, 1, 1)
		m.RecordConfirmations(ctx, 1, 1)
		m.RecordReconciliationDeleted(ctx, 1)
		m.RecordJobDuration(ctx, JobReminders, time.Second, nil)
	})
}
