package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetrics records query counts and latency through GORM callbacks and
// reports connection pool state on every metric collection.
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter
	slowThreshold  time.Duration
	registration   metric.Registration
}

const dbMetricsStartKey contextKey = "db_metrics_start_time"

// RegisterDBMetrics installs query metrics on db and observes sqlDB's pool
func RegisterDBMetrics(db *gorm.DB, meter metric.Meter, slowThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	queryTotal, err := NewCounter(meter, "db_query_total", "Database queries by operation", "{query}")
	if err != nil {
		return nil, err
	}
	queryDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	slowQueryTotal, err := NewCounter(meter, "db_slow_query_total", "Queries slower than the threshold", "{query}")
	if err != nil {
		return nil, err
	}

	m := &DBMetrics{
		queryTotal:     queryTotal,
		queryDuration:  queryDuration,
		slowQueryTotal: slowQueryTotal,
		slowThreshold:  slowThreshold,
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if m.registration, err = observePool(meter, sqlDB); err != nil {
		return nil, err
	}

	for _, hook := range gormHooks(db) {
		op := strings.ToUpper(hook.name)
		if err := hook.before("metrics:before_"+hook.name, m.markStart); err != nil {
			return nil, err
		}
		if err := hook.after("metrics:after_"+hook.name, func(tx *gorm.DB) { m.record(tx, op) }); err != nil {
			return nil, err
		}
	}

	logger.Info("Database metrics registered", zap.Duration("slow_query_threshold", slowThreshold))
	return m, nil
}

func observePool(meter metric.Meter, sqlDB *sql.DB) (metric.Registration, error) {
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		return nil
	}, conns, maxConns)
}

func (m *DBMetrics) markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, dbMetricsStartKey, time.Now())
	}
}

func (m *DBMetrics) record(db *gorm.DB, operation string) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(dbMetricsStartKey).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)

	outcome := "ok"
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		outcome = "error"
	}
	m.queryTotal.Inc(ctx, AttrDBOperation.String(operation), AttrOutcome.String(outcome))
	m.queryDuration.RecordDuration(ctx, elapsed, AttrDBOperation.String(operation))

	if elapsed > m.slowThreshold {
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
	}
}

// Stop unregisters the pool observer
func (m *DBMetrics) Stop() error {
	if m == nil || m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}
