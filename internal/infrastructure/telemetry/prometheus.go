package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rentmgr/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OutboxCounter reports outbox entries per status
type OutboxCounter interface {
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
}

// PrometheusRegistry serves a pull endpoint next to the OTLP push pipeline.
// It carries HTTP request metrics, the outbox backlog and the Go runtime.
type PrometheusRegistry struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusRegistry builds the registry. outbox may be nil.
func NewPrometheusRegistry(outbox OutboxCounter, logger *zap.Logger) *PrometheusRegistry {
	reg := prometheus.NewRegistry()
	r := &PrometheusRegistry{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rent_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rent_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requestsTotal,
		r.requestDuration,
	)
	if outbox != nil {
		reg.MustRegister(newOutboxCollector(outbox, logger))
	}
	return r
}

// Handler returns the scrape handler
func (r *PrometheusRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request
func (r *PrometheusRegistry) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Gatherer exposes the registry for tests
func (r *PrometheusRegistry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// outboxCollector queries the outbox on every scrape
type outboxCollector struct {
	outbox OutboxCounter
	logger *zap.Logger
	desc   *prometheus.Desc
}

func newOutboxCollector(outbox OutboxCounter, logger *zap.Logger) *outboxCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &outboxCollector{
		outbox: outbox,
		logger: logger,
		desc: prometheus.NewDesc(
			"rent_outbox_entries",
			"Outbox entries by status",
			[]string{"status"}, nil,
		),
	}
}

func (c *outboxCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *outboxCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := c.outbox.CountByStatus(ctx)
	if err != nil {
		c.logger.Warn("failed to count outbox entries for scrape", zap.Error(err))
		return
	}
	for _, status := range []shared.OutboxStatus{
		shared.OutboxStatusPending,
		shared.OutboxStatusProcessing,
		shared.OutboxStatusSent,
		shared.OutboxStatusFailed,
		shared.OutboxStatusDead,
	} {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(counts[status]), string(status))
	}
}
