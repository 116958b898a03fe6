package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BackofficeMetrics holds the prometheus collectors behind the pricing
// back office: price-list mutations, order transitions and the vendor
// cost snapshot worker.
type BackofficeMetrics struct {
	mutations        *prometheus.CounterVec
	orderTransitions *prometheus.CounterVec
	snapshotRuns     *prometheus.CounterVec
	snapshotDuration prometheus.Histogram
	outboxBacklog    prometheus.Gauge
}

var (
	backofficeMetricsOnce sync.Once
	backofficeMetrics     *BackofficeMetrics
)

func Backoffice() *BackofficeMetrics {
	return BackofficeWithConfig(Config{})
}

func BackofficeWithConfig(cfg Config) *BackofficeMetrics {
	backofficeMetricsOnce.Do(func() {
		backofficeMetrics = newBackofficeMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return backofficeMetrics
}

func ResetBackofficeMetricsForTest() {
	backofficeMetricsOnce = sync.Once{}
	backofficeMetrics = nil
}

func newBackofficeMetrics(registerer prometheus.Registerer, cfg Config) *BackofficeMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "wassel"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &BackofficeMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "wassel_pricelist_mutations_total",
			Help:        "Price list mutations by action and result.",
			ConstLabels: constLabels,
		}, []string{"action", "result"}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "wassel_order_transitions_total",
			Help:        "Order status transitions by target status.",
			ConstLabels: constLabels,
		}, []string{"to"}),
		snapshotRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "wassel_vendor_cost_snapshot_runs_total",
			Help:        "Vendor cost snapshot worker runs by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		snapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "wassel_vendor_cost_snapshot_duration_seconds",
			Help:        "Duration of one vendor cost snapshot batch.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}),
		outboxBacklog: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "wassel_outbox_backlog",
			Help:        "Unpublished rows in the domain event outbox.",
			ConstLabels: constLabels,
		}),
	}

	for _, collector := range []prometheus.Collector{
		m.mutations,
		m.orderTransitions,
		m.snapshotRuns,
		m.snapshotDuration,
		m.outboxBacklog,
	} {
		if err := registerer.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
		}
	}
	return m
}

func (m *BackofficeMetrics) IncMutation(action, result string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(action, result).Inc()
}

func (m *BackofficeMetrics) IncOrderTransition(to string) {
	if m == nil {
		return
	}
	m.orderTransitions.WithLabelValues(to).Inc()
}

func (m *BackofficeMetrics) IncSnapshotRun(result string) {
	if m == nil {
		return
	}
	m.snapshotRuns.WithLabelValues(result).Inc()
}

func (m *BackofficeMetrics) ObserveSnapshotDuration(d time.Duration) {
	if m == nil {
		return
	}
	seconds := d.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.snapshotDuration.Observe(seconds)
}

func (m *BackofficeMetrics) SetOutboxBacklog(value int) {
	if m == nil {
		return
	}
	m.outboxBacklog.Set(float64(value))
}
