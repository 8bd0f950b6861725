// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Check metrics
	ChecksTotal      *prometheus.CounterVec
	FieldMismatches  *prometheus.CounterVec
	AccountsNotFound prometheus.Counter
	SalePrice        *prometheus.GaugeVec

	// Watcher metrics
	AccountNotifications prometheus.Counter
	HighestSlotSeen      prometheus.Gauge

	// Latency metrics
	RPCCallLatency *prometheus.HistogramVec

	// Storage metrics
	SnapshotsStored prometheus.Counter
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "solana_token_sale"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "checks_total",
			Help:      "Total number of sale account checks by source and result",
		}, []string{"source", "result"}),
		FieldMismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "field_mismatches_total",
			Help:      "Total number of diverging fields by field name",
		}, []string{"field"}),
		AccountsNotFound: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "accounts_not_found_total",
			Help:      "Total number of reads that found no sale account",
		}),
		SalePrice: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "price_lamports",
			Help:      "Last observed price per token in lamports",
		}, []string{"sale_account"}),

		AccountNotifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "account_notifications_total",
			Help:      "Total number of account notifications received",
		}),
		HighestSlotSeen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "highest_slot_seen",
			Help:      "Highest Solana slot number seen",
		}),

		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		SnapshotsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "snapshots_stored_total",
			Help:      "Total number of sale snapshots stored",
		}),
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordCheck records the result of one check.
func (m *Metrics) RecordCheck(source string, passed bool, failedFields []string) {
	result := "passed"
	if !passed {
		result = "failed"
	}
	m.ChecksTotal.WithLabelValues(source, result).Inc()
	for _, f := range failedFields {
		m.FieldMismatches.WithLabelValues(f).Inc()
	}
}

// RecordNotFound increments the not-found counter.
func (m *Metrics) RecordNotFound() {
	m.AccountsNotFound.Inc()
}

// RecordPrice sets the last observed price of a sale.
func (m *Metrics) RecordPrice(saleAccount string, lamports uint64) {
	m.SalePrice.WithLabelValues(saleAccount).Set(float64(lamports))
}

// RecordNotification counts a watcher notification and tracks its slot.
func (m *Metrics) RecordNotification(slot int64) {
	m.AccountNotifications.Inc()
	m.HighestSlotSeen.Set(float64(slot))
}

// RecordRPCLatency records RPC call latency.
func (m *Metrics) RecordRPCLatency(method string, seconds float64) {
	m.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordSnapshotStored increments the snapshots stored counter.
func (m *Metrics) RecordSnapshotStored() {
	m.SnapshotsStored.Inc()
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, seconds float64, err error) {
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
