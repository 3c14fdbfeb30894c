// Package metrics provides Prometheus metrics for the marketplace processing pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace_indexer"

// Metrics holds the pipeline metrics, labelled by marketplace
type Metrics struct {
	TransactionsProcessed *prometheus.CounterVec
	ActivitiesEmitted     *prometheus.CounterVec
	RoundsPersisted       *prometheus.CounterVec
	RoundErrors           *prometheus.CounterVec
	PublishErrors         *prometheus.CounterVec
	RoundDuration         *prometheus.HistogramVec
	LastPersistedVersion  *prometheus.GaugeVec
}

// NewMetrics creates the pipeline metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "transactions_processed_total",
			Help:      "Total number of transactions remapped",
		}, []string{"marketplace"}),
		ActivitiesEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "activities_emitted_total",
			Help:      "Total number of activities persisted",
		}, []string{"marketplace"}),
		RoundsPersisted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "rounds_persisted_total",
			Help:      "Total number of rounds written to storage",
		}, []string{"marketplace"}),
		RoundErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "round_errors_total",
			Help:      "Total number of failed rounds by stage",
		}, []string{"marketplace", "stage"}),
		PublishErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messaging",
			Name:      "publish_errors_total",
			Help:      "Total number of activities that could not be published",
		}, []string{"marketplace"}),
		RoundDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "round_duration_seconds",
			Help:      "Time from fetching a batch to persisting its round",
			Buckets:   prometheus.DefBuckets,
		}, []string{"marketplace"}),
		LastPersistedVersion: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "last_persisted_version",
			Help:      "Last transaction version checkpointed",
		}, []string{"marketplace"}),
	}
}

// ObserveRound records a persisted round
func (m *Metrics) ObserveRound(marketplace string, transactions, activities int, version uint64, elapsed time.Duration) {
	m.TransactionsProcessed.WithLabelValues(marketplace).Add(float64(transactions))
	m.ActivitiesEmitted.WithLabelValues(marketplace).Add(float64(activities))
	m.RoundsPersisted.WithLabelValues(marketplace).Inc()
	m.RoundDuration.WithLabelValues(marketplace).Observe(elapsed.Seconds())
	m.LastPersistedVersion.WithLabelValues(marketplace).Set(float64(version))
}

// RoundFailed records a round that failed in the given stage
func (m *Metrics) RoundFailed(marketplace, stage string) {
	m.RoundErrors.WithLabelValues(marketplace, stage).Inc()
}
