package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-marketplace-indexer/internal/metrics"
)

func TestMetrics_ObserveRound(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())

	m.ObserveRound("wapal", 10, 3, 1200, 250*time.Millisecond)
	m.ObserveRound("wapal", 5, 1, 1300, time.Second)
	m.ObserveRound("topaz", 2, 0, 99, time.Millisecond)

	assert.Equal(t, float64(15), testutil.ToFloat64(m.TransactionsProcessed.WithLabelValues("wapal")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.ActivitiesEmitted.WithLabelValues("wapal")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.RoundsPersisted.WithLabelValues("wapal")))
	assert.Equal(t, float64(1300), testutil.ToFloat64(m.LastPersistedVersion.WithLabelValues("wapal")))
	assert.Equal(t, float64(99), testutil.ToFloat64(m.LastPersistedVersion.WithLabelValues("topaz")))
}

func TestMetrics_RoundFailed(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())

	m.RoundFailed("wapal", "persist")
	m.RoundFailed("wapal", "persist")
	m.RoundFailed("wapal", "remap")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RoundErrors.WithLabelValues("wapal", "persist")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RoundErrors.WithLabelValues("wapal", "remap")))
}

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RoundFailed("wapal", "fetch")

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Panics(t, func() { metrics.NewMetrics(reg) })
}
