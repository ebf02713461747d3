package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveLookup(t *testing.T) {
	InitMetrics()

	hits := LookupsTotal.WithLabelValues("MA-L", ResultHit)
	before := counterValue(t, hits)
	ObserveLookup("MA-L", ResultHit)
	assert.Equal(t, before+1, counterValue(t, hits))

	misses := LookupsTotal.WithLabelValues("none", ResultMiss)
	before = counterValue(t, misses)
	ObserveLookup("", ResultMiss)
	assert.Equal(t, before+1, counterValue(t, misses))
}

func TestObserveTable(t *testing.T) {
	InitMetrics()

	dups := counterValue(t, DuplicatesDiscarded)
	ObserveTable(42, 3)

	var m dto.Metric
	require.NoError(t, CompiledRecords.Write(&m))
	assert.Equal(t, float64(42), m.GetGauge().GetValue())
	assert.Equal(t, dups+3, counterValue(t, DuplicatesDiscarded))
}
