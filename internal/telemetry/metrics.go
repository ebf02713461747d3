package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LookupsTotal counts address lookups by matched registry and outcome
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "macoui",
			Name:      "lookups_total",
			Help:      "Total number of hardware address lookups",
		},
		[]string{"registry", "result"},
	)

	// CompiledRecords reports the size of the table currently served
	CompiledRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "macoui",
			Name:      "compiled_records",
			Help:      "Number of registry records in the served table",
		},
	)

	// DuplicatesDiscarded counts assignments dropped because an earlier source already held the key
	DuplicatesDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "macoui",
			Name:      "duplicates_discarded_total",
			Help:      "Total number of duplicate assignments discarded during compilation",
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// Result labels for LookupsTotal
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// InitMetrics registers all metrics with the global Prometheus registry
// This function is idempotent and can be called multiple times safely
func InitMetrics() {
	once.Do(func() {
		// Ignore AlreadyRegisteredError so tests can build several servers
		prometheus.DefaultRegisterer.Register(LookupsTotal)
		prometheus.DefaultRegisterer.Register(CompiledRecords)
		prometheus.DefaultRegisterer.Register(DuplicatesDiscarded)
	})
}

// ObserveLookup records the outcome of one lookup. registry is empty on a miss.
func ObserveLookup(registry, result string) {
	if registry == "" {
		registry = "none"
	}
	LookupsTotal.WithLabelValues(registry, result).Inc()
}

// ObserveTable publishes the size of a freshly loaded table.
func ObserveTable(records, duplicates int) {
	CompiledRecords.Set(float64(records))
	DuplicatesDiscarded.Add(float64(duplicates))
}
