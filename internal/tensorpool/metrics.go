package tensorpool

import "github.com/prometheus/client_golang/prometheus"

var (
	poolEfficiency = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tensorpool",
			Subsystem: "pool",
			Name:      "efficiency_ratio",
			Help:      "Minimum possible arena size divided by planned arena size for the last finalize",
		},
		[]string{"pool", "planner"},
	)

	poolArenaBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tensorpool",
			Subsystem: "pool",
			Name:      "arena_bytes",
			Help:      "Planned arena size in bytes",
		},
		[]string{"pool"},
	)

	poolRequestedBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tensorpool",
			Subsystem: "pool",
			Name:      "requested_bytes",
			Help:      "Sum of the sizes of all planned tensors",
		},
		[]string{"pool"},
	)

	poolFinalizeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tensorpool",
			Subsystem: "pool",
			Name:      "finalize_total",
			Help:      "Total number of finalize calls by result",
		},
		[]string{"pool", "result"},
	)

	poolAllocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tensorpool",
			Subsystem: "pool",
			Name:      "allocations_total",
			Help:      "Total number of arena allocations by result",
		},
		[]string{"pool", "result"},
	)
)

func init() {
	prometheus.MustRegister(poolEfficiency, poolArenaBytes, poolRequestedBytes, poolFinalizeTotal, poolAllocationsTotal)
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
