package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ScansStarted counts scans accepted for processing.
	ScansStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "visibility",
		Subsystem: "scan",
		Name:      "started_total",
		Help:      "Total number of scans started.",
	})

	// ScansCompleted counts finished scans by final status or failure.
	ScansCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "visibility",
		Subsystem: "scan",
		Name:      "completed_total",
		Help:      "Total number of scans completed, labeled by outcome.",
	}, []string{"outcome"})

	// ActiveScans is the number of scans currently in flight.
	ActiveScans = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "visibility",
		Subsystem: "scan",
		Name:      "active",
		Help:      "Current number of in-flight scans.",
	})

	// ScanDurationSeconds is end-to-end scan time.
	ScanDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "visibility",
		Subsystem: "scan",
		Name:      "duration_seconds",
		Help:      "End-to-end time to run one scan.",
		Buckets:   []float64{1, 5, 10, 20, 30, 45, 60, 90, 120, 180},
	})

	// ProviderCallDuration is per-provider LLM call time.
	ProviderCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "visibility",
		Subsystem: "scan",
		Name:      "provider_call_duration_seconds",
		Help:      "Time per LLM provider call, labeled by provider.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 15, 20},
	}, []string{"provider"})

	// ProviderErrors counts failed provider calls by provider.
	ProviderErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "visibility",
		Subsystem: "scan",
		Name:      "provider_errors_total",
		Help:      "Total number of failed LLM provider calls, labeled by provider.",
	}, []string{"provider"})

	// ConsensusRuns counts elevated-tier triple-run scans.
	ConsensusRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "visibility",
		Subsystem: "scan",
		Name:      "consensus_runs_total",
		Help:      "Total number of elevated-tier scans that ran the triple-run consensus pipeline.",
	})
)

// Register registers scan metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ScansStarted,
			ScansCompleted,
			ActiveScans,
			ScanDurationSeconds,
			ProviderCallDuration,
			ProviderErrors,
			ConsensusRuns,
		)
	})
}
