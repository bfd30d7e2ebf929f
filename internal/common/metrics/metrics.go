package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfp_extractions_total",
			Help: "Total number of field extractions by schema and source",
		},
		[]string{"schema", "source"},
	)

	ScoringsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfp_scorings_total",
			Help: "Total number of proposal comparisons by source",
		},
		[]string{"source"},
	)

	DispatchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfp_dispatch_outcomes_total",
			Help: "Per-vendor dispatch outcomes by result",
		},
		[]string{"result"},
	)

	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "rfp_inference_duration_seconds",
			Help: "Duration of inference-service calls in seconds",
		},
		[]string{"operation"},
	)
)
