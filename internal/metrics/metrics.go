package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resultados posibles de un scoring.
const (
	OutcomeApproved       = "approved"
	OutcomeRefused        = "refused"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeSchemaMismatch = "schema_mismatch"
	OutcomeInferenceError = "inference_error"
)

var (
	ScoringRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Total number of scoring requests by variant and outcome",
		},
		[]string{"variant", "outcome"},
	)

	ScoringProbability = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoring_probability",
			Help:    "Distribution of predicted repayment probabilities",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
		[]string{"variant"},
	)

	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "scoring_duration_seconds",
			Help: "Duration of scoring in seconds",
		},
		[]string{"variant"},
	)

	ProbabilityCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_cache_lookups_total",
			Help: "Probability cache lookups by result",
		},
		[]string{"result"},
	)

	ImportanceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "importance_requests_total",
			Help: "Feature importance requests by availability",
		},
		[]string{"available"},
	)
)
