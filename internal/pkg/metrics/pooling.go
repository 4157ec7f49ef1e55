package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quotes_issued_total",
			Help: "Total number of quotes issued",
		},
	)

	MatchesProposedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pooling_matches_proposed_total",
			Help: "Total number of pooling matches proposed by the optimizer",
		},
	)

	MatchesExecutedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pooling_matches_executed_total",
			Help: "Total number of pooling matches executed",
		},
	)

	MatchesExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pooling_matches_expired_total",
			Help: "Total number of pooling matches expired by cleanup",
		},
	)

	OptimizeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pooling_optimize_duration_seconds",
			Help:    "Pooling optimization run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
