package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StatsRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_requests_total",
			Help: "Stats endpoint requests by route and outcome",
		},
		[]string{"route", "outcome"}, // summary|customers|lookup|deleted_flags , ok|error|not_found
	)

	SourceQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stats_source_query_duration_seconds",
			Help:    "Duration of read queries by source database",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"}, // registration|financedata
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		StatsRequestsTotal,
		SourceQueryDuration,
	)
}
