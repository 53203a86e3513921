package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	QueryParseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "transcripts",
			Name:      "query_parse_total",
			Help:      "Parsed queries by syntax and outcome",
		},
		[]string{"advanced", "success"},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "transcripts",
			Name:      "search_requests_total",
			Help:      "Total number of search calls per source",
		},
		[]string{"source", "status"},
	)

	SearchFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "transcripts",
			Name:      "search_fallback_total",
			Help:      "Searches answered by the relational store instead of the engine",
		},
		[]string{"reason"}, // timeout / error / disabled / forced
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "transcripts",
			Name:      "search_duration_seconds",
			Help:      "Search call duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueryParseTotal)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchFallbackTotal)
	prometheus.MustRegister(SearchDuration)
	searchMetricsRegistered = true
}

// ObserveParse counts one parsed query.
func ObserveParse(advanced, success bool) {
	QueryParseTotal.WithLabelValues(strconv.FormatBool(advanced), strconv.FormatBool(success)).Inc()
}
