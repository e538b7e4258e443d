// Package metrics provides Prometheus metrics for the Matcha service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlacesRequestsTotal tracks outbound places-search requests
	PlacesRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matcha",
			Subsystem: "places",
			Name:      "requests_total",
			Help:      "Total number of places-search API requests by endpoint and status code",
		},
		[]string{"endpoint", "status_code"},
	)

	// PlacesRequestDuration tracks places-search request duration
	PlacesRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "matcha",
			Subsystem: "places",
			Name:      "request_duration_seconds",
			Help:      "Duration of places-search API requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// ImportResultsTotal tracks import pipeline outcomes
	ImportResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matcha",
			Subsystem: "importer",
			Name:      "results_total",
			Help:      "Total number of import pipeline decisions by outcome",
		},
		[]string{"outcome"},
	)

	// MatchConfidence tracks the confidence distribution of persisted links
	MatchConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "matcha",
			Subsystem: "matching",
			Name:      "link_confidence",
			Help:      "Confidence of shop-to-brand links at persist time",
			Buckets:   []float64{0.85, 0.9, 0.95, 0.99, 1.0},
		},
	)
)
