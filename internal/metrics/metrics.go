// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

// Package metrics provides Prometheus metrics collection and export.
//
// Metrics are exposed at the /metrics endpoint in Prometheus text format:
//
//	curl http://localhost:4178/metrics
//
// Available metric families:
//
// HTTP:
//   - api_requests_total{method,endpoint,status_code}
//   - api_request_duration_seconds{method,endpoint}
//   - api_active_requests
//
// Upstream sources (metadata search, intent classifier, discover engine):
//   - upstream_request_duration_seconds{source}
//   - upstream_errors_total{source,kind}
//
// Circuit breakers:
//   - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
//   - circuit_breaker_requests_total{name,outcome}
//   - circuit_breaker_transitions_total{name,from,to}
//
// Search pipeline:
//   - search_requests_total{outcome}
//   - search_stage_duration_seconds{stage}
//   - search_variants_issued
//   - search_results_returned
//
// Cache:
//   - cache_hits_total{cache}
//   - cache_misses_total{cache}
//   - cache_evictions_total{cache}
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Upstream call metrics, one series per collaborator
	// (metadata, classifier, discover)
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream API call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Total number of failed upstream API calls",
		},
		[]string{"source", "kind"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through circuit breakers by outcome",
		},
		[]string{"name", "outcome"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Search pipeline metrics
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total search pipeline executions by outcome",
		},
		[]string{"outcome"},
	)

	SearchStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_stage_duration_seconds",
			Help:    "Duration of individual search pipeline stages",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"stage"},
	)

	SearchVariantsIssued = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_variants_issued",
			Help:    "Number of expanded query variants issued per search",
			Buckets: []float64{1, 2, 3, 4, 5, 6},
		},
	)

	SearchResultsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_results_returned",
			Help:    "Number of ranked results returned per search",
			Buckets: []float64{0, 1, 5, 10, 24, 50, 100},
		},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total cache evictions",
		},
		[]string{"cache"},
	)
)

// RecordAPIRequest records metrics for a completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamCall records duration and outcome of an upstream API call.
// kind classifies errors: "transport", "status", "decode", "rejected".
func RecordUpstreamCall(source string, duration time.Duration, err error, kind string) {
	UpstreamRequestDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		UpstreamErrors.WithLabelValues(source, kind).Inc()
	}
}

// RecordSearch records a completed search pipeline execution.
// outcome is one of "ok", "empty", "error", "canceled".
func RecordSearch(outcome string, variants, results int) {
	SearchRequestsTotal.WithLabelValues(outcome).Inc()
	if variants > 0 {
		SearchVariantsIssued.Observe(float64(variants))
	}
	SearchResultsReturned.Observe(float64(results))
}

// ObserveStage records the duration of one pipeline stage.
func ObserveStage(stage string, duration time.Duration) {
	SearchStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}
