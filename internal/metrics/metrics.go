// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeUnsupported = "unsupported"
	OutcomeError       = "error"
)

var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "onelink_http_requests_total",
	Help: "Total number of HTTP requests labelled by method, route and status",
}, []string{"method", "route", "status"})

var httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "onelink_http_request_duration_seconds",
	Help:    "HTTP request latency.",
	Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"method", "route"})

var resumeUploads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "onelink_resume_uploads_total",
	Help: "Résumé uploads labelled by declared media type and outcome",
}, []string{"media_type", "outcome"})

var extractionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "onelink_extraction_failures_total",
	Help: "Text extraction failures that degraded to empty text",
}, []string{"media_type"})

var ingestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "onelink_ingest_duration_seconds",
	Help:    "Time spent in one résumé ingestion.",
	Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10, 30},
})

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *StatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *StatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordUpload counts one upload attempt.
func RecordUpload(mediaType, outcome string) {
	resumeUploads.WithLabelValues(mediaType, outcome).Inc()
}

// RecordExtractionFailure counts a swallowed extraction error.
func RecordExtractionFailure(mediaType string) {
	extractionFailures.WithLabelValues(mediaType).Inc()
}

// ObserveIngest records the duration of one ingestion.
func ObserveIngest(elapsed time.Duration) {
	ingestDuration.Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
