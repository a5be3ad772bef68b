// Package metrics exposes Prometheus collectors for the server.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pagetally"

var (
	rpcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Total RPC requests by procedure and result code",
		},
		[]string{"procedure", "code"},
	)

	rpcLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_request_duration_seconds",
			Help:      "Duration of RPC requests by procedure",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"procedure"},
	)

	estimates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_estimates_total",
			Help:      "Page estimates by format and method (structural, fallback, default)",
		},
		[]string{"format", "method"},
	)

	estimatedPages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimated_pages_total",
			Help:      "Sum of estimated pages by format",
		},
		[]string{"format"},
	)

	estimateLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_estimate_duration_seconds",
			Help:      "Duration of page estimation by format",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	uploadFiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_files_total",
			Help:      "Uploaded files by result (accepted, rejected)",
		},
		[]string{"result"},
	)

	batchesSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_saved_total",
			Help:      "Total calculation batches saved",
		},
	)

	batchesPaid = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_paid_total",
			Help:      "Total batches promoted to PAID",
		},
	)

	initOnce sync.Once
)

// Init registers collectors. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			rpcRequests, rpcLatency,
			estimates, estimatedPages, estimateLatency,
			uploadFiles, batchesSaved, batchesPaid,
		)
	})
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveRPC(procedure, code string, dur time.Duration) {
	rpcRequests.WithLabelValues(procedure, code).Inc()
	rpcLatency.WithLabelValues(procedure).Observe(dur.Seconds())
}

func ObserveEstimate(format, method string, pages int, dur time.Duration) {
	estimates.WithLabelValues(format, method).Inc()
	estimatedPages.WithLabelValues(format).Add(float64(pages))
	estimateLatency.WithLabelValues(format).Observe(dur.Seconds())
}

func IncUploadAccepted(n int) { uploadFiles.WithLabelValues("accepted").Add(float64(n)) }
func IncUploadRejected(n int) { uploadFiles.WithLabelValues("rejected").Add(float64(n)) }
func IncBatchSaved()          { batchesSaved.Inc() }
func IncBatchPaid()           { batchesPaid.Inc() }
