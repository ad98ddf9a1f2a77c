// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// SecretFetches counts secret store round trips by result.
	SecretFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gophgallery_secret_fetches_total",
			Help: "Total number of database secret fetches",
		},
		[]string{"result"},
	)

	// DBConnections counts relational connections opened by the factories.
	DBConnections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gophgallery_db_connections_total",
			Help: "Total number of relational connections opened",
		},
		[]string{"result"},
	)

	// ObjectWrites counts object store writes by result.
	ObjectWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gophgallery_object_writes_total",
			Help: "Total number of object store writes",
		},
		[]string{"result"},
	)

	// SignedURLs counts signed read URLs minted by result.
	SignedURLs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gophgallery_signed_urls_total",
			Help: "Total number of signed read URLs minted",
		},
		[]string{"result"},
	)

	// Uploads counts upload pipeline runs by result.
	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gophgallery_uploads_total",
			Help: "Total number of accepted uploads",
		},
		[]string{"result"},
	)

	// GalleryBuilds counts gallery assemblies by result.
	GalleryBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gophgallery_gallery_builds_total",
			Help: "Total number of gallery builds",
		},
		[]string{"result"},
	)

	// HTTPLatency measures request latency per route.
	HTTPLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gophgallery_http_latency_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Outcome maps an error to a result label.
func Outcome(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
