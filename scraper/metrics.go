package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the ingester.
type Metrics struct {
	Registry         *prometheus.Registry
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  prometheus.Histogram
	ListedItemsTotal prometheus.Counter
	BooksTotal       *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_requests_total",
			Help: "Total HTTP requests issued, by crawl phase.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_request_duration_seconds",
			Help:    "HTTP request latency for catalog fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	listedItems := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_listed_items_total",
			Help: "Total listing items discovered across all publishers.",
		},
	)
	booksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_books_total",
			Help: "Total book records processed, by store outcome.",
		},
		[]string{"outcome"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_errors_total",
			Help: "Total ingestion errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, listedItems, booksTotal, errorsTotal)

	return &Metrics{
		Registry:         registry,
		RequestsTotal:    requests,
		RequestDuration:  requestDuration,
		ListedItemsTotal: listedItems,
		BooksTotal:       booksTotal,
		ErrorsTotal:      errorsTotal,
	}
}

// IncRequest increments the requests total counter for a phase.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncListed increments the discovered listing items counter.
func (m *Metrics) IncListed() {
	if m == nil {
		return
	}
	m.ListedItemsTotal.Inc()
}

// IncBook increments the processed books counter for an outcome label.
func (m *Metrics) IncBook(outcome string) {
	if m == nil {
		return
	}
	m.BooksTotal.WithLabelValues(outcome).Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
