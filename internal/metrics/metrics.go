// Package metrics exposes Prometheus collectors for the dashboard.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rholibobo/transaction-dashboard/internal/model"
)

// Metrics holds all Prometheus collectors for the application. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	queriesTotal     *prometheus.CounterVec
	queryDuration    *prometheus.HistogramVec
	queryResultItems prometheus.Histogram

	createsTotal *prometheus.CounterVec
	storeSize    prometheus.Gauge
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	gatherer := prometheus.DefaultGatherer
	if g, ok := registry.(prometheus.Gatherer); ok {
		gatherer = g
	}

	factory := promauto.With(registry)

	return &Metrics{
		gatherer: gatherer,

		queriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txdash_queries_total",
				Help: "Total number of transaction queries by status filter and sort field",
			},
			[]string{"status_filter", "sort_by"},
		),
		queryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txdash_query_duration_seconds",
				Help:    "Duration of transaction queries in seconds, including simulated latency",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 0.8, 1.0, 2.5, 5.0},
			},
			[]string{"status_filter"},
		),
		queryResultItems: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "txdash_query_result_items",
				Help:    "Number of transactions matching a query before pagination",
				Buckets: []float64{0, 1, 10, 25, 50, 100, 250, 1000},
			},
		),
		createsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txdash_transactions_created_total",
				Help: "Total number of created transactions by status",
			},
			[]string{"status"},
		),
		storeSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "txdash_store_transactions",
				Help: "Number of transactions held by the store",
			},
		),
	}
}

// RecordQuery records one executed query and its result size.
func (m *Metrics) RecordQuery(filters model.Filters, page model.Page, duration time.Duration) {
	if m == nil {
		return
	}
	status := string(filters.StatusFilter)
	if status == "" {
		status = string(model.StatusAll)
	}
	sortBy := string(filters.SortBy)
	if sortBy == "" {
		sortBy = string(model.SortByDate)
	}
	m.queriesTotal.WithLabelValues(status, sortBy).Inc()
	m.queryDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.queryResultItems.Observe(float64(page.TotalItems))
}

// RecordCreate records a created transaction.
func (m *Metrics) RecordCreate(status model.Status) {
	if m == nil {
		return
	}
	label := string(status)
	if !status.Valid() {
		label = "other"
	}
	m.createsTotal.WithLabelValues(label).Inc()
}

// SetStoreSize records the current number of stored transactions.
func (m *Metrics) SetStoreSize(n int) {
	if m == nil {
		return
	}
	m.storeSize.Set(float64(n))
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
