// Package metrics exposes Prometheus collectors for the scraping service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scrapePagesTotal           *prometheus.CounterVec
	scrapeBytesTotal           *prometheus.CounterVec
	scrapeRecordsTotal         *prometheus.CounterVec
	scrapeReportDuration       *prometheus.HistogramVec
	scrapePageDelaySeconds     prometheus.Histogram
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scrapePagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portwatch_scrape_pages_total",
				Help: "Total pages fetched, labeled by port, listing and outcome.",
			},
			[]string{"port", "listing", "status"},
		)

		scrapeBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portwatch_scrape_bytes_total",
				Help: "Total bytes fetched, labeled by port and listing.",
			},
			[]string{"port", "listing"},
		)

		scrapeRecordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portwatch_scrape_records_total",
				Help: "Total records parsed, labeled by port, listing and strategy.",
			},
			[]string{"port", "listing", "strategy"},
		)

		scrapeReportDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portwatch_report_duration_seconds",
				Help:    "Histogram of full report build latencies, labeled by port.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
			},
			[]string{"port"},
		)

		scrapePageDelaySeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "portwatch_page_delay_seconds",
				Help:    "Histogram of politeness waits between page fetches.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5},
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage records the outcome of one page fetch. Observe helpers are
// no-ops until Init runs, so library consumers and tests need no setup.
func ObservePage(port, listing, status string, bytesFetched int) {
	if scrapePagesTotal == nil {
		return
	}
	scrapePagesTotal.WithLabelValues(port, listing, status).Inc()
	if bytesFetched > 0 {
		scrapeBytesTotal.WithLabelValues(port, listing).Add(float64(bytesFetched))
	}
}

// ObserveRecords counts rows produced by one parse strategy.
func ObserveRecords(port, listing, strategy string, n int) {
	if scrapeRecordsTotal == nil {
		return
	}
	if n > 0 {
		scrapeRecordsTotal.WithLabelValues(port, listing, strategy).Add(float64(n))
	}
}

// ObserveReport records how long one full report build took.
func ObserveReport(port string, duration time.Duration) {
	if scrapeReportDuration == nil {
		return
	}
	scrapeReportDuration.WithLabelValues(port).Observe(duration.Seconds())
}

// ObservePageDelay records one politeness wait.
func ObservePageDelay(duration time.Duration) {
	if scrapePageDelaySeconds == nil {
		return
	}
	scrapePageDelaySeconds.Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
