// Package metrics holds the Prometheus collectors for relay and search activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	FanoutCalls      prometheus.Counter
	FanoutDuration   prometheus.Histogram
	RelayFailures    prometheus.Counter
	RecordsReceived  prometheus.Counter
	PoolCloseErrors  prometheus.Counter
	DirectoryLookups *prometheus.CounterVec
	Searches         *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
}

// New creates and registers all metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FanoutCalls: f.NewCounter(prometheus.CounterOpts{
			Name: "nostr_search_fanout_calls_total",
			Help: "Fan-out queries issued across relay sets",
		}),
		FanoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "nostr_search_fanout_duration_seconds",
			Help:    "Wall time of a fan-out query",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}),
		RelayFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "nostr_search_relay_failures_total",
			Help: "Relays that failed to answer within a fan-out",
		}),
		RecordsReceived: f.NewCounter(prometheus.CounterOpts{
			Name: "nostr_search_records_received_total",
			Help: "Distinct records collected by fan-out queries",
		}),
		PoolCloseErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "nostr_search_pool_close_errors_total",
			Help: "Connection pool teardowns that reported an error",
		}),
		DirectoryLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nostr_search_directory_lookups_total",
			Help: "Directory lookups by kind and result",
		}, []string{"kind", "result"}),
		Searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nostr_search_searches_total",
			Help: "Searches by mode and outcome",
		}, []string{"mode", "outcome"}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "nostr_search_sessions_active",
			Help: "Browser search sessions held in memory",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nostr_search_http_requests_total",
			Help: "HTTP requests by status class",
		}, []string{"class"}),
	}
}

// ObserveFanout records one finished fan-out call
func (m *Metrics) ObserveFanout(elapsed time.Duration, failures, records int) {
	if m == nil {
		return
	}
	m.FanoutCalls.Inc()
	m.FanoutDuration.Observe(elapsed.Seconds())
	m.RelayFailures.Add(float64(failures))
	m.RecordsReceived.Add(float64(records))
}

// IncrementPoolCloseErrors counts a pool teardown failure
func (m *Metrics) IncrementPoolCloseErrors() {
	if m == nil {
		return
	}
	m.PoolCloseErrors.Inc()
}

// ObserveDirectoryLookup counts a directory lookup; result is hit, miss, empty or error
func (m *Metrics) ObserveDirectoryLookup(kind, result string) {
	if m == nil {
		return
	}
	m.DirectoryLookups.WithLabelValues(kind, result).Inc()
}

// ObserveSearch counts a finished search
func (m *Metrics) ObserveSearch(mode, outcome string) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(mode, outcome).Inc()
}

// SetActiveSessions reports the number of live sessions
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

// ObserveHTTPRequest counts a served request by status class (2xx, 4xx, ...)
func (m *Metrics) ObserveHTTPRequest(status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(strconv.Itoa(status/100) + "xx").Inc()
}
