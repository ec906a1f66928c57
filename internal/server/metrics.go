package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics are the Prometheus collectors the server updates.
type Metrics struct {
	Requests      *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	Analyses      *prometheus.CounterVec
	RowsProcessed prometheus.Counter
	RateLimited   prometheus.Counter
}

// NewMetrics registers the server collectors on reg, plus the Go and process
// collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ppc",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ppc",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ppc",
			Name:      "analyses_total",
			Help:      "Completed report analyses by mode.",
		}, []string{"mode"}),
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ppc",
			Name:      "rows_processed_total",
			Help:      "Report rows that survived filtering.",
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ppc",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
	reg.MustRegister(
		m.Requests, m.Duration, m.Analyses, m.RowsProcessed, m.RateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func modeLabel(enhanced bool) string {
	if enhanced {
		return "enhanced"
	}
	return "standard"
}
