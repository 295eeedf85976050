package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics 每个 Server 使用独立的 registry
type metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	conversions     *prometheus.CounterVec
	copies          *prometheus.CounterVec
	memoLookups     *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docmark_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docmark_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docmark_conversions_total",
				Help: "Document conversions by result",
			},
			[]string{"result"},
		),
		copies: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docmark_copy_events_total",
				Help: "Copy events by whether they were rewritten to markdown",
			},
			[]string{"intercepted"},
		),
		memoLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docmark_segment_memo_lookups_total",
				Help: "Block segmentation cache lookups",
			},
			[]string{"result"},
		),
	}
}
