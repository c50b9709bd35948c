package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Subtitle acquisition metrics
var (
	SubtitleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_requests_total",
			Help: "Total number of subtitle requests.",
		},
		[]string{"format", "status"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of outbound caption provider calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(
		SubtitleRequestsTotal,
		ProviderRequestDuration,
	)
}
