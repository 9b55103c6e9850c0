// Package metrics provides Prometheus metrics for the portfolio server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts upstream article fetches by source and outcome.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "article_fetch_total",
			Help:      "Total number of upstream article fetches",
		},
		[]string{"source", "status"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portfolio",
			Name:      "article_fetch_duration_seconds",
			Help:      "Duration of upstream article fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// ArticlesServed is the size of the snapshot currently being served.
	ArticlesServed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "portfolio",
			Name:      "articles_served",
			Help:      "Number of articles in the current snapshot",
		},
	)

	SnapshotAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "portfolio",
			Name:      "snapshot_fetched_timestamp_seconds",
			Help:      "Unix time the current snapshot was fetched",
		},
	)

	RevalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "revalidations_total",
			Help:      "Background revalidations by trigger and outcome",
		},
		[]string{"trigger", "status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)
)
