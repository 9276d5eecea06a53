// Package metrics holds the Prometheus collectors for failures the service
// absorbs instead of surfacing to clients.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedback"

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Ingest attempts by result (accepted, rejected, failed).",
		},
		[]string{"result"},
	)

	AnalysisFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_fallbacks_total",
			Help:      "Analyses answered with a fallback payload, by reason.",
		},
		[]string{"reason"},
	)

	StoreFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_fallbacks_total",
			Help:      "Remote store failures absorbed by the local fallback or an empty result.",
		},
		[]string{"op"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Critical feedback alerts by result.",
		},
		[]string{"result"},
	)

	PollerFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poller_fetches_total",
			Help:      "Dashboard fetch attempts by result (ok, error, skipped).",
		},
		[]string{"result"},
	)
)
