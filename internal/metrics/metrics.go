// Package metrics exposes Prometheus instruments for the alert sync pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracker_alerts"

// Sync run outcomes used as the "result" label of SyncRuns
const (
	ResultSuccess       = "success"
	ResultNotConfigured = "not_configured"
	ResultMailboxError  = "mailbox_error"
)

var (
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Total number of sync runs by result",
	}, []string{"result"})

	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sync_duration_seconds",
		Help:      "Duration of sync runs",
		Buckets:   prometheus.DefBuckets,
	})

	MessagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_fetched_total",
		Help:      "Total number of messages fetched from the mailbox",
	})

	DuplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicates_skipped_total",
		Help:      "Total number of messages skipped because they were already stored",
	})

	MessageErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "message_errors_total",
		Help:      "Total number of messages skipped after a per-message failure",
	})

	AlertsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_ingested_total",
		Help:      "Total number of alerts inserted into the store by category",
	}, []string{"category"})

	AlertsCached = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "alerts_cached",
		Help:      "Current number of alerts held in memory",
	})
)
