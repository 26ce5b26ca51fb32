// Package metrics exposes the prometheus counters for the two polling
// loops. All metrics register on the default registry and are served by
// the router's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "atcoder_bingo"

var (
	BoardsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "boards_generated_total",
		Help:      "Number of daily boards generated and persisted.",
	})

	GenerationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_failures_total",
		Help:      "Number of generation cycles aborted by an error.",
	})

	SyncCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_cycles_total",
		Help:      "Number of completed submission synchronization cycles.",
	})

	SyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_failures_total",
		Help:      "Number of synchronization cycles aborted by a fetch error.",
	})

	SubmissionsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_processed_total",
		Help:      "Number of feed submissions resolved against the board.",
	})

	StatusesChanged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "statuses_changed_total",
		Help:      "Number of user status rows inserted or flipped to accepted.",
	})

	FeedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_requests_total",
		Help:      "Upstream feed requests issued, by feed.",
	}, []string{"feed"})
)
