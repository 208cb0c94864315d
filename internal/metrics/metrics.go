// Package metrics exposes Prometheus collectors for ledger activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FriendsAdded counts successful add-friend mutations.
	FriendsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitmate_friends_added_total",
		Help: "Number of friends added across all users.",
	})

	// FriendsRemoved counts successful remove-friend mutations.
	FriendsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitmate_friends_removed_total",
		Help: "Number of friends removed across all users.",
	})

	// SplitsApplied counts successful balance updates.
	SplitsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitmate_splits_applied_total",
		Help: "Number of split deltas applied across all users.",
	})

	// ActiveSubscribers tracks currently attached snapshot subscribers.
	ActiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "splitmate_active_subscribers",
		Help: "Snapshot subscribers currently attached to the hub.",
	})
)
