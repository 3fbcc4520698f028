package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transitions counts committed engagement state changes by kind and
// direction (like/unlike, follow/unfollow, comment).
var Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "engagement_transitions_total",
	Help: "Committed engagement state transitions.",
}, []string{"kind", "direction"})

var FanoutDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "notification_fanout_dropped_total",
	Help: "Fan-out events dropped because the emit buffer was full.",
})

var FanoutDuplicates = promauto.NewCounter(prometheus.CounterOpts{
	Name: "notification_fanout_duplicates_total",
	Help: "Fan-out events skipped by the consumer as already delivered.",
})
