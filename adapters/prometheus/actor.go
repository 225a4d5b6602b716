package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nalamte/legacy-svn-scala/core/actor"
	"github.com/nalamte/legacy-svn-scala/core/metrics"
)

// actorMetrics implements actor.ActorMetrics using Prometheus.
type actorMetrics struct {
	reactionDuration prometheus.Histogram
	reactionsTotal   *prometheus.CounterVec
	mailboxDepth     *prometheus.GaugeVec
	actorsLive       prometheus.Gauge
	pendingReactions prometheus.Gauge
}

// NewActorMetrics creates a new Prometheus implementation of ActorMetrics.
func NewActorMetrics(reg prometheus.Registerer) actor.ActorMetrics {
	m := &actorMetrics{
		reactionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "actors_reaction_duration_seconds",
			Help:    "Reaction execution time in seconds",
			Buckets: defaultBuckets,
		}),

		reactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actors_reactions_total",
			Help: "Total number of reactions executed",
		}, []string{"success"}),

		mailboxDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "actors_mailbox_depth",
			Help: "Current mailbox queue depth",
		}, []string{"actor_id"}),

		actorsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actors_live",
			Help: "Number of live actors",
		}),

		pendingReactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actors_pending_reactions",
			Help: "Number of captured continuations awaiting a matching message",
		}),
	}

	reg.MustRegister(
		m.reactionDuration,
		m.reactionsTotal,
		m.mailboxDepth,
		m.actorsLive,
		m.pendingReactions,
	)

	return m
}

func (m *actorMetrics) ReactionDuration() metrics.Timer {
	return newTimer(m.reactionDuration)
}

// The prometheus counter and gauge types satisfy the metric interfaces
// directly, so the vectors' children are returned as-is.

func (m *actorMetrics) Reactions(success bool) metrics.Counter {
	return m.reactionsTotal.WithLabelValues(boolToStr(success))
}

func (m *actorMetrics) MailboxDepth(actorID string) metrics.Gauge {
	return m.mailboxDepth.WithLabelValues(actorID)
}

func (m *actorMetrics) ActorsLive() metrics.Gauge {
	return m.actorsLive
}

func (m *actorMetrics) PendingReactions() metrics.Gauge {
	return m.pendingReactions
}

var _ actor.ActorMetrics = (*actorMetrics)(nil)
