package actor

import "github.com/nalamte/legacy-svn-scala/core/metrics"

// ActorMetrics defines the instrumentation surface of the actor core.
// All methods are thread-safe.
type ActorMetrics interface {
	// Reactions
	ReactionDuration() metrics.Timer
	Reactions(success bool) metrics.Counter

	// Mailbox
	MailboxDepth(actorID string) metrics.Gauge

	// System-wide gauges
	ActorsLive() metrics.Gauge
	PendingReactions() metrics.Gauge
}

// nopActorMetrics is a no-op implementation of ActorMetrics.
type nopActorMetrics struct{}

func (nopActorMetrics) ReactionDuration() metrics.Timer { return metrics.NopTimer() }
func (nopActorMetrics) Reactions(bool) metrics.Counter  { return metrics.NopCounter() }

func (nopActorMetrics) MailboxDepth(string) metrics.Gauge { return metrics.NopGauge() }

func (nopActorMetrics) ActorsLive() metrics.Gauge       { return metrics.NopGauge() }
func (nopActorMetrics) PendingReactions() metrics.Gauge { return metrics.NopGauge() }

// NopActorMetrics returns a no-op ActorMetrics implementation.
func NopActorMetrics() ActorMetrics { return nopActorMetrics{} }
