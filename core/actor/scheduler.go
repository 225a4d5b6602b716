package actor

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Scheduler runs reactions on behalf of a system. The core calls Start for
// an actor's bootstrap reaction, Execute for every continuation-driven
// reaction, and Terminated once an actor is no longer live. Tick is an
// advisory heartbeat emitted before each reaction runs.
//
// PendReaction and UnPendReaction account for captured continuations that
// are waiting for a matching message: the count is what tells the pool an
// idle actor still has unfinished work outstanding.
type Scheduler interface {
	Start(r *Reaction)
	Execute(r *Reaction)
	Terminated(a *Actor)
	Tick(a *Actor)

	PendReaction()
	UnPendReaction()

	// Wait blocks until no live actors remain.
	Wait()
}

// poolScheduler is the default Scheduler: reactions run on a bounded
// worker pool, live actors and pending continuations are counted so Wait
// can quiesce.
type poolScheduler struct {
	pool    *pool
	log     *slog.Logger
	metrics ActorMetrics

	mu   sync.Mutex
	cond *sync.Cond
	live int

	pending atomic.Int64
	ticks   atomic.Int64
}

func newPoolScheduler(maxWorkers int, log *slog.Logger, m ActorMetrics) *poolScheduler {
	s := &poolScheduler{
		pool:    newPool(maxWorkers),
		log:     log,
		metrics: m,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *poolScheduler) Start(r *Reaction) {
	s.mu.Lock()
	s.live++
	live := s.live
	s.mu.Unlock()

	s.metrics.ActorsLive().Set(float64(live))
	s.log.Debug("actor started", slog.String("actor", r.Actor().ID()), slog.Int("live", live))
	s.pool.submit(r.Run)
}

func (s *poolScheduler) Execute(r *Reaction) {
	s.pool.submit(r.Run)
}

func (s *poolScheduler) Terminated(a *Actor) {
	s.mu.Lock()
	s.live--
	live := s.live
	if live == 0 {
		s.cond.Broadcast()
	}
	s.mu.Unlock()

	s.metrics.ActorsLive().Set(float64(live))
	s.log.Debug("actor terminated",
		slog.String("actor", a.ID()),
		slog.String("reason", a.ExitReason()),
		slog.Int("live", live),
	)
}

func (s *poolScheduler) Tick(a *Actor) {
	s.ticks.Add(1)
}

func (s *poolScheduler) PendReaction() {
	s.metrics.PendingReactions().Set(float64(s.pending.Add(1)))
}

func (s *poolScheduler) UnPendReaction() {
	s.metrics.PendingReactions().Set(float64(s.pending.Add(-1)))
}

// Pending reports the number of captured continuations still waiting for a
// matching message.
func (s *poolScheduler) Pending() int { return int(s.pending.Load()) }

// beginBlocking and endBlocking let a worker release its permit around a
// thread-based park, so parked actors do not hold pool capacity.
func (s *poolScheduler) beginBlocking() { s.pool.beginBlocking() }
func (s *poolScheduler) endBlocking()   { s.pool.endBlocking() }

// Wait blocks until every actor started on this scheduler has terminated.
func (s *poolScheduler) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.live > 0 {
		s.cond.Wait()
	}
}
