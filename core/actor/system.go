package actor

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Options configures a System.
type Options struct {
	Logger  *slog.Logger
	Metrics ActorMetrics

	// Scheduler overrides the default pool-backed scheduler.
	Scheduler Scheduler

	// MaxWorkers caps the number of concurrently running reactions.
	// Defaults to the number of CPUs, with a floor of 4.
	MaxWorkers int

	// MailboxWarnDepth logs a warning when an actor's mailbox reaches
	// this depth. 0 disables the warning.
	MailboxWarnDepth int
}

// System owns a set of actors: their scheduler, link graph, logger and
// metrics. Actors from different systems must not be linked or messaged
// across systems.
type System struct {
	id        string
	log       *slog.Logger
	metrics   ActorMetrics
	sched     Scheduler
	links     *linkRegistry
	warnDepth int
}

// NewSystem creates a system. The zero Options value gives a pool-backed
// scheduler, the default slog logger and no-op metrics.
func NewSystem(opt Options) *System {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Metrics == nil {
		opt.Metrics = NopActorMetrics()
	}
	if opt.MaxWorkers <= 0 {
		opt.MaxWorkers = runtime.NumCPU()
		if opt.MaxWorkers < 4 {
			opt.MaxWorkers = 4
		}
	}

	s := &System{
		id:        fmt.Sprintf("system-%s", gonanoid.Must(6)),
		metrics:   opt.Metrics,
		links:     newLinkRegistry(),
		warnDepth: opt.MailboxWarnDepth,
	}
	s.log = opt.Logger.With(slog.String("system", s.id))

	if opt.Scheduler != nil {
		s.sched = opt.Scheduler
	} else {
		s.sched = newPoolScheduler(opt.MaxWorkers, s.log, s.metrics)
	}
	return s
}

// New creates an actor with the given body without starting it. Messages
// sent before Start are buffered in the mailbox.
func (s *System) New(body func(*Context)) *Actor {
	if body == nil {
		body = func(*Context) {}
	}
	a := &Actor{
		id:   fmt.Sprintf("actor-%s", gonanoid.Must(8)),
		sys:  s,
		body: body,
		done: make(chan struct{}),
	}
	a.log = s.log.With(slog.String("actor", a.id))
	a.cond = sync.NewCond(&a.mu)
	a.ctx = &Context{actor: a, sys: s, log: a.log}
	s.links.register(a)
	return a
}

// Spawn creates and starts an actor.
func (s *System) Spawn(body func(*Context)) *Actor {
	a := s.New(body)
	_ = a.Start()
	return a
}

// Wait blocks until every actor started on the system has terminated.
func (s *System) Wait() { s.sched.Wait() }

// blockManager is implemented by schedulers whose workers can release
// their permit around a long block (managed blocking).
type blockManager interface {
	beginBlocking()
	endBlocking()
}

func (s *System) blocker() blockManager {
	if bm, ok := s.sched.(blockManager); ok {
		return bm
	}
	return nil
}

// blockOn runs f with the worker permit released, when the scheduler
// supports it.
func (s *System) blockOn(f func()) {
	bm := s.blocker()
	if bm == nil {
		f()
		return
	}
	bm.beginBlocking()
	defer bm.endBlocking()
	f()
}

var (
	defaultSystem     *System
	defaultSystemOnce sync.Once
)

// Default returns the lazily-created process-wide system.
func Default() *System {
	defaultSystemOnce.Do(func() {
		defaultSystem = NewSystem(Options{})
	})
	return defaultSystem
}

// Spawn creates and starts an actor on the default system.
func Spawn(body func(*Context)) *Actor {
	return Default().Spawn(body)
}
