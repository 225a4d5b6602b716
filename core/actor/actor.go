package actor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ReasonNormal is the exit reason of an actor whose body returned without
// error. Normal exits never terminate linked peers.
const ReasonNormal = "normal"

var (
	// ErrAlreadyStarted is returned by Start when the actor's bootstrap
	// reaction has already been submitted.
	ErrAlreadyStarted = errors.New("actor already started")

	// ErrTerminated is returned by Ask when the target actor has
	// terminated before (or instead of) replying.
	ErrTerminated = errors.New("actor terminated")

	// ErrSelfAsk is returned by Context.Ask when an actor sends a
	// synchronous request to itself, which would deadlock.
	ErrSelfAsk = errors.New("synchronous request to self")
)

type status int

const (
	statusNew status = iota
	statusRunning
	statusWaitingThread
	statusWaitingEvent
	statusTerminated
)

// Actor is the handle of one isolated unit of computation. All of its
// mutable state (mailbox, waiting predicate, continuation, exit flags) is
// guarded by a single per-actor lock; senders take that lock to append,
// the owner takes it to scan.
type Actor struct {
	id   string
	sys  *System
	log  *slog.Logger
	body func(c *Context)

	mu           sync.Mutex
	cond         *sync.Cond
	mailbox      mailbox
	waitingFor   func(envelope) bool
	continuation []Case
	contTimer    *time.Timer
	status       status
	started      bool
	trapExit     bool
	killed       bool
	exitReason   string

	done chan struct{}

	// ctx is the actor's execution context. Reactions for one actor never
	// overlap, so it is only ever touched by the currently running frame.
	ctx *Context
}

// ID returns the actor's unique id.
func (a *Actor) ID() string { return a.id }

// Done is closed when the actor terminates.
func (a *Actor) Done() <-chan struct{} { return a.done }

// ExitReason returns the actor's exit reason. It is meaningful only after
// Done is closed.
func (a *Actor) ExitReason() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exitReason
}

// SetTrapExit controls whether exit signals from linked peers are
// converted into Exit messages instead of terminating this actor.
func (a *Actor) SetTrapExit(on bool) {
	a.mu.Lock()
	a.trapExit = on
	a.mu.Unlock()
}

// Start submits the actor's bootstrap reaction. An actor starts at most
// once; a second call returns ErrAlreadyStarted.
func (a *Actor) Start() error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return ErrAlreadyStarted
	}
	a.started = true
	a.status = statusRunning
	a.mu.Unlock()

	a.sys.sched.Start(&Reaction{actor: a, bootstrap: true})
	return nil
}

// Send enqueues msg with no sender attached. Use Context.Send from inside
// an actor so the receiver can see who sent the message. Messages sent to
// a terminated actor are silently dropped.
func (a *Actor) Send(msg any) {
	a.enqueue(envelope{msg: msg})
}

// enqueue appends e to the mailbox and wakes the actor if it is waiting
// for a message e matches. Returns false if the actor has terminated.
func (a *Actor) enqueue(e envelope) bool {
	a.mu.Lock()
	if a.status == statusTerminated {
		a.mu.Unlock()
		a.log.Debug("dropping message to terminated actor")
		return false
	}

	a.mailbox.append(e)
	depth := a.mailbox.len()
	a.sys.metrics.MailboxDepth(a.id).Set(float64(depth))
	if w := a.sys.warnDepth; w > 0 && depth == w {
		a.log.Warn("mailbox depth high", slog.Int("depth", depth))
	}

	if a.waitingFor == nil || !a.waitingFor(e) {
		a.mu.Unlock()
		return true
	}

	switch a.status {
	case statusWaitingEvent:
		env, _ := a.mailbox.extractFirst(a.waitingFor)
		cases := a.continuation
		a.continuation = nil
		a.waitingFor = nil
		a.status = statusRunning
		a.stopContTimerLocked()
		a.mu.Unlock()

		a.sys.sched.UnPendReaction()
		a.sys.sched.Execute(&Reaction{actor: a, cases: cases, env: env})
		return true

	case statusWaitingThread:
		// The parked goroutine retries extraction once it resumes.
		a.waitingFor = nil
		a.cond.Broadcast()
	}
	a.mu.Unlock()
	return true
}

func (a *Actor) stopContTimerLocked() {
	if a.contTimer != nil {
		a.contTimer.Stop()
		a.contTimer = nil
	}
}

// terminate moves the actor to its terminal state, propagates the exit
// reason across the link graph and notifies the scheduler. visited caps
// propagation over cyclic link graphs; pass nil to start a new walk.
func (a *Actor) terminate(reason string, visited *visitSet) {
	a.mu.Lock()
	if a.status == statusTerminated {
		a.mu.Unlock()
		return
	}
	a.status = statusTerminated
	a.exitReason = reason
	a.waitingFor = nil
	a.continuation = nil
	a.stopContTimerLocked()
	a.mu.Unlock()

	if visited == nil {
		visited = newVisitSet()
	}
	visited.mark(a.id)

	a.exitLinked(reason, visited)
	close(a.done)
	a.sys.links.drop(a)
	a.sys.sched.Terminated(a)
}

// exitLinked signals every linked peer. Each peer is unlinked before it is
// signaled so a later termination of the peer cannot re-signal this actor.
func (a *Actor) exitLinked(reason string, visited *visitSet) {
	for _, peer := range a.sys.links.peers(a) {
		a.sys.links.unlink(a, peer)
		peer.exitFrom(a, reason, visited)
	}
}

// exitFrom handles an exit signal raised by the termination of the linked
// actor from. Trapping actors see it as an ordinary Exit message; others
// terminate with the same reason unless it is normal.
func (a *Actor) exitFrom(from *Actor, reason string, visited *visitSet) {
	if !visited.mark(a.id) {
		return
	}

	a.mu.Lock()
	if a.status == statusTerminated {
		a.mu.Unlock()
		return
	}
	if a.trapExit {
		a.mu.Unlock()
		a.enqueue(envelope{msg: Exit{From: from, Reason: reason}, sender: from})
		return
	}
	if reason == ReasonNormal {
		a.mu.Unlock()
		return
	}

	a.killed = true
	a.exitReason = reason
	switch a.status {
	case statusWaitingEvent:
		// No frame is running for this actor. Discard the captured
		// continuation under the lock so a racing send cannot resume it,
		// then terminate and keep propagating on the same walk.
		a.waitingFor = nil
		a.continuation = nil
		a.status = statusRunning
		a.stopContTimerLocked()
		a.mu.Unlock()
		a.sys.sched.UnPendReaction()
		a.terminate(reason, visited)
	case statusWaitingThread:
		// Wake the parked goroutine; it honors the pending exit at the top
		// of its wait loop and terminates itself.
		a.cond.Broadcast()
		a.mu.Unlock()
	default:
		// A reaction is in flight. It is never interrupted mid-handler;
		// the flag is honored at the next suspension point or when the
		// current reaction reaches its tail.
		a.mu.Unlock()
	}
}

// killedReason reports a pending exit raised by a linked peer.
func (a *Actor) killedReason() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exitReason, a.killed
}

// Ask sends msg to the actor and blocks until it replies, the actor
// terminates, or ctx is done. Every call allocates a fresh single-use
// reply channel; reply channels are never reused across calls.
//
// Use Context.Ask from inside an actor so the callee sees the asking
// actor as its sender.
func Ask(ctx context.Context, to *Actor, msg any) (any, error) {
	return ask(ctx, to, nil, msg)
}

func ask(ctx context.Context, to *Actor, sender *Actor, msg any) (any, error) {
	reply := make(chan any, 1)
	if !to.enqueue(envelope{msg: msg, sender: sender, reply: reply}) {
		return nil, ErrTerminated
	}
	select {
	case v := <-reply:
		return v, nil
	case <-to.Done():
		// The reply may have raced with termination.
		select {
		case v := <-reply:
			return v, nil
		default:
		}
		return nil, ErrTerminated
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
