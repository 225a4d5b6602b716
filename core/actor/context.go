package actor

import (
	"context"
	"log/slog"
	"time"
)

// Context is the explicit current-actor handle: the body of an actor and
// every handler it installs receive the same Context, created at spawn.
// Reactions for one actor never overlap, so the Context is only ever
// touched by the currently running frame.
type Context struct {
	actor *Actor
	sys   *System
	log   *slog.Logger

	senders []envelope       // one entry per nested receive
	conts   []func(*Context) // continue chain, run when a handler tail has no further wait
	probes  []func()         // Choose rollback hooks, innermost last
	next    *Reaction        // armed by a React hit; submitted when the frame ends
	park    *parkRequest     // armed by a React miss; installed when the frame ends
}

// parkRequest describes a continuation to capture once the current
// reaction frame has fully unwound.
type parkRequest struct {
	cases []Case
	pred  func(envelope) bool
	timed bool
	d     time.Duration
}

// Self returns the actor this context executes.
func (c *Context) Self() *Actor { return c.actor }

// System returns the owning system.
func (c *Context) System() *System { return c.sys }

// Log returns the actor-scoped logger.
func (c *Context) Log() *slog.Logger { return c.log }

// Send delivers msg to to with this actor as the sender.
func (c *Context) Send(to *Actor, msg any) {
	to.enqueue(envelope{msg: msg, sender: c.actor})
}

// Forward delivers msg to to keeping the sender (and reply conduit) of
// the message currently being handled, so replies from to reach the
// original requester rather than the forwarder.
func (c *Context) Forward(to *Actor, msg any) {
	e := envelope{msg: msg}
	if n := len(c.senders); n > 0 {
		e.sender = c.senders[n-1].sender
		e.reply = c.senders[n-1].reply
	}
	to.enqueue(e)
}

// Sender returns the sender of the message currently being handled, or
// nil when there is none (no handler running, or an external send).
func (c *Context) Sender() *Actor {
	if n := len(c.senders); n > 0 {
		return c.senders[n-1].sender
	}
	return nil
}

// Reply answers the message currently being handled: on the request's
// reply channel for synchronous asks, otherwise as an ordinary send back
// to the sender.
func (c *Context) Reply(msg any) {
	n := len(c.senders)
	if n == 0 {
		c.log.Warn("reply with no message under handling")
		return
	}
	e := c.senders[n-1]
	if e.reply != nil {
		select {
		case e.reply <- msg:
		default:
			// reply channels are single-use; duplicates are dropped
		}
		return
	}
	if e.sender != nil {
		e.sender.enqueue(envelope{msg: msg, sender: c.actor})
	}
}

// Ask sends a synchronous request to to with this actor as the sender and
// blocks until the reply arrives, to terminates, or ctx is done. The
// worker permit is released while blocked.
func (c *Context) Ask(ctx context.Context, to *Actor, msg any) (any, error) {
	if to == c.actor {
		return nil, ErrSelfAsk
	}
	var (
		v   any
		err error
	)
	c.sys.blockOn(func() { v, err = ask(ctx, to, c.actor, msg) })
	return v, err
}

// Link ties this actor to peer. Links are symmetric and idempotent.
func (c *Context) Link(peer *Actor) { c.sys.links.link(c.actor, peer) }

// Unlink removes the link between this actor and peer.
func (c *Context) Unlink(peer *Actor) { c.sys.links.unlink(c.actor, peer) }

// SetTrapExit controls whether exit signals from linked peers are
// delivered as Exit messages instead of terminating this actor.
func (c *Context) SetTrapExit(on bool) { c.actor.SetTrapExit(on) }

// Exit terminates the current actor with reason. It never returns: the
// reaction frame unwinds and the reason propagates across links.
func (c *Context) Exit(reason string) {
	panic(exitSignal{reason: reason})
}

// Receive blocks the calling worker until a message matching one of the
// cases arrives, consumes it and returns the handler's result.
func (c *Context) Receive(cases ...Case) any {
	return c.receive(nil, 0, false, cases)
}

// ReceiveWithin is Receive with a deadline: if no matching message
// arrives within d, the handler is applied to the Timeout sentinel (which
// it may or may not be defined for).
func (c *Context) ReceiveWithin(d time.Duration, cases ...Case) any {
	return c.receive(nil, d, true, cases)
}

// ReceiveFrom is Receive restricted to messages sent by from.
func (c *Context) ReceiveFrom(from *Actor, cases ...Case) any {
	return c.receive(from, 0, false, cases)
}

func (c *Context) receive(from *Actor, d time.Duration, timed bool, cases []Case) any {
	a := c.actor
	pred := entryPred(from, cases, false)
	var deadline time.Time
	if timed {
		deadline = time.Now().Add(d)
	}

	a.mu.Lock()
	for {
		if a.killed {
			reason := a.exitReason
			a.mu.Unlock()
			panic(exitSignal{reason: reason})
		}
		if e, ok := a.mailbox.extractFirst(pred); ok {
			a.waitingFor = nil
			a.status = statusRunning
			a.mu.Unlock()
			return c.apply(cases, e)
		}
		var remaining time.Duration
		if timed {
			// recompute against the wall clock so spurious wakeups only
			// shrink the remaining wait
			remaining = time.Until(deadline)
			if remaining <= 0 {
				a.waitingFor = nil
				a.status = statusRunning
				a.mu.Unlock()
				return c.apply(cases, envelope{msg: Timeout{}})
			}
		}
		if p := c.topProbe(); p != nil {
			// a Choose alternative would suspend here; roll back instead
			a.waitingFor = nil
			a.status = statusRunning
			a.mu.Unlock()
			p()
		}

		a.waitingFor = pred
		a.status = statusWaitingThread
		var timer *time.Timer
		if timed {
			timer = time.AfterFunc(remaining, func() {
				a.mu.Lock()
				a.cond.Broadcast()
				a.mu.Unlock()
			})
		}

		bm := a.sys.blocker()
		if bm != nil {
			bm.beginBlocking()
		}
		a.cond.Wait()
		if timer != nil {
			timer.Stop()
		}
		a.status = statusRunning
		if bm != nil {
			// reacquire the permit without holding the actor lock
			a.mu.Unlock()
			bm.endBlocking()
			a.mu.Lock()
		}
	}
}

// React arms cases as the actor's continuation and ends the current
// reaction: if a matching message is already enqueued the next reaction
// is submitted to the scheduler once this frame unwinds, otherwise the
// actor detaches and the worker returns to the pool. React must be the
// last action of a handler; it does not consume the message itself.
func (c *Context) React(cases ...Case) {
	c.react(0, false, cases)
}

// ReactWithin is React with a deadline: if no matching message arrives
// within d, a Timeout sentinel is enqueued to resume the continuation.
// A Timeout racing with a real match may linger in the mailbox; waits
// that are not defined for it will leave it there.
func (c *Context) ReactWithin(d time.Duration, cases ...Case) {
	c.react(d, true, cases)
}

func (c *Context) react(d time.Duration, timed bool, cases []Case) {
	if c.next != nil || c.park != nil {
		panic("actor: react armed twice in one reaction")
	}
	a := c.actor
	pred := entryPred(nil, cases, timed)

	a.mu.Lock()
	if a.killed {
		reason := a.exitReason
		a.mu.Unlock()
		panic(exitSignal{reason: reason})
	}
	if e, ok := a.mailbox.extractFirst(pred); ok {
		a.mu.Unlock()
		c.next = &Reaction{actor: a, cases: cases, env: e}
		return
	}
	if p := c.topProbe(); p != nil {
		// a Choose alternative would detach here; discard and roll back
		a.mu.Unlock()
		p()
	}
	a.mu.Unlock()
	c.park = &parkRequest{cases: cases, pred: pred, timed: timed, d: d}
}

// apply consumes one envelope: the resolved sender is pushed for the
// duration of the handler so Sender and Reply resolve against it.
func (c *Context) apply(cases []Case, e envelope) any {
	cs, ok := firstMatch(cases, e.msg)
	if !ok {
		// a synthesized Timeout the handler is not defined for
		return nil
	}
	c.senders = append(c.senders, e)
	defer func() { c.senders = c.senders[:len(c.senders)-1] }()
	return cs.Run(c, e.msg)
}

func (c *Context) topProbe() func() {
	if n := len(c.probes); n > 0 {
		return c.probes[n-1]
	}
	return nil
}
