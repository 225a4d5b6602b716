package actor

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// Reaction is one scheduled execution of one handler on one message. A
// bootstrap reaction has no message and no handler; it runs the actor's
// main body instead.
type Reaction struct {
	actor     *Actor
	cases     []Case
	env       envelope
	bootstrap bool
}

// Actor returns the actor this reaction executes for.
func (r *Reaction) Actor() *Actor { return r.actor }

// Run executes the reaction on the calling goroutine: runs the handler
// (or the main body for a bootstrap reaction), then drives the frame tail.
// Schedulers call Run from a worker.
func (r *Reaction) Run() {
	a := r.actor
	c := a.ctx
	sys := a.sys

	tm := sys.metrics.ReactionDuration()
	defer tm.ObserveDuration()

	defer func() {
		rec := recover()
		if rec == nil {
			sys.metrics.Reactions(true).Inc()
			return
		}
		sys.metrics.Reactions(false).Inc()
		a.terminate(exitReasonOf(rec, c.log), nil)
	}()

	sys.sched.Tick(a)

	if r.bootstrap {
		a.body(c)
	} else {
		c.apply(r.cases, r.env)
	}
	c.drive()
}

// exitSignal unwinds a reaction frame on an explicit or propagated exit.
// It is internal control flow, recovered by Run, and never reaches user
// code or the log as an error.
type exitSignal struct {
	reason string
}

func exitReasonOf(rec any, log *slog.Logger) string {
	if es, ok := rec.(exitSignal); ok {
		return es.reason
	}
	log.Error("handler panicked",
		slog.Any("recovered", rec),
		slog.String("stack", string(debug.Stack())),
	)
	return fmt.Sprintf("%v", rec)
}

// drive acts on whatever the handler frame left behind: submit the next
// reaction (tail call), capture a parked continuation, honor a pending
// exit, run the continue chain, or terminate the actor normally.
func (c *Context) drive() {
	a := c.actor
	for {
		if reason, ok := a.killedReason(); ok {
			panic(exitSignal{reason: reason})
		}
		if next := c.next; next != nil {
			c.next = nil
			a.sys.sched.Execute(next)
			return
		}
		if p := c.park; p != nil {
			c.park = nil
			c.capture(p)
			return
		}
		if n := len(c.conts); n > 0 {
			k := c.conts[n-1]
			c.conts = c.conts[:n-1]
			k(c)
			continue
		}
		a.terminate(ReasonNormal, nil)
		return
	}
}

// capture installs a continuation once the frame has unwound: re-scan
// under the lock, then either submit the next reaction right away (a
// match arrived while the frame was finishing) or detach into event wait.
func (c *Context) capture(p *parkRequest) {
	a := c.actor

	a.mu.Lock()
	if a.killed {
		reason := a.exitReason
		a.mu.Unlock()
		panic(exitSignal{reason: reason})
	}
	if e, ok := a.mailbox.extractFirst(p.pred); ok {
		a.mu.Unlock()
		a.sys.sched.Execute(&Reaction{actor: a, cases: p.cases, env: e})
		return
	}
	a.continuation = p.cases
	a.waitingFor = p.pred
	a.status = statusWaitingEvent
	if p.timed {
		a.contTimer = time.AfterFunc(p.d, func() {
			a.enqueue(envelope{msg: Timeout{}})
		})
	}
	a.sys.sched.PendReaction()
	a.mu.Unlock()
}
