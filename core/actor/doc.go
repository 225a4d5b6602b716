// Package actor provides lightweight actors on top of a shared worker pool.
//
// Each actor owns a private mailbox and processes messages sequentially.
// Actors communicate only by message passing and may link to one another
// so that termination reasons propagate across the link graph.
//
// # Waiting disciplines
//
// An actor waits for its next message in one of two ways:
//
//   - [Context.Receive] blocks the calling worker until a matching message
//     arrives (thread-based). The worker's pool permit is released while the
//     actor is parked, so parked actors do not starve runnable ones.
//   - [Context.React] arms a continuation and ends the current reaction
//     (event-based). The worker goes back to the pool; when a matching
//     message arrives the continuation is submitted as a fresh reaction.
//     React must be the last action of a handler.
//
// Both disciplines share the same mailbox and the same pattern matching:
// a wait is described by one or more [Case] values, and the mailbox hands
// out the oldest message any case is defined for, leaving the order of all
// other messages untouched.
//
// # Spawning
//
//	sys := actor.NewSystem(actor.Options{})
//	echo := sys.Spawn(func(c *actor.Context) {
//		c.Eventloop(actor.On[string](func(c *actor.Context, s string) any {
//			c.Reply(s)
//			return nil
//		}))
//	})
//
//	res, err := actor.Ask(ctx, echo, "hello")
//
// # Linking and exits
//
// [Context.Link] ties two actors together. When an actor terminates with an
// abnormal reason, linked peers terminate with the same reason unless they
// trap exits ([Context.SetTrapExit]), in which case they receive an [Exit]
// message instead and keep running.
//
// # Scheduling
//
// Reactions run on a bounded worker pool. The [Scheduler] interface is
// pluggable via [Options.Scheduler]; the default implementation counts live
// actors and pending continuations so [System.Wait] can quiesce once no
// actor remains.
package actor
