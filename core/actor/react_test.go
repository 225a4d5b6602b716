package actor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReact_chain(t *testing.T) {
	sys := newTestSystem(t)

	var order []string
	a := sys.Spawn(func(c *Context) {
		c.React(On[int](func(c *Context, v int) any {
			order = append(order, "int")
			c.React(On[string](func(c *Context, s string) any {
				order = append(order, "string")
				return nil
			}))
			return nil
		}))
	})

	a.Send(1)
	a.Send("done")

	waitDone(t, a)
	require.Equal(t, []string{"int", "string"}, order)
	require.Equal(t, ReasonNormal, a.ExitReason())
}

func TestReact_skips_non_matching(t *testing.T) {
	sys := newTestSystem(t)

	var got int
	a := sys.Spawn(func(c *Context) {
		c.React(On[int](func(c *Context, v int) any {
			got = v
			return nil
		}))
	})

	a.Send("noise")
	a.Send(99)

	waitDone(t, a)
	require.Equal(t, 99, got)
	// the non-matching entry stays queued
	require.Equal(t, 1, mailboxLen(a))
}

func TestReact_eventloop(t *testing.T) {
	sys := newTestSystem(t)

	count := 0
	a := sys.Spawn(func(c *Context) {
		c.Eventloop(
			OnValue("inc", func(c *Context) any {
				count++
				return nil
			}),
			OnValue("stop", func(c *Context) any {
				c.Exit(ReasonNormal)
				return nil
			}),
		)
	})

	for i := 0; i < 5; i++ {
		a.Send("inc")
	}
	a.Send("stop")

	waitDone(t, a)
	require.Equal(t, 5, count)
	require.Equal(t, ReasonNormal, a.ExitReason())
}

func TestReactWithin_timeout(t *testing.T) {
	sys := newTestSystem(t)

	start := time.Now()
	var elapsed time.Duration
	a := sys.Spawn(func(c *Context) {
		c.ReactWithin(50*time.Millisecond, OnTimeout(func(c *Context) any {
			elapsed = time.Since(start)
			return nil
		}))
	})

	waitDone(t, a)
	require.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	require.Less(t, elapsed, time.Second)
}

func TestReactWithin_message_beats_timeout(t *testing.T) {
	sys := newTestSystem(t)

	var got any
	timedOut := false
	a := sys.Spawn(func(c *Context) {
		c.ReactWithin(time.Second,
			On[string](func(c *Context, s string) any {
				got = s
				return nil
			}),
			OnTimeout(func(c *Context) any {
				timedOut = true
				return nil
			}),
		)
	})

	a.Send("fast")

	waitDone(t, a)
	require.Equal(t, "fast", got)
	require.False(t, timedOut)
}

func TestReceiveWithin_timeout(t *testing.T) {
	sys := newTestSystem(t)

	var v any
	start := time.Now()
	var elapsed time.Duration
	a := sys.Spawn(func(c *Context) {
		v = c.ReceiveWithin(50*time.Millisecond,
			On[string](func(c *Context, s string) any { return s }),
			OnTimeout(func(c *Context) any { return "timeout" }),
		)
		elapsed = time.Since(start)
	})

	waitDone(t, a)
	require.Equal(t, "timeout", v)
	require.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	require.Less(t, elapsed, time.Second)
}

func TestReceiveWithin_message_beats_timeout(t *testing.T) {
	sys := newTestSystem(t)

	var v any
	a := sys.Spawn(func(c *Context) {
		v = c.ReceiveWithin(time.Second,
			On[string](func(c *Context, s string) any { return s }),
			OnTimeout(func(c *Context) any { return "timeout" }),
		)
	})

	a.Send("fast")
	waitDone(t, a)
	require.Equal(t, "fast", v)
}

func TestReceiveWithin_no_timeout_branch(t *testing.T) {
	sys := newTestSystem(t)

	var v any = "sentinel"
	a := sys.Spawn(func(c *Context) {
		v = c.ReceiveWithin(20*time.Millisecond,
			On[int](func(c *Context, i int) any { return i }),
		)
	})

	waitDone(t, a)
	require.Nil(t, v)
}

func TestReact_eventloop_ping_pong(t *testing.T) {
	sys := newTestSystem(t)

	var pongs int
	pong := sys.Spawn(func(c *Context) {
		c.Eventloop(
			OnValue("ping", func(c *Context) any {
				pongs++
				c.Reply("pong")
				return nil
			}),
			OnValue("stop", func(c *Context) any {
				c.Exit(ReasonNormal)
				return nil
			}),
		)
	})

	var pings int
	ping := sys.Spawn(func(c *Context) {
		var round func(*Context)
		round = func(c *Context) {
			c.Send(pong, "ping")
			c.React(OnValue("pong", func(c *Context) any {
				pings++
				if pings < 10 {
					round(c)
					return nil
				}
				c.Send(pong, "stop")
				return nil
			}))
		}
		round(c)
	})

	waitDone(t, ping)
	waitDone(t, pong)
	require.Equal(t, 10, pings)
	require.Equal(t, 10, pongs)
	require.Zero(t, mailboxLen(ping))
	require.Zero(t, mailboxLen(pong))
}
