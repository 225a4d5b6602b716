package actor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSystem(t *testing.T) *System {
	t.Helper()
	return NewSystem(Options{MaxWorkers: 8})
}

func waitDone(t *testing.T, a *Actor) {
	t.Helper()
	select {
	case <-a.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("actor %s did not terminate", a.ID())
	}
}

func mailboxLen(a *Actor) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mailbox.len()
}

func TestActor_ping_pong(t *testing.T) {
	sys := newTestSystem(t)

	var pings, pongs int
	pong := sys.Spawn(func(c *Context) {
		for {
			stop := c.Receive(
				OnValue("ping", func(c *Context) any {
					pongs++
					c.Reply("pong")
					return false
				}),
				OnValue("stop", func(c *Context) any { return true }),
			)
			if stop.(bool) {
				return
			}
		}
	})
	ping := sys.Spawn(func(c *Context) {
		for i := 0; i < 10; i++ {
			c.Send(pong, "ping")
			c.Receive(OnValue("pong", func(c *Context) any {
				pings++
				return nil
			}))
		}
		c.Send(pong, "stop")
	})

	waitDone(t, ping)
	waitDone(t, pong)

	require.Equal(t, 10, pings)
	require.Equal(t, 10, pongs)
	require.Equal(t, ReasonNormal, ping.ExitReason())
	require.Equal(t, ReasonNormal, pong.ExitReason())
	require.Zero(t, mailboxLen(ping))
	require.Zero(t, mailboxLen(pong))
}

func TestActor_per_sender_fifo(t *testing.T) {
	sys := newTestSystem(t)

	const n = 200
	var got []int
	recv := sys.New(func(c *Context) {
		for len(got) < n {
			c.Receive(On[int](func(c *Context, v int) any {
				got = append(got, v)
				return nil
			}))
		}
	})
	require.NoError(t, recv.Start())

	sender := sys.Spawn(func(c *Context) {
		for i := 0; i < n; i++ {
			c.Send(recv, i)
		}
	})

	waitDone(t, sender)
	waitDone(t, recv)

	require.Len(t, got, n)
	for i, v := range got {
		require.Equal(t, i, v)
	}
}

func TestActor_at_most_once_delivery(t *testing.T) {
	sys := newTestSystem(t)

	const senders, per = 8, 50
	seen := make(map[[2]int]bool)
	duplicates := 0
	recv := sys.New(func(c *Context) {
		for i := 0; i < senders*per; i++ {
			c.Receive(On[[2]int](func(c *Context, v [2]int) any {
				if seen[v] {
					duplicates++
				}
				seen[v] = true
				return nil
			}))
		}
	})
	require.NoError(t, recv.Start())

	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				recv.Send([2]int{s, i})
			}
		}(s)
	}
	wg.Wait()
	waitDone(t, recv)

	require.Zero(t, duplicates)
	require.Len(t, seen, senders*per)
}

func TestActor_predicate_priority(t *testing.T) {
	sys := newTestSystem(t)

	var got []any
	recv := sys.New(func(c *Context) {
		// "go" arrives last but matches first; the earlier entries stay
		// queued in order until a handler is defined for them.
		c.Receive(OnValue("go", func(c *Context) any { return nil }))
		got = append(got, c.Receive(On[int](func(c *Context, v int) any { return v })))
		got = append(got, c.Receive(On[string](func(c *Context, v string) any { return v })))
	})

	recv.Send("skipped")
	recv.Send(42)
	recv.Send("go")
	require.NoError(t, recv.Start())

	waitDone(t, recv)
	require.Equal(t, []any{42, "skipped"}, got)
}

func TestActor_ask_reply(t *testing.T) {
	sys := newTestSystem(t)

	b := sys.Spawn(func(c *Context) {
		c.Receive(On[string](func(c *Context, q string) any {
			c.Reply(q + "!")
			return nil
		}))
	})

	res, err := Ask(context.Background(), b, "q")
	require.NoError(t, err)
	require.Equal(t, "q!", res)
	waitDone(t, b)
}

func TestActor_ask_between_actors(t *testing.T) {
	sys := newTestSystem(t)

	b := sys.Spawn(func(c *Context) {
		c.Receive(OnValue("q", func(c *Context) any {
			c.Reply("r")
			return nil
		}))
	})

	var (
		res any
		err error
	)
	a := sys.Spawn(func(c *Context) {
		res, err = c.Ask(context.Background(), b, "q")
	})

	waitDone(t, a)
	require.NoError(t, err)
	require.Equal(t, "r", res)
}

func TestActor_ask_self_deadlock_detected(t *testing.T) {
	sys := newTestSystem(t)

	var err error
	a := sys.Spawn(func(c *Context) {
		_, err = c.Ask(context.Background(), c.Self(), "q")
	})

	waitDone(t, a)
	require.ErrorIs(t, err, ErrSelfAsk)
}

func TestActor_forward_keeps_requester(t *testing.T) {
	sys := newTestSystem(t)

	b := sys.Spawn(func(c *Context) {
		c.Receive(On[string](func(c *Context, q string) any {
			c.Reply("b:" + q)
			return nil
		}))
	})
	front := sys.Spawn(func(c *Context) {
		c.Receive(On[string](func(c *Context, q string) any {
			c.Forward(b, q)
			return nil
		}))
	})

	res, err := Ask(context.Background(), front, "hi")
	require.NoError(t, err)
	require.Equal(t, "b:hi", res)
}

func TestActor_reply_to_async_sender(t *testing.T) {
	sys := newTestSystem(t)

	echo := sys.Spawn(func(c *Context) {
		c.Receive(On[string](func(c *Context, q string) any {
			c.Reply("echo:" + q)
			return nil
		}))
	})

	var got any
	caller := sys.Spawn(func(c *Context) {
		c.Send(echo, "hey")
		got = c.Receive(On[string](func(c *Context, v string) any { return v }))
	})

	waitDone(t, caller)
	require.Equal(t, "echo:hey", got)
}

func TestActor_receive_from(t *testing.T) {
	sys := newTestSystem(t)

	var (
		got    []any
		s1, s2 *Actor
	)
	recv := sys.New(func(c *Context) {
		got = append(got, c.ReceiveFrom(s2, On[string](func(c *Context, v string) any { return v })))
		got = append(got, c.ReceiveFrom(s1, On[string](func(c *Context, v string) any { return v })))
	})
	s1 = sys.New(func(c *Context) { c.Send(recv, "from1") })
	s2 = sys.New(func(c *Context) { c.Send(recv, "from2") })

	require.NoError(t, s1.Start())
	require.NoError(t, s2.Start())
	require.NoError(t, recv.Start())

	waitDone(t, recv)
	require.Equal(t, []any{"from2", "from1"}, got)
}

func TestActor_send_to_terminated_is_dropped(t *testing.T) {
	sys := newTestSystem(t)

	a := sys.Spawn(func(c *Context) {})
	waitDone(t, a)

	a.Send("lost") // no-op

	_, err := Ask(context.Background(), a, "q")
	require.ErrorIs(t, err, ErrTerminated)
}

func TestActor_start_twice(t *testing.T) {
	sys := newTestSystem(t)

	a := sys.New(func(c *Context) {})
	require.NoError(t, a.Start())
	require.ErrorIs(t, a.Start(), ErrAlreadyStarted)
}

func TestActor_buffered_sends_before_start(t *testing.T) {
	sys := newTestSystem(t)

	var got any
	a := sys.New(func(c *Context) {
		got = c.Receive(On[int](func(c *Context, v int) any { return v }))
	})
	a.Send(7)
	require.NoError(t, a.Start())

	waitDone(t, a)
	require.Equal(t, 7, got)
}

func TestActor_on_func_and_on_any(t *testing.T) {
	sys := newTestSystem(t)

	var got []any
	a := sys.Spawn(func(c *Context) {
		even := c.Receive(OnFunc(
			func(m any) bool { v, ok := m.(int); return ok && v%2 == 0 },
			func(c *Context, m any) any { return m },
		))
		got = append(got, even)
		got = append(got, c.Receive(OnAny(func(c *Context, m any) any { return m })))
	})

	a.Send(3) // odd, skipped by the first receive
	a.Send(4)

	waitDone(t, a)
	require.Equal(t, []any{4, 3}, got)
}

func TestActor_panic_terminates_with_reason(t *testing.T) {
	sys := newTestSystem(t)

	a := sys.Spawn(func(c *Context) {
		panic("kaboom")
	})

	waitDone(t, a)
	require.Equal(t, "kaboom", a.ExitReason())
}

func TestSpawn_on_default_system(t *testing.T) {
	a := Spawn(func(c *Context) {
		c.Receive(On[int](func(c *Context, v int) any { return nil }))
	})
	a.Send(1)

	waitDone(t, a)
	require.Equal(t, ReasonNormal, a.ExitReason())
	require.Same(t, Default(), Default())
}
