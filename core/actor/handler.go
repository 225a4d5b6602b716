package actor

type (
	// Case is a partial message handler: Match reports whether the case is
	// defined for a message, Run consumes it. A wait (Receive, React and
	// their variants) takes one or more cases; the mailbox hands out the
	// oldest message any of them is defined for.
	Case struct {
		Match func(msg any) bool
		Run   func(c *Context, msg any) any
	}

	// Timeout is the sentinel message a handler observes when a
	// ReceiveWithin or ReactWithin deadline elapses before a matching
	// message arrives.
	Timeout struct{}

	// Exit is delivered as an ordinary message to trapping actors when a
	// linked peer terminates.
	Exit struct {
		From   *Actor
		Reason string
	}
)

// On builds a case defined for all messages of type T.
func On[T any](run func(c *Context, msg T) any) Case {
	return Case{
		Match: func(m any) bool { _, ok := m.(T); return ok },
		Run:   func(c *Context, m any) any { return run(c, m.(T)) },
	}
}

// OnValue builds a case defined for messages equal to want.
// want must be comparable.
func OnValue(want any, run func(c *Context) any) Case {
	return Case{
		Match: func(m any) bool { return m == want },
		Run:   func(c *Context, _ any) any { return run(c) },
	}
}

// OnFunc builds a case from an arbitrary predicate.
func OnFunc(match func(msg any) bool, run func(c *Context, msg any) any) Case {
	return Case{Match: match, Run: run}
}

// OnAny builds a case defined for every message.
func OnAny(run func(c *Context, msg any) any) Case {
	return Case{
		Match: func(any) bool { return true },
		Run:   run,
	}
}

// OnTimeout builds a case defined for the Timeout sentinel. Waits armed
// via ReceiveWithin or ReactWithin run it when the deadline fires first.
func OnTimeout(run func(c *Context) any) Case {
	return Case{
		Match: func(m any) bool { _, ok := m.(Timeout); return ok },
		Run:   func(c *Context, _ any) any { return run(c) },
	}
}

// OnExit builds a case for Exit messages, as seen by trapping actors.
func OnExit(run func(c *Context, x Exit) any) Case {
	return On[Exit](run)
}

func firstMatch(cases []Case, msg any) (Case, bool) {
	for _, cs := range cases {
		if cs.Match(msg) {
			return cs, true
		}
	}
	return Case{}, false
}

// entryPred builds the waiting predicate for a set of cases: defined-ness
// over the message, optionally conjoined with a sender filter, optionally
// accepting the Timeout sentinel regardless of the cases.
func entryPred(from *Actor, cases []Case, acceptTimeout bool) func(envelope) bool {
	return func(e envelope) bool {
		if acceptTimeout {
			if _, ok := e.msg.(Timeout); ok {
				return true
			}
		}
		if from != nil && e.sender != from {
			return false
		}
		_, ok := firstMatch(cases, e.msg)
		return ok
	}
}
