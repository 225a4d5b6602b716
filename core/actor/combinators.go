package actor

// Combinators compose receive/react blocks. Because React ends the
// current reaction instead of returning, sequencing and looping are
// expressed through the context's continue chain: a block's trailing
// continuation runs whatever was pushed there once it reaches a tail with
// no further wait.

// Loop re-executes body forever. The body may end in React; the next
// iteration starts when its final continuation completes. The loop ends
// only when the actor terminates.
func (c *Context) Loop(body func(*Context)) {
	var again func(*Context)
	again = func(cc *Context) {
		cc.conts = append(cc.conts, again)
		body(cc)
	}
	again(c)
}

// Seq runs first, then next once first's final continuation completes.
// Either block may end in React.
func (c *Context) Seq(first, next func(*Context)) {
	c.conts = append(c.conts, next)
	first(c)
}

// chooseFallback rolls a Choose alternative back when its wait would
// suspend. Internal control flow, recovered by Choose.
type chooseFallback struct{}

// Choose evaluates a; if a's wait finds no matching message and would
// suspend, control rolls back and b is evaluated with the original
// waiting behavior restored. If a completes, its value is returned and b
// never runs.
func (c *Context) Choose(a, b func(*Context) any) (v any) {
	fell := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(chooseFallback); !ok {
					panic(r)
				}
				fell = true
			}
		}()
		c.probes = append(c.probes, func() { panic(chooseFallback{}) })
		defer func() { c.probes = c.probes[:len(c.probes)-1] }()
		v = a(c)
	}()
	if fell {
		return b(c)
	}
	return v
}

// Eventloop reacts with cases that re-arm themselves at the end of every
// invocation: the common "process messages forever" shape without an
// explicit Loop.
func (c *Context) Eventloop(cases ...Case) {
	wrapped := make([]Case, len(cases))
	for i := range cases {
		run := cases[i].Run
		wrapped[i] = Case{
			Match: cases[i].Match,
			Run: func(cc *Context, m any) any {
				v := run(cc, m)
				cc.React(wrapped...)
				return v
			},
		}
	}
	c.React(wrapped...)
}
