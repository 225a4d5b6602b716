package actor

type (
	// envelope is one mailbox entry: a message together with the actor that
	// sent it and, for synchronous requests, the single-use channel the
	// receiver answers on.
	envelope struct {
		msg    any
		sender *Actor
		reply  chan any
	}

	// mailbox is a FIFO multiset of envelopes with predicate-based
	// extraction. It has no locking of its own; every operation happens
	// under the owning actor's lock, senders and receiver alike.
	mailbox struct {
		entries []envelope
	}
)

func (m *mailbox) append(e envelope) {
	m.entries = append(m.entries, e)
}

// extractFirst removes and returns the oldest envelope satisfying pred.
// The relative order of all remaining envelopes is preserved.
func (m *mailbox) extractFirst(pred func(envelope) bool) (envelope, bool) {
	for i, e := range m.entries {
		if pred(e) {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return e, true
		}
	}
	return envelope{}, false
}

func (m *mailbox) len() int { return len(m.entries) }
