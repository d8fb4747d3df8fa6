package input

// Rearm is the transition of a one-shot latch. A latch re-arms on any frame
// its action is released and disarms when it fires while held:
//
//	armed' = !held || (armed && !triggered)
func Rearm(armed, held, triggered bool) bool {
	if !held {
		return true
	}
	return armed && !triggered
}

// Latch turns a held action into a single trigger per press.
type Latch struct {
	Armed bool
}

// NewLatch returns an armed latch.
func NewLatch() Latch {
	return Latch{Armed: true}
}

// Fire reports whether the action triggers this frame and advances the latch.
func (l *Latch) Fire(held bool) bool {
	triggered := held && l.Armed
	l.Armed = Rearm(l.Armed, held, triggered)
	return triggered
}
