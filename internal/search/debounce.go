package search

import "time"

// DefaultDebounce is the quiet period before a query change is dispatched
const DefaultDebounce = 300 * time.Millisecond

// Tick asks the host to call Gate.Fire(Seq) after Delay
type Tick struct {
	Seq   uint64
	Delay time.Duration
}

// Decision is the outcome of a query change.
// When Settled is true, Text must be handed to onSettled right away and no
// tick is scheduled; otherwise Tick must be scheduled.
type Decision struct {
	Settled bool
	Text    string
	Tick    Tick
}

// Gate collapses rapid query changes into a single delayed dispatch.
//
// The gate never owns a real timer. Each change arms a new token and the host
// schedules a tick carrying it; only the tick with the latest armed token
// fires. A superseded tick is the equivalent of a cancelled timer, so at most
// one pending timer is ever live.
type Gate struct {
	delay   time.Duration
	seq     uint64
	armed   bool
	pending string
}

// NewGate creates a gate with the given quiet period
func NewGate(delay time.Duration) *Gate {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Gate{delay: delay}
}

// Delay returns the configured quiet period
func (g *Gate) Delay() time.Duration {
	return g.delay
}

// Change records a new query text and replaces any pending timer
func (g *Gate) Change(text string) Decision {
	g.seq++
	if Effective(text) == "" {
		g.armed = false
		g.pending = ""
		return Decision{Settled: true, Text: ""}
	}
	g.armed = true
	g.pending = text
	return Decision{Tick: Tick{Seq: g.seq, Delay: g.delay}}
}

// Fire is called when a scheduled tick elapses. It returns the settled text
// only if seq is the most recent armed token.
func (g *Gate) Fire(seq uint64) (string, bool) {
	if !g.armed || seq != g.seq {
		return "", false
	}
	g.armed = false
	text := g.pending
	g.pending = ""
	return text, true
}

// Cancel disarms the pending timer, if any
func (g *Gate) Cancel() {
	g.seq++
	g.armed = false
	g.pending = ""
}
