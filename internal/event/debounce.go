package event

import "time"

// Default debounce windows per input source.
const (
	DefaultCounterDebounce    = 50 * time.Millisecond
	DefaultLatchDebounce      = 100 * time.Millisecond
	DefaultDiagnosticDebounce = 200 * time.Millisecond
)

// Debouncer converts raw pin edges into at most one logical event per
// debounce window. It runs on the GPIO event goroutine: Accept is O(1),
// allocation-free, and touches only the two fields below.
type Debouncer struct {
	window       time.Duration
	lastAccepted time.Time
}

// NewDebouncer creates a debouncer with the given window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Accept reports whether an edge at now should be taken as a logical event.
// An edge is accepted iff the elapsed time since the last accepted edge
// exceeds the window. The first edge is always accepted. Rejected edges are
// silently ignored.
func (d *Debouncer) Accept(now time.Time) bool {
	if !d.lastAccepted.IsZero() && now.Sub(d.lastAccepted) <= d.window {
		return false
	}
	d.lastAccepted = now
	return true
}
