// Package gpio watches the three input lines (counter button, production
// latch, diagnostic button) and delivers edges to a handler. The real
// implementation uses the Linux GPIO character device; the fake allows
// testing without hardware.
package gpio

import "time"

// Line identifies a physical input source.
type Line string

const (
	LineCounter    Line = "counter"
	LineLatch      Line = "latch"
	LineDiagnostic Line = "diagnostic"
)

// Edge is one raw pin transition. Rising is relative to the logical level:
// inputs are pulled up, so a press reads as a falling edge.
type Edge struct {
	Line   Line
	Rising bool
	Time   time.Time
}

// Handler receives edges. It runs on the GPIO event goroutine and must be
// fast, non-blocking, and must not perform I/O: debounce and enqueue only.
type Handler func(Edge)

// Watcher owns the requested lines.
type Watcher interface {
	// LatchPressed reads the current latch level (true = held down).
	LatchPressed() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Pins holds BCM pin numbers for the three inputs.
type Pins struct {
	Counter    int
	Latch      int
	Diagnostic int
}
