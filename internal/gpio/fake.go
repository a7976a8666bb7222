package gpio

import "time"

// FakeWatcher delivers scripted edges to the handler for tests.
type FakeWatcher struct {
	handler Handler

	// Pressed controls the value returned by LatchPressed.
	Pressed bool

	// Closed tracks whether Close was called.
	Closed bool
}

// NewFakeWatcher creates a FakeWatcher forwarding edges to h.
func NewFakeWatcher(h Handler) *FakeWatcher {
	return &FakeWatcher{handler: h}
}

// Trigger delivers one edge to the handler, as the hardware would.
func (f *FakeWatcher) Trigger(line Line, rising bool, at time.Time) {
	if line == LineLatch {
		f.Pressed = !rising
	}
	f.handler(Edge{Line: line, Rising: rising, Time: at})
}

// LatchPressed reports the scripted latch level.
func (f *FakeWatcher) LatchPressed() (bool, error) {
	return f.Pressed, nil
}

// Close marks the watcher closed.
func (f *FakeWatcher) Close() error {
	f.Closed = true
	return nil
}
