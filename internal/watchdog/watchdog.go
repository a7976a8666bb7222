// Package watchdog abstracts the hardware watchdog used as the last-resort
// recovery mechanism. The core feeds it once per health-check interval and
// forces a reset only from the terminal branch of the error state.
package watchdog

// Watchdog is the collaborator contract consumed by the core.
type Watchdog interface {
	// Feed resets the watchdog timer.
	Feed() error

	// ForceReset triggers an immediate hard reset. It does not return on
	// real hardware.
	ForceReset() error

	// Close releases the watchdog, disarming it where the device supports
	// that.
	Close() error
}

// Noop is a disabled watchdog, used when no device is configured.
type Noop struct{}

// Feed does nothing.
func (Noop) Feed() error { return nil }

// ForceReset does nothing; with no watchdog there is nothing to trip.
func (Noop) ForceReset() error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }

// Fake records calls for tests.
type Fake struct {
	Feeds  int
	Resets int
	Closed bool
}

// Feed counts the feed.
func (f *Fake) Feed() error {
	f.Feeds++
	return nil
}

// ForceReset counts the reset request.
func (f *Fake) ForceReset() error {
	f.Resets++
	return nil
}

// Close marks the fake closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}
