//go:build !linux

package gpio

import "errors"

// RealWatcher is not available on non-Linux platforms.
type RealWatcher struct{}

// NewRealWatcher returns an error on non-Linux platforms.
func NewRealWatcher(pins Pins, h Handler) (*RealWatcher, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// LatchPressed is not implemented on non-Linux platforms.
func (w *RealWatcher) LatchPressed() (bool, error) {
	return false, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (w *RealWatcher) Close() error { return nil }
