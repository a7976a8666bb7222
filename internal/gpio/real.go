//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealWatcher watches actual hardware lines via the Linux GPIO character
// device. Edge events arrive on gpiocdev's event goroutine and are forwarded
// to the handler.
type RealWatcher struct {
	chip       *gpiocdev.Chip
	counter    *gpiocdev.Line
	latch      *gpiocdev.Line
	diagnostic *gpiocdev.Line
}

// NewRealWatcher requests the three input lines and wires edge events to h.
// Buttons pull the line to ground, so lines are requested with pull-ups;
// counter and diagnostic watch falling edges only, the latch watches both.
func NewRealWatcher(pins Pins, h Handler) (*RealWatcher, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	forward := func(line Line) func(gpiocdev.LineEvent) {
		return func(evt gpiocdev.LineEvent) {
			h(Edge{
				Line:   line,
				Rising: evt.Type == gpiocdev.LineEventRisingEdge,
				Time:   time.Now(),
			})
		}
	}

	counter, err := chip.RequestLine(pins.Counter,
		gpiocdev.AsInput, gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge, gpiocdev.WithEventHandler(forward(LineCounter)))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request counter pin %d: %w", pins.Counter, err)
	}

	latch, err := chip.RequestLine(pins.Latch,
		gpiocdev.AsInput, gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges, gpiocdev.WithEventHandler(forward(LineLatch)))
	if err != nil {
		counter.Close()
		chip.Close()
		return nil, fmt.Errorf("request latch pin %d: %w", pins.Latch, err)
	}

	diagnostic, err := chip.RequestLine(pins.Diagnostic,
		gpiocdev.AsInput, gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge, gpiocdev.WithEventHandler(forward(LineDiagnostic)))
	if err != nil {
		latch.Close()
		counter.Close()
		chip.Close()
		return nil, fmt.Errorf("request diagnostic pin %d: %w", pins.Diagnostic, err)
	}

	return &RealWatcher{
		chip:       chip,
		counter:    counter,
		latch:      latch,
		diagnostic: diagnostic,
	}, nil
}

// LatchPressed reads the latch level. With a pull-up, a raw 0 means the
// latch is held down.
func (w *RealWatcher) LatchPressed() (bool, error) {
	v, err := w.latch.Value()
	if err != nil {
		return false, fmt.Errorf("read latch: %w", err)
	}
	return v == 0, nil
}

// Close releases all requested lines and the chip.
func (w *RealWatcher) Close() error {
	var errs []error
	for _, l := range []*gpiocdev.Line{w.counter, w.latch, w.diagnostic} {
		if l != nil {
			if err := l.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
