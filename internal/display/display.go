// Package display presents system state to the operator. The core treats it
// as fire-and-forget: Show never blocks the main loop, and readiness is a
// plain boolean guard input. The real implementation publishes screen
// payloads over MQTT for a panel to render.
package display

import (
	"encoding/json"
	"time"

	"github.com/sweeney/line-counter/internal/clock"
)

// Topics for the MQTT-backed display.
const (
	Topic       = "factory/line-counter/display"
	TopicSystem = "factory/line-counter/system"
)

// Screen identifies what the display should render.
type Screen string

const (
	ScreenInit       Screen = "INIT"
	ScreenReady      Screen = "READY"
	ScreenProduction Screen = "PRODUCTION"
	ScreenDiagnostic Screen = "DIAGNOSTIC"
	ScreenError      Screen = "ERROR"
	ScreenStatus     Screen = "STATUS"
)

// Data carries the values a screen renders. Unused fields are zero.
type Data struct {
	Count      int
	Total      int
	Hourly     int
	Cumulative int
	Producing  bool
	Message    string
	Time       clock.Timestamp
}

// Display is the collaborator contract consumed by the core.
type Display interface {
	// Show presents the given screen. Fire-and-forget: errors are handled
	// inside the implementation, never surfaced to the main loop.
	Show(s Screen, d Data)

	// Ready reports whether the display can currently present. Used as a
	// transition guard input only.
	Ready() bool

	// Close releases display resources.
	Close() error
}

// SystemEvent is a lifecycle event (startup, shutdown, recovery) published
// on the system topic with delivery guarantees.
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g. "STARTUP", "SHUTDOWN", "RECOVERED"
	Reason    string // e.g. "SIGTERM" (shutdown only)
}

// screenPayload is the JSON wire form of a Show call.
type screenPayload struct {
	Screen     string `json:"screen"`
	Count      int    `json:"count"`
	Total      int    `json:"total"`
	Hourly     int    `json:"hourly,omitempty"`
	Cumulative int    `json:"cumulative,omitempty"`
	Producing  bool   `json:"producing"`
	Message    string `json:"message,omitempty"`
	Time       string `json:"time,omitempty"`
}

// systemPayload is the JSON wire form of a SystemEvent.
type systemPayload struct {
	System struct {
		Timestamp string `json:"timestamp"`
		Event     string `json:"event"`
		Reason    string `json:"reason,omitempty"`
	} `json:"system"`
}

// FormatScreen creates the JSON payload for a screen update.
func FormatScreen(s Screen, d Data) ([]byte, error) {
	p := screenPayload{
		Screen:     string(s),
		Count:      d.Count,
		Total:      d.Total,
		Hourly:     d.Hourly,
		Cumulative: d.Cumulative,
		Producing:  d.Producing,
		Message:    d.Message,
	}
	if !d.Time.IsZero() {
		p.Time = d.Time.String()
	}
	return json.Marshal(p)
}

// FormatSystem creates the JSON payload for a system lifecycle event.
func FormatSystem(ev SystemEvent) ([]byte, error) {
	var p systemPayload
	p.System.Timestamp = ev.Timestamp.UTC().Format(time.RFC3339)
	p.System.Event = ev.Event
	p.System.Reason = ev.Reason
	return json.Marshal(p)
}
