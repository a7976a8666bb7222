// Package event defines the system events that drive the state machine and
// the bounded queue that carries them from the GPIO edge goroutine into the
// main loop. Events carry no payload; all contextual data (counts, times)
// lives in the owning manager and is read at handling time.
package event

// Type identifies a system event.
type Type string

// Lifecycle events.
const (
	StartupComplete Type = "STARTUP_COMPLETE"
	StartupFailed   Type = "STARTUP_FAILED"
)

// Production events.
const (
	ProductionStart Type = "PRODUCTION_START"
	ProductionStop  Type = "PRODUCTION_STOP"
	CounterPressed  Type = "COUNTER_PRESSED"
)

// Time events.
const (
	HourChanged Type = "HOUR_CHANGED"
)

// Hardware availability events.
const (
	StorageAvailable   Type = "STORAGE_AVAILABLE"
	StorageUnavailable Type = "STORAGE_UNAVAILABLE"
	ClockAvailable     Type = "CLOCK_AVAILABLE"
	ClockUnavailable   Type = "CLOCK_UNAVAILABLE"
	DisplayAvailable   Type = "DISPLAY_AVAILABLE"
	DisplayUnavailable Type = "DISPLAY_UNAVAILABLE"
)

// Diagnostic events.
const (
	DiagnosticRequested Type = "DIAGNOSTIC_REQUESTED"
	DiagnosticComplete  Type = "DIAGNOSTIC_COMPLETE"
)

// Error events.
const (
	ErrorDetected  Type = "ERROR_DETECTED"
	ErrorRecovered Type = "ERROR_RECOVERED"
	ErrorFatal     Type = "ERROR_FATAL"
)
