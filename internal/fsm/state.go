// Package fsm implements the event-driven state machine at the heart of the
// counter: five system states with guarded transitions expressed as data,
// production and time sub-states, and per-state periodic logic driven once
// per main-loop iteration.
package fsm

// State is the system state. Exactly one is active at a time.
type State string

const (
	Initialization State = "INITIALIZATION"
	Ready          State = "READY"
	Production     State = "PRODUCTION"
	Diagnostic     State = "DIAGNOSTIC"
	Error          State = "ERROR"
)

// ProductionSub is the production sub-state.
type ProductionSub string

const (
	Idle   ProductionSub = "IDLE"
	Active ProductionSub = "ACTIVE"

	// Suspended is reserved for future multi-part session support; no
	// transition currently produces it.
	Suspended ProductionSub = "SUSPENDED"
)

// TimeSub is the time-synchronization sub-state.
type TimeSub string

const (
	Unsynchronized TimeSub = "UNSYNCHRONIZED"
	Synchronized   TimeSub = "SYNCHRONIZED"
	HourTransition TimeSub = "HOUR_TRANSITION"
)
