package fsm

import (
	"log"

	"github.com/sweeney/line-counter/internal/event"
)

// transition is one row of the state machine's transition table. A nil guard
// always passes; a nil action does nothing beyond the state change.
type transition struct {
	from   State
	on     event.Type
	guard  func(*Machine) bool
	to     State
	action func(*Machine)
}

// transitions is the complete guarded transition table. Timeout-driven
// transitions reuse these rows: the periodic logic synthesizes the
// corresponding event (StartupFailed, DiagnosticComplete, ErrorRecovered)
// so every state change flows through this table.
var transitions = []transition{
	{Initialization, event.StartupComplete, (*Machine).bringUpFinished, Ready, nil},
	{Initialization, event.StartupFailed, nil, Error, (*Machine).logStartupFailure},
	{Initialization, event.ErrorDetected, nil, Error, nil},

	{Ready, event.ProductionStart, (*Machine).canStartProduction, Production, (*Machine).beginSession},
	{Ready, event.DiagnosticRequested, nil, Diagnostic, nil},
	{Ready, event.ErrorDetected, nil, Error, nil},

	{Production, event.ProductionStop, nil, Ready, (*Machine).endSession},
	{Production, event.ErrorDetected, nil, Error, (*Machine).persistBeforeError},

	{Diagnostic, event.DiagnosticComplete, nil, Ready, nil},
	{Diagnostic, event.ErrorDetected, nil, Error, nil},

	{Error, event.ErrorRecovered, nil, Ready, nil},
}

// findTransition returns the table row for (from, on), or nil.
func findTransition(from State, on event.Type) *transition {
	for i := range transitions {
		if transitions[i].from == from && transitions[i].on == on {
			return &transitions[i]
		}
	}
	return nil
}

// Guards.

func (m *Machine) bringUpFinished() bool {
	return m.initStep >= len(m.bringUp)
}

func (m *Machine) canStartProduction() bool {
	if !m.disp.Ready() {
		log.Printf("fsm: production start refused, display not ready")
		return false
	}
	if !m.healthy() {
		log.Printf("fsm: production start refused, health check failed")
		return false
	}
	return true
}

// Actions.

func (m *Machine) beginSession() {
	// An already-active session here is one restored by the recovery pass;
	// entering Production resumes it rather than resetting the count.
	if m.sessions.Active() {
		log.Printf("fsm: resuming recovered session, count=%d", m.sessions.SessionCount())
		return
	}
	if !m.sessions.Start() {
		log.Printf("fsm: session start failed after guard pass")
	}
}

func (m *Machine) endSession() {
	m.sessions.Stop()
}

// persistBeforeError saves current progress best-effort before Production
// gives way to Error.
func (m *Machine) persistBeforeError() {
	m.sessions.PersistProgress()
}

func (m *Machine) logStartupFailure() {
	log.Printf("fsm: FATAL startup failed at step %d/%d (storage=%v clock=%v display=%v)",
		m.initStep, len(m.bringUp), m.storageOK, m.clockOK, m.displayOK)
}
