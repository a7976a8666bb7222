package fsm

import (
	"log"
	"time"

	"github.com/sweeney/line-counter/internal/event"
)

// tick runs the active state's periodic logic plus the cross-state health
// check and watchdog feed. Called once per main-loop iteration after the
// queue is drained.
func (m *Machine) tick() {
	switch m.current {
	case Initialization:
		m.tickInit()
	case Ready, Production:
		m.tickOperational()
	case Diagnostic:
		m.tickDiagnostic()
	case Error:
		m.tickError()
	}

	if m.current != Error {
		m.tickHealth()
	}
}

// tickInit runs one bring-up step per iteration so the loop stays
// responsive, then synthesizes StartupComplete. The hard deadline covers
// steps that hang.
func (m *Machine) tickInit() {
	if m.now().Sub(m.stateEntered) > initTimeout {
		log.Printf("fsm: initialization timed out after %s", initTimeout)
		m.Dispatch(event.StartupFailed)
		return
	}

	if m.initStep < len(m.bringUp) {
		step := m.bringUp[m.initStep]
		ok := step.Run()
		log.Printf("fsm: bring-up step %d/%d %q ok=%v", m.initStep+1, len(m.bringUp), step.Name, ok)
		m.initStep++
		if !ok && step.Required {
			m.Dispatch(event.StartupFailed)
			return
		}
		if m.initStep < len(m.bringUp) {
			return
		}
	}

	m.Dispatch(event.StartupComplete)
}

// tickOperational covers Ready and Production: hour-boundary detection and
// periodic persistence of in-flight session progress.
func (m *Machine) tickOperational() {
	if m.clk != nil && m.clk.Available() {
		now := m.clk.Now()
		if m.timeSub == Unsynchronized {
			m.timeSub = Synchronized
			m.hours.Prime(now)
		} else if m.hours.Changed(now) {
			m.Dispatch(event.HourChanged)
		}
	} else if m.timeSub == Synchronized {
		m.timeSub = Unsynchronized
	}

	if !m.statusUntil.IsZero() && !m.now().Before(m.statusUntil) {
		m.statusUntil = time.Time{}
		m.showStateScreen()
	}

	if m.sessions.Active() && m.now().Sub(m.lastSave) >= m.saveInterval {
		m.sessions.PersistProgress()
		m.lastSave = m.now()
	}
}

func (m *Machine) tickDiagnostic() {
	if m.now().Sub(m.stateEntered) > diagnosticTimeout {
		log.Printf("fsm: diagnostic timed out after %s, returning to ready", diagnosticTimeout)
		m.Dispatch(event.DiagnosticComplete)
	}
}

// tickError dwells before retrying recovery, and forces a watchdog reset
// when the error persists past the hard deadline.
func (m *Machine) tickError() {
	dwell := m.now().Sub(m.stateEntered)

	if dwell >= errorResetDwell {
		log.Printf("fsm: error persisted %s, forcing hardware reset", dwell.Round(time.Second))
		if err := m.dog.ForceReset(); err != nil {
			log.Printf("fsm: hardware reset failed: %v", err)
		}
		return
	}

	if dwell < errorRetryDwell {
		return
	}
	if m.now().Sub(m.lastRecovery) < errorRetryDwell && !m.lastRecovery.IsZero() {
		return
	}
	m.lastRecovery = m.now()
	if m.recover() {
		log.Printf("fsm: recovery succeeded after %s in error", dwell.Round(time.Second))
		m.Dispatch(event.ErrorRecovered)
	} else {
		log.Printf("fsm: recovery attempt failed, will retry")
	}
}

// tickHealth feeds the watchdog and runs the health guard once per interval.
func (m *Machine) tickHealth() {
	if m.now().Sub(m.lastHealth) < healthInterval {
		return
	}
	m.lastHealth = m.now()

	if err := m.dog.Feed(); err != nil {
		log.Printf("fsm: watchdog feed failed: %v", err)
	}
	if !m.healthy() {
		log.Printf("fsm: health check failed")
		m.Dispatch(event.ErrorDetected)
	}
}
