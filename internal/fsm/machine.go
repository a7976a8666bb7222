package fsm

import (
	"log"
	"runtime"
	"time"

	"github.com/sweeney/line-counter/internal/clock"
	"github.com/sweeney/line-counter/internal/display"
	"github.com/sweeney/line-counter/internal/event"
	"github.com/sweeney/line-counter/internal/session"
	"github.com/sweeney/line-counter/internal/watchdog"
)

// Timeouts and cadences, compared against monotonic snapshots taken at state
// entry or last activity.
const (
	initTimeout       = 30 * time.Second
	diagnosticTimeout = 60 * time.Second
	errorRetryDwell   = 5 * time.Second
	errorResetDwell   = 35 * time.Second
	healthInterval    = time.Second
)

// maxHeapAlloc is the heap ceiling for the health guard; beyond this the
// daemon is considered unhealthy on the target hardware.
const maxHeapAlloc = 64 << 20

// BringUpStep is one hardware bring-up action run during Initialization,
// one step per loop iteration. A failed Required step aborts startup.
type BringUpStep struct {
	Name     string
	Required bool
	Run      func() bool
}

// Deps are the collaborators the machine drives. Zero fields get defaults
// where noted.
type Deps struct {
	Queue    *event.Queue // created if nil
	Sessions *session.Manager
	Clock    clock.Clock
	Hours    *clock.HourTracker // created if nil
	Display  display.Display
	Watchdog watchdog.Watchdog

	// Healthy is the health guard; defaults to DefaultHealthy.
	Healthy func() bool

	// Recover attempts to clear the error condition from the Error state;
	// defaults to Healthy.
	Recover func() bool

	// Now supplies monotonic time; defaults to time.Now.
	Now func() time.Time

	// SaveInterval is the periodic persistence cadence; defaults to 5s.
	SaveInterval time.Duration

	// StatusDuration is how long the transient status overlay stays up
	// when the diagnostic button is pressed during production; defaults
	// to 3s.
	StatusDuration time.Duration

	// BringUp are the Initialization steps.
	BringUp []BringUpStep
}

// Machine owns the system state, its sub-states, and the event queue. It is
// driven from the main loop only; the queue is the single entry point for
// the edge goroutine.
type Machine struct {
	queue    *event.Queue
	sessions *session.Manager
	clk      clock.Clock
	hours    *clock.HourTracker
	disp     display.Display
	dog      watchdog.Watchdog
	healthy  func() bool
	recover  func() bool
	now      func() time.Time

	saveInterval   time.Duration
	statusDuration time.Duration
	bringUp        []BringUpStep
	initStep       int

	current  State
	previous State
	prodSub  ProductionSub
	timeSub  TimeSub

	stateEntered time.Time
	lastSave     time.Time
	lastHealth   time.Time
	lastRecovery time.Time
	statusUntil  time.Time

	storageOK bool
	clockOK   bool
	displayOK bool

	eventCount      uint32
	transitionCount uint32
	droppedTotal    uint32
}

// New creates a Machine in Initialization.
func New(d Deps) *Machine {
	if d.Queue == nil {
		d.Queue = event.NewQueue()
	}
	if d.Hours == nil {
		d.Hours = clock.NewHourTracker()
	}
	if d.Healthy == nil {
		d.Healthy = DefaultHealthy
	}
	if d.Recover == nil {
		d.Recover = d.Healthy
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.SaveInterval <= 0 {
		d.SaveInterval = 5 * time.Second
	}
	if d.StatusDuration <= 0 {
		d.StatusDuration = 3 * time.Second
	}

	m := &Machine{
		queue:          d.Queue,
		sessions:       d.Sessions,
		clk:            d.Clock,
		hours:          d.Hours,
		disp:           d.Display,
		dog:            d.Watchdog,
		healthy:        d.Healthy,
		recover:        d.Recover,
		now:            d.Now,
		saveInterval:   d.SaveInterval,
		statusDuration: d.StatusDuration,
		bringUp:        d.BringUp,
		current:        Initialization,
		previous:       Initialization,
		prodSub:        Idle,
		timeSub:        Unsynchronized,
	}
	m.stateEntered = m.now()
	m.lastSave = m.stateEntered
	m.lastHealth = m.stateEntered
	log.Printf("fsm: initialized in %s", m.current)
	return m
}

// Enqueue adds an event to the queue. Safe to call from the edge goroutine;
// this is its only entry point into the machine.
func (m *Machine) Enqueue(ev event.Type) bool {
	return m.queue.Enqueue(ev)
}

// Step runs one main-loop iteration: drain the queue in FIFO order,
// dispatch each event (transitions apply before the next event is seen),
// then run the active state's periodic logic.
func (m *Machine) Step() {
	if n := m.queue.Dropped(); n > 0 {
		m.droppedTotal += n
		log.Printf("fsm: queue overflow, dropped %d incoming events", n)
	}
	for _, ev := range m.queue.Drain() {
		m.Dispatch(ev)
	}
	m.tick()
}

// Dispatch routes one event to the active state's handler: in-place effects
// first, then the transition table.
func (m *Machine) Dispatch(ev event.Type) {
	m.eventCount++

	if m.handleInPlace(ev) {
		return
	}

	row := findTransition(m.current, ev)
	if row == nil {
		log.Printf("fsm: event %s ignored in %s", ev, m.current)
		return
	}
	m.applyRow(row)
}

// TransitionTo requests a transition to the target state, re-checking the
// table's guards. A refused transition leaves the state unchanged and
// returns false.
func (m *Machine) TransitionTo(to State) bool {
	for i := range transitions {
		row := &transitions[i]
		if row.from != m.current || row.to != to {
			continue
		}
		return m.applyRow(row)
	}
	log.Printf("fsm: transition %s -> %s refused, no such edge", m.current, to)
	return false
}

func (m *Machine) applyRow(row *transition) bool {
	if row.guard != nil && !row.guard(m) {
		log.Printf("fsm: guard check for %s: FAIL", row.to)
		return false
	}

	m.exitState(m.current)
	m.previous = m.current
	m.current = row.to
	m.stateEntered = m.now()
	m.transitionCount++
	m.enterState(row.to)
	if row.action != nil {
		row.action(m)
	}

	log.Printf("fsm: state transition %s -> %s", m.previous, m.current)
	m.showStateScreen()
	return true
}

// handleInPlace processes events that act without a state change. Returns
// true when the event was consumed.
func (m *Machine) handleInPlace(ev event.Type) bool {
	switch ev {
	case event.StorageAvailable, event.StorageUnavailable:
		m.storageOK = ev == event.StorageAvailable
		log.Printf("fsm: storage available=%v", m.storageOK)
		return true
	case event.ClockAvailable:
		m.clockOK = true
		m.timeSub = Synchronized
		m.hours.Prime(m.clockNow())
		return true
	case event.ClockUnavailable:
		m.clockOK = false
		m.timeSub = Unsynchronized
		return true
	case event.DisplayAvailable, event.DisplayUnavailable:
		m.displayOK = ev == event.DisplayAvailable
		log.Printf("fsm: display available=%v", m.displayOK)
		return true
	}

	switch m.current {
	case Production:
		switch ev {
		case event.CounterPressed:
			m.sessions.Increment()
			if m.statusUntil.IsZero() {
				m.disp.Show(display.ScreenProduction, m.screenData())
			}
			return true
		case event.HourChanged:
			m.handleHourBoundary()
			return true
		case event.DiagnosticRequested:
			// Diagnostics are refused mid-production; flash the status
			// overlay instead so the operator still gets the numbers.
			m.statusUntil = m.now().Add(m.statusDuration)
			d := m.screenData()
			d.Message = "status"
			m.disp.Show(display.ScreenStatus, d)
			return true
		}
	case Ready:
		if ev == event.HourChanged {
			m.handleHourBoundary()
			return true
		}
	case Error:
		if ev == event.ErrorFatal {
			log.Printf("fsm: FATAL error reported, holding for watchdog reset")
			return true
		}
	}
	return false
}

func (m *Machine) handleHourBoundary() {
	m.timeSub = HourTransition
	m.sessions.HandleHourChange(m.clockNow())
	if m.clk != nil && m.clk.Available() {
		m.timeSub = Synchronized
	} else {
		m.timeSub = Unsynchronized
	}
}

func (m *Machine) enterState(s State) {
	switch s {
	case Ready:
		m.prodSub = Idle
	case Production:
		m.prodSub = Active
	}
}

func (m *Machine) exitState(s State) {
	if s == Production {
		m.prodSub = Idle
		m.statusUntil = time.Time{}
	}
}

func (m *Machine) showStateScreen() {
	switch m.current {
	case Initialization:
		m.disp.Show(display.ScreenInit, m.screenData())
	case Ready:
		m.disp.Show(display.ScreenReady, m.screenData())
	case Production:
		m.disp.Show(display.ScreenProduction, m.screenData())
	case Diagnostic:
		m.disp.Show(display.ScreenDiagnostic, m.screenData())
	case Error:
		m.disp.Show(display.ScreenError, m.screenData())
	}
}

func (m *Machine) screenData() display.Data {
	return display.Data{
		Count:      m.sessions.SessionCount(),
		Total:      m.sessions.TotalCount(),
		Hourly:     m.sessions.HourlyCount(),
		Cumulative: m.sessions.CumulativeCount(),
		Producing:  m.sessions.Active(),
		Time:       m.clockNow(),
	}
}

func (m *Machine) clockNow() clock.Timestamp {
	if m.clk == nil || !m.clk.Available() {
		return clock.Fallback
	}
	return m.clk.Now()
}

// Current returns the active system state.
func (m *Machine) Current() State { return m.current }

// Previous returns the state before the last transition.
func (m *Machine) Previous() State { return m.previous }

// ProductionState returns the production sub-state.
func (m *Machine) ProductionState() ProductionSub { return m.prodSub }

// TimeState returns the time sub-state.
func (m *Machine) TimeState() TimeSub { return m.timeSub }

// TimeInState returns how long the current state has been active.
func (m *Machine) TimeInState() time.Duration { return m.now().Sub(m.stateEntered) }

// EventCount returns the number of dispatched events.
func (m *Machine) EventCount() uint32 { return m.eventCount }

// TransitionCount returns the number of applied transitions.
func (m *Machine) TransitionCount() uint32 { return m.transitionCount }

// DroppedEvents returns the total number of queue-overflow drops observed.
func (m *Machine) DroppedEvents() uint32 { return m.droppedTotal }

// Availability reports the per-collaborator availability flags
// (storage, clock, display).
func (m *Machine) Availability() (storage, clk, disp bool) {
	return m.storageOK, m.clockOK, m.displayOK
}

// DefaultHealthy is the built-in health guard: heap allocation must stay
// under the configured ceiling.
func DefaultHealthy() bool {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc < maxHeapAlloc
}
