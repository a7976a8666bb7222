// Package status provides a thread-safe status tracker for the line-counter
// daemon. It is written by the main loop and read by the HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/line-counter/internal/fsm"
)

// Counts is a point-in-time copy of the production counters.
type Counts struct {
	Session    int
	Total      int
	Hourly     int
	Cumulative int
}

// Availability mirrors the per-collaborator availability flags.
type Availability struct {
	Storage bool
	Clock   bool
	Display bool
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs     int64
	SaveMs     int64
	MaxCount   int
	Broker     string
	HTTPAddr   string
	DataDir    string
	PinCounter int
	PinLatch   int
	PinDiag    int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	State       fsm.State
	Production  fsm.ProductionSub
	Time        fsm.TimeSub
	Counts      Counts
	Avail       Availability
	Dropped     uint32
	Events      uint32
	Transitions uint32
	StartTime   time.Time
	Now         time.Time
	Config      Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     fsm.Initialization,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the machine states, counters, and diagnostics.
// Called from the main loop on every tick.
func (t *Tracker) Update(state fsm.State, prod fsm.ProductionSub, ts fsm.TimeSub,
	counts Counts, avail Availability, dropped, events, transitions uint32) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Production = prod
	t.snap.Time = ts
	t.snap.Counts = counts
	t.snap.Avail = avail
	t.snap.Dropped = dropped
	t.snap.Events = events
	t.snap.Transitions = transitions
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
