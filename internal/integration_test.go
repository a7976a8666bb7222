package internal

import (
	"strings"
	"testing"
	"time"

	"github.com/sweeney/line-counter/internal/clock"
	"github.com/sweeney/line-counter/internal/display"
	"github.com/sweeney/line-counter/internal/event"
	"github.com/sweeney/line-counter/internal/fsm"
	"github.com/sweeney/line-counter/internal/gpio"
	"github.com/sweeney/line-counter/internal/recovery"
	"github.com/sweeney/line-counter/internal/session"
	"github.com/sweeney/line-counter/internal/storage"
	"github.com/sweeney/line-counter/internal/watchdog"
)

// rig wires the full stack on fakes: scripted GPIO edges flow through the
// debounced handler into the machine's queue, exactly as in the daemon.
type rig struct {
	machine  *fsm.Machine
	sessions *session.Manager
	store    *storage.Memory
	clk      *clock.Fake
	disp     *display.Fake
	watcher  *gpio.FakeWatcher
	now      time.Time
}

func newRig(t *testing.T, store *storage.Memory) *rig {
	t.Helper()
	r := &rig{
		store: store,
		clk:   clock.NewFake(clock.Timestamp{Year: 2026, Month: 3, Day: 1, Hour: 8}),
		disp:  display.NewFake(),
		now:   time.Unix(5000, 0),
	}
	r.sessions = session.New(r.store, r.clk, 9999)
	r.sessions.LoadTotals()
	r.machine = fsm.New(fsm.Deps{
		Sessions: r.sessions,
		Clock:    r.clk,
		Display:  r.disp,
		Watchdog: &watchdog.Fake{},
		Now:      func() time.Time { return r.now },
	})

	counterDeb := event.NewDebouncer(50 * time.Millisecond)
	latchDeb := event.NewDebouncer(100 * time.Millisecond)
	diagDeb := event.NewDebouncer(200 * time.Millisecond)
	r.watcher = gpio.NewFakeWatcher(func(e gpio.Edge) {
		switch e.Line {
		case gpio.LineCounter:
			if !e.Rising && counterDeb.Accept(e.Time) {
				r.machine.Enqueue(event.CounterPressed)
			}
		case gpio.LineLatch:
			if !latchDeb.Accept(e.Time) {
				return
			}
			if e.Rising {
				r.machine.Enqueue(event.ProductionStop)
			} else {
				r.machine.Enqueue(event.ProductionStart)
			}
		case gpio.LineDiagnostic:
			if !e.Rising && diagDeb.Accept(e.Time) {
				r.machine.Enqueue(event.DiagnosticRequested)
			}
		}
	})

	r.machine.Step() // bring-up -> Ready
	if got := r.machine.Current(); got != fsm.Ready {
		t.Fatalf("Current() after bring-up = %s, want READY", got)
	}
	return r
}

// TestIntegrationShiftFromEdges drives a complete session purely from GPIO
// edges, including switch bounce, and checks counts, screens, and reports.
func TestIntegrationShiftFromEdges(t *testing.T) {
	r := newRig(t, storage.NewMemory())
	base := time.Unix(5000, 0)

	// Operator engages the latch; the switch bounces once.
	r.watcher.Trigger(gpio.LineLatch, false, base)
	r.watcher.Trigger(gpio.LineLatch, false, base.Add(20*time.Millisecond))
	r.machine.Step()
	if got := r.machine.Current(); got != fsm.Production {
		t.Fatalf("Current() = %s, want PRODUCTION", got)
	}
	if r.store.Snap == nil {
		t.Fatal("expected recovery snapshot once the session starts")
	}

	// Three items pass the sensor; the second bounces twice.
	at := base.Add(time.Second)
	r.watcher.Trigger(gpio.LineCounter, false, at)
	r.watcher.Trigger(gpio.LineCounter, false, at.Add(300*time.Millisecond))
	r.watcher.Trigger(gpio.LineCounter, false, at.Add(310*time.Millisecond))
	r.watcher.Trigger(gpio.LineCounter, false, at.Add(340*time.Millisecond))
	r.watcher.Trigger(gpio.LineCounter, false, at.Add(700*time.Millisecond))
	r.machine.Step()
	if got := r.sessions.SessionCount(); got != 3 {
		t.Errorf("SessionCount() = %d, want 3 (bounces must not count)", got)
	}

	// Latch released: session over.
	r.watcher.Trigger(gpio.LineLatch, true, base.Add(10*time.Second))
	r.machine.Step()
	if got := r.machine.Current(); got != fsm.Ready {
		t.Fatalf("Current() = %s, want READY", got)
	}
	if got := r.sessions.TotalCount(); got != 3 {
		t.Errorf("TotalCount() = %d, want 3", got)
	}
	if r.store.Snap != nil {
		t.Error("snapshot must be deleted after a clean stop")
	}

	// One session report was written.
	found := false
	for name, body := range r.store.Reports {
		if strings.HasPrefix(name, "Production_") {
			found = true
			if !strings.Contains(body, "Count: 3") {
				t.Errorf("report %q missing count: %s", name, body)
			}
		}
	}
	if !found {
		t.Error("expected a Production_*.txt session report")
	}

	// Screens ended on ready.
	if last := r.disp.Last(); last == nil || last.Screen != display.ScreenReady {
		t.Errorf("Last() = %+v, want ready screen", r.disp.Last())
	}
}

// TestIntegrationPowerLossRecovery cuts power mid-session (new stack over the
// same store) and verifies the session resumes with its count intact.
func TestIntegrationPowerLossRecovery(t *testing.T) {
	store := storage.NewMemory()

	r1 := newRig(t, store)
	base := time.Unix(5000, 0)
	r1.watcher.Trigger(gpio.LineLatch, false, base)
	r1.machine.Step()
	for i := 0; i < 4; i++ {
		r1.watcher.Trigger(gpio.LineCounter, false, base.Add(time.Duration(i+1)*time.Second))
	}
	r1.machine.Step()
	r1.sessions.PersistProgress()
	if got := r1.sessions.SessionCount(); got != 4 {
		t.Fatalf("SessionCount() before power loss = %d, want 4", got)
	}
	// Power loss: r1 is abandoned, store survives.

	r2 := newRig(t, store)
	if !recovery.New(store, r2.sessions).Run() {
		t.Fatal("expected the interrupted session to be recovered")
	}
	if !r2.sessions.Active() {
		t.Fatal("recovered session should be active")
	}
	if got := r2.sessions.SessionCount(); got != 4 {
		t.Errorf("recovered SessionCount() = %d, want 4", got)
	}

	// The latch is still held, so the machine resumes the session without
	// resetting the count, and the line keeps moving.
	r2.machine.Dispatch(event.ProductionStart)
	if got := r2.machine.Current(); got != fsm.Production {
		t.Fatalf("Current() after resume = %s, want PRODUCTION", got)
	}
	if got := r2.sessions.SessionCount(); got != 4 {
		t.Fatalf("SessionCount() after resume = %d, want 4 (no reset)", got)
	}
	r2.watcher.Trigger(gpio.LineCounter, false, base.Add(time.Minute))
	r2.machine.Step()
	r2.machine.Dispatch(event.ProductionStop)
	if got := r2.sessions.TotalCount(); got != 5 {
		t.Errorf("TotalCount() = %d, want 5 across the power loss", got)
	}
	if store.Snap != nil {
		t.Error("snapshot must be gone after the recovered session stops")
	}
}

// TestIntegrationDegradedStorage runs a full session with storage down:
// counting must continue, nothing may panic, nothing is persisted.
func TestIntegrationDegradedStorage(t *testing.T) {
	store := storage.NewMemory()
	store.Down = true

	r := newRig(t, store)
	base := time.Unix(5000, 0)

	r.watcher.Trigger(gpio.LineLatch, false, base)
	r.machine.Step()
	if got := r.machine.Current(); got != fsm.Production {
		t.Fatalf("Current() = %s, want PRODUCTION despite storage outage", got)
	}

	for i := 0; i < 3; i++ {
		r.watcher.Trigger(gpio.LineCounter, false, base.Add(time.Duration(i+1)*time.Second))
	}
	r.machine.Step()
	r.watcher.Trigger(gpio.LineLatch, true, base.Add(10*time.Second))
	r.machine.Step()

	if got := r.sessions.TotalCount(); got != 3 {
		t.Errorf("TotalCount() = %d, want 3", got)
	}
	if len(store.Counts) != 0 || store.Snap != nil || len(store.Reports) != 0 {
		t.Errorf("nothing should persist while storage is down: %+v", store)
	}
}

// TestIntegrationDiagnosticFlowFromButton runs the diagnostic path from the
// physical button in Ready and checks the return to Ready on completion.
func TestIntegrationDiagnosticFlowFromButton(t *testing.T) {
	r := newRig(t, storage.NewMemory())

	r.watcher.Trigger(gpio.LineDiagnostic, false, time.Unix(5000, 0))
	r.machine.Step()
	if got := r.machine.Current(); got != fsm.Diagnostic {
		t.Fatalf("Current() = %s, want DIAGNOSTIC", got)
	}
	if last := r.disp.Last(); last == nil || last.Screen != display.ScreenDiagnostic {
		t.Errorf("Last() = %+v, want diagnostic screen", r.disp.Last())
	}

	r.machine.Dispatch(event.DiagnosticComplete)
	if got := r.machine.Current(); got != fsm.Ready {
		t.Errorf("Current() = %s, want READY", got)
	}
}
