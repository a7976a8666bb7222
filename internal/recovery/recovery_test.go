package recovery

import (
	"testing"

	"github.com/sweeney/line-counter/internal/clock"
	"github.com/sweeney/line-counter/internal/session"
	"github.com/sweeney/line-counter/internal/storage"
)

func newFixture() (*Coordinator, *session.Manager, *storage.Memory) {
	store := storage.NewMemory()
	clk := clock.NewFake(clock.Timestamp{Year: 2026, Month: 3, Day: 1, Hour: 9, Minute: 0, Second: 0})
	mgr := session.New(store, clk, 9999)
	return New(store, mgr), mgr, store
}

func TestRoundTripAfterCrash(t *testing.T) {
	store := storage.NewMemory()
	clk := clock.NewFake(clock.Timestamp{Year: 2026, Month: 3, Day: 1, Hour: 8, Minute: 30, Second: 0})

	// First process: start, count three items, persist, then "crash"
	// (no Stop call).
	first := session.New(store, clk, 9999)
	first.Start()
	first.Increment()
	first.Increment()
	first.Increment()
	first.PersistProgress()

	// Fresh process over the same store.
	second := session.New(store, clk, 9999)
	coord := New(store, second)

	if !coord.Run() {
		t.Fatal("expected session to be recovered")
	}
	if !second.Active() {
		t.Error("recovered session should be active")
	}
	if second.SessionCount() != 3 {
		t.Errorf("recovered count = %d, want 3", second.SessionCount())
	}
	if second.StartTime() != clk.Time {
		t.Errorf("recovered start = %v, want %v", second.StartTime(), clk.Time)
	}
}

func TestNoSnapshotStartsClean(t *testing.T) {
	coord, mgr, _ := newFixture()

	if coord.Run() {
		t.Error("Run should report false with no snapshot")
	}
	if mgr.Active() {
		t.Error("session should start inactive")
	}
}

func TestCorruptMonthRejected(t *testing.T) {
	coord, mgr, store := newFixture()
	store.Snap = &storage.Snapshot{
		Active:       true,
		SessionCount: 5,
		Start:        clock.Timestamp{Year: 2026, Month: 13, Day: 1, Hour: 8, Minute: 0, Second: 0},
	}

	if coord.Run() {
		t.Error("corrupt snapshot must not recover")
	}
	if mgr.Active() {
		t.Error("session must stay inactive after rejected snapshot")
	}
	if store.Snap != nil {
		t.Error("corrupt snapshot should be discarded")
	}
}

func TestCountAboveMaxRejected(t *testing.T) {
	coord, mgr, store := newFixture()
	store.Snap = &storage.Snapshot{
		Active:       true,
		SessionCount: 10000, // above maxCount 9999
		Start:        clock.Timestamp{Year: 2026, Month: 3, Day: 1, Hour: 8, Minute: 0, Second: 0},
	}

	if coord.Run() {
		t.Error("out-of-range count must not recover")
	}
	if mgr.Active() {
		t.Error("session must stay inactive")
	}
}

func TestYearBeforeEpochRejected(t *testing.T) {
	coord, _, store := newFixture()
	store.Snap = &storage.Snapshot{
		Active:       true,
		SessionCount: 5,
		Start:        clock.Timestamp{Year: 2005, Month: 3, Day: 1, Hour: 8, Minute: 0, Second: 0},
	}

	if coord.Run() {
		t.Error("pre-epoch year must not recover")
	}
}

func TestStorageDownSkipsRecovery(t *testing.T) {
	coord, mgr, store := newFixture()
	store.Down = true

	if coord.Run() {
		t.Error("Run should report false with storage down")
	}
	if mgr.Active() {
		t.Error("session should stay inactive")
	}
}
