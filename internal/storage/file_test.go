package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sweeney/line-counter/internal/clock"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if !s.Available() {
		t.Fatal("fresh store should be available")
	}
	return s
}

func TestCountRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveCount(KeyCount, 42); err != nil {
		t.Fatalf("SaveCount: %v", err)
	}
	n, err := s.LoadCount(KeyCount)
	if err != nil {
		t.Fatalf("LoadCount: %v", err)
	}
	if n != 42 {
		t.Errorf("LoadCount = %d, want 42", n)
	}
}

func TestLoadMissingCountReadsZero(t *testing.T) {
	s := newTestStore(t)

	n, err := s.LoadCount(KeyHourly)
	if err != nil {
		t.Fatalf("LoadCount: %v", err)
	}
	if n != 0 {
		t.Errorf("missing count = %d, want 0", n)
	}
}

func TestSaveCountRejectsNegative(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveCount(KeyCount, -1); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestLoadCountRejectsGarbage(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(filepath.Join(s.dir, "count.txt"), []byte("banana\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadCount(KeyCount); err == nil {
		t.Error("expected parse error")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := Snapshot{
		Active:       true,
		SessionCount: 37,
		Start:        clock.Timestamp{Year: 2026, Month: 3, Day: 1, Hour: 8, Minute: 15, Second: 30},
	}
	if err := s.WriteSnapshot(want); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	got, err := s.ReadSnapshot()
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if got == nil {
		t.Fatal("expected a snapshot")
	}
	if *got != want {
		t.Errorf("snapshot = %+v, want %+v", *got, want)
	}
}

func TestReadSnapshotAbsent(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.ReadSnapshot()
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil snapshot, got %+v", snap)
	}
}

func TestDeleteSnapshot(t *testing.T) {
	s := newTestStore(t)

	snap := Snapshot{Active: true, SessionCount: 1, Start: clock.Timestamp{Year: 2026, Month: 3, Day: 1, Hour: 8, Minute: 0, Second: 0}}
	if err := s.WriteSnapshot(snap); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSnapshot(); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	got, err := s.ReadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("snapshot still present after delete")
	}

	// Deleting again is not an error.
	if err := s.DeleteSnapshot(); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestReadSnapshotTruncated(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(filepath.Join(s.dir, snapshotFile), []byte("5\n2026\n3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ReadSnapshot(); err == nil {
		t.Error("expected error for truncated snapshot")
	}
}

func TestAppendReport(t *testing.T) {
	s := newTestStore(t)

	if err := s.AppendReport("session.txt", "line one\n"); err != nil {
		t.Fatalf("AppendReport: %v", err)
	}
	if err := s.AppendReport("session.txt", "line two\n"); err != nil {
		t.Fatalf("AppendReport: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, "session.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "line one") || !strings.Contains(string(data), "line two") {
		t.Errorf("report content = %q", data)
	}
}
