// Package storage persists counts, the recovery snapshot, and session
// reports. The file implementation writes atomically so a power cut mid-write
// never leaves a torn record; the memory implementation backs tests and
// degraded (storage-less) operation.
package storage

import "github.com/sweeney/line-counter/internal/clock"

// Well-known count keys.
const (
	KeyCount      = "count"
	KeyHourly     = "hourly_count"
	KeyCumulative = "cumulative_count"
)

// Snapshot is the minimal persisted record of an in-progress session.
// Its presence at boot is the sole signal that the prior run ended
// non-gracefully.
type Snapshot struct {
	Active       bool
	SessionCount int
	Start        clock.Timestamp
}

// Store is the persistence collaborator consumed by the core. Implementations
// report unavailability through errors and Available; they never panic.
type Store interface {
	// SaveCount persists an integer under key.
	SaveCount(key string, value int) error

	// LoadCount reads the integer under key. A missing key reads as 0.
	LoadCount(key string) (int, error)

	// WriteSnapshot persists the recovery snapshot.
	WriteSnapshot(snap Snapshot) error

	// ReadSnapshot returns the snapshot, or nil when none exists.
	ReadSnapshot() (*Snapshot, error)

	// DeleteSnapshot removes the snapshot. Deleting a missing snapshot is
	// not an error.
	DeleteSnapshot() error

	// AppendReport appends text to the named report file.
	AppendReport(name, text string) error

	// Available reports whether the backing medium is usable.
	Available() bool
}
