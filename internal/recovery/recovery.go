// Package recovery reconstructs an in-progress production session after an
// ungraceful restart. It runs exactly once at boot, before the state machine
// enters Ready, and only borrows the session manager for the restore.
package recovery

import (
	"log"

	"github.com/sweeney/line-counter/internal/session"
	"github.com/sweeney/line-counter/internal/storage"
)

// Coordinator validates and applies the persisted recovery snapshot.
type Coordinator struct {
	store    storage.Store
	sessions *session.Manager
}

// New creates a Coordinator.
func New(store storage.Store, sessions *session.Manager) *Coordinator {
	return &Coordinator{store: store, sessions: sessions}
}

// Run reads the recovery snapshot, validates it, and restores the session if
// it is sound. It returns true when a session was recovered. A corrupt
// snapshot is discarded with a warning; the system then starts clean.
func (c *Coordinator) Run() bool {
	if !c.store.Available() {
		log.Printf("recovery: storage unavailable, skipping check")
		return false
	}

	snap, err := c.store.ReadSnapshot()
	if err != nil {
		log.Printf("recovery: unreadable snapshot discarded: %v", err)
		c.discard()
		return false
	}
	if snap == nil {
		return false // clean shutdown last time
	}

	if !c.valid(*snap) {
		log.Printf("recovery: corrupted snapshot discarded: count=%d start=%s",
			snap.SessionCount, snap.Start)
		c.discard()
		return false
	}

	c.sessions.Restore(*snap)
	log.Printf("recovery: production session recovered from power loss")
	return true
}

func (c *Coordinator) valid(snap storage.Snapshot) bool {
	return snap.Active &&
		snap.SessionCount >= 0 && snap.SessionCount <= c.sessions.MaxCount() &&
		snap.Start.Valid()
}

func (c *Coordinator) discard() {
	if err := c.store.DeleteSnapshot(); err != nil {
		log.Printf("recovery: snapshot delete failed: %v", err)
	}
}
