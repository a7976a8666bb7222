// Package session owns the production-session lifecycle: start, stop,
// clamped counting, and the hourly/cumulative aggregation that rides hour
// boundaries. Exactly one session can be active at a time.
package session

import (
	"fmt"
	"log"

	"github.com/sweeney/line-counter/internal/clock"
	"github.com/sweeney/line-counter/internal/storage"
)

// Manager tracks the single production session and the running totals.
// It is owned and driven by the main loop only; nothing here is shared with
// the edge goroutine.
type Manager struct {
	store    storage.Store
	clk      clock.Clock
	maxCount int

	active       bool
	sessionCount int
	totalCount   int
	startTime    clock.Timestamp
	stopTime     clock.Timestamp

	hourlyCount     int
	cumulativeCount int
}

// New creates a Manager persisting through store and reading time from clk.
func New(store storage.Store, clk clock.Clock, maxCount int) *Manager {
	return &Manager{store: store, clk: clk, maxCount: maxCount}
}

// Start begins a new session. It fails when a session is already active.
// On success the session count resets, the start time is captured, and a
// recovery snapshot is written.
func (m *Manager) Start() bool {
	if m.active {
		log.Printf("session: start refused, session already active")
		return false
	}

	m.active = true
	m.sessionCount = 0
	m.startTime = m.now()
	m.stopTime = clock.Timestamp{}

	if err := m.writeSnapshot(); err != nil {
		log.Printf("session: snapshot write failed: %v", err)
	}
	log.Printf("session: started at %s", m.startTime)
	return true
}

// Stop ends the active session: the session count folds into the total, a
// session report is written, and the recovery snapshot is deleted. Stopping
// with no active session is a warning no-op.
func (m *Manager) Stop() bool {
	if !m.active {
		log.Printf("session: stop ignored, no active session")
		return false
	}

	m.active = false
	m.stopTime = m.now()
	m.totalCount += m.sessionCount

	log.Printf("session: stopped at %s, count=%d total=%d", m.stopTime, m.sessionCount, m.totalCount)

	if m.store.Available() {
		if err := m.writeReport(); err != nil {
			log.Printf("session: report write failed: %v", err)
		}
		if err := m.store.DeleteSnapshot(); err != nil {
			log.Printf("session: snapshot delete failed: %v", err)
		}
	}

	m.sessionCount = 0
	return true
}

// Increment advances the session count by one item. It is a no-op when no
// session is active, and saturates at the configured maximum.
func (m *Manager) Increment() {
	if !m.active {
		return
	}
	if m.sessionCount >= m.maxCount {
		return
	}
	m.sessionCount++
	m.hourlyCount++
	if m.sessionCount%100 == 0 {
		log.Printf("session: count %d", m.sessionCount)
	}
}

// HandleHourChange processes an hour-boundary crossing. While a session is
// active the hourly counter is preserved so an in-progress session's count is
// never truncated; only the cumulative total is re-persisted. When idle, the
// hourly counter folds into the cumulative total, resets, and a log record is
// written.
func (m *Manager) HandleHourChange(now clock.Timestamp) {
	if m.active {
		log.Printf("session: hour changed during production, hourly count preserved")
		if m.store.Available() {
			if err := m.store.SaveCount(storage.KeyCumulative, m.cumulativeCount); err != nil {
				log.Printf("session: cumulative save failed: %v", err)
			}
		}
		return
	}

	folded := m.hourlyCount
	m.cumulativeCount += folded
	m.hourlyCount = 0

	log.Printf("session: hour logged, hourly=%d cumulative=%d", folded, m.cumulativeCount)

	if !m.store.Available() {
		return
	}
	if err := m.store.SaveCount(storage.KeyHourly, folded); err != nil {
		log.Printf("session: hourly save failed: %v", err)
	}
	if err := m.store.SaveCount(storage.KeyCumulative, m.cumulativeCount); err != nil {
		log.Printf("session: cumulative save failed: %v", err)
	}
	record := fmt.Sprintf("Time: %s\nHour Count: %d\nCumulative: %d\n---\n",
		now, folded, m.cumulativeCount)
	if err := m.store.AppendReport(hourLogName(now), record); err != nil {
		log.Printf("session: hour log failed: %v", err)
	}
}

// PersistProgress writes the live counts, and the recovery snapshot while a
// session is active. Called on the periodic persistence cadence.
func (m *Manager) PersistProgress() {
	if !m.store.Available() {
		return
	}
	if err := m.store.SaveCount(storage.KeyCount, m.sessionCount); err != nil {
		log.Printf("session: count save failed: %v", err)
	}
	if m.active {
		if err := m.writeSnapshot(); err != nil {
			log.Printf("session: snapshot write failed: %v", err)
		}
	}
}

// Restore reinstates a recovered session. Used once at boot by the recovery
// coordinator, before normal operation begins.
func (m *Manager) Restore(snap storage.Snapshot) {
	m.active = true
	m.sessionCount = snap.SessionCount
	m.hourlyCount = snap.SessionCount
	m.startTime = snap.Start
	log.Printf("session: recovered, count=%d start=%s", m.sessionCount, m.startTime)
}

// LoadTotals reads the persisted hourly and cumulative counters at boot.
func (m *Manager) LoadTotals() {
	if !m.store.Available() {
		return
	}
	if n, err := m.store.LoadCount(storage.KeyHourly); err == nil {
		m.hourlyCount = n
	} else {
		log.Printf("session: hourly load failed: %v", err)
	}
	if n, err := m.store.LoadCount(storage.KeyCumulative); err == nil {
		m.cumulativeCount = n
	} else {
		log.Printf("session: cumulative load failed: %v", err)
	}
}

// Active reports whether a session is in progress.
func (m *Manager) Active() bool { return m.active }

// SessionCount returns the current session count.
func (m *Manager) SessionCount() int { return m.sessionCount }

// TotalCount returns the total across completed sessions.
func (m *Manager) TotalCount() int { return m.totalCount }

// HourlyCount returns the count accumulated in the current hour.
func (m *Manager) HourlyCount() int { return m.hourlyCount }

// CumulativeCount returns the lifetime cumulative count.
func (m *Manager) CumulativeCount() int { return m.cumulativeCount }

// StartTime returns the active or last session's start time.
func (m *Manager) StartTime() clock.Timestamp { return m.startTime }

// MaxCount returns the configured session count ceiling.
func (m *Manager) MaxCount() int { return m.maxCount }

func (m *Manager) now() clock.Timestamp {
	if !m.clk.Available() {
		return clock.Fallback
	}
	return m.clk.Now()
}

func (m *Manager) writeSnapshot() error {
	if !m.store.Available() {
		return nil // degraded: counts live in memory only
	}
	return m.store.WriteSnapshot(storage.Snapshot{
		Active:       true,
		SessionCount: m.sessionCount,
		Start:        m.startTime,
	})
}

func (m *Manager) writeReport() error {
	name := fmt.Sprintf("Production_%s_to_%s.txt", m.startTime.FileStamp(), m.stopTime.FileStamp())
	body := fmt.Sprintf("=== PRODUCTION SESSION ===\nStarted: %s\nStopped: %s\nCount: %d\n",
		m.startTime, m.stopTime, m.sessionCount)
	return m.store.AppendReport(name, body)
}

func hourLogName(now clock.Timestamp) string {
	return fmt.Sprintf("Hourly_%04d%02d%02d.txt", now.Year, now.Month, now.Day)
}
