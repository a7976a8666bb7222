package storage

import (
	"errors"
	"strings"
)

// Memory is an in-memory Store. It backs tests (with failure injection) and
// degraded operation when no writable medium exists at boot.
type Memory struct {
	Counts   map[string]int
	Snap     *Snapshot
	Reports  map[string]string
	Down     bool  // Available reports false
	FailNext error // returned by the next mutating call, then cleared
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		Counts:  make(map[string]int),
		Reports: make(map[string]string),
	}
}

func (m *Memory) fail() error {
	if m.Down {
		return errors.New("storage unavailable")
	}
	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return err
	}
	return nil
}

// SaveCount stores value under key.
func (m *Memory) SaveCount(key string, value int) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.Counts[key] = value
	return nil
}

// LoadCount reads the value under key; missing keys read as 0.
func (m *Memory) LoadCount(key string) (int, error) {
	if err := m.fail(); err != nil {
		return 0, err
	}
	return m.Counts[key], nil
}

// WriteSnapshot stores a copy of snap.
func (m *Memory) WriteSnapshot(snap Snapshot) error {
	if err := m.fail(); err != nil {
		return err
	}
	c := snap
	m.Snap = &c
	return nil
}

// ReadSnapshot returns the stored snapshot, or nil.
func (m *Memory) ReadSnapshot() (*Snapshot, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	if m.Snap == nil {
		return nil, nil
	}
	c := *m.Snap
	return &c, nil
}

// DeleteSnapshot clears the stored snapshot.
func (m *Memory) DeleteSnapshot() error {
	if err := m.fail(); err != nil {
		return err
	}
	m.Snap = nil
	return nil
}

// AppendReport appends text to the named report.
func (m *Memory) AppendReport(name, text string) error {
	if err := m.fail(); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(m.Reports[name])
	b.WriteString(text)
	m.Reports[name] = b.String()
	return nil
}

// Available reports whether the store accepts operations.
func (m *Memory) Available() bool {
	return !m.Down
}
