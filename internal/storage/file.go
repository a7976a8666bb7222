package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/sweeney/line-counter/internal/clock"
)

const snapshotFile = "prod_session.txt"

// FileStore persists records as small text files under a data directory.
// Counts and the snapshot are written with renameio (temp file, fsync,
// atomic rename) so an interrupted write leaves the previous record intact.
type FileStore struct {
	dir       string
	available bool
}

// NewFileStore creates the data directory if needed and probes writability.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FileStore{dir: dir}, fmt.Errorf("create data dir: %w", err)
	}

	// Probe: the medium must accept writes before we trust it.
	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return &FileStore{dir: dir}, fmt.Errorf("probe data dir: %w", err)
	}
	os.Remove(probe)

	return &FileStore{dir: dir, available: true}, nil
}

// Available reports whether the store passed its write probe.
func (s *FileStore) Available() bool {
	return s.available
}

func (s *FileStore) countPath(key string) string {
	return filepath.Join(s.dir, key+".txt")
}

// SaveCount writes value to "<key>.txt" atomically.
func (s *FileStore) SaveCount(key string, value int) error {
	if !s.available {
		return fmt.Errorf("storage unavailable")
	}
	if value < 0 {
		return fmt.Errorf("refusing to save negative count %d for %q", value, key)
	}
	return writeAtomic(s.countPath(key), strconv.Itoa(value)+"\n")
}

// LoadCount reads the integer stored under key. A missing file reads as 0.
func (s *FileStore) LoadCount(key string) (int, error) {
	if !s.available {
		return 0, fmt.Errorf("storage unavailable")
	}
	data, err := os.ReadFile(s.countPath(key))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read count %q: %w", key, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("count %q out of range: %d", key, n)
	}
	return n, nil
}

// WriteSnapshot persists the recovery snapshot as one field per line:
// session count, then start year, month, day, hour, minute, second.
func (s *FileStore) WriteSnapshot(snap Snapshot) error {
	if !s.available {
		return fmt.Errorf("storage unavailable")
	}
	body := fmt.Sprintf("%d\n%d\n%d\n%d\n%d\n%d\n%d\n",
		snap.SessionCount,
		snap.Start.Year, snap.Start.Month, snap.Start.Day,
		snap.Start.Hour, snap.Start.Minute, snap.Start.Second)
	return writeAtomic(filepath.Join(s.dir, snapshotFile), body)
}

// ReadSnapshot reads the snapshot, or nil when none exists. Parse failures
// return an error; range validation is the recovery coordinator's job.
func (s *FileStore) ReadSnapshot() (*Snapshot, error) {
	if !s.available {
		return nil, fmt.Errorf("storage unavailable")
	}
	data, err := os.ReadFile(filepath.Join(s.dir, snapshotFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) != 7 {
		return nil, fmt.Errorf("snapshot has %d fields, want 7", len(fields))
	}
	vals := make([]int, 7)
	for i, f := range fields {
		vals[i], err = strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("snapshot field %d: %w", i, err)
		}
	}

	return &Snapshot{
		Active:       true,
		SessionCount: vals[0],
		Start: clock.Timestamp{
			Year: vals[1], Month: vals[2], Day: vals[3],
			Hour: vals[4], Minute: vals[5], Second: vals[6],
		},
	}, nil
}

// DeleteSnapshot removes the snapshot file if present.
func (s *FileStore) DeleteSnapshot() error {
	if !s.available {
		return fmt.Errorf("storage unavailable")
	}
	err := os.Remove(filepath.Join(s.dir, snapshotFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// AppendReport appends text to the named report file under the data dir.
// Reports are append-only logs, so atomic replace does not apply here.
func (s *FileStore) AppendReport(name, text string) error {
	if !s.available {
		return fmt.Errorf("storage unavailable")
	}
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open report %q: %w", name, err)
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("append report %q: %w", name, err)
	}
	return f.Sync()
}

// writeAtomic writes body to path via a pending temp file, fsync, and an
// atomic rename, so a power cut never tears the record.
func writeAtomic(path, body string) error {
	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer pending.Cleanup()

	if _, err := pending.WriteString(body); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %q: %w", path, err)
	}
	return nil
}
