package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Persister commits a snapshot to durable storage. The file implementation
// below is the real one; tests substitute failing or recording fakes.
type Persister interface {
	Save(snap Snapshot) error
}

// FileSnapshots persists the store as one self-describing JSON file. Writes
// go to a temp file in the same directory and are renamed into place, so a
// crash mid-write can never leave a torn or partially-written ledger.
type FileSnapshots struct {
	Path string
}

// Save atomically replaces the snapshot file.
func (f *FileSnapshots) Save(snap Snapshot) error {
	snap.Meta.Format = SnapshotFormat
	snap.Meta.Version = SnapshotVersion
	snap.Meta.SavedAt = time.Now()

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".tmp*")
	if err != nil {
		return fmt.Errorf("snapshot: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("snapshot: replace: %w", err)
	}
	return nil
}

// Load reads the snapshot file. A missing file is not an error: it means an
// empty ledger (first start).
func (f *FileSnapshots) Load() (Snapshot, error) {
	var snap Snapshot
	file, err := os.Open(f.Path)
	if os.IsNotExist(err) {
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("snapshot: open: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return snap, fmt.Errorf("snapshot: decode: %w", err)
	}
	if snap.Meta.Format != SnapshotFormat {
		return snap, fmt.Errorf("snapshot: unrecognized format %q", snap.Meta.Format)
	}
	if snap.Meta.Version > SnapshotVersion {
		return snap, fmt.Errorf("snapshot: version %d is newer than supported version %d", snap.Meta.Version, SnapshotVersion)
	}
	return snap, nil
}
