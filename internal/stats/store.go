// Package stats persists practice-session history so players can review
// attempts, completions, and best times across runs.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoHistory is returned by Load when no history file exists on disk.
var ErrNoHistory = errors.New("no practice history")

// Store persists session history to disk.
type Store interface {
	Append(s *Session) error
	Load() ([]Session, error) // returns ErrNoHistory if none exists
	Delete() error
}

// diskStore is the concrete Store that writes to the XDG data directory.
type diskStore struct {
	path string // full path to history.json
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/jutsu/history.json or ~/.local/share/jutsu/history.json
func NewStore() (Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "history.json")}, nil
}

// dataDir returns the jutsu-specific XDG data directory.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "jutsu"), nil
}

// Append adds a session to the history and writes it back atomically.
func (d *diskStore) Append(s *Session) error {
	history, err := d.Load()
	if err != nil && !errors.Is(err, ErrNoHistory) {
		return err
	}
	history = append(history, *s)
	return d.save(history)
}

// save marshals the history to JSON and writes it atomically via a temp
// file + os.Rename.
func (d *diskStore) save(history []Session) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to persist practice history: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "history-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist practice history: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist practice history: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist practice history: %w", err)
	}

	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist practice history: %w", err)
	}
	return nil
}

// Load reads and unmarshals the history file.
// Returns ErrNoHistory if the file does not exist.
func (d *diskStore) Load() ([]Session, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoHistory
		}
		return nil, fmt.Errorf("failed to read practice history: %w", err)
	}

	var history []Session
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to parse practice history: %w", err)
	}
	return history, nil
}

// Delete removes the history file. Missing file is not an error.
func (d *diskStore) Delete() error {
	err := os.Remove(d.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete practice history: %w", err)
	}
	return nil
}
