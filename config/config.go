// Package config persists the small amount of per-user state the
// application keeps between runs, currently just the last opened file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDir    = "snappy"
	stateFile = ".snappy"
)

// ErrNoSavedFile is returned by Load when nothing has been saved yet.
var ErrNoSavedFile = errors.New("no saved file")

// Store reads and writes the persisted state file. The zero value is
// not usable, construct it with NewStore or NewStoreAt.
type Store struct {
	path string
}

// NewStore places the state file under the platform user config
// directory.
func NewStore() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("locating config dir: %w", err)
	}
	return NewStoreAt(filepath.Join(base, appDir)), nil
}

// NewStoreAt places the state file in dir. Used by tests and by
// explicit overrides.
func NewStoreAt(dir string) *Store {
	return &Store{path: filepath.Join(dir, stateFile)}
}

// Save records path as the last opened file.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(path+"\n"), 0o644); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// Load returns the last saved file path. It fails with ErrNoSavedFile
// when no path was ever saved, and with a plain error when a path was
// saved but the file it names no longer exists.
func (s *Store) Load() (string, error) {
	d, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSavedFile
		}
		return "", fmt.Errorf("reading state: %w", err)
	}
	path := strings.TrimSpace(string(d))
	if path == "" {
		return "", ErrNoSavedFile
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("saved file %s is gone: %w", path, err)
	}
	return path, nil
}

// Clear forgets the saved path. Clearing an empty store is not an
// error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing state: %w", err)
	}
	return nil
}
