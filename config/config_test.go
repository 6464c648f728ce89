package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data.json")
	if err := os.WriteFile(target, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStoreAt(filepath.Join(dir, "cfg"))
	if err := s.Save(target); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != target {
		t.Errorf("got %q, want %q", got, target)
	}
}

func TestLoadNothingSaved(t *testing.T) {
	s := NewStoreAt(filepath.Join(t.TempDir(), "cfg"))
	if _, err := s.Load(); !errors.Is(err, ErrNoSavedFile) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadTargetGone(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data.json")
	if err := os.WriteFile(target, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewStoreAt(filepath.Join(dir, "cfg"))
	if err := s.Save(target); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}
	_, err := s.Load()
	if err == nil || errors.Is(err, ErrNoSavedFile) {
		t.Errorf("err = %v, want missing-target error", err)
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data.json")
	if err := os.WriteFile(target, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewStoreAt(filepath.Join(dir, "cfg"))
	if err := s.Save(target); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrNoSavedFile) {
		t.Errorf("after clear err = %v", err)
	}
	// clearing twice is fine
	if err := s.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}
