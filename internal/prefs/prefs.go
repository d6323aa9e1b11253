// Package prefs persists the desktop's only stored preference: audio volume.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

const (
	// DefaultVolume is the volume used before anything is saved.
	DefaultVolume = 0.5
	// VolumeStep is one notch of the volume control.
	VolumeStep = 0.1
)

// Prefs is the persisted preference set.
type Prefs struct {
	Volume float64 `json:"volume"`
	Muted  bool    `json:"muted"`
}

// Default returns the preferences of a fresh install.
func Default() Prefs {
	return Prefs{Volume: DefaultVolume}
}

// WithVolume returns p with the volume set to v, clamped to [0, 1].
func (p Prefs) WithVolume(v float64) Prefs {
	if math.IsNaN(v) {
		v = DefaultVolume
	}
	p.Volume = math.Max(0, math.Min(1, v))
	return p
}

// Step nudges the volume by delta. Raising the volume unmutes.
func (p Prefs) Step(delta float64) Prefs {
	p = p.WithVolume(p.Volume + delta)
	if delta > 0 {
		p.Muted = false
	}
	return p
}

// ToggleMute flips the mute flag.
func (p Prefs) ToggleMute() Prefs {
	p.Muted = !p.Muted
	return p
}

// Effective is the volume actually applied.
func (p Prefs) Effective() float64 {
	if p.Muted {
		return 0
	}
	return p.Volume
}

// Store reads and writes preferences as JSON.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load returns the saved preferences, or the defaults when nothing has been
// saved yet.
func (s *Store) Load() (Prefs, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read preferences: %w", err)
	}
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("failed to parse preferences %s: %w", s.path, err)
	}
	return p.WithVolume(p.Volume), nil
}

// Save writes p, replacing the previous file atomically.
func (s *Store) Save(p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	data, err := json.MarshalIndent(p.WithVolume(p.Volume), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}
