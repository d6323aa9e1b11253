package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.json"))
	p, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p != Default() || p.Volume != 0.5 {
		t.Fatalf("prefs = %+v, want defaults", p)
	}
}

func TestSaveLoad(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "prefs.json"))
	want := Prefs{Volume: 0.8, Muted: true}
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("prefs = %+v, want %+v", got, want)
	}
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestLoad_ClampsAndRejects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.json")

	os.WriteFile(path, []byte(`{"volume": 7}`), 0644)
	p, err := NewStore(path).Load()
	if err != nil || p.Volume != 1 {
		t.Fatalf("prefs = %+v err=%v, want volume clamped to 1", p, err)
	}

	os.WriteFile(path, []byte(`not json`), 0644)
	p, err = NewStore(path).Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if p != Default() {
		t.Fatalf("broken file should fall back to defaults, got %+v", p)
	}
}

func TestVolumeOps(t *testing.T) {
	tests := []struct {
		name string
		in   Prefs
		op   func(Prefs) Prefs
		want Prefs
	}{
		{"step up", Prefs{Volume: 0.5}, func(p Prefs) Prefs { return p.Step(0.25) }, Prefs{Volume: 0.75}},
		{"step clamps high", Prefs{Volume: 0.9}, func(p Prefs) Prefs { return p.Step(0.5) }, Prefs{Volume: 1}},
		{"step clamps low", Prefs{Volume: 0.1}, func(p Prefs) Prefs { return p.Step(-0.5) }, Prefs{Volume: 0}},
		{"raising unmutes", Prefs{Volume: 0.5, Muted: true}, func(p Prefs) Prefs { return p.Step(0.25) }, Prefs{Volume: 0.75}},
		{"lowering keeps mute", Prefs{Volume: 0.5, Muted: true}, func(p Prefs) Prefs { return p.Step(-0.25) }, Prefs{Volume: 0.25, Muted: true}},
		{"toggle mute", Prefs{Volume: 0.5}, Prefs.ToggleMute, Prefs{Volume: 0.5, Muted: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(tt.in); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if v := (Prefs{Volume: 0.7, Muted: true}).Effective(); v != 0 {
		t.Fatalf("muted effective volume = %v", v)
	}
}
