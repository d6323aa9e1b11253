package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/termdesk/internal/geom"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GitHub.Username = "someone"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if len(cfg.Icons) != 4 {
		t.Fatalf("expected 4 default icons, got %d", len(cfg.Icons))
	}
	if cfg.Window.CloseDelayMs != 300 {
		t.Fatalf("close delay = %d, want 300", cfg.Window.CloseDelayMs)
	}
	if cfg.Physics.Friction != 0.92 || cfg.Physics.Restitution != -0.6 || cfg.Physics.MinVelocity != 0.5 {
		t.Fatalf("unexpected physics defaults: %+v", cfg.Physics)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Loaded {
		t.Fatalf("expected Loaded=false for a missing file")
	}
	if res.Config.Grid.CellHeight != 112 {
		t.Fatalf("expected default grid, got %+v", res.Config.Grid)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !res.Loaded {
		t.Fatalf("expected Loaded=true")
	}
	if res.Config.OSName != "OS-Portfolio" {
		t.Fatalf("os_name = %q", res.Config.OSName)
	}
}

func TestLoadFromPath_OverlaysValues(t *testing.T) {
	body := strings.Join([]string{
		"os_name: DeskOS",
		"physics:",
		"  friction: 0.9",
		"icons:",
		"  - id: cv",
		"    label: Resume",
		"    column: 1",
		"    row: 0",
		"    window:",
		"      title: Resume",
		"      content: About",
		"      top: 100px",
		"      left: 10%",
		"      width: 520px",
		"      height: auto",
		"",
	}, "\n")

	res, err := LoadFromPath(writeConfig(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.OSName != "DeskOS" {
		t.Fatalf("os_name = %q", cfg.OSName)
	}
	if cfg.Physics.Friction != 0.9 {
		t.Fatalf("friction = %v", cfg.Physics.Friction)
	}
	if cfg.Physics.Restitution != -0.6 {
		t.Fatalf("untouched restitution changed to %v", cfg.Physics.Restitution)
	}
	if len(cfg.Icons) != 1 {
		t.Fatalf("icons list should be replaced, got %d entries", len(cfg.Icons))
	}
	win := cfg.Icons[0].Window
	if win.Top != geom.Px(100) || win.Left != geom.Percent(10) || win.Width != geom.Px(520) || !win.Height.IsAuto() {
		t.Fatalf("unexpected window preset: %+v", win)
	}
	if _, ok := cfg.IconByID("cv"); !ok {
		t.Fatalf("IconByID(cv) not found")
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "gap_size: 10\n"))
	if err == nil {
		t.Fatalf("expected strict decoding to reject unknown keys")
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	body := "grid:\n  cell_width: 100\n  min_scale: 0\n"
	_, err := LoadFromPath(writeConfig(t, body))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "grid.min_scale" {
		t.Fatalf("path = %q", verr.Path)
	}
	if verr.Source.Line != 3 {
		t.Fatalf("expected line 3, got %+v", verr.Source)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero cell", func(c *Config) { c.Cell.Width = 0 }, "cell"},
		{"zero grid offset", func(c *Config) { c.Grid.OffsetY = 0 }, "grid"},
		{"inverted scale", func(c *Config) { c.Grid.MaxScale = 0.1 }, "grid.max_scale"},
		{"friction one", func(c *Config) { c.Physics.Friction = 1 }, "physics.friction"},
		{"positive restitution", func(c *Config) { c.Physics.Restitution = 0.5 }, "physics.restitution"},
		{"no icons", func(c *Config) { c.Icons = nil }, "icons"},
		{"duplicate icon", func(c *Config) { c.Icons = append(c.Icons, c.Icons[0]) }, "icons[4]"},
		{"auto width", func(c *Config) { c.Icons[0].Window.Width = geom.Auto() }, "icons[0].window.width"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.GitHub.Username = "someone"
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestSaveTo_RoundTripsThroughLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GitHub.Username = "someone"
	cfg.OSName = "Saved"
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.OSName != "Saved" || res.Config.GitHub.Username != "someone" {
		t.Fatalf("unexpected reloaded config: %+v", res.Config)
	}
	if res.Config.Icons[1].Window.Height != geom.Percent(70) {
		t.Fatalf("window lengths not preserved: %+v", res.Config.Icons[1].Window)
	}
}
