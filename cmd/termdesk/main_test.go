package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/ipc"
)

type stubDesktop struct {
	mu      sync.Mutex
	focused []string
}

func (s *stubDesktop) Status(context.Context) (ipc.StatusData, error) {
	return ipc.StatusData{Session: "s-1", OSName: "OS-Portfolio", Booted: true}, nil
}

func (s *stubDesktop) Windows(context.Context) ([]ipc.WindowInfo, error) {
	return []ipc.WindowInfo{{ID: "about", Title: "About", ZIndex: 1, Phase: "idle"}}, nil
}

func (s *stubDesktop) Icons(context.Context) ([]ipc.IconInfo, error) {
	return []ipc.IconInfo{{ID: "about", Label: "About", X: 24, Y: 24}}, nil
}

func (s *stubDesktop) Open(_ context.Context, id string) (ipc.WindowInfo, error) {
	return ipc.WindowInfo{ID: id}, nil
}

func (s *stubDesktop) Close(context.Context, string) error { return nil }

func (s *stubDesktop) Focus(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = append(s.focused, id)
	return nil
}

func (s *stubDesktop) MoveIcon(_ context.Context, id string, x, y float64) (ipc.IconInfo, error) {
	return ipc.IconInfo{ID: id, X: x, Y: y}, nil
}

func startStub(t *testing.T, d ipc.Desktop) string {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "td.sock")
	srv := ipc.NewServer(socket, d, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return socket
}

func TestRunConfigInitThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termdesk", "config.yaml")

	if rc := runConfig([]string{"init", "--path", path}); rc != 0 {
		t.Fatalf("config init rc=%d, want 0", rc)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if rc := runConfig([]string{"init", "--path", path}); rc != 1 {
		t.Fatalf("second init rc=%d, want 1 without --force", rc)
	}
	if rc := runConfig([]string{"init", "--path", path, "--force"}); rc != 0 {
		t.Fatalf("forced init rc=%d, want 0", rc)
	}
	if rc := runConfig([]string{"validate", "--path", path}); rc != 0 {
		t.Fatalf("validate rc=%d, want 0", rc)
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if !res.Loaded || res.Config.OSName != config.DefaultConfig().OSName {
		t.Fatalf("round-tripped config differs: %+v", res)
	}
}

func TestRunConfigValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cell:\n  width: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if rc := runConfig([]string{"validate", "--path", path}); rc != 1 {
		t.Fatalf("validate rc=%d, want 1", rc)
	}
}

func TestRunConfigUsage(t *testing.T) {
	tests := []struct {
		args []string
		want int
	}{
		{nil, 2},
		{[]string{"help"}, 2},
		{[]string{"explain"}, 2},
		{[]string{"print", "--defaults"}, 0},
	}
	for _, tt := range tests {
		if rc := runConfig(tt.args); rc != tt.want {
			t.Fatalf("runConfig(%v) rc=%d, want %d", tt.args, rc, tt.want)
		}
	}
}

func TestControlCommands(t *testing.T) {
	stub := &stubDesktop{}
	socket := startStub(t, stub)

	tests := []struct {
		name string
		run  func([]string) int
		args []string
		want int
	}{
		{"status", runStatus, []string{"--socket", socket}, 0},
		{"status json", runStatus, []string{"--socket", socket, "--json"}, 0},
		{"status extra arg", runStatus, []string{"--socket", socket, "x"}, 2},
		{"windows", runWindows, []string{"--socket", socket}, 0},
		{"icons", runIcons, []string{"--socket", socket, "--json"}, 0},
		{"open", runOpen, []string{"--socket", socket, "about"}, 0},
		{"open missing arg", runOpen, []string{"--socket", socket}, 2},
		{"move", runMove, []string{"--socket", socket, "about", "100", "200"}, 0},
		{"move bad coords", runMove, []string{"--socket", socket, "about", "x", "200"}, 2},
		{"help", runWindows, []string{"-h"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rc := tt.run(tt.args); rc != tt.want {
				t.Fatalf("rc=%d, want %d", rc, tt.want)
			}
		})
	}

	if rc := runWindowCommand("focus", []string{"--socket", socket, "about"}); rc != 0 {
		t.Fatalf("focus rc=%d, want 0", rc)
	}
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if len(stub.focused) != 1 || stub.focused[0] != "about" {
		t.Fatalf("focus not forwarded: %v", stub.focused)
	}
}

func TestControlCommandsWithoutDesktop(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "missing.sock")
	if rc := runStatus([]string{"--socket", socket}); rc != 1 {
		t.Fatalf("status rc=%d, want 1", rc)
	}
}

func TestWriteWindows(t *testing.T) {
	var buf bytes.Buffer
	writeWindows(&buf, nil)
	if !strings.Contains(buf.String(), "no open windows") {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}

	buf.Reset()
	writeWindows(&buf, []ipc.WindowInfo{
		{ID: "about", Title: "About", ZIndex: 2, Phase: "settling", Width: "45%", Height: "auto"},
		{ID: "skills", Title: "Skills", ZIndex: 3, Phase: "idle", Closing: true},
	})
	out := buf.String()
	for _, want := range []string{"settling", "closing", "45% x auto", `"Skills"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteStatus(t *testing.T) {
	var buf bytes.Buffer
	writeStatus(&buf, &ipc.StatusData{Session: "s-1", Volume: 0.6, Muted: true, FocusedWindow: "about"})
	out := buf.String()
	for _, want := range []string{"s-1", "60% (muted)", "focused:        about"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDataPath(t *testing.T) {
	if got := dataPath("", "/data", "prefs.json"); got != filepath.Join("/data", "prefs.json") {
		t.Fatalf("dataPath default = %q", got)
	}
	if got := dataPath("/custom/p.json", "/data", "prefs.json"); got != "/custom/p.json" {
		t.Fatalf("dataPath override = %q", got)
	}
}
