package ipc

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type fakeDesktop struct {
	mu      sync.Mutex
	windows []WindowInfo
	closed  []string
}

func (f *fakeDesktop) Status(context.Context) (StatusData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return StatusData{Session: "s-1", OSName: "OS-Portfolio", WindowCount: len(f.windows)}, nil
}

func (f *fakeDesktop) Windows(context.Context) ([]WindowInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]WindowInfo(nil), f.windows...), nil
}

func (f *fakeDesktop) Icons(context.Context) ([]IconInfo, error) {
	return []IconInfo{{ID: "about", Label: "About", X: 24, Y: 24}}, nil
}

func (f *fakeDesktop) Open(_ context.Context, id string) (WindowInfo, error) {
	if id != "about" {
		return WindowInfo{}, fmt.Errorf("unknown icon %q", id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w := WindowInfo{ID: id, Title: "About", ZIndex: len(f.windows) + 1}
	f.windows = append(f.windows, w)
	return w, nil
}

func (f *fakeDesktop) Close(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeDesktop) Focus(context.Context, string) error {
	return errors.New("not focusable")
}

func (f *fakeDesktop) MoveIcon(_ context.Context, id string, x, y float64) (IconInfo, error) {
	return IconInfo{ID: id, X: x + 1, Y: y + 1}, nil
}

func startServer(t *testing.T, d Desktop) *Client {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "td.sock")
	srv := NewServer(socket, d, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientAt(socket)
}

func TestClientServer_RoundTrip(t *testing.T) {
	fake := &fakeDesktop{}
	c := startServer(t, fake)

	w, err := c.OpenWindow("about")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if w.ID != "about" || w.ZIndex != 1 {
		t.Fatalf("unexpected window: %+v", w)
	}

	status, err := c.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Session != "s-1" || status.WindowCount != 1 {
		t.Fatalf("unexpected status: %+v", status)
	}

	ws, err := c.ListWindows()
	if err != nil || len(ws) != 1 {
		t.Fatalf("list windows: %v %+v", err, ws)
	}
	icons, err := c.ListIcons()
	if err != nil || len(icons) != 1 || icons[0].ID != "about" {
		t.Fatalf("list icons: %v %+v", err, icons)
	}

	if err := c.CloseWindow("about"); err != nil {
		t.Fatalf("close: %v", err)
	}
	fake.mu.Lock()
	closed := append([]string(nil), fake.closed...)
	fake.mu.Unlock()
	if len(closed) != 1 || closed[0] != "about" {
		t.Fatalf("close not forwarded: %v", closed)
	}

	icon, err := c.MoveIcon("about", 100, 200)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if icon.X != 101 || icon.Y != 201 {
		t.Fatalf("unexpected icon: %+v", icon)
	}
}

func TestClientServer_Errors(t *testing.T) {
	c := startServer(t, &fakeDesktop{})

	if _, err := c.OpenWindow("ghost"); err == nil || !strings.Contains(err.Error(), "unknown icon") {
		t.Fatalf("expected desktop error, got %v", err)
	}
	if err := c.FocusWindow("about"); err == nil || !strings.Contains(err.Error(), "not focusable") {
		t.Fatalf("expected focus error, got %v", err)
	}
	if err := c.CloseWindow(""); err == nil || !strings.Contains(err.Error(), "id is required") {
		t.Fatalf("expected id validation error, got %v", err)
	}
	if err := c.call("BOGUS", nil, nil); err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestClient_NoServer(t *testing.T) {
	c := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.Ping(); err == nil || !strings.Contains(err.Error(), "is termdesk running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
