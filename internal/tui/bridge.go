package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/windows"
)

// errDesktopStopped is returned when the UI exits before answering.
var errDesktopStopped = errors.New("desktop is shutting down")

type ipcResult struct {
	data any
	err  error
}

// ipcRequestMsg runs fn on the UI goroutine, where desktop state lives,
// and sends the result back on reply.
type ipcRequestMsg struct {
	fn    func(m *model) (any, tea.Cmd, error)
	reply chan ipcResult
}

func (m *model) handleIPC(req ipcRequestMsg) tea.Cmd {
	data, cmd, err := req.fn(m)
	req.reply <- ipcResult{data: data, err: err}
	return cmd
}

// bridge implements ipc.Desktop by marshalling every call onto the
// bubbletea event loop.
type bridge struct {
	send func(tea.Msg)
	done <-chan struct{}
}

var _ ipc.Desktop = (*bridge)(nil)

func newBridge(send func(tea.Msg), done <-chan struct{}) *bridge {
	return &bridge{send: send, done: done}
}

func (b *bridge) call(ctx context.Context, fn func(m *model) (any, tea.Cmd, error)) (any, error) {
	reply := make(chan ipcResult, 1)
	go b.send(ipcRequestMsg{fn: fn, reply: reply})
	select {
	case res := <-reply:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.done:
		return nil, errDesktopStopped
	}
}

func (b *bridge) Status(ctx context.Context) (ipc.StatusData, error) {
	v, err := b.call(ctx, func(m *model) (any, tea.Cmd, error) {
		return m.status(), nil, nil
	})
	if err != nil {
		return ipc.StatusData{}, err
	}
	return v.(ipc.StatusData), nil
}

func (b *bridge) Windows(ctx context.Context) ([]ipc.WindowInfo, error) {
	v, err := b.call(ctx, func(m *model) (any, tea.Cmd, error) {
		wins := m.desk.Windows()
		out := make([]ipc.WindowInfo, 0, len(wins))
		for _, w := range wins {
			out = append(out, m.windowInfo(w))
		}
		return out, nil, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ipc.WindowInfo), nil
}

func (b *bridge) Icons(ctx context.Context) ([]ipc.IconInfo, error) {
	v, err := b.call(ctx, func(m *model) (any, tea.Cmd, error) {
		icons := m.desk.Icons()
		out := make([]ipc.IconInfo, 0, len(icons))
		for _, icon := range icons {
			out = append(out, ipc.IconInfo{
				ID:       icon.ID,
				Label:    icon.Label,
				X:        icon.Position.X,
				Y:        icon.Position.Y,
				Selected: icon.Selected,
			})
		}
		return out, nil, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ipc.IconInfo), nil
}

func (b *bridge) Open(ctx context.Context, iconID string) (ipc.WindowInfo, error) {
	v, err := b.call(ctx, func(m *model) (any, tea.Cmd, error) {
		w, cmd, ok := m.activate(iconID)
		if !ok {
			return nil, nil, fmt.Errorf("unknown icon %q", iconID)
		}
		return m.windowInfo(w), cmd, nil
	})
	if err != nil {
		return ipc.WindowInfo{}, err
	}
	return v.(ipc.WindowInfo), nil
}

func (b *bridge) Close(ctx context.Context, windowID string) error {
	_, err := b.call(ctx, func(m *model) (any, tea.Cmd, error) {
		if !m.desk.CloseWindow(windowID) {
			if _, ok := m.desk.Window(windowID); ok {
				return nil, nil, nil // already closing
			}
			return nil, nil, fmt.Errorf("unknown window %q", windowID)
		}
		return nil, nil, nil
	})
	return err
}

func (b *bridge) Focus(ctx context.Context, windowID string) error {
	_, err := b.call(ctx, func(m *model) (any, tea.Cmd, error) {
		if !m.desk.FocusWindow(windowID) {
			return nil, nil, fmt.Errorf("unknown window %q", windowID)
		}
		return nil, nil, nil
	})
	return err
}

func (b *bridge) MoveIcon(ctx context.Context, iconID string, x, y float64) (ipc.IconInfo, error) {
	v, err := b.call(ctx, func(m *model) (any, tea.Cmd, error) {
		pos, ok := m.desk.DropIcon(iconID, geom.Point{X: x, Y: y})
		if !ok {
			return nil, nil, fmt.Errorf("unknown icon %q", iconID)
		}
		info := ipc.IconInfo{ID: iconID, X: pos.X, Y: pos.Y}
		for _, icon := range m.desk.Icons() {
			if icon.ID == iconID {
				info.Label = icon.Label
				info.Selected = icon.Selected
			}
		}
		return info, nil, nil
	})
	if err != nil {
		return ipc.IconInfo{}, err
	}
	return v.(ipc.IconInfo), nil
}

func (m model) status() ipc.StatusData {
	vp := m.desk.Viewport()
	s := ipc.StatusData{
		Session:        m.desk.Session(),
		OSName:         m.cfg.OSName,
		Booted:         m.boot.Done(),
		ViewportWidth:  vp.Width,
		ViewportHeight: vp.Height,
		WindowCount:    len(m.desk.Windows()),
		Volume:         m.prefs.Volume,
		Muted:          m.prefs.Muted,
		UptimeSeconds:  int64(m.now().Sub(m.started).Seconds()),
	}
	if w, ok := m.topWindow(); ok {
		s.FocusedWindow = w.ID
	}
	s.SelectedIcon, _ = m.selectedIcon()
	return s
}

func (m model) windowInfo(w windows.Window) ipc.WindowInfo {
	return ipc.WindowInfo{
		ID:      w.ID,
		Title:   w.Title,
		Content: w.ContentKey,
		Top:     w.Geometry.Top,
		Left:    w.Geometry.Left,
		Width:   w.Geometry.Width.String(),
		Height:  w.Geometry.Height.String(),
		ZIndex:  w.ZIndex,
		Closing: w.Closing,
		Phase:   m.desk.WindowPhase(w.ID).String(),
	}
}
