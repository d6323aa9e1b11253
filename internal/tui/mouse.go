package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/prefs"
)

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	col, row := msg.X, msg.Y
	p := m.cells.centerPx(col, row)

	switch msg.Action {
	case tea.MouseActionMotion:
		switch m.pointer.mode {
		case pointerWindowDrag:
			m.desk.DragWindow(p)
		case pointerIconPress, pointerIconDrag:
			m.pointer.mode = pointerIconDrag
			m.pointer.ghost = p.Sub(m.pointer.grab)
		}
		return nil

	case tea.MouseActionRelease:
		m.releasePointer(true)
		return nil
	}

	if msg.Action != tea.MouseActionPress {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		return m.handleWheel(msg, col, row)
	case tea.MouseButtonLeft:
	default:
		return nil
	}

	if m.launcher.active {
		m.launcher = m.launcher.Close()
	}

	if row >= m.height-m.taskbarRows() {
		return m.clickTaskbar(col)
	}

	boxes := m.windowBoxes()
	for i := len(boxes) - 1; i >= 0; i-- {
		b := boxes[i]
		if b.win.Closing || !b.contains(col, row) {
			continue
		}
		switch {
		case b.onClose(col, row):
			m.desk.FocusWindow(b.win.ID)
			m.desk.CloseWindow(b.win.ID)
		case b.onTitle(col, row):
			// Press raises the window itself.
			if m.desk.PressWindow(b.win.ID, p) {
				m.pointer.mode = pointerWindowDrag
			} else {
				m.desk.FocusWindow(b.win.ID)
			}
		default:
			m.desk.FocusWindow(b.win.ID)
		}
		return nil
	}

	if id, ok := m.desk.IconAt(p); ok {
		return m.pressIcon(id, p)
	}
	m.desk.ClickBackground()
	return nil
}

// releasePointer ends the current gesture. A window drag is released so
// the window can coast; an icon drag is dropped only when drop is set.
func (m *model) releasePointer(drop bool) {
	mode, icon := m.pointer.mode, m.pointer.icon
	m.pointer.mode = pointerIdle
	m.pointer.icon = ""
	switch mode {
	case pointerWindowDrag:
		m.desk.ReleaseWindow()
	case pointerIconDrag:
		if !drop {
			return
		}
		if pos, ok := m.desk.DropIcon(icon, m.pointer.ghost); ok {
			m.logger.Debug("icon dropped", "id", icon, "x", pos.X, "y", pos.Y)
		}
	}
}

// pressIcon selects an icon and starts a possible drag. A second press on
// the same icon within the double-click window opens it.
func (m *model) pressIcon(id string, p geom.Point) tea.Cmd {
	now := m.now()
	window := time.Duration(m.cfg.DoubleClickMs) * time.Millisecond
	if m.pointer.lastClickIcon == id && now.Sub(m.pointer.lastClickAt) <= window {
		m.pointer.lastClickIcon = ""
		m.pointer.mode = pointerIdle
		_, cmd, _ := m.activate(id)
		return cmd
	}
	m.pointer.lastClickIcon = id
	m.pointer.lastClickAt = now

	m.desk.SelectIcon(id)
	for _, icon := range m.desk.Icons() {
		if icon.ID == id {
			m.pointer.mode = pointerIconPress
			m.pointer.icon = id
			m.pointer.grab = p.Sub(icon.Position)
			m.pointer.ghost = icon.Position
			break
		}
	}
	return nil
}

func (m *model) handleWheel(msg tea.MouseMsg, col, row int) tea.Cmd {
	if row >= m.height-m.taskbarRows() {
		_, hits := m.taskbar(m.width)
		for _, h := range hits {
			if h.kind == hitVolume && col >= h.x0 && col < h.x1 {
				delta := prefs.VolumeStep
				if msg.Button == tea.MouseButtonWheelDown {
					delta = -delta
				}
				return m.setPrefs(m.prefs.Step(delta))
			}
		}
		return nil
	}
	boxes := m.windowBoxes()
	for i := len(boxes) - 1; i >= 0; i-- {
		b := boxes[i]
		if b.win.Closing || !b.contains(col, row) {
			continue
		}
		p, ok := m.panels[b.win.ID]
		if !ok {
			return nil
		}
		next, cmd := p.Update(msg)
		m.panels[b.win.ID] = next
		return cmd
	}
	return nil
}

func (m *model) clickTaskbar(col int) tea.Cmd {
	_, hits := m.taskbar(m.width)
	for _, h := range hits {
		if col < h.x0 || col >= h.x1 {
			continue
		}
		switch h.kind {
		case hitBadge:
			var cmd tea.Cmd
			m.launcher, cmd = m.launcher.Open()
			return cmd
		case hitWindow:
			m.desk.FocusWindow(h.id)
		case hitVolume:
			return m.setPrefs(m.prefs.ToggleMute())
		}
		return nil
	}
	return nil
}
