package tui

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/termdesk/internal/icons"
	"github.com/1broseidon/termdesk/internal/windows"
)

const (
	closeButton   = "[×]"
	minWindowCols = 12
	minWindowRows = 3
)

var (
	titleFocusedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("238"))

	closeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	iconLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	iconSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62"))

	taskbarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("235"))

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	taskButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("237"))

	taskButtonActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("60"))
)

const (
	focusedBorder = "#7c6fe0"
	plainBorder   = "#585858"
	closedBorder  = "#262626"
)

// windowBox is the cell rectangle of a window on screen.
type windowBox struct {
	win    windows.Window
	x, y   int
	w, h   int
	closeX int
}

func (b windowBox) contains(col, row int) bool {
	return col >= b.x && col < b.x+b.w && row >= b.y && row < b.y+b.h
}

func (b windowBox) onTitle(col, row int) bool {
	return row == b.y && col >= b.x && col < b.x+b.w
}

func (b windowBox) onClose(col, row int) bool {
	return row == b.y && col >= b.closeX && col < b.closeX+ansi.StringWidth(closeButton)
}

// windowBox lays a window out in cells. Auto-height windows grow with
// their content up to the space left above the taskbar.
func (m model) windowBox(w windows.Window) windowBox {
	cm := m.cells
	vp := m.desk.Viewport()
	b := windowBox{
		win: w,
		x:   cm.col(w.Geometry.Left),
		y:   cm.row(w.Geometry.Top),
		w:   max(cm.cols(w.Geometry.Width.Resolve(vp.Width)), minWindowCols),
	}
	if w.Geometry.Height.IsAuto() {
		body := 1
		if p, ok := m.panels[w.ID]; ok {
			body = p.Height(b.w - 2)
		}
		limit := max(int(math.Floor(m.desk.MaxHeight(w)/cm.ch)), minWindowRows)
		b.h = min(max(body+2, minWindowRows), limit)
	} else {
		b.h = max(cm.rows(w.Geometry.Height.Resolve(vp.Height)), minWindowRows)
	}
	b.closeX = b.x + b.w - ansi.StringWidth(closeButton) - 1
	return b
}

// windowBoxes returns the layout of every window, bottom first.
func (m model) windowBoxes() []windowBox {
	wins := m.desk.Windows()
	boxes := make([]windowBox, 0, len(wins))
	for _, w := range wins {
		boxes = append(boxes, m.windowBox(w))
	}
	return boxes
}

func (m model) renderWindow(b windowBox, focused bool) string {
	style := titleStyle
	border := plainBorder
	if focused {
		style = titleFocusedStyle
		border = focusedBorder
	}
	if b.win.Closing {
		border = closedBorder
		style = style.Foreground(fade("#ffffff", "#000000", 0.6))
	}

	titleWidth := max(b.w-ansi.StringWidth(closeButton)-2, 0)
	title := ansi.Truncate(" "+b.win.Title, titleWidth, "…")
	bar := style.Width(b.w).Render(
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(titleWidth+1).Render(title),
			closeStyle.Inherit(style).Render(closeButton),
		),
	)

	innerW, innerH := max(b.w-2, 0), max(b.h-2, 0)
	body := ""
	if p, ok := m.panels[b.win.ID]; ok && !b.win.Closing {
		body = p.View(innerW, innerH)
	} else {
		body = lipgloss.NewStyle().Width(innerW).Height(innerH).Render("")
	}
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, true, true, true).
		BorderForeground(lipgloss.Color(border)).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, bar, frame)
}

// renderIcon returns the rows of an icon, each with its column offset
// inside the icon cell, so the wallpaper shows between them.
func (m model) renderIcon(icon icons.Icon, width int) []placed {
	glyph := icon.Glyph
	if glyph == "" {
		glyph = strings.ToUpper(ansi.Truncate(icon.Label, 1, ""))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(focusedBorder)).
		Padding(0, 1).
		Bold(true).
		Render(glyph)

	labelStyle := iconLabelStyle
	if icon.Selected {
		labelStyle = iconSelectedStyle
	}
	label := labelStyle.Render(ansi.Truncate(icon.Label, width, "…"))

	var out []placed
	bw := lipgloss.Width(box)
	for i, line := range strings.Split(box, "\n") {
		out = append(out, placed{dx: (width - bw) / 2, dy: i, text: line})
	}
	lw := lipgloss.Width(label)
	out = append(out, placed{dx: (width - lw) / 2, dy: lipgloss.Height(box), text: label})
	return out
}

type placed struct {
	dx, dy int
	text   string
}

type hitKind int

const (
	hitBadge hitKind = iota
	hitWindow
	hitVolume
)

// taskbarHit is a clickable span of the taskbar row.
type taskbarHit struct {
	kind   hitKind
	id     string
	x0, x1 int
}

// taskbar renders the bottom bar and reports where its controls are.
func (m model) taskbar(width int) (string, []taskbarHit) {
	var hits []taskbarHit
	x := 0

	badge := badgeStyle.Render(" ◆ " + m.cfg.OSName + " ")
	hits = append(hits, taskbarHit{kind: hitBadge, x0: 0, x1: lipgloss.Width(badge)})
	x += lipgloss.Width(badge)

	volume := fmt.Sprintf(" ♪ %d%% ", int(math.Round(m.prefs.Volume*100)))
	if m.prefs.Muted {
		volume = " ♪ muted "
	}
	clock := " " + m.clock.Format("Mon Jan 2 15:04") + " "
	rightWidth := ansi.StringWidth(volume) + ansi.StringWidth(clock)

	top, hasTop := m.topWindow()
	wins := m.desk.Windows()
	slices.SortFunc(wins, func(a, b windows.Window) int { return strings.Compare(a.ID, b.ID) })

	var buttons []string
	for _, w := range wins {
		if w.Closing {
			continue
		}
		style := taskButtonStyle
		if hasTop && w.ID == top.ID {
			style = taskButtonActiveStyle
		}
		btn := style.Render(" " + ansi.Truncate(w.Title, 16, "…") + " ")
		bw := lipgloss.Width(btn)
		if x+1+bw > width-rightWidth {
			break
		}
		buttons = append(buttons, btn)
		hits = append(hits, taskbarHit{kind: hitWindow, id: w.ID, x0: x + 1, x1: x + 1 + bw})
		x += 1 + bw
	}

	left := badge
	for _, b := range buttons {
		left += taskbarStyle.Render(" ") + b
	}
	gap := max(width-lipgloss.Width(left)-rightWidth, 0)
	volX := lipgloss.Width(left) + gap
	hits = append(hits, taskbarHit{kind: hitVolume, x0: volX, x1: volX + ansi.StringWidth(volume)})

	row := left + taskbarStyle.Render(strings.Repeat(" ", gap)+volume+clock)
	return ansi.Truncate(row, width, ""), hits
}

func (m model) renderTaskbar() string {
	row, _ := m.taskbar(m.width)
	rows := m.taskbarRows()
	if rows == 1 {
		return row
	}
	edge := taskbarStyle.
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("▁", m.width))
	lines := []string{}
	for i := 0; i < rows-1; i++ {
		if i == 0 {
			lines = append(lines, edge)
		} else {
			lines = append(lines, taskbarStyle.Render(strings.Repeat(" ", m.width)))
		}
	}
	return strings.Join(append(lines, row), "\n")
}

// wallpaperPhase turns the clock into a slow cycle in [0, 1).
func (m model) wallpaperPhase() float64 {
	const period = 60.0
	secs := float64(m.clock.Unix()%int64(period)) + float64(m.clock.Nanosecond())/1e9
	return secs / period
}

func (m model) renderDesktop() string {
	deskRows := max(m.height-m.taskbarRows(), 0)
	cv := newCanvas(m.width, m.height, m.wall.rows(m.width, deskRows, m.wallpaperPhase()))

	iconCols := max(m.cells.cols(m.desk.IconSize().Width), 4)
	for _, icon := range m.desk.Icons() {
		pos := icon.Position
		if m.pointer.mode == pointerIconDrag && m.pointer.icon == icon.ID {
			pos = m.pointer.ghost
		}
		x, y := m.cells.col(pos.X), m.cells.row(pos.Y)
		for _, p := range m.renderIcon(icon, iconCols) {
			cv.place(x+p.dx, y+p.dy, p.text)
		}
	}

	top, hasTop := m.topWindow()
	for _, b := range m.windowBoxes() {
		cv.place(b.x, b.y, m.renderWindow(b, hasTop && b.win.ID == top.ID))
	}

	cv.place(0, deskRows, m.renderTaskbar())

	if m.launcher.active {
		view := m.launcher.View(m.width)
		cv.place((m.width-lipgloss.Width(view))/2, max(deskRows/5, 1), view)
	}
	if m.showHelp {
		view := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(focusedBorder)).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Render(m.help.View(m.keys))
		cv.place((m.width-lipgloss.Width(view))/2, max(deskRows-lipgloss.Height(view)-1, 0), view)
	}
	return cv.String()
}

func sizeHint(minCols, minRows, cols, rows int) string {
	return fmt.Sprintf("Resize to at least %dx%d (currently %dx%d).", minCols, minRows, cols, rows)
}
