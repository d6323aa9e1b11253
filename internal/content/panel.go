// Package content provides the panels shown inside desktop windows.
package content

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Panel is the body of a window. The host sizes it to the window's inner
// area on every render.
type Panel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Panel, tea.Cmd)
	View(width, height int) string
	// Height is the number of rows the panel needs at width.
	Height(width int) int
}

// Capturer is implemented by panels that sometimes need every key, such as
// a form being filled in.
type Capturer interface {
	Capturing() bool
}

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// RevealTickMsg advances the letter reveal of one panel.
type RevealTickMsg struct {
	ID   int
	Time time.Time
}

// RevealFrame is the interval between reveal ticks.
const RevealFrame = 33 * time.Millisecond

// reveal animates a panel's text. The zero value shows text as is.
type reveal struct {
	id      int
	enabled bool
	r       *Revealer
	start   time.Time
}

func newReveal(id int, enabled bool, letters int) reveal {
	rv := reveal{id: id, enabled: enabled}
	if enabled {
		rv.r = NewRevealer(letters, uint64(time.Now().UnixNano()))
	}
	return rv
}

func (rv *reveal) tick() tea.Cmd {
	if rv.r == nil || rv.r.Done() {
		return nil
	}
	id := rv.id
	return tea.Tick(RevealFrame, func(t time.Time) tea.Msg {
		return RevealTickMsg{ID: id, Time: t}
	})
}

// restart begins a new reveal, for example when the text changed.
func (rv *reveal) restart(letters int) tea.Cmd {
	if !rv.enabled {
		return nil
	}
	if rv.r == nil {
		rv.r = NewRevealer(letters, uint64(time.Now().UnixNano()))
	} else {
		rv.r.Restart(letters)
	}
	rv.start = time.Time{}
	return rv.tick()
}

// update consumes a tick addressed to this panel. It reports whether msg
// was one.
func (rv *reveal) update(msg tea.Msg) (bool, tea.Cmd) {
	tick, ok := msg.(RevealTickMsg)
	if !ok || tick.ID != rv.id || rv.r == nil {
		return false, nil
	}
	if rv.start.IsZero() {
		rv.start = tick.Time
	}
	rv.r.Advance(tick.Time.Sub(rv.start))
	return true, rv.tick()
}

func (rv *reveal) skip() {
	if rv.r != nil {
		rv.r.Finish()
	}
}

func (rv *reveal) mask(s string) string {
	if rv.r == nil {
		return s
	}
	return rv.r.Mask(s)
}

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// fit pads or cuts a rendered block to exactly width x height.
func fit(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		MaxWidth(width).
		Height(height).
		MaxHeight(height).
		Render(s)
}
