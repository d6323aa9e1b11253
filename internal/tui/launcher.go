package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

const launcherMaxResults = 6

// launchEntry is an icon the launcher can open.
type launchEntry struct {
	id    string
	label string
}

// launcher is a fuzzy finder over desktop icons.
type launcher struct {
	active  bool
	input   textinput.Model
	entries []launchEntry
	matches []launchEntry
	cursor  int
}

func newLauncher(entries []launchEntry) launcher {
	ti := textinput.New()
	ti.Placeholder = "Open…"
	ti.Prompt = "› "
	ti.CharLimit = 64
	l := launcher{input: ti, entries: entries}
	l.filter()
	return l
}

// Open shows the launcher with an empty query.
func (l launcher) Open() (launcher, tea.Cmd) {
	l.active = true
	l.input.Reset()
	l.filter()
	return l, l.input.Focus()
}

// Close hides the launcher.
func (l launcher) Close() launcher {
	l.active = false
	l.input.Blur()
	return l
}

// Selected returns the highlighted entry.
func (l launcher) Selected() (launchEntry, bool) {
	if l.cursor < 0 || l.cursor >= len(l.matches) {
		return launchEntry{}, false
	}
	return l.matches[l.cursor], true
}

func (l *launcher) filter() {
	query := strings.TrimSpace(l.input.Value())
	l.cursor = 0
	if query == "" {
		l.matches = append([]launchEntry(nil), l.entries...)
		return
	}
	labels := make([]string, len(l.entries))
	for i, e := range l.entries {
		labels[i] = e.label
	}
	l.matches = nil
	for _, m := range fuzzy.Find(query, labels) {
		l.matches = append(l.matches, l.entries[m.Index])
	}
}

// Update handles input while the launcher is open. Enter and Esc are left
// to the caller.
func (l launcher) Update(msg tea.Msg) (launcher, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "up", "ctrl+p":
			if l.cursor > 0 {
				l.cursor--
			}
			return l, nil
		case "down", "ctrl+n", "tab":
			if l.cursor < len(l.matches)-1 {
				l.cursor++
			}
			return l, nil
		}
	}
	before := l.input.Value()
	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	if l.input.Value() != before {
		l.filter()
	}
	return l, cmd
}

var (
	launcherStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	launcherSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62"))

	launcherItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250"))
)

func (l launcher) View(width int) string {
	inner := max(min(width-4, 40), 10)
	l.input.Width = inner - 3
	rows := []string{l.input.View(), ""}
	if len(l.matches) == 0 {
		rows = append(rows, subtle("No matches"))
	}
	for i, e := range l.matches {
		if i >= launcherMaxResults {
			break
		}
		style := launcherItemStyle
		if i == l.cursor {
			style = launcherSelectedStyle
		}
		rows = append(rows, style.Width(inner).Render(e.label))
	}
	return launcherStyle.Width(inner + 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func subtle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(s)
}
