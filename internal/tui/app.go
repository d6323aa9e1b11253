package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/content"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/prefs"
	"github.com/1broseidon/termdesk/internal/windows"
)

// frameMsg delivers a scheduler frame while the desktop is animating.
type frameMsg time.Time

// clockMsg refreshes the taskbar clock.
type clockMsg time.Time

// prefsSavedMsg reports the outcome of persisting preferences.
type prefsSavedMsg struct{ err error }

type pointerMode int

const (
	pointerIdle pointerMode = iota
	pointerIconPress
	pointerIconDrag
	pointerWindowDrag
)

// pointer tracks the mouse gesture in progress.
type pointer struct {
	mode  pointerMode
	icon  string
	grab  geom.Point // pointer minus icon origin
	ghost geom.Point // icon origin while dragging

	lastClickIcon string
	lastClickAt   time.Time
}

// modelOptions wires the root model.
type modelOptions struct {
	Config  *config.Config
	Desktop *desktop.Desktop
	Prefs   prefs.Prefs
	Store   *prefs.Store
	Logger  *slog.Logger
	Now     func() time.Time
}

// model is the root bubbletea model of the desktop.
type model struct {
	cfg    *config.Config
	desk   *desktop.Desktop
	cells  cellMap
	logger *slog.Logger
	now    func() time.Time

	keys     keyMap
	help     help.Model
	showHelp bool
	boot     bootScreen
	launcher launcher
	wall     wallpaper

	prefs prefs.Prefs
	store *prefs.Store

	// panels holds the live content of each open window.
	panels map[string]content.Panel

	started time.Time
	clock   time.Time
	ticking bool
	pointer pointer

	// Terminal dimensions, in cells
	width  int
	height int
}

func newModel(opts modelOptions) model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cfg := opts.Config

	var entries []launchEntry
	for _, icon := range opts.Desktop.Icons() {
		entries = append(entries, launchEntry{id: icon.ID, label: icon.Label})
	}

	start := now()
	return model{
		cfg:      cfg,
		desk:     opts.Desktop,
		cells:    newCellMap(cfg.Cell.Width, cfg.Cell.Height),
		logger:   logger,
		now:      now,
		keys:     defaultKeyMap(),
		help:     help.New(),
		boot:     newBootScreen(cfg.OSName, cfg.Boot),
		launcher: newLauncher(entries),
		wall:     newWallpaper(cfg.Wallpaper.Colors, cfg.Wallpaper.Animate),
		prefs:    opts.Prefs,
		store:    opts.Store,
		panels:   make(map[string]content.Panel),
		started:  start,
		clock:    start,
	}
}

func clockTick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.boot.Init(), clockTick())
}

// taskbarRows is the height of the taskbar in cells.
func (m model) taskbarRows() int {
	return max(m.cells.rows(m.desk.Metrics().TaskbarHeight), 1)
}

// tooSmall reports whether the terminal is below the minimum viewport.
func (m model) tooSmall() bool {
	vp := m.cells.viewport(m.width, m.height)
	return vp.Width < m.cfg.MinViewport.Width || vp.Height < m.cfg.MinViewport.Height
}

// topWindow returns the focused window: the highest one not closing.
func (m model) topWindow() (windows.Window, bool) {
	wins := m.desk.Windows()
	for i := len(wins) - 1; i >= 0; i-- {
		if !wins[i].Closing {
			return wins[i], true
		}
	}
	return windows.Window{}, false
}

func (m model) focusedPanel() (content.Panel, bool) {
	w, ok := m.topWindow()
	if !ok {
		return nil, false
	}
	p, ok := m.panels[w.ID]
	return p, ok
}

// scheduleFrame requests a frame when the desktop has pending work.
func (m *model) scheduleFrame() tea.Cmd {
	if m.ticking || !m.desk.Busy() {
		return nil
	}
	m.ticking = true
	frame := time.Duration(m.cfg.Physics.FrameMs) * time.Millisecond
	return tea.Tick(frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// prunePanels drops the content of windows that are gone.
func (m *model) prunePanels() {
	for id := range m.panels {
		if _, ok := m.desk.Window(id); !ok {
			delete(m.panels, id)
			m.logger.Debug("window content released", "id", id)
		}
	}
}

// activate opens or raises the window of an icon.
func (m *model) activate(iconID string) (windows.Window, tea.Cmd, bool) {
	w, ok := m.desk.ActivateIcon(iconID)
	if !ok {
		return windows.Window{}, nil, false
	}
	if _, live := m.panels[w.ID]; live {
		return w, nil, true
	}
	var p content.Panel
	switch c := w.Content.(type) {
	case content.Panel:
		p = c
	case desktop.FallbackText:
		p = content.NewText(string(c), false)
	default:
		p = content.NewText("", false)
	}
	m.panels[w.ID] = p
	m.logger.Info("window opened", "id", w.ID, "content", w.ContentKey)
	return w, p.Init(), true
}

func (m *model) setPrefs(p prefs.Prefs) tea.Cmd {
	if p == m.prefs {
		return nil
	}
	m.prefs = p
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return prefsSavedMsg{err: store.Save(p)}
	}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.desk.Resize(m.cells.viewport(m.width, m.height))
		if m.tooSmall() {
			m.releasePointer(false)
		}
		return m, nil

	case ipcRequestMsg:
		cmd := m.handleIPC(msg)
		return m, tea.Batch(cmd, m.scheduleFrame())

	case clockMsg:
		m.clock = time.Time(msg)
		return m, nil

	case frameMsg:
		m.ticking = false
		m.desk.Tick(time.Time(msg))
		m.prunePanels()
		return m, m.scheduleFrame()

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to save preferences", "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if !m.boot.Done() {
			if key.Matches(msg, m.keys.SkipBoot) {
				m.boot = m.boot.Skip()
			}
			return m, nil
		}
		cmd := m.handleKey(msg)
		return m, tea.Batch(cmd, m.scheduleFrame())

	case tea.MouseMsg:
		if !m.boot.Done() {
			if msg.Action == tea.MouseActionPress {
				m.boot = m.boot.Skip()
			}
			return m, nil
		}
		if m.tooSmall() && msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		cmd := m.handleMouse(msg)
		return m, tea.Batch(cmd, m.scheduleFrame())
	}

	if !m.boot.Done() {
		var cmd tea.Cmd
		m.boot, cmd = m.boot.Update(msg)
		cmds = append(cmds, cmd)
		if m.boot.Done() {
			m.logger.Info("boot complete")
		}
	}

	// Everything else is asynchronous panel traffic; each panel ignores
	// messages addressed to another.
	for id, p := range m.panels {
		next, cmd := p.Update(msg)
		m.panels[id] = next
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.launcher.active {
		switch msg.String() {
		case "esc":
			m.launcher = m.launcher.Close()
			return nil
		case "enter":
			entry, ok := m.launcher.Selected()
			m.launcher = m.launcher.Close()
			if !ok {
				return nil
			}
			_, cmd, _ := m.activate(entry.id)
			return cmd
		}
		var cmd tea.Cmd
		m.launcher, cmd = m.launcher.Update(msg)
		return cmd
	}

	panel, hasPanel := m.focusedPanel()
	if hasPanel {
		if c, ok := panel.(content.Capturer); ok && c.Capturing() {
			return m.forwardToFocused(msg)
		}
	}

	if m.showHelp && (msg.String() == "esc" || key.Matches(msg, m.keys.Help)) {
		m.showHelp = false
		m.help.ShowAll = false
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Launcher):
		var cmd tea.Cmd
		m.launcher, cmd = m.launcher.Open()
		return cmd
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.help.ShowAll = true
		return nil
	case key.Matches(msg, m.keys.CycleWindow):
		m.cycleWindows()
		return nil
	case key.Matches(msg, m.keys.CloseWindow):
		if w, ok := m.topWindow(); ok {
			m.desk.CloseWindow(w.ID)
		}
		return nil
	case key.Matches(msg, m.keys.VolumeUp):
		return m.setPrefs(m.prefs.Step(prefs.VolumeStep))
	case key.Matches(msg, m.keys.VolumeDown):
		return m.setPrefs(m.prefs.Step(-prefs.VolumeStep))
	case key.Matches(msg, m.keys.Mute):
		return m.setPrefs(m.prefs.ToggleMute())
	}

	if hasPanel {
		return m.forwardToFocused(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NextIcon):
		m.stepSelection(1)
	case key.Matches(msg, m.keys.PrevIcon):
		m.stepSelection(-1)
	case key.Matches(msg, m.keys.OpenIcon):
		if id, ok := m.selectedIcon(); ok {
			_, cmd, _ := m.activate(id)
			return cmd
		}
	}
	return nil
}

func (m *model) forwardToFocused(msg tea.Msg) tea.Cmd {
	w, ok := m.topWindow()
	if !ok {
		return nil
	}
	p, ok := m.panels[w.ID]
	if !ok {
		return nil
	}
	next, cmd := p.Update(msg)
	m.panels[w.ID] = next
	return cmd
}

// cycleWindows raises the bottom window, so repeated presses visit every
// window in turn.
func (m *model) cycleWindows() {
	for _, w := range m.desk.Windows() {
		if !w.Closing {
			m.desk.FocusWindow(w.ID)
			return
		}
	}
}

func (m model) selectedIcon() (string, bool) {
	snap := m.desk.Snapshot()
	return snap.Selected, snap.Selected != ""
}

func (m *model) stepSelection(delta int) {
	icons := m.desk.Icons()
	if len(icons) == 0 {
		return
	}
	current := -1
	for i, icon := range icons {
		if icon.Selected {
			current = i
		}
	}
	next := 0
	if current >= 0 {
		next = (current + delta + len(icons)) % len(icons)
	} else if delta < 0 {
		next = len(icons) - 1
	}
	m.desk.SelectIcon(icons[next].ID)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if !m.boot.Done() {
		return m.boot.View(m.width, m.height)
	}
	if m.tooSmall() {
		return m.renderTooSmall()
	}
	return m.renderDesktop()
}

func (m model) renderTooSmall() string {
	minCols := int(m.cfg.MinViewport.Width / m.cells.cw)
	minRows := int(m.cfg.MinViewport.Height / m.cells.ch)
	msg := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Render(m.cfg.OSName),
		"",
		"This desktop needs a larger terminal.",
		subtle(sizeHint(minCols, minRows, m.width, m.height)),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}
