package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the desktop-level bindings. Keys not listed here go to the
// focused window.
type keyMap struct {
	Quit        key.Binding
	Launcher    key.Binding
	CycleWindow key.Binding
	CloseWindow key.Binding
	NextIcon    key.Binding
	PrevIcon    key.Binding
	OpenIcon    key.Binding
	VolumeUp    key.Binding
	VolumeDown  key.Binding
	Mute        key.Binding
	Help        key.Binding
	SkipBoot    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Launcher: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "launcher"),
		),
		CycleWindow: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next window"),
		),
		CloseWindow: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close window"),
		),
		NextIcon: key.NewBinding(
			key.WithKeys("down", "right", "j", "l"),
			key.WithHelp("↓/→", "next icon"),
		),
		PrevIcon: key.NewBinding(
			key.WithKeys("up", "left", "k", "h"),
			key.WithHelp("↑/←", "previous icon"),
		),
		OpenIcon: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "volume up"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "volume down"),
		),
		Mute: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "mute"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		SkipBoot: key.NewBinding(
			key.WithKeys("esc", "enter", " "),
			key.WithHelp("esc", "skip"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Launcher, k.CycleWindow, k.CloseWindow, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Launcher, k.OpenIcon, k.NextIcon, k.PrevIcon},
		{k.CycleWindow, k.CloseWindow},
		{k.VolumeUp, k.VolumeDown, k.Mute},
		{k.Help, k.Quit},
	}
}
