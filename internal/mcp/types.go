package mcp

import "github.com/1broseidon/termdesk/internal/ipc"

// StatusInput is the input for the desktop_status tool.
type StatusInput struct{}

// StatusOutput is the output for the desktop_status tool.
type StatusOutput struct {
	Status ipc.StatusData `json:"status"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
	Focused string           `json:"focused,omitempty"`
}

// ListIconsInput is the input for the list_icons tool.
type ListIconsInput struct{}

// ListIconsOutput is the output for the list_icons tool.
type ListIconsOutput struct {
	Icons []ipc.IconInfo `json:"icons"`
}

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	Icon string `json:"icon" jsonschema:"required,Icon id to activate (see list_icons)"`
}

// OpenWindowOutput is the output for the open_window tool.
type OpenWindowOutput struct {
	Window ipc.WindowInfo `json:"window"`
}

// WindowInput names a window for close_window and focus_window.
type WindowInput struct {
	Window string `json:"window" jsonschema:"required,Window id (see list_windows)"`
}

// WindowOutput is the output for close_window and focus_window.
type WindowOutput struct {
	Window string `json:"window"`
	OK     bool   `json:"ok"`
}

// MoveIconInput is the input for the move_icon tool.
type MoveIconInput struct {
	Icon string  `json:"icon" jsonschema:"required,Icon id to move"`
	X    float64 `json:"x" jsonschema:"required,Proposed left edge in desktop pixels"`
	Y    float64 `json:"y" jsonschema:"required,Proposed top edge in desktop pixels"`
}

// MoveIconOutput is the output for the move_icon tool.
type MoveIconOutput struct {
	Icon ipc.IconInfo `json:"icon"`
	// Snapped is true when the icon landed somewhere other than the
	// proposed position.
	Snapped bool `json:"snapped"`
}
