package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandListIcons   CommandType = "LIST_ICONS"
	CommandOpenWindow  CommandType = "OPEN_WINDOW"
	CommandCloseWindow CommandType = "CLOSE_WINDOW"
	CommandFocusWindow CommandType = "FOCUS_WINDOW"
	CommandMoveIcon    CommandType = "MOVE_ICON"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Session        string  `json:"session"`
	OSName         string  `json:"os_name"`
	Booted         bool    `json:"booted"`
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
	WindowCount    int     `json:"window_count"`
	FocusedWindow  string  `json:"focused_window,omitempty"`
	SelectedIcon   string  `json:"selected_icon,omitempty"`
	Volume         float64 `json:"volume"`
	Muted          bool    `json:"muted"`
	UptimeSeconds  int64   `json:"uptime_seconds"`
}

// WindowInfo describes one open window.
type WindowInfo struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Top     float64 `json:"top"`
	Left    float64 `json:"left"`
	Width   string  `json:"width"`
	Height  string  `json:"height"`
	ZIndex  int     `json:"z_index"`
	Closing bool    `json:"closing"`
	Phase   string  `json:"phase"`
}

// WindowsData represents the data returned by LIST_WINDOWS, bottom of the
// stack first.
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// IconInfo describes one desktop icon.
type IconInfo struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Selected bool    `json:"selected"`
}

// IconsData represents the data returned by LIST_ICONS
type IconsData struct {
	Icons []IconInfo `json:"icons"`
}

// WindowPayload names the target of OPEN_WINDOW, CLOSE_WINDOW and
// FOCUS_WINDOW. For OPEN_WINDOW the id is an icon id.
type WindowPayload struct {
	ID string `json:"id"`
}

// MoveIconPayload represents the payload for MOVE_ICON
type MoveIconPayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
