// Package mcp exposes a running desktop to MCP clients over stdio. Every
// tool is a thin wrapper around the desktop's control socket.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termdesk/internal/ipc"
)

const (
	ServerName    = "termdesk"
	ServerVersion = "0.1.0"
)

// Desktop is the part of the control socket client the tools use.
type Desktop interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	ListIcons() ([]ipc.IconInfo, error)
	OpenWindow(iconID string) (*ipc.WindowInfo, error)
	CloseWindow(id string) error
	FocusWindow(id string) error
	MoveIcon(id string, x, y float64) (*ipc.IconInfo, error)
}

var _ Desktop = (*ipc.Client)(nil)

// Server is the MCP server for a termdesk session.
type Server struct {
	mcpServer *mcpsdk.Server
	desktop   Desktop
	logger    *slog.Logger
}

// NewServer creates an MCP server that drives desktop.
func NewServer(desktop Desktop, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		desktop: desktop,
		logger:  logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on stdio, blocking until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "desktop_status",
		Description: "Report the state of the running desktop: session id, viewport size, focused window, selected icon, volume and uptime.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open windows bottom to top with their geometry, stacking order and drag phase. Closing windows are included until their close animation ends.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_icons",
		Description: "List desktop icons with their pixel positions and selection state.",
	}, s.handleListIcons)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Activate a desktop icon, the same as double-clicking it. Opens the icon's window or raises it when already open.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. It disappears after a short close animation.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Raise a window above all others.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_icon",
		Description: "Drop an icon at a proposed pixel position. The icon snaps to the grid and moves to the nearest free cell when the spot is taken.",
	}, s.handleMoveIcon)
}
