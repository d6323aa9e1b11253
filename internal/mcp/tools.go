package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termdesk/internal/ipc"
)

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.desktop.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{Status: *status}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	wins, err := s.desktop.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: wins}
	// The focused window is the highest one that is not closing.
	for i := len(wins) - 1; i >= 0; i-- {
		if !wins[i].Closing {
			out.Focused = wins[i].ID
			break
		}
	}
	if out.Windows == nil {
		out.Windows = []ipc.WindowInfo{}
	}
	return nil, out, nil
}

func (s *Server) handleListIcons(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListIconsInput) (*mcpsdk.CallToolResult, ListIconsOutput, error) {
	icons, err := s.desktop.ListIcons()
	if err != nil {
		return nil, ListIconsOutput{}, err
	}
	return nil, ListIconsOutput{Icons: icons}, nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, OpenWindowOutput, error) {
	id := strings.TrimSpace(args.Icon)
	if id == "" {
		return nil, OpenWindowOutput{}, fmt.Errorf("icon is required")
	}
	w, err := s.desktop.OpenWindow(id)
	if err != nil {
		return nil, OpenWindowOutput{}, err
	}
	s.logger.Info("mcp opened window", "icon", id, "window", w.ID)
	return nil, OpenWindowOutput{Window: *w}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	id := strings.TrimSpace(args.Window)
	if id == "" {
		return nil, WindowOutput{}, fmt.Errorf("window is required")
	}
	if err := s.desktop.CloseWindow(id); err != nil {
		return nil, WindowOutput{Window: id}, err
	}
	s.logger.Info("mcp closed window", "window", id)
	return nil, WindowOutput{Window: id, OK: true}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	id := strings.TrimSpace(args.Window)
	if id == "" {
		return nil, WindowOutput{}, fmt.Errorf("window is required")
	}
	if err := s.desktop.FocusWindow(id); err != nil {
		return nil, WindowOutput{Window: id}, err
	}
	return nil, WindowOutput{Window: id, OK: true}, nil
}

func (s *Server) handleMoveIcon(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveIconInput) (*mcpsdk.CallToolResult, MoveIconOutput, error) {
	id := strings.TrimSpace(args.Icon)
	if id == "" {
		return nil, MoveIconOutput{}, fmt.Errorf("icon is required")
	}
	icon, err := s.desktop.MoveIcon(id, args.X, args.Y)
	if err != nil {
		return nil, MoveIconOutput{}, err
	}
	return nil, MoveIconOutput{
		Icon:    *icon,
		Snapped: icon.X != args.X || icon.Y != args.Y,
	}, nil
}
