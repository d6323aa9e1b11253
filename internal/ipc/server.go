package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"
)

// Desktop is what the server controls. Implementations serialize calls onto
// the desktop's own event loop; the server calls them from connection
// goroutines.
type Desktop interface {
	Status(ctx context.Context) (StatusData, error)
	Windows(ctx context.Context) ([]WindowInfo, error)
	Icons(ctx context.Context) ([]IconInfo, error)
	Open(ctx context.Context, iconID string) (WindowInfo, error)
	Close(ctx context.Context, windowID string) error
	Focus(ctx context.Context, windowID string) error
	MoveIcon(ctx context.Context, iconID string, x, y float64) (IconInfo, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath     string
	listener       net.Listener
	desktop        Desktop
	logger         *slog.Logger
	requestTimeout time.Duration
	shuttingDown   bool
	shutdownMu     sync.Mutex
}

// NewServer creates a server for the socket at socketPath.
func NewServer(socketPath string, desktop Desktop, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		socketPath:     socketPath,
		desktop:        desktop,
		logger:         logger,
		requestTimeout: 5 * time.Second,
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a previous run
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	defer cancel()
	resp := s.handleCommand(ctx, req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)

	switch req.Command {
	case CommandGetStatus:
		return respond(s.desktop.Status(ctx))
	case CommandListWindows:
		ws, err := s.desktop.Windows(ctx)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return respond(WindowsData{Windows: ws}, nil)
	case CommandListIcons:
		is, err := s.desktop.Icons(ctx)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return respond(IconsData{Icons: is}, nil)
	case CommandOpenWindow:
		var p WindowPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respond(s.desktop.Open(ctx, p.ID))
	case CommandCloseWindow:
		var p WindowPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respond(nil, s.desktop.Close(ctx, p.ID))
	case CommandFocusWindow:
		var p WindowPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respond(nil, s.desktop.Focus(ctx, p.ID))
	case CommandMoveIcon:
		var p MoveIconPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
		}
		if p.ID == "" {
			return NewErrorResponse("id is required")
		}
		return respond(s.desktop.MoveIcon(ctx, p.ID, p.X, p.Y))
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func decodePayload(raw json.RawMessage, p *WindowPayload) error {
	if err := json.Unmarshal(raw, p); err != nil {
		return fmt.Errorf("invalid window payload: %v", err)
	}
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	return nil
}

func respond(data any, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
