// Package tui hosts the desktop in a terminal with bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/prefs"
	"github.com/1broseidon/termdesk/internal/sched"
)

// Options configures Run.
type Options struct {
	Config  *config.Config
	Content desktop.ContentProvider
	Prefs   *prefs.Store
	// SocketPath enables the control socket when set.
	SocketPath string
	Logger     *slog.Logger
}

// Run shows the desktop until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("termdesk requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if opts.Config == nil {
		return errors.New("no configuration")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	current := prefs.Default()
	if opts.Prefs != nil {
		p, err := opts.Prefs.Load()
		if err != nil {
			logger.Warn("failed to load preferences, using defaults", "path", opts.Prefs.Path(), "error", err)
		}
		current = p
	}

	dopts := desktop.OptionsFromConfig(opts.Config)
	dopts.Content = opts.Content
	dopts.Logger = logger
	desk := desktop.New(dopts, sched.New(time.Now))

	m := newModel(modelOptions{
		Config:  opts.Config,
		Desktop: desk,
		Prefs:   current,
		Store:   opts.Prefs,
		Logger:  logger,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	done := make(chan struct{})
	if opts.SocketPath != "" {
		srv := ipc.NewServer(opts.SocketPath, newBridge(p.Send, done), logger)
		if err := srv.Start(); err != nil {
			logger.Warn("control socket unavailable", "path", opts.SocketPath, "error", err)
		} else {
			defer srv.Stop()
		}
	}

	logger.Info("desktop starting", "session", desk.Session(), "os", opts.Config.OSName)
	_, err := p.Run()
	close(done)
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("desktop exited: %w", err)
	}
	logger.Info("desktop stopped", "session", desk.Session())
	return nil
}
