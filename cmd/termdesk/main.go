package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/content"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/prefs"
	"github.com/1broseidon/termdesk/internal/runtimepath"
	"github.com/1broseidon/termdesk/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(runDesktop(nil))
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDesktop(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "icons":
		os.Exit(runIcons(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "close":
		os.Exit(runWindowCommand("close", os.Args[2:]))
	case "focus":
		os.Exit(runWindowCommand("focus", os.Args[2:]))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		if len(os.Args[1]) > 0 && os.Args[1][0] == '-' {
			os.Exit(runDesktop(os.Args[1:]))
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termdesk [command] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the desktop (default)")
	fmt.Fprintln(w, "  status              Show the running desktop's status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  windows             List open windows")
	fmt.Fprintln(w, "  icons               List desktop icons")
	fmt.Fprintln(w, "  open <icon>         Open the window of an icon")
	fmt.Fprintln(w, "  close <window>      Close a window")
	fmt.Fprintln(w, "  focus <window>      Raise a window")
	fmt.Fprintln(w, "  move <icon> <x> <y> Drop an icon at a pixel position")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config init         Write the default configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'termdesk <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.Config, error) {
	res, err := loadConfigResult(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// dataPath returns override when set, otherwise name inside dataDir.
func dataPath(override, dataDir, name string) string {
	if override != "" {
		return override
	}
	return filepath.Join(dataDir, name)
}

func runDesktop(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/termdesk/config.yaml)")
	skipBoot := fs.Bool("skip-boot", false, "Start on the desktop without the boot sequence")
	noSocket := fs.Bool("no-socket", false, "Do not listen on the control socket")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk run [--path PATH] [--skip-boot] [--no-socket]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the desktop in the current terminal.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  ←/→/↑/↓, h/j/k/l  Select an icon")
		fmt.Fprintln(os.Stderr, "  Enter             Open the selected icon")
		fmt.Fprintln(os.Stderr, "  /                 Open the launcher")
		fmt.Fprintln(os.Stderr, "  Tab               Cycle windows")
		fmt.Fprintln(os.Stderr, "  Ctrl+W            Close the focused window")
		fmt.Fprintln(os.Stderr, "  [ ]               Volume down / up")
		fmt.Fprintln(os.Stderr, "  Ctrl+T            Mute")
		fmt.Fprintln(os.Stderr, "  ?                 Help")
		fmt.Fprintln(os.Stderr, "  Ctrl+C            Quit")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	if *skipBoot {
		cfg.Boot.Skip = true
	}

	dataDir, err := config.DefaultDataDir()
	if err != nil {
		log.Printf("Failed to resolve data directory: %v", err)
		return 1
	}

	logger, closer, err := logging.New(logging.Options{
		Enabled:   cfg.Logging.Enabled,
		Level:     cfg.Logging.Level,
		File:      dataPath(cfg.Logging.File, dataDir, "termdesk.log"),
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	if err != nil {
		log.Printf("Warning: failed to open log file: %v", err)
		logger, closer, _ = logging.New(logging.Options{})
	}
	defer closer.Close()

	socketPath := ""
	if !*noSocket {
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			log.Printf("Warning: control socket disabled: %v", err)
			socketPath = ""
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tui.Run(ctx, tui.Options{
		Config:     cfg,
		Content:    content.LibraryFromConfig(cfg, dataDir, logger),
		Prefs:      prefs.NewStore(dataPath(cfg.PrefsPath, dataDir, "prefs.json")),
		SocketPath: socketPath,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
