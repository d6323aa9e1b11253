package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/1broseidon/termdesk/internal/ipc"
)

// controlFlags are shared by every command that talks to a running desktop.
type controlFlags struct {
	socket string
	json   bool
}

func newControlFlagSet(name, usage string, withJSON bool) (*flag.FlagSet, *controlFlags) {
	cf := &controlFlags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVar(&cf.socket, "socket", "", "Control socket path (default: $TERMDESK_SOCKET or $XDG_RUNTIME_DIR/termdesk.sock)")
	if withJSON {
		fs.BoolVar(&cf.json, "json", false, "Print JSON")
	}
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	return fs, cf
}

func (cf *controlFlags) client() *ipc.Client {
	if cf.socket != "" {
		return ipc.NewClientAt(cf.socket)
	}
	return ipc.NewClient()
}

// parseControl parses args and checks the positional count. ok is false
// when the caller should return code.
func parseControl(fs *flag.FlagSet, args []string, nargs int) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	if fs.NArg() != nargs {
		if nargs == 0 {
			fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		} else {
			fmt.Fprintf(os.Stderr, "%s requires %d argument(s)\n", fs.Name(), nargs)
		}
		fs.Usage()
		return 2, false
	}
	return 0, true
}

func printJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs, cf := newControlFlagSet("status", "Usage: termdesk status [--json]", true)
	if code, ok := parseControl(fs, args, 0); !ok {
		return code
	}

	status, err := cf.client().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cf.json {
		return printJSON(os.Stdout, status)
	}
	writeStatus(os.Stdout, status)
	return 0
}

func writeStatus(w io.Writer, s *ipc.StatusData) {
	fmt.Fprintf(w, "session:        %s\n", s.Session)
	fmt.Fprintf(w, "os:             %s\n", s.OSName)
	fmt.Fprintf(w, "booted:         %v\n", s.Booted)
	fmt.Fprintf(w, "viewport:       %.0fx%.0f\n", s.ViewportWidth, s.ViewportHeight)
	fmt.Fprintf(w, "windows:        %d\n", s.WindowCount)
	if s.FocusedWindow != "" {
		fmt.Fprintf(w, "focused:        %s\n", s.FocusedWindow)
	}
	if s.SelectedIcon != "" {
		fmt.Fprintf(w, "selected_icon:  %s\n", s.SelectedIcon)
	}
	volume := fmt.Sprintf("%d%%", int(s.Volume*100+0.5))
	if s.Muted {
		volume += " (muted)"
	}
	fmt.Fprintf(w, "volume:         %s\n", volume)
	started := time.Now().Add(-time.Duration(s.UptimeSeconds) * time.Second)
	fmt.Fprintf(w, "started:        %s\n", humanize.Time(started))
}

func runWindows(args []string) int {
	fs, cf := newControlFlagSet("windows", "Usage: termdesk windows [--json]", true)
	if code, ok := parseControl(fs, args, 0); !ok {
		return code
	}

	wins, err := cf.client().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cf.json {
		return printJSON(os.Stdout, wins)
	}
	writeWindows(os.Stdout, wins)
	return 0
}

func writeWindows(w io.Writer, wins []ipc.WindowInfo) {
	if len(wins) == 0 {
		fmt.Fprintln(w, "no open windows")
		return
	}
	for _, win := range wins {
		state := win.Phase
		if win.Closing {
			state = "closing"
		}
		fmt.Fprintf(w, "%-12s z=%-3d %-9s at (%.0f, %.0f) size %s x %s  %q\n",
			win.ID, win.ZIndex, state, win.Left, win.Top, win.Width, win.Height, win.Title)
	}
}

func runIcons(args []string) int {
	fs, cf := newControlFlagSet("icons", "Usage: termdesk icons [--json]", true)
	if code, ok := parseControl(fs, args, 0); !ok {
		return code
	}

	icons, err := cf.client().ListIcons()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cf.json {
		return printJSON(os.Stdout, icons)
	}
	writeIcons(os.Stdout, icons)
	return 0
}

func writeIcons(w io.Writer, icons []ipc.IconInfo) {
	for _, icon := range icons {
		mark := " "
		if icon.Selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-12s at (%.0f, %.0f)  %s\n", mark, icon.ID, icon.X, icon.Y, icon.Label)
	}
}

func runOpen(args []string) int {
	fs, cf := newControlFlagSet("open", "Usage: termdesk open [--json] <icon>", true)
	if code, ok := parseControl(fs, args, 1); !ok {
		return code
	}

	win, err := cf.client().OpenWindow(strings.TrimSpace(fs.Arg(0)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cf.json {
		return printJSON(os.Stdout, win)
	}
	fmt.Printf("opened %s\n", win.ID)
	return 0
}

// runWindowCommand handles close and focus, which take a window id and
// return nothing.
func runWindowCommand(name string, args []string) int {
	fs, cf := newControlFlagSet(name, fmt.Sprintf("Usage: termdesk %s <window>", name), false)
	if code, ok := parseControl(fs, args, 1); !ok {
		return code
	}

	id := strings.TrimSpace(fs.Arg(0))
	client := cf.client()
	var err error
	switch name {
	case "close":
		err = client.CloseWindow(id)
	case "focus":
		err = client.FocusWindow(id)
	default:
		err = fmt.Errorf("unknown window command %q", name)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMove(args []string) int {
	fs, cf := newControlFlagSet("move", "Usage: termdesk move [--json] <icon> <x> <y>", true)
	if code, ok := parseControl(fs, args, 3); !ok {
		return code
	}

	x, errX := strconv.ParseFloat(fs.Arg(1), 64)
	y, errY := strconv.ParseFloat(fs.Arg(2), 64)
	if errX != nil || errY != nil {
		fmt.Fprintln(os.Stderr, "x and y must be numbers")
		return 2
	}

	icon, err := cf.client().MoveIcon(strings.TrimSpace(fs.Arg(0)), x, y)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cf.json {
		return printJSON(os.Stdout, icon)
	}
	fmt.Printf("%s at (%.0f, %.0f)\n", icon.ID, icon.X, icon.Y)
	return 0
}
