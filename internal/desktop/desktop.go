// Package desktop composes icon placement, the window registry and the drag
// engine into one desktop driven by a single event loop.
package desktop

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/termdesk/internal/drag"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/icons"
	"github.com/1broseidon/termdesk/internal/sched"
	"github.com/1broseidon/termdesk/internal/windows"
)

// ContentProvider resolves a window's content key to something the renderer
// can draw.
type ContentProvider interface {
	Lookup(key string) (any, bool)
}

// FallbackText is the content of a window whose key no provider knows.
type FallbackText string

// Snapshot is a read-only view of the desktop.
type Snapshot struct {
	Session  string           `json:"session"`
	Viewport drag.Viewport    `json:"viewport"`
	Grid     geom.Grid        `json:"grid"`
	Icons    []icons.Icon     `json:"icons"`
	Windows  []windows.Window `json:"windows"`
	Selected string           `json:"selected,omitempty"`
	Dragging string           `json:"dragging,omitempty"`
}

// Desktop owns every piece of desktop state. Like the loop it runs on, it
// is not safe for concurrent use.
type Desktop struct {
	opts    Options
	session string
	loop    *sched.Loop
	logger  *slog.Logger

	icons   *icons.Controller
	windows *windows.Registry
	drag    *drag.Engine

	launches map[string]Launch
	viewport drag.Viewport
}

// New mounts a desktop sized to the reference viewport. Hosts call Resize
// with the real size before the first render.
func New(opts Options, loop *sched.Loop) *Desktop {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	session := uuid.NewString()
	logger = logger.With("session", session)

	vp := opts.Grid.Reference
	grid := opts.Grid.For(vp)

	seeds := make([]icons.Seed, 0, len(opts.Icons))
	launches := make(map[string]Launch, len(opts.Icons))
	for _, def := range opts.Icons {
		seeds = append(seeds, def.Seed)
		launches[def.ID] = def.Launch
	}

	reg := windows.NewRegistry(loop, windows.RegistryConfig{
		CloseDelay: opts.CloseDelay,
		Logger:     logger,
	})
	d := &Desktop{
		opts:     opts,
		session:  session,
		loop:     loop,
		logger:   logger,
		windows:  reg,
		launches: launches,
		viewport: vp,
	}
	d.icons = icons.New(icons.Config{
		Grid:   grid,
		Bounds: d.bounds(),
		Search: opts.Search,
		Logger: logger,
	}, seeds)
	d.drag = drag.NewEngine(loop, reg, drag.EngineConfig{
		Metrics: opts.Metrics,
		Physics: opts.Physics,
		Logger:  logger,
	})

	logger.Info("desktop mounted", "icons", len(seeds), "grid", grid.String())
	return d
}

// Session returns the id of this desktop session.
func (d *Desktop) Session() string { return d.session }

// Viewport returns the current viewport.
func (d *Desktop) Viewport() drag.Viewport { return d.viewport }

// Metrics returns the window chrome metrics.
func (d *Desktop) Metrics() drag.Metrics { return d.opts.Metrics }

// IconSize returns the icon footprint.
func (d *Desktop) IconSize() geom.Size { return d.opts.Search.ItemSize }

func (d *Desktop) bounds() geom.Bounds {
	return geom.Bounds{
		Width:  d.viewport.Width,
		Height: max(d.viewport.Height-d.opts.Metrics.TaskbarHeight, 0),
	}
}

// Resize recomputes the grid for vp and moves every icon onto it, keeping
// each icon in its grid cell.
func (d *Desktop) Resize(vp drag.Viewport) {
	if vp == d.viewport {
		return
	}
	d.viewport = vp
	grid := d.opts.Grid.For(vp)
	d.icons.SetBounds(d.bounds())
	d.icons.Regrid(grid)
	d.logger.Debug("desktop resized",
		"width", vp.Width,
		"height", vp.Height,
		"grid", grid.String())
}

// ClickBackground handles a click on empty desktop space.
func (d *Desktop) ClickBackground() {
	d.icons.DeselectAll()
}

// SelectIcon selects a single icon.
func (d *Desktop) SelectIcon(id string) bool {
	return d.icons.Select(id)
}

// DropIcon commits an icon drag: the drop point is snapped to the grid and
// then moved to the nearest free cell.
func (d *Desktop) DropIcon(id string, p geom.Point) (geom.Point, bool) {
	return d.icons.MoveIcon(id, d.icons.Grid().Snap(p))
}

// ActivateIcon opens the icon's window, or raises it when already open, and
// clears the icon selection.
func (d *Desktop) ActivateIcon(id string) (windows.Window, bool) {
	launch, ok := d.launches[id]
	if !ok {
		d.logger.Debug("activate ignored, unknown icon", "id", id)
		return windows.Window{}, false
	}
	w, opened := d.windows.OpenOrFocus(d.windowSpec(id, launch))
	d.icons.DeselectAll()
	if opened {
		d.logger.Debug("icon launched window", "icon", id, "content", launch.ContentKey)
	}
	return w, true
}

func (d *Desktop) windowSpec(id string, l Launch) windows.Spec {
	vp := d.viewport
	geo := windows.Geometry{
		Top:    l.Top.Resolve(vp.Height),
		Left:   l.Left.Resolve(vp.Width),
		Width:  geom.Px(l.Width.Resolve(vp.Width)),
		Height: geom.Auto(),
	}
	if !l.Height.IsAuto() {
		geo.Height = geom.Px(l.Height.Resolve(vp.Height))
	}
	return windows.Spec{
		ID:         id,
		Title:      l.Title,
		ContentKey: l.ContentKey,
		Fallback:   l.Fallback,
		Content:    d.resolveContent(l),
		Geometry:   geo,
	}
}

func (d *Desktop) resolveContent(l Launch) any {
	if d.opts.Content != nil && l.ContentKey != "" {
		if c, ok := d.opts.Content.Lookup(l.ContentKey); ok {
			return c
		}
	}
	if l.ContentKey != "" {
		d.logger.Debug("unknown content key, using fallback", "content", l.ContentKey)
	}
	return FallbackText(l.Fallback)
}

// MaxHeight is the tallest an auto-height window may grow at its current
// position.
func (d *Desktop) MaxHeight(w windows.Window) float64 {
	m := d.opts.Metrics
	return max(d.viewport.Height-m.TaskbarHeight-w.Geometry.Top-m.Margin, m.TitleBarHeight)
}

// FocusWindow raises a window.
func (d *Desktop) FocusWindow(id string) bool {
	return d.windows.Focus(id)
}

// CloseWindow starts the close grace period of a window.
func (d *Desktop) CloseWindow(id string) bool {
	return d.windows.RequestClose(id)
}

// PressWindow starts dragging a window by its title bar.
func (d *Desktop) PressWindow(id string, p geom.Point) bool {
	return d.drag.Press(id, p, d.loop.Now(), d.viewport)
}

// DragWindow feeds a pointer sample to the active window drag.
func (d *Desktop) DragWindow(p geom.Point) bool {
	return d.drag.Move(p, d.loop.Now())
}

// ReleaseWindow ends the active window drag.
func (d *Desktop) ReleaseWindow() {
	d.drag.Release(d.loop.Now())
}

// WindowPhase returns the drag phase of a window.
func (d *Desktop) WindowPhase(id string) drag.Phase {
	return d.drag.Phase(id)
}

// Tick runs every continuation due at now.
func (d *Desktop) Tick(now time.Time) {
	d.loop.Advance(now)
}

// Busy reports whether any continuation is waiting, so the host knows to
// keep delivering ticks.
func (d *Desktop) Busy() bool {
	return d.loop.Pending() > 0
}

// IconAt returns the icon under p.
func (d *Desktop) IconAt(p geom.Point) (string, bool) {
	return d.icons.IconAt(p)
}

// Window returns one open window.
func (d *Desktop) Window(id string) (windows.Window, bool) {
	return d.windows.Get(id)
}

// Windows returns open windows, bottom of the stack first.
func (d *Desktop) Windows() []windows.Window {
	return d.windows.Windows()
}

// Icons returns every icon.
func (d *Desktop) Icons() []icons.Icon {
	return d.icons.Icons()
}

// Snapshot returns the full desktop state.
func (d *Desktop) Snapshot() Snapshot {
	s := Snapshot{
		Session:  d.session,
		Viewport: d.viewport,
		Grid:     d.icons.Grid(),
		Icons:    d.icons.Icons(),
		Windows:  d.windows.Windows(),
	}
	s.Selected, _ = d.icons.Selected()
	s.Dragging, _ = d.drag.Active()
	return s
}
