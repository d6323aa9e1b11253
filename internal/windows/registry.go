// Package windows owns the set of open desktop windows and their stacking
// order.
package windows

import (
	"log/slog"
	"sort"
	"time"

	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/sched"
)

// DefaultCloseDelay is how long a closing window stays on screen.
const DefaultCloseDelay = 300 * time.Millisecond

// Geometry is a window's placement. Top and Left move with drags; Width and
// Height are fixed when the window opens.
type Geometry struct {
	Top    float64     `json:"top"`
	Left   float64     `json:"left"`
	Width  geom.Length `json:"width"`
	Height geom.Length `json:"height"`
}

// Spec describes a window to open.
type Spec struct {
	ID         string
	Title      string
	ContentKey string
	Fallback   string
	Content    any
	Geometry   Geometry
}

// Window is a snapshot of one open window.
type Window struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	ContentKey string   `json:"content"`
	Fallback   string   `json:"fallback,omitempty"`
	Content    any      `json:"-"`
	Geometry   Geometry `json:"geometry"`
	ZIndex     int      `json:"z_index"`
	Closing    bool     `json:"closing"`
}

type entry struct {
	Window
	close *sched.Handle
}

// RegistryConfig holds configuration for a Registry.
type RegistryConfig struct {
	CloseDelay time.Duration
	Logger     *slog.Logger
}

// Registry is the single owner of open windows. It is not safe for
// concurrent use; all calls happen on the host's event loop.
type Registry struct {
	loop       *sched.Loop
	closeDelay time.Duration
	logger     *slog.Logger

	windows   map[string]*entry
	observers []func(id string)
}

// NewRegistry creates an empty registry scheduling delayed removals on loop.
func NewRegistry(loop *sched.Loop, cfg RegistryConfig) *Registry {
	delay := cfg.CloseDelay
	if delay <= 0 {
		delay = DefaultCloseDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		loop:       loop,
		closeDelay: delay,
		logger:     logger,
		windows:    make(map[string]*entry),
	}
}

// OnRemove registers fn to be called after a window is removed.
func (r *Registry) OnRemove(fn func(id string)) {
	r.observers = append(r.observers, fn)
}

func (r *Registry) maxZ() int {
	maxZ := 0
	for _, e := range r.windows {
		if e.ZIndex > maxZ {
			maxZ = e.ZIndex
		}
	}
	return maxZ
}

// OpenOrFocus focuses the window with spec.ID if it is open, leaving its
// geometry and content untouched. Otherwise it opens a new window on top.
// The returned bool is true when a window was created.
func (r *Registry) OpenOrFocus(spec Spec) (Window, bool) {
	if e, ok := r.windows[spec.ID]; ok {
		r.Focus(spec.ID)
		return e.Window, false
	}

	e := &entry{Window: Window{
		ID:         spec.ID,
		Title:      spec.Title,
		ContentKey: spec.ContentKey,
		Fallback:   spec.Fallback,
		Content:    spec.Content,
		Geometry:   spec.Geometry,
		ZIndex:     r.maxZ() + 1,
	}}
	r.windows[spec.ID] = e

	r.logger.Info("window opened",
		"id", spec.ID,
		"z", e.ZIndex,
		"top", spec.Geometry.Top,
		"left", spec.Geometry.Left)
	return e.Window, true
}

// Focus raises the window to the top of the stack. Other windows keep their
// z-index.
func (r *Registry) Focus(id string) bool {
	e, ok := r.windows[id]
	if !ok {
		r.logger.Debug("focus ignored, unknown window", "id", id)
		return false
	}
	e.ZIndex = r.maxZ() + 1
	r.logger.Debug("window focused", "id", id, "z", e.ZIndex)
	return true
}

// RequestClose marks the window as closing and removes it once the close
// delay has passed. Repeated requests are ignored.
func (r *Registry) RequestClose(id string) bool {
	e, ok := r.windows[id]
	if !ok || e.Closing {
		return false
	}
	e.Closing = true
	e.close = r.loop.After(r.closeDelay, func() { r.remove(id) })
	r.logger.Debug("window closing", "id", id, "delay", r.closeDelay)
	return true
}

func (r *Registry) remove(id string) {
	e, ok := r.windows[id]
	if !ok {
		return
	}
	e.close.Cancel()
	delete(r.windows, id)
	r.logger.Info("window closed", "id", id)
	for _, fn := range r.observers {
		fn(id)
	}
}

// Move repositions a window. Only the drag engine calls this.
func (r *Registry) Move(id string, top, left float64) bool {
	e, ok := r.windows[id]
	if !ok {
		return false
	}
	e.Geometry.Top = top
	e.Geometry.Left = left
	return true
}

// Get returns a snapshot of the window with the given id.
func (r *Registry) Get(id string) (Window, bool) {
	e, ok := r.windows[id]
	if !ok {
		return Window{}, false
	}
	return e.Window, true
}

// Windows returns every open window, bottom of the stack first.
func (r *Registry) Windows() []Window {
	out := make([]Window, 0, len(r.windows))
	for _, e := range r.windows {
		out = append(out, e.Window)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ZIndex == out[j].ZIndex {
			return out[i].ID < out[j].ID
		}
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// Top returns the focused window.
func (r *Registry) Top() (Window, bool) {
	ws := r.Windows()
	if len(ws) == 0 {
		return Window{}, false
	}
	return ws[len(ws)-1], true
}

// IDs returns the ids of open windows in stacking order.
func (r *Registry) IDs() []string {
	ws := r.Windows()
	ids := make([]string, len(ws))
	for i, w := range ws {
		ids[i] = w.ID
	}
	return ids
}

// Len returns the number of open windows, closing ones included.
func (r *Registry) Len() int { return len(r.windows) }
