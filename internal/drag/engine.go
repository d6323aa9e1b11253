package drag

import (
	"log/slog"
	"time"

	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/sched"
)

// Store is a Target that reports window removal.
type Store interface {
	Target
	OnRemove(fn func(id string))
}

// EngineConfig holds configuration for an Engine.
type EngineConfig struct {
	Metrics Metrics
	Physics Physics
	Logger  *slog.Logger
}

// Engine keeps one Dragger per window and forgets it when the window is
// removed, cancelling any pending tick.
type Engine struct {
	loop     *sched.Loop
	store    Store
	metrics  Metrics
	physics  Physics
	logger   *slog.Logger
	draggers map[string]*Dragger
	active   string
}

// NewEngine creates an engine over store.
func NewEngine(loop *sched.Loop, store Store, cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		loop:     loop,
		store:    store,
		metrics:  cfg.Metrics,
		physics:  cfg.Physics.withDefaults(),
		logger:   logger,
		draggers: make(map[string]*Dragger),
	}
	store.OnRemove(e.forget)
	return e
}

func (e *Engine) dragger(id string) *Dragger {
	d, ok := e.draggers[id]
	if !ok {
		d = NewDragger(id, e.loop, e.store, e.metrics, e.physics, e.logger)
		e.draggers[id] = d
	}
	return d
}

func (e *Engine) forget(id string) {
	if d, ok := e.draggers[id]; ok {
		d.Cancel()
		delete(e.draggers, id)
	}
	if e.active == id {
		e.active = ""
	}
}

// Press starts dragging window id. A drag already in progress on another
// window is released first.
func (e *Engine) Press(id string, p geom.Point, now time.Time, vp Viewport) bool {
	if _, ok := e.store.Get(id); !ok {
		return false
	}
	if e.active != "" && e.active != id {
		e.Release(now)
	}
	if !e.dragger(id).Press(p, now, vp) {
		return false
	}
	e.active = id
	return true
}

// Move forwards a pointer sample to the window being dragged.
func (e *Engine) Move(p geom.Point, now time.Time) bool {
	if e.active == "" {
		return false
	}
	d, ok := e.draggers[e.active]
	if !ok {
		e.active = ""
		return false
	}
	d.Move(p, now)
	return d.Phase() == PhaseDragging
}

// Release ends the current drag.
func (e *Engine) Release(now time.Time) {
	if e.active == "" {
		return
	}
	if d, ok := e.draggers[e.active]; ok {
		d.Release(now)
	}
	e.active = ""
}

// Active returns the window being dragged.
func (e *Engine) Active() (string, bool) {
	return e.active, e.active != ""
}

// Phase returns the drag phase of window id.
func (e *Engine) Phase(id string) Phase {
	if d, ok := e.draggers[id]; ok {
		return d.Phase()
	}
	return PhaseIdle
}

// Animating reports whether any window is coasting.
func (e *Engine) Animating() bool {
	for _, d := range e.draggers {
		if d.Phase() == PhaseSettling {
			return true
		}
	}
	return false
}
