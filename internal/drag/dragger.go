// Package drag moves windows under the pointer and lets them coast with
// friction after release.
package drag

import (
	"log/slog"
	"time"

	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/sched"
	"github.com/1broseidon/termdesk/internal/windows"
)

// Target is the window store a drag acts on.
type Target interface {
	Get(id string) (windows.Window, bool)
	Focus(id string) bool
	Move(id string, top, left float64) bool
}

// Dragger drives one window through Idle, Dragging and Settling.
type Dragger struct {
	id      string
	loop    *sched.Loop
	target  Target
	metrics Metrics
	physics Physics
	logger  *slog.Logger

	phase    Phase
	state    MomentumState
	limits   Limits
	tick     *sched.Handle
	lastTick time.Time
}

// NewDragger creates an idle dragger for window id.
func NewDragger(id string, loop *sched.Loop, target Target, metrics Metrics, physics Physics, logger *slog.Logger) *Dragger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dragger{
		id:      id,
		loop:    loop,
		target:  target,
		metrics: metrics,
		physics: physics.withDefaults(),
		logger:  logger,
	}
}

// Phase returns the current phase.
func (d *Dragger) Phase() Phase { return d.phase }

// State returns a copy of the momentum state.
func (d *Dragger) State() MomentumState { return d.state }

// Press starts a drag with the pointer at p. Any coasting stops and the
// window is raised. Limits are taken from vp for the whole gesture,
// including the settle that follows it.
func (d *Dragger) Press(p geom.Point, now time.Time, vp Viewport) bool {
	w, ok := d.target.Get(d.id)
	if !ok {
		d.logger.Debug("press ignored, unknown window", "id", d.id)
		return false
	}
	d.stopTick()
	d.target.Focus(d.id)

	d.limits = d.metrics.Limits(vp)
	d.state = MomentumState{
		Offset: p.Sub(geom.Point{X: w.Geometry.Left, Y: w.Geometry.Top}),
	}
	d.phase = PhaseDragging
	return true
}

// Move follows the pointer. Ignored unless dragging.
func (d *Dragger) Move(p geom.Point, now time.Time) {
	if d.phase != PhaseDragging {
		return
	}
	pos := d.limits.Clamp(p.Sub(d.state.Offset))
	if !d.target.Move(d.id, pos.Y, pos.X) {
		d.Cancel()
		return
	}
	d.state.Sample(p, now)
}

// Release ends the drag. Fast enough releases keep coasting on frame ticks.
func (d *Dragger) Release(now time.Time) {
	if d.phase != PhaseDragging {
		return
	}
	if d.physics.Resting(d.state.Velocity) {
		d.rest()
		return
	}
	d.phase = PhaseSettling
	d.lastTick = now
	d.logger.Debug("window settling",
		"id", d.id,
		"vx", d.state.Velocity.X,
		"vy", d.state.Velocity.Y)
	d.scheduleTick()
}

// Cancel drops any scheduled tick and returns to idle.
func (d *Dragger) Cancel() {
	d.rest()
}

func (d *Dragger) rest() {
	d.stopTick()
	d.phase = PhaseIdle
	d.state = MomentumState{}
}

func (d *Dragger) stopTick() {
	d.tick.Cancel()
	d.tick = nil
}

func (d *Dragger) scheduleTick() {
	d.tick = d.loop.Frame(d.onTick)
}

func (d *Dragger) onTick(now time.Time) {
	d.tick = nil
	if d.phase != PhaseSettling {
		return
	}
	dt := now.Sub(d.lastTick).Seconds()
	if dt <= 0 {
		d.scheduleTick()
		return
	}
	d.lastTick = now

	w, ok := d.target.Get(d.id)
	if !ok {
		d.rest()
		return
	}
	pos := geom.Point{X: w.Geometry.Left, Y: w.Geometry.Top}
	pos, d.state.Velocity = Step(pos, d.state.Velocity, dt, d.limits, d.physics)
	d.target.Move(d.id, pos.Y, pos.X)

	if d.physics.Resting(d.state.Velocity) {
		d.logger.Debug("window at rest", "id", d.id, "top", pos.Y, "left", pos.X)
		d.rest()
		return
	}
	d.scheduleTick()
}
