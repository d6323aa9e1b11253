package drag

import (
	"time"

	"github.com/1broseidon/termdesk/internal/geom"
)

// Phase represents the current phase of a window drag
type Phase int

const (
	// PhaseIdle means the window is at rest
	PhaseIdle Phase = iota
	// PhaseDragging means the pointer is holding the title bar
	PhaseDragging
	// PhaseSettling means the window is coasting after release
	PhaseSettling
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// MomentumState is the transient state of one drag gesture. It is reset on
// every press and discarded when the window comes to rest.
type MomentumState struct {
	Offset             geom.Point // pointer minus window top-left at press time
	Velocity           geom.Point // px/s
	LastSampleTime     time.Time
	LastSamplePosition geom.Point
	HasSample          bool
}

// Sample folds a pointer sample into the velocity estimate. The first sample
// and samples with no elapsed time only record the position.
func (s *MomentumState) Sample(pointer geom.Point, now time.Time) {
	if s.HasSample {
		if dt := now.Sub(s.LastSampleTime).Seconds(); dt > 0 {
			s.Velocity = pointer.Sub(s.LastSamplePosition).Scale(1 / dt)
		}
	}
	s.LastSamplePosition = pointer
	s.LastSampleTime = now
	s.HasSample = true
}

// Viewport is the visible desktop size in pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Metrics are the window chrome sizes that bound a drag.
type Metrics struct {
	Margin         float64
	TaskbarHeight  float64
	TitleBarHeight float64
	MinWidth       float64
}

// Limits is the box a window's top-left corner is kept inside.
type Limits struct {
	MinTop  float64
	MaxTop  float64
	MinLeft float64
	MaxLeft float64
}

// Limits computes drag limits for vp. When the viewport is too small for
// the chrome, the upper bound collapses onto the margin.
func (m Metrics) Limits(vp Viewport) Limits {
	l := Limits{
		MinTop:  m.Margin,
		MaxTop:  vp.Height - m.TaskbarHeight - m.TitleBarHeight - m.Margin,
		MinLeft: m.Margin,
		MaxLeft: vp.Width - m.Margin - m.MinWidth,
	}
	if l.MaxTop < l.MinTop {
		l.MaxTop = l.MinTop
	}
	if l.MaxLeft < l.MinLeft {
		l.MaxLeft = l.MinLeft
	}
	return l
}

// Clamp returns p (X=left, Y=top) forced inside the limits.
func (l Limits) Clamp(p geom.Point) geom.Point {
	return geom.Point{
		X: geom.Clamp(p.X, l.MinLeft, l.MaxLeft),
		Y: geom.Clamp(p.Y, l.MinTop, l.MaxTop),
	}
}
