package drag

import (
	"math"

	"github.com/1broseidon/termdesk/internal/geom"
)

const (
	DefaultFriction    = 0.92
	DefaultRestitution = -0.6
	DefaultMinVelocity = 0.5
	DefaultBaselineFPS = 60
)

// Physics tunes post-release momentum.
type Physics struct {
	Friction    float64 // velocity kept per baseline frame
	Restitution float64 // velocity factor applied on an edge hit
	MinVelocity float64 // px/s
	BaselineFPS float64
}

// DefaultPhysics returns the stock momentum tuning.
func DefaultPhysics() Physics {
	return Physics{
		Friction:    DefaultFriction,
		Restitution: DefaultRestitution,
		MinVelocity: DefaultMinVelocity,
		BaselineFPS: DefaultBaselineFPS,
	}
}

func (p Physics) withDefaults() Physics {
	d := DefaultPhysics()
	if p.Friction <= 0 || p.Friction >= 1 {
		p.Friction = d.Friction
	}
	if p.Restitution > 0 || p.Restitution <= -1 {
		p.Restitution = d.Restitution
	}
	if p.MinVelocity <= 0 {
		p.MinVelocity = d.MinVelocity
	}
	if p.BaselineFPS <= 0 {
		p.BaselineFPS = d.BaselineFPS
	}
	return p
}

// Resting reports whether v is too slow to keep animating.
func (p Physics) Resting(v geom.Point) bool {
	return v.Len() < p.MinVelocity
}

// Step advances one settling tick of dt seconds. Friction is scaled to the
// baseline frame rate so the motion does not depend on the tick rate. A
// position pushed past a limit is clamped and the velocity along that axis
// is multiplied by Restitution.
func Step(pos, vel geom.Point, dt float64, limits Limits, p Physics) (geom.Point, geom.Point) {
	if dt <= 0 {
		return pos, vel
	}
	vel = vel.Scale(math.Pow(p.Friction, dt*p.BaselineFPS))
	next := pos.Add(vel.Scale(dt))

	switch {
	case next.X < limits.MinLeft:
		next.X = limits.MinLeft
		vel.X *= p.Restitution
	case next.X > limits.MaxLeft:
		next.X = limits.MaxLeft
		vel.X *= p.Restitution
	}
	switch {
	case next.Y < limits.MinTop:
		next.Y = limits.MinTop
		vel.Y *= p.Restitution
	case next.Y > limits.MaxTop:
		next.Y = limits.MaxTop
		vel.Y *= p.Restitution
	}
	return next, vel
}
