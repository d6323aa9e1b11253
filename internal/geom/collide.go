package geom

import "math"

const (
	DefaultSearchRadius = 500
	DefaultAngleStep    = 45
)

// SearchOptions tunes FindNearestFreePosition.
type SearchOptions struct {
	// ItemSize is the footprint of every placed item.
	ItemSize Size
	// Margin keeps candidates away from the desktop edges.
	Margin float64
	// MaxRadius bounds the spiral search, in pixels.
	MaxRadius float64
	// AngleStep is the angular step of the spiral, in degrees.
	AngleStep float64
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.MaxRadius <= 0 {
		o.MaxRadius = DefaultSearchRadius
	}
	if o.AngleStep <= 0 {
		o.AngleStep = DefaultAngleStep
	}
	return o
}

// Collides reports whether p overlaps any occupied position other than
// excludeID.
func Collides(p Point, occupied map[string]Point, excludeID string, size Size) bool {
	for id, other := range occupied {
		if id == excludeID {
			continue
		}
		if Overlaps(p, other, size) {
			return true
		}
	}
	return false
}

// FindNearestFreePosition returns target when it collides with nothing.
// Otherwise it walks outward in rings of grid.CellHeight pixels, probing
// 360/AngleStep directions per ring; every probe is snapped to the grid and
// clamped into bounds. The first free probe wins. When the search radius is
// exhausted the original target is returned unchanged.
func FindNearestFreePosition(target Point, occupied map[string]Point, excludeID string, grid Grid, bounds Bounds, opts SearchOptions) Point {
	opts = opts.withDefaults()

	if !Collides(target, occupied, excludeID, opts.ItemSize) {
		return target
	}
	if grid.CellHeight <= 0 {
		return target
	}

	maxX := bounds.Width - opts.ItemSize.Width - opts.Margin
	maxY := bounds.Height - opts.ItemSize.Height - opts.Margin

	for radius := grid.CellHeight; radius <= opts.MaxRadius; radius += grid.CellHeight {
		for angle := 0.0; angle < 360; angle += opts.AngleStep {
			rad := angle * math.Pi / 180
			probe := grid.Snap(Point{
				X: target.X + math.Cos(rad)*radius,
				Y: target.Y + math.Sin(rad)*radius,
			})
			probe.X = Clamp(probe.X, opts.Margin, maxX)
			probe.Y = Clamp(probe.Y, opts.Margin, maxY)

			if !Collides(probe, occupied, excludeID, opts.ItemSize) {
				return probe
			}
		}
	}

	return target
}
