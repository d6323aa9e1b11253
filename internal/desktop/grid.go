package desktop

import (
	"github.com/1broseidon/termdesk/internal/drag"
	"github.com/1broseidon/termdesk/internal/geom"
)

// MinGridOffset is the smallest grid offset a resize can produce, in
// pixels. Cell sizes never drop below the icon footprint.
const MinGridOffset = 1

// GridPolicy derives the icon grid from the viewport. The reference grid is
// scaled per axis by viewport/reference, clamped to [MinScale, MaxScale].
type GridPolicy struct {
	Base      geom.Grid
	Reference drag.Viewport
	MinScale  float64
	MaxScale  float64
	// Floor is the smallest cell; cells at least as large as the icon keep
	// snapped icons from overlapping.
	Floor geom.Size
}

// For returns the grid for vp. The result grows monotonically with the
// viewport and every field is positive.
func (p GridPolicy) For(vp drag.Viewport) geom.Grid {
	sx := p.scale(vp.Width, p.Reference.Width)
	sy := p.scale(vp.Height, p.Reference.Height)
	return geom.Grid{
		CellWidth:  max(p.Base.CellWidth*sx, p.Floor.Width, MinGridOffset),
		CellHeight: max(p.Base.CellHeight*sy, p.Floor.Height, MinGridOffset),
		OffsetX:    max(p.Base.OffsetX*sx, MinGridOffset),
		OffsetY:    max(p.Base.OffsetY*sy, MinGridOffset),
	}
}

func (p GridPolicy) scale(v, ref float64) float64 {
	lo, hi := p.MinScale, p.MaxScale
	if lo <= 0 {
		lo = 0.1
	}
	if hi < lo {
		hi = lo
	}
	if ref <= 0 {
		return geom.Clamp(1, lo, hi)
	}
	return geom.Clamp(v/ref, lo, hi)
}
