package geom

import "math"

// Point is a position in desktop pixels.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// Len returns the Euclidean length of p treated as a vector.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Size is a width/height pair in desktop pixels.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Bounds is the extent of the desktop area items are placed in.
type Bounds struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectAt returns the rectangle of the given size anchored at p.
func RectAt(p Point, size Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: size.Width, Height: size.Height}
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether r and o share interior area. Rectangles that
// only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	horizontal := r.Right() > o.X && r.X < o.Right()
	vertical := r.Bottom() > o.Y && r.Y < o.Bottom()
	return horizontal && vertical
}

// Overlaps reports whether two rectangles of the same size anchored at a and
// b overlap.
func Overlaps(a, b Point, size Size) bool {
	return RectAt(a, size).Intersects(RectAt(b, size))
}

// Clamp limits v to [lo, hi]. When hi < lo the range is empty and lo wins,
// so callers always get a value at or above the lower margin.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// roundHalfUp rounds x to the nearest integer, halves towards +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
