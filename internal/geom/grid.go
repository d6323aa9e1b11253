package geom

import "fmt"

// Grid is the spacing grid icons snap to.
type Grid struct {
	CellWidth  float64
	CellHeight float64
	OffsetX    float64
	OffsetY    float64
}

// Valid reports whether every grid dimension is strictly positive.
func (g Grid) Valid() bool {
	return g.CellWidth > 0 && g.CellHeight > 0 && g.OffsetX > 0 && g.OffsetY > 0
}

func (g Grid) String() string {
	return fmt.Sprintf("cell=%.1fx%.1f offset=%.1f,%.1f", g.CellWidth, g.CellHeight, g.OffsetX, g.OffsetY)
}

// Snap rounds p to the nearest grid intersection, independently per axis.
func (g Grid) Snap(p Point) Point {
	return Point{
		X: snapAxis(p.X, g.CellWidth, g.OffsetX),
		Y: snapAxis(p.Y, g.CellHeight, g.OffsetY),
	}
}

func snapAxis(v, cell, offset float64) float64 {
	if cell <= 0 {
		return v
	}
	return roundHalfUp((v-offset)/cell)*cell + offset
}

// Cell returns the column and row of the cell nearest to p.
func (g Grid) Cell(p Point) (col, row int) {
	return cellIndex(p.X, g.CellWidth, g.OffsetX), cellIndex(p.Y, g.CellHeight, g.OffsetY)
}

func cellIndex(v, cell, offset float64) int {
	if cell <= 0 {
		return 0
	}
	return int(roundHalfUp((v - offset) / cell))
}

// At returns the top-left position of the given cell.
func (g Grid) At(col, row int) Point {
	return Point{
		X: float64(col)*g.CellWidth + g.OffsetX,
		Y: float64(row)*g.CellHeight + g.OffsetY,
	}
}

// Regrid maps p from one grid onto another keeping its cell index rather
// than its raw pixel position.
func Regrid(p Point, from, to Grid) Point {
	col, row := from.Cell(p)
	return to.At(col, row)
}
