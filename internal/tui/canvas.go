package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/termdesk/internal/drag"
	"github.com/1broseidon/termdesk/internal/geom"
)

const ansiReset = "\x1b[0m"

// cellMap converts between terminal cells and desktop pixels.
type cellMap struct {
	cw, ch float64
}

func newCellMap(width, height int) cellMap {
	return cellMap{cw: float64(max(width, 1)), ch: float64(max(height, 1))}
}

// toPx returns the pixel position of the top-left corner of a cell.
func (c cellMap) toPx(col, row int) geom.Point {
	return geom.Point{X: float64(col) * c.cw, Y: float64(row) * c.ch}
}

// centerPx returns the pixel position of the middle of a cell. Pointer
// events use it so a drag does not jump by half a cell.
func (c cellMap) centerPx(col, row int) geom.Point {
	return geom.Point{X: (float64(col) + 0.5) * c.cw, Y: (float64(row) + 0.5) * c.ch}
}

func (c cellMap) col(x float64) int { return int(math.Floor(x/c.cw + 0.5)) }
func (c cellMap) row(y float64) int { return int(math.Floor(y/c.ch + 0.5)) }

func (c cellMap) cols(w float64) int { return int(math.Floor(w/c.cw + 0.5)) }
func (c cellMap) rows(h float64) int { return int(math.Floor(h/c.ch + 0.5)) }

func (c cellMap) viewport(cols, rows int) drag.Viewport {
	return drag.Viewport{Width: float64(cols) * c.cw, Height: float64(rows) * c.ch}
}

// canvas is a fixed-size grid of rendered rows that blocks are stamped
// onto, back to front.
type canvas struct {
	width, height int
	rows          []string
}

func newCanvas(width, height int, background []string) *canvas {
	c := &canvas{width: width, height: height, rows: make([]string, height)}
	blank := strings.Repeat(" ", max(width, 0))
	for i := range c.rows {
		if i < len(background) {
			c.rows[i] = background[i]
		} else {
			c.rows[i] = blank
		}
	}
	return c
}

// place stamps block with its top-left corner at (x, y). Parts outside the
// canvas are clipped.
func (c *canvas) place(x, y int, block string) {
	if block == "" {
		return
	}
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= c.height {
			continue
		}
		c.rows[row] = overlay(c.rows[row], line, x, c.width)
	}
}

// overlay replaces the cells of base starting at column x with line.
func overlay(base, line string, x, width int) string {
	if x < 0 {
		line = ansi.TruncateLeft(line, -x, "")
		x = 0
	}
	if x >= width {
		return base
	}
	line = ansi.Truncate(line, width-x, "")
	w := ansi.StringWidth(line)
	if w == 0 {
		return base
	}

	left := ansi.Truncate(base, x, "")
	if lw := ansi.StringWidth(left); lw < x {
		left += strings.Repeat(" ", x-lw)
	}
	right := ansi.TruncateLeft(base, x+w, "")
	return left + ansiReset + line + ansiReset + right
}

func (c *canvas) String() string {
	return strings.Join(c.rows, "\n")
}
