// Package icons places desktop icons on the snapping grid and keeps them
// from overlapping.
package icons

import (
	"log/slog"

	"github.com/1broseidon/termdesk/internal/geom"
)

// Icon is a snapshot of one desktop icon.
type Icon struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Glyph    string     `json:"glyph,omitempty"`
	Position geom.Point `json:"position"`
	Selected bool       `json:"selected"`
}

// Seed declares an icon and the grid cell it starts in.
type Seed struct {
	ID     string
	Label  string
	Glyph  string
	Column int
	Row    int
}

// Config holds configuration for a Controller.
type Config struct {
	Grid   geom.Grid
	Bounds geom.Bounds
	Search geom.SearchOptions
	Logger *slog.Logger
}

// Controller owns icon positions and the single selection.
type Controller struct {
	grid   geom.Grid
	bounds geom.Bounds
	search geom.SearchOptions
	logger *slog.Logger

	icons    []*Icon
	byID     map[string]*Icon
	selected string
}

// New creates a controller with one icon per seed, placed at its grid cell.
// Seeds with an empty or duplicate id are skipped.
func New(cfg Config, seeds []Seed) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		grid:   cfg.Grid,
		bounds: cfg.Bounds,
		search: cfg.Search,
		logger: logger,
		byID:   make(map[string]*Icon, len(seeds)),
	}
	for _, s := range seeds {
		if s.ID == "" {
			continue
		}
		if _, dup := c.byID[s.ID]; dup {
			logger.Warn("duplicate icon id skipped", "id", s.ID)
			continue
		}
		icon := &Icon{ID: s.ID, Label: s.Label, Glyph: s.Glyph, Position: cfg.Grid.At(s.Column, s.Row)}
		c.icons = append(c.icons, icon)
		c.byID[s.ID] = icon
	}
	return c
}

func (c *Controller) occupied() map[string]geom.Point {
	out := make(map[string]geom.Point, len(c.icons))
	for _, icon := range c.icons {
		out[icon.ID] = icon.Position
	}
	return out
}

// MoveIcon commits the nearest free position to proposed, checked against
// every other icon, and returns it.
func (c *Controller) MoveIcon(id string, proposed geom.Point) (geom.Point, bool) {
	icon, ok := c.byID[id]
	if !ok {
		c.logger.Debug("move ignored, unknown icon", "id", id)
		return geom.Point{}, false
	}
	pos := geom.FindNearestFreePosition(proposed, c.occupied(), id, c.grid, c.bounds, c.search)
	icon.Position = pos
	c.logger.Debug("icon moved",
		"id", id,
		"proposed_x", proposed.X,
		"proposed_y", proposed.Y,
		"x", pos.X,
		"y", pos.Y)
	return pos, true
}

// Select makes id the only selected icon.
func (c *Controller) Select(id string) bool {
	if _, ok := c.byID[id]; !ok {
		c.logger.Debug("select ignored, unknown icon", "id", id)
		return false
	}
	c.selected = id
	return true
}

// DeselectAll clears the selection.
func (c *Controller) DeselectAll() { c.selected = "" }

// Selected returns the selected icon id.
func (c *Controller) Selected() (string, bool) {
	return c.selected, c.selected != ""
}

// Position returns the position of icon id.
func (c *Controller) Position(id string) (geom.Point, bool) {
	icon, ok := c.byID[id]
	if !ok {
		return geom.Point{}, false
	}
	return icon.Position, true
}

// Icons returns every icon in declaration order.
func (c *Controller) Icons() []Icon {
	out := make([]Icon, len(c.icons))
	for i, icon := range c.icons {
		out[i] = *icon
		out[i].Selected = icon.ID == c.selected
	}
	return out
}

// IconAt returns the icon whose footprint contains p. Later icons win.
func (c *Controller) IconAt(p geom.Point) (string, bool) {
	for i := len(c.icons) - 1; i >= 0; i-- {
		icon := c.icons[i]
		if geom.RectAt(icon.Position, c.search.ItemSize).Contains(p) {
			return icon.ID, true
		}
	}
	return "", false
}

// Grid returns the current snapping grid.
func (c *Controller) Grid() geom.Grid { return c.grid }

// Regrid moves every icon onto grid, keeping each icon in the same cell.
func (c *Controller) Regrid(grid geom.Grid) {
	if grid == c.grid {
		return
	}
	from := c.grid
	for _, icon := range c.icons {
		icon.Position = geom.Regrid(icon.Position, from, grid)
	}
	c.grid = grid
	c.logger.Debug("icons regridded", "from", from.String(), "to", grid.String())
}

// SetBounds updates the area icons are kept inside when searching for a
// free position.
func (c *Controller) SetBounds(b geom.Bounds) { c.bounds = b }
