package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// wallpaper paints a vertical gradient through its color stops. When
// animated, the gradient drifts with phase.
type wallpaper struct {
	stops   []colorful.Color
	animate bool
}

var fallbackStops = []string{"#1e1b4b", "#0f766e"}

func newWallpaper(hexes []string, animate bool) wallpaper {
	var stops []colorful.Color
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			continue
		}
		stops = append(stops, c)
	}
	if len(stops) == 0 {
		for _, h := range fallbackStops {
			c, _ := colorful.Hex(h)
			stops = append(stops, c)
		}
	}
	return wallpaper{stops: stops, animate: animate}
}

// at returns the gradient color at t in [0, 1].
func (w wallpaper) at(t float64) colorful.Color {
	if len(w.stops) == 1 {
		return w.stops[0]
	}
	t = math.Max(0, math.Min(1, t))
	span := t * float64(len(w.stops)-1)
	i := int(math.Floor(span))
	if i >= len(w.stops)-1 {
		return w.stops[len(w.stops)-1]
	}
	return w.stops[i].BlendLab(w.stops[i+1], span-float64(i)).Clamped()
}

// rows renders height rows of width cells. phase is in [0, 1) and only
// matters for animated wallpapers.
func (w wallpaper) rows(width, height int, phase float64) []string {
	out := make([]string, height)
	blank := strings.Repeat(" ", max(width, 0))
	shift := 0.0
	if w.animate {
		// ease back and forth rather than wrapping around
		shift = 0.25 * math.Sin(2*math.Pi*phase)
	}
	for i := range out {
		t := 0.0
		if height > 1 {
			t = float64(i) / float64(height-1)
		}
		c := w.at(t + shift)
		out[i] = lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(blank)
	}
	return out
}

// fade blends fg toward bg by t in [0, 1].
func fade(fg, bg string, t float64) lipgloss.Color {
	a, errA := colorful.Hex(fg)
	b, errB := colorful.Hex(bg)
	if errA != nil || errB != nil {
		return lipgloss.Color(fg)
	}
	return lipgloss.Color(a.BlendRgb(b, math.Max(0, math.Min(1, t))).Clamped().Hex())
}
