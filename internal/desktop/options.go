package desktop

import (
	"log/slog"
	"time"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/drag"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/icons"
)

// Launch is the window an icon opens. Lengths resolve against the viewport
// at open time.
type Launch struct {
	Title      string
	ContentKey string
	Fallback   string
	Top        geom.Length
	Left       geom.Length
	Width      geom.Length
	Height     geom.Length
}

// IconDef is one desktop icon and the window it launches.
type IconDef struct {
	icons.Seed
	Launch Launch
}

// Options configures a Desktop.
type Options struct {
	Grid       GridPolicy
	Search     geom.SearchOptions
	Metrics    drag.Metrics
	Physics    drag.Physics
	CloseDelay time.Duration
	Icons      []IconDef
	Content    ContentProvider
	Logger     *slog.Logger
}

// OptionsFromConfig maps the loaded configuration onto desktop options.
func OptionsFromConfig(cfg *config.Config) Options {
	iconSize := geom.Size{Width: cfg.Icon.Width, Height: cfg.Icon.Height}
	opts := Options{
		Grid: GridPolicy{
			Base: geom.Grid{
				CellWidth:  cfg.Grid.CellWidth,
				CellHeight: cfg.Grid.CellHeight,
				OffsetX:    cfg.Grid.OffsetX,
				OffsetY:    cfg.Grid.OffsetY,
			},
			Reference: drag.Viewport{Width: cfg.Grid.ReferenceWidth, Height: cfg.Grid.ReferenceHeight},
			MinScale:  cfg.Grid.MinScale,
			MaxScale:  cfg.Grid.MaxScale,
			Floor:     iconSize,
		},
		Search: geom.SearchOptions{
			ItemSize:  iconSize,
			Margin:    cfg.Icon.Margin,
			MaxRadius: cfg.Icon.SearchRadius,
			AngleStep: cfg.Icon.AngleStep,
		},
		Metrics: drag.Metrics{
			Margin:         cfg.Window.Margin,
			TaskbarHeight:  cfg.Window.TaskbarHeight,
			TitleBarHeight: cfg.Window.TitleBarHeight,
			MinWidth:       cfg.Window.MinWidth,
		},
		Physics: drag.Physics{
			Friction:    cfg.Physics.Friction,
			Restitution: cfg.Physics.Restitution,
			MinVelocity: cfg.Physics.MinVelocity,
			BaselineFPS: cfg.Physics.BaselineFPS,
		},
		CloseDelay: time.Duration(cfg.Window.CloseDelayMs) * time.Millisecond,
	}
	for _, spec := range cfg.Icons {
		opts.Icons = append(opts.Icons, IconDef{
			Seed: icons.Seed{
				ID:     spec.ID,
				Label:  spec.Label,
				Glyph:  spec.Glyph,
				Column: spec.Column,
				Row:    spec.Row,
			},
			Launch: Launch{
				Title:      spec.Window.Title,
				ContentKey: spec.Window.Content,
				Fallback:   spec.Window.Fallback,
				Top:        spec.Window.Top,
				Left:       spec.Window.Left,
				Width:      spec.Window.Width,
				Height:     spec.Window.Height,
			},
		})
	}
	return opts
}
