package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/termdesk/internal/geom"
)

// CellSize is the pixel footprint of one terminal cell. The desktop core
// works in pixels; the terminal host converts with this ratio.
type CellSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// GridConfig describes the icon grid at the reference viewport and how far
// it may scale as the viewport grows or shrinks.
type GridConfig struct {
	CellWidth       float64 `yaml:"cell_width"`
	CellHeight      float64 `yaml:"cell_height"`
	OffsetX         float64 `yaml:"offset_x"`
	OffsetY         float64 `yaml:"offset_y"`
	ReferenceWidth  float64 `yaml:"reference_width"`
	ReferenceHeight float64 `yaml:"reference_height"`
	MinScale        float64 `yaml:"min_scale"`
	MaxScale        float64 `yaml:"max_scale"`
}

// IconConfig sets the icon footprint used for collision checks and the
// free-position search.
type IconConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Margin       float64 `yaml:"margin"`
	SearchRadius float64 `yaml:"search_radius"`
	AngleStep    float64 `yaml:"angle_step"`
}

// WindowConfig holds window chrome metrics and drag limits, in pixels.
type WindowConfig struct {
	Margin         float64 `yaml:"margin"`
	TaskbarHeight  float64 `yaml:"taskbar_height"`
	TitleBarHeight float64 `yaml:"title_bar_height"`
	MinWidth       float64 `yaml:"min_width"`
	CloseDelayMs   int     `yaml:"close_delay_ms"`
}

// PhysicsConfig tunes post-release window momentum.
type PhysicsConfig struct {
	Friction    float64 `yaml:"friction"`     // per-frame velocity retention at BaselineFPS
	Restitution float64 `yaml:"restitution"`  // velocity factor on edge hit (negative reverses)
	MinVelocity float64 `yaml:"min_velocity"` // px/s below which motion stops
	BaselineFPS float64 `yaml:"baseline_fps"`
	FrameMs     int     `yaml:"frame_ms"` // host frame interval while animating
}

// BootConfig drives the boot splash.
type BootConfig struct {
	Skip       bool     `yaml:"skip"`
	DurationMs int      `yaml:"duration_ms"`
	FadeMs     int      `yaml:"fade_ms"`
	Messages   []string `yaml:"messages"`
}

// WindowPreset is the window an icon opens.
type WindowPreset struct {
	Title    string      `yaml:"title"`
	Content  string      `yaml:"content"`
	Fallback string      `yaml:"fallback,omitempty"`
	Top      geom.Length `yaml:"top"`
	Left     geom.Length `yaml:"left"`
	Width    geom.Length `yaml:"width"`
	Height   geom.Length `yaml:"height"`
}

// IconSpec declares one desktop icon. Column and Row place it on the grid
// at mount time.
type IconSpec struct {
	ID     string       `yaml:"id"`
	Label  string       `yaml:"label"`
	Glyph  string       `yaml:"glyph,omitempty"`
	Column int          `yaml:"column"`
	Row    int          `yaml:"row"`
	Window WindowPreset `yaml:"window"`
}

// AboutSection is a titled block of the About panel.
type AboutSection struct {
	Heading    string   `yaml:"heading"`
	Paragraphs []string `yaml:"paragraphs,omitempty"`
	Items      []string `yaml:"items,omitempty"`
}

// SkillCategory groups skills in the Skills panel.
type SkillCategory struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

// ContactConfig feeds the Contact panel.
type ContactConfig struct {
	Email    string `yaml:"email"`
	LinkedIn string `yaml:"linkedin"`
	GitHub   string `yaml:"github"`
	// Inbox is where messages composed in the contact form are appended.
	Inbox string `yaml:"inbox,omitempty"`
}

// ContentConfig holds the static portfolio text.
type ContentConfig struct {
	Name    string          `yaml:"name"`
	About   []AboutSection  `yaml:"about"`
	Skills  []SkillCategory `yaml:"skills"`
	Contact ContactConfig   `yaml:"contact"`
	Reveal  bool            `yaml:"reveal"` // animate text letter by letter when a panel opens
}

// GitHubConfig configures the pinned-repositories source of the Projects
// panel.
type GitHubConfig struct {
	Username       string `yaml:"username"`
	TokenEnv       string `yaml:"token_env"`
	Endpoint       string `yaml:"endpoint"`
	Exclude        string `yaml:"exclude"`
	Limit          int    `yaml:"limit"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LoggingConfig configures the desktop log file.
type LoggingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Level     string `yaml:"level"`
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// WallpaperConfig sets the background gradient.
type WallpaperConfig struct {
	Colors  []string `yaml:"colors"`
	Animate bool     `yaml:"animate"`
}

// Viewport is a minimum supported viewport, in pixels.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Config is the effective termdesk configuration.
type Config struct {
	OSName        string          `yaml:"os_name"`
	Cell          CellSize        `yaml:"cell"`
	Grid          GridConfig      `yaml:"grid"`
	Icon          IconConfig      `yaml:"icon"`
	Window        WindowConfig    `yaml:"window"`
	Physics       PhysicsConfig   `yaml:"physics"`
	Boot          BootConfig      `yaml:"boot"`
	DoubleClickMs int             `yaml:"double_click_ms"`
	MinViewport   Viewport        `yaml:"min_viewport"`
	Icons         []IconSpec      `yaml:"icons"`
	Content       ContentConfig   `yaml:"content"`
	GitHub        GitHubConfig    `yaml:"github"`
	Logging       LoggingConfig   `yaml:"logging"`
	Wallpaper     WallpaperConfig `yaml:"wallpaper"`
	PrefsPath     string          `yaml:"prefs_path,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		OSName: "OS-Portfolio",
		Cell:   CellSize{Width: 8, Height: 16},
		Grid: GridConfig{
			CellWidth:       100,
			CellHeight:      112,
			OffsetX:         24,
			OffsetY:         24,
			ReferenceWidth:  1440,
			ReferenceHeight: 900,
			MinScale:        0.6,
			MaxScale:        1.5,
		},
		Icon: IconConfig{
			Width:        80,
			Height:       100,
			Margin:       24,
			SearchRadius: geom.DefaultSearchRadius,
			AngleStep:    geom.DefaultAngleStep,
		},
		Window: WindowConfig{
			Margin:         16,
			TaskbarHeight:  32,
			TitleBarHeight: 16,
			MinWidth:       160,
			CloseDelayMs:   300,
		},
		Physics: PhysicsConfig{
			Friction:    0.92,
			Restitution: -0.6,
			MinVelocity: 0.5,
			BaselineFPS: 60,
			FrameMs:     16,
		},
		Boot: BootConfig{
			DurationMs: 4500,
			FadeMs:     300,
			Messages: []string{
				"Initializing system...",
				"Loading modules...",
				"Starting desktop environment...",
				"Ready",
			},
		},
		DoubleClickMs: 400,
		MinViewport:   Viewport{Width: 480, Height: 448},
		Icons:         defaultIcons(),
		Content:       defaultContent(),
		GitHub: GitHubConfig{
			TokenEnv:       "GITHUB_TOKEN",
			Endpoint:       "https://api.github.com/graphql",
			Exclude:        "os-portfolio",
			Limit:          6,
			TimeoutSeconds: 10,
		},
		Logging: LoggingConfig{
			Enabled:   true,
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
		Wallpaper: WallpaperConfig{
			Colors:  []string{"#1e1b4b", "#4c1d95", "#0f766e"},
			Animate: true,
		},
	}
}

func defaultIcons() []IconSpec {
	preset := func(title, content string, offset float64, height geom.Length) WindowPreset {
		return WindowPreset{
			Title:   title,
			Content: content,
			Top:     geom.Percent(offset),
			Left:    geom.Percent(offset + 10),
			Width:   geom.Percent(45),
			Height:  height,
		}
	}
	return []IconSpec{
		{ID: "about", Label: "About", Glyph: "A", Column: 0, Row: 0, Window: preset("About", "About", 8, geom.Auto())},
		{ID: "projects", Label: "Projects", Glyph: "P", Column: 0, Row: 1, Window: preset("Projects", "Projects", 12, geom.Percent(70))},
		{ID: "contact", Label: "Contact", Glyph: "C", Column: 0, Row: 2, Window: preset("Contact", "Contact", 16, geom.Auto())},
		{ID: "skills", Label: "Skills", Glyph: "S", Column: 0, Row: 3, Window: preset("Skills", "Skills", 20, geom.Auto())},
	}
}

func defaultContent() ContentConfig {
	return ContentConfig{
		Name: "Portfolio",
		About: []AboutSection{
			{
				Heading:    "Profile",
				Paragraphs: []string{"Edit content.about in your config to introduce yourself."},
			},
		},
		Skills: []SkillCategory{
			{Name: "Frontend", Items: []string{"React", "JavaScript", "CSS"}},
			{Name: "Backend", Items: []string{"Go", "Node.js", "Databases"}},
			{Name: "Tools", Items: []string{"Git", "Docker", "CI/CD"}},
		},
		Contact: ContactConfig{
			Email:    "you@example.com",
			LinkedIn: "linkedin.com/in/your-profile",
			GitHub:   "github.com/your-username",
		},
		Reveal: true,
	}
}

// IconByID returns the icon spec with the given id.
func (c *Config) IconByID(id string) (IconSpec, bool) {
	for _, spec := range c.Icons {
		if spec.ID == id {
			return spec, true
		}
	}
	return IconSpec{}, false
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Cell.Width <= 0 || c.Cell.Height <= 0 {
		return &ValidationError{Path: "cell", Err: fmt.Errorf("cell width and height must be > 0")}
	}

	g := c.Grid
	if g.CellWidth <= 0 || g.CellHeight <= 0 || g.OffsetX <= 0 || g.OffsetY <= 0 {
		return &ValidationError{Path: "grid", Err: fmt.Errorf("cell_width, cell_height, offset_x and offset_y must be > 0")}
	}
	if g.ReferenceWidth <= 0 || g.ReferenceHeight <= 0 {
		return &ValidationError{Path: "grid", Err: fmt.Errorf("reference_width and reference_height must be > 0")}
	}
	if g.MinScale <= 0 {
		return &ValidationError{Path: "grid.min_scale", Err: fmt.Errorf("min_scale must be > 0")}
	}
	if g.MaxScale < g.MinScale {
		return &ValidationError{Path: "grid.max_scale", Err: fmt.Errorf("max_scale must be >= min_scale")}
	}

	if c.Icon.Width <= 0 || c.Icon.Height <= 0 {
		return &ValidationError{Path: "icon", Err: fmt.Errorf("icon width and height must be > 0")}
	}
	if c.Icon.Margin < 0 {
		return &ValidationError{Path: "icon.margin", Err: fmt.Errorf("margin must be >= 0")}
	}
	if c.Icon.SearchRadius <= 0 {
		return &ValidationError{Path: "icon.search_radius", Err: fmt.Errorf("search_radius must be > 0")}
	}
	if c.Icon.AngleStep <= 0 || c.Icon.AngleStep > 360 {
		return &ValidationError{Path: "icon.angle_step", Err: fmt.Errorf("angle_step must be in (0, 360]")}
	}

	w := c.Window
	if w.Margin < 0 || w.TaskbarHeight < 0 || w.TitleBarHeight < 0 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("margin, taskbar_height and title_bar_height must be >= 0")}
	}
	if w.MinWidth <= 0 {
		return &ValidationError{Path: "window.min_width", Err: fmt.Errorf("min_width must be > 0")}
	}
	if w.CloseDelayMs <= 0 {
		return &ValidationError{Path: "window.close_delay_ms", Err: fmt.Errorf("close_delay_ms must be > 0")}
	}

	p := c.Physics
	if p.Friction <= 0 || p.Friction >= 1 {
		return &ValidationError{Path: "physics.friction", Err: fmt.Errorf("friction must be in (0, 1)")}
	}
	if p.Restitution > 0 || p.Restitution <= -1 {
		return &ValidationError{Path: "physics.restitution", Err: fmt.Errorf("restitution must be in (-1, 0]")}
	}
	if p.MinVelocity <= 0 {
		return &ValidationError{Path: "physics.min_velocity", Err: fmt.Errorf("min_velocity must be > 0")}
	}
	if p.BaselineFPS <= 0 {
		return &ValidationError{Path: "physics.baseline_fps", Err: fmt.Errorf("baseline_fps must be > 0")}
	}
	if p.FrameMs <= 0 {
		return &ValidationError{Path: "physics.frame_ms", Err: fmt.Errorf("frame_ms must be > 0")}
	}

	if c.Boot.DurationMs < 0 || c.Boot.FadeMs < 0 {
		return &ValidationError{Path: "boot", Err: fmt.Errorf("duration_ms and fade_ms must be >= 0")}
	}
	if c.DoubleClickMs <= 0 {
		return &ValidationError{Path: "double_click_ms", Err: fmt.Errorf("double_click_ms must be > 0")}
	}

	if len(c.Icons) == 0 {
		return &ValidationError{Path: "icons", Err: fmt.Errorf("icons must not be empty")}
	}
	seen := make(map[string]struct{}, len(c.Icons))
	for i, icon := range c.Icons {
		path := fmt.Sprintf("icons[%d]", i)
		if strings.TrimSpace(icon.ID) == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("id is required")}
		}
		if _, dup := seen[icon.ID]; dup {
			return &ValidationError{Path: path, Err: fmt.Errorf("duplicate icon id %q", icon.ID)}
		}
		seen[icon.ID] = struct{}{}
		if icon.Column < 0 || icon.Row < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("column and row must be >= 0")}
		}
		if icon.Window.Width.IsAuto() {
			return &ValidationError{Path: path + ".window.width", Err: fmt.Errorf("width cannot be auto")}
		}
		if icon.Window.Top.IsAuto() || icon.Window.Left.IsAuto() {
			return &ValidationError{Path: path + ".window", Err: fmt.Errorf("top and left cannot be auto")}
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}

	if c.GitHub.Limit < 0 || c.GitHub.TimeoutSeconds < 0 {
		return &ValidationError{Path: "github", Err: fmt.Errorf("limit and timeout_seconds must be >= 0")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}

	return nil
}

func (c *Config) validationWarnings() []string {
	var warnings []string
	for _, icon := range c.Icons {
		if strings.TrimSpace(icon.Window.Content) == "" && strings.TrimSpace(icon.Window.Fallback) == "" {
			warnings = append(warnings, fmt.Sprintf("icon %q has neither window.content nor window.fallback; its window will be empty", icon.ID))
		}
	}
	if c.GitHub.Username == "" {
		warnings = append(warnings, "github.username is not set; the Projects panel will show a configuration hint")
	}
	return warnings
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration as YAML to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
