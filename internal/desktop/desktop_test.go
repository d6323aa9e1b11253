package desktop

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/drag"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/sched"
)

type stubContent map[string]any

func (s stubContent) Lookup(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

type testDesktop struct {
	*Desktop
	now time.Time
}

func newTestDesktop(t *testing.T, mutate func(*config.Config)) *testDesktop {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	td := &testDesktop{now: time.Unix(1_700_000_000, 0)}
	opts := OptionsFromConfig(cfg)
	opts.Content = stubContent{"About": "about panel", "Projects": "projects panel"}
	td.Desktop = New(opts, sched.New(func() time.Time { return td.now }))
	return td
}

func (td *testDesktop) advance(d time.Duration) {
	td.now = td.now.Add(d)
	td.Tick(td.now)
}

func TestNew_MountsIconsAtReferenceGrid(t *testing.T) {
	d := newTestDesktop(t, nil)
	want := []geom.Point{{X: 24, Y: 24}, {X: 24, Y: 136}, {X: 24, Y: 248}, {X: 24, Y: 360}}
	got := d.Icons()
	if len(got) != len(want) {
		t.Fatalf("icons = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Position != want[i] {
			t.Fatalf("icon %s at %+v, want %+v", got[i].ID, got[i].Position, want[i])
		}
	}
	if _, err := uuid.Parse(d.Session()); err != nil {
		t.Fatalf("session %q is not a uuid: %v", d.Session(), err)
	}
}

func TestZOrderScenario(t *testing.T) {
	d := newTestDesktop(t, nil)

	about, ok := d.ActivateIcon("about")
	if !ok || about.ZIndex != 1 {
		t.Fatalf("about z=%d ok=%v, want 1", about.ZIndex, ok)
	}
	projects, _ := d.ActivateIcon("projects")
	if projects.ZIndex != 2 {
		t.Fatalf("projects z=%d, want 2", projects.ZIndex)
	}

	title := geom.Point{X: about.Geometry.Left + 10, Y: about.Geometry.Top + 4}
	if !d.PressWindow("about", title) {
		t.Fatalf("press on about title bar failed")
	}
	d.ReleaseWindow()

	about, _ = d.Window("about")
	projects, _ = d.Window("projects")
	if about.ZIndex != 3 || projects.ZIndex != 2 {
		t.Fatalf("z-indices about=%d projects=%d, want 3 and 2", about.ZIndex, projects.ZIndex)
	}
}

func TestActivateIcon_ResolvesGeometryAgainstViewport(t *testing.T) {
	d := newTestDesktop(t, nil)
	d.Resize(drag.Viewport{Width: 1000, Height: 800})

	w, _ := d.ActivateIcon("about")
	if w.Geometry.Top != 64 || w.Geometry.Left != 180 {
		t.Fatalf("top/left = %v/%v, want 64/180", w.Geometry.Top, w.Geometry.Left)
	}
	if w.Geometry.Width != geom.Px(450) {
		t.Fatalf("width = %v, want 450px", w.Geometry.Width)
	}
	if !w.Geometry.Height.IsAuto() {
		t.Fatalf("height = %v, want auto", w.Geometry.Height)
	}
	if w.Content != "about panel" {
		t.Fatalf("content = %v", w.Content)
	}

	p, _ := d.ActivateIcon("projects")
	if p.Geometry.Height != geom.Px(560) {
		t.Fatalf("projects height = %v, want 560px", p.Geometry.Height)
	}
	if limit := d.MaxHeight(w); limit != 800-32-64-16 {
		t.Fatalf("max height = %v", limit)
	}
}

func TestActivateIcon_ReopenKeepsGeometry(t *testing.T) {
	d := newTestDesktop(t, nil)
	first, _ := d.ActivateIcon("about")
	d.ActivateIcon("projects")

	d.Resize(drag.Viewport{Width: 800, Height: 600})
	again, _ := d.ActivateIcon("about")
	if again.Geometry != first.Geometry {
		t.Fatalf("geometry changed on re-open: %+v -> %+v", first.Geometry, again.Geometry)
	}
	if top := d.Windows(); top[len(top)-1].ID != "about" {
		t.Fatalf("re-open should focus about")
	}
}

func TestActivateIcon_UnknownContentUsesFallback(t *testing.T) {
	d := newTestDesktop(t, func(cfg *config.Config) {
		cfg.Icons[2].Window.Fallback = "Write to me"
	})
	w, ok := d.ActivateIcon("contact")
	if !ok {
		t.Fatalf("activate failed")
	}
	if w.Content != FallbackText("Write to me") {
		t.Fatalf("content = %#v, want fallback text", w.Content)
	}
}

func TestActivateIcon_UnknownIcon(t *testing.T) {
	d := newTestDesktop(t, nil)
	if _, ok := d.ActivateIcon("ghost"); ok {
		t.Fatalf("unknown icon should be a no-op")
	}
	if len(d.Windows()) != 0 {
		t.Fatalf("unknown icon opened a window")
	}
}

func TestSelection(t *testing.T) {
	d := newTestDesktop(t, nil)
	d.SelectIcon("skills")
	if s := d.Snapshot(); s.Selected != "skills" {
		t.Fatalf("selected = %q", s.Selected)
	}
	d.ClickBackground()
	if s := d.Snapshot(); s.Selected != "" {
		t.Fatalf("background click kept selection %q", s.Selected)
	}

	d.SelectIcon("about")
	d.ActivateIcon("about")
	if s := d.Snapshot(); s.Selected != "" {
		t.Fatalf("activation kept selection %q", s.Selected)
	}
}

func TestDropIcon_CollisionScenario(t *testing.T) {
	d := newTestDesktop(t, func(cfg *config.Config) {
		cfg.Icons = cfg.Icons[:2]
	})
	got, ok := d.DropIcon("projects", geom.Point{X: 24, Y: 30})
	if !ok {
		t.Fatalf("drop failed")
	}
	if got == (geom.Point{X: 24, Y: 30}) {
		t.Fatalf("drop committed the colliding point")
	}
	if got != d.Snapshot().Grid.Snap(got) {
		t.Fatalf("drop result %+v is not snapped", got)
	}
	about := d.Icons()[0].Position
	if geom.Overlaps(got, about, d.IconSize()) {
		t.Fatalf("drop result %+v overlaps about", got)
	}
}

func TestDropIcon_SnapsFreeDrop(t *testing.T) {
	d := newTestDesktop(t, nil)
	got, _ := d.DropIcon("about", geom.Point{X: 530, Y: 300})
	if got != (geom.Point{X: 524, Y: 248}) {
		t.Fatalf("drop = %+v, want (524,248)", got)
	}
}

func TestResize_GridStaysPositiveAndMonotonic(t *testing.T) {
	cfg := config.DefaultConfig()
	policy := OptionsFromConfig(cfg).Grid

	prev := policy.For(drag.Viewport{})
	for w := 0.0; w <= 4000; w += 50 {
		g := policy.For(drag.Viewport{Width: w, Height: w * 0.625})
		if !g.Valid() {
			t.Fatalf("grid for width %v not positive: %v", w, g)
		}
		if g.CellWidth < prev.CellWidth || g.CellHeight < prev.CellHeight || g.OffsetX < prev.OffsetX {
			t.Fatalf("grid shrank as the viewport grew: %v -> %v", prev, g)
		}
		if g.CellWidth < cfg.Icon.Width || g.CellHeight < cfg.Icon.Height {
			t.Fatalf("cell %v smaller than the icon", g)
		}
		prev = g
	}
}

func TestResize_PreservesIconCells(t *testing.T) {
	d := newTestDesktop(t, nil)
	d.DropIcon("skills", geom.Point{X: 224, Y: 136})

	d.Resize(drag.Viewport{Width: 2880, Height: 1800})
	grid := d.Snapshot().Grid
	if grid.CellWidth != 150 || grid.CellHeight != 168 || grid.OffsetX != 36 {
		t.Fatalf("grid = %v, want max-scale grid", grid)
	}
	for _, icon := range d.Icons() {
		switch icon.ID {
		case "projects":
			if icon.Position != (geom.Point{X: 36, Y: 204}) {
				t.Fatalf("projects at %+v", icon.Position)
			}
		case "skills":
			if icon.Position != (geom.Point{X: 336, Y: 204}) {
				t.Fatalf("skills at %+v", icon.Position)
			}
		}
	}
}

func TestCloseWindow(t *testing.T) {
	d := newTestDesktop(t, nil)
	d.ActivateIcon("about")

	if !d.CloseWindow("about") {
		t.Fatalf("close failed")
	}
	if d.CloseWindow("about") {
		t.Fatalf("second close should be a no-op")
	}
	if w, _ := d.Window("about"); !w.Closing {
		t.Fatalf("window should be closing")
	}
	if !d.Busy() {
		t.Fatalf("close should keep the desktop busy")
	}

	d.advance(300 * time.Millisecond)
	if _, ok := d.Window("about"); ok {
		t.Fatalf("window should be gone")
	}
	if d.Busy() {
		t.Fatalf("nothing should remain scheduled")
	}
}

func TestWindowDrag_ThroughDesktop(t *testing.T) {
	d := newTestDesktop(t, nil)
	w, _ := d.ActivateIcon("about")

	press := geom.Point{X: w.Geometry.Left + 20, Y: w.Geometry.Top + 5}
	d.PressWindow("about", press)
	if s := d.Snapshot(); s.Dragging != "about" {
		t.Fatalf("dragging = %q", s.Dragging)
	}
	d.advance(16 * time.Millisecond)
	d.DragWindow(press)
	d.advance(16 * time.Millisecond)
	d.DragWindow(press.Add(geom.Point{X: 32, Y: 16}))
	d.ReleaseWindow()

	if d.WindowPhase("about") != drag.PhaseSettling {
		t.Fatalf("phase = %v, want settling", d.WindowPhase("about"))
	}
	for i := 0; i < 10_000 && d.Busy(); i++ {
		d.advance(16 * time.Millisecond)
	}
	if d.Busy() {
		t.Fatalf("momentum never settled")
	}
	moved, _ := d.Window("about")
	if moved.Geometry.Left <= w.Geometry.Left+32 {
		t.Fatalf("window did not coast: left %v -> %v", w.Geometry.Left, moved.Geometry.Left)
	}
}

func TestResize_DefaultIconsFitFromMinimumViewport(t *testing.T) {
	cfg := config.DefaultConfig()
	d := newTestDesktop(t, nil)
	floor := cfg.MinViewport
	for h := floor.Height; h <= 1800; h += 16 {
		vp := drag.Viewport{Width: floor.Width, Height: h}
		d.Resize(vp)
		b := d.bounds()
		for _, icon := range d.Icons() {
			p := icon.Position
			if p.X < 0 || p.Y < 0 || p.X+cfg.Icon.Width > b.Width || p.Y+cfg.Icon.Height > b.Height {
				t.Fatalf("icon %s at %+v outside %+v for viewport %+v", icon.ID, p, b, vp)
			}
		}
	}
}
