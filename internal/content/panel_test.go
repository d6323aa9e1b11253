package content

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/github"
)

func plain(s string) string { return ansi.Strip(s) }

func TestLibrary_Lookup(t *testing.T) {
	lib := NewLibrary(LibraryOptions{Content: config.ContentConfig{Name: "Ada"}})
	tests := []struct {
		key  string
		want bool
	}{
		{"About", true},
		{"projects", true},
		{" CONTACT ", true},
		{"Skills", true},
		{"Games", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := lib.Lookup(tt.key)
			if ok != tt.want {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.key, ok, tt.want)
			}
			if ok {
				if _, isPanel := got.(Panel); !isPanel {
					t.Fatalf("Lookup(%q) returned %T, not a Panel", tt.key, got)
				}
			}
		})
	}

	a, _ := lib.Lookup("About")
	b, _ := lib.Lookup("About")
	if a == b {
		t.Fatalf("expected a fresh panel per lookup")
	}
}

func TestAbout_RendersSections(t *testing.T) {
	p := NewAbout("Ada", []config.AboutSection{
		{Heading: "Profile", Paragraphs: []string{"Builds analytical engines."}},
		{Heading: "Interests", Items: []string{"Poetry", "Mathematics"}},
	}, false)

	view := plain(p.View(40, p.Height(40)))
	for _, want := range []string{"Ada", "Profile", "Builds analytical engines.", "• Poetry", "• Mathematics"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	// name, blank, heading, paragraph, blank, heading, 2 items
	if h := p.Height(40); h != 8 {
		t.Fatalf("Height(40) = %d, want 8", h)
	}
}

func TestDocument_ViewIsExactlySized(t *testing.T) {
	p := NewText("one two three four five six seven eight nine ten", false)
	for _, size := range [][2]int{{10, 3}, {30, 8}, {5, 1}} {
		out := p.View(size[0], size[1])
		if h := lipgloss.Height(out); h != size[1] {
			t.Fatalf("View(%d,%d) height = %d", size[0], size[1], h)
		}
		if w := lipgloss.Width(out); w != size[0] {
			t.Fatalf("View(%d,%d) width = %d", size[0], size[1], w)
		}
	}
	if p.View(0, 5) != "" {
		t.Fatalf("zero width should render nothing")
	}
}

func TestDocument_RevealTicks(t *testing.T) {
	p := NewText("hello world", true)
	d := p.(*document)
	if cmd := p.Init(); cmd == nil {
		t.Fatalf("animated text should schedule a tick")
	}
	if got := strings.TrimSpace(plain(p.View(20, 1))); got != "" {
		t.Fatalf("expected hidden text before the first tick, got %q", got)
	}

	t0 := time.Unix(100, 0)
	if _, cmd := p.Update(RevealTickMsg{ID: d.id, Time: t0}); cmd == nil {
		t.Fatalf("expected another tick while letters are hidden")
	}
	_, cmd := p.Update(RevealTickMsg{ID: d.id, Time: t0.Add(MaxRevealDelay)})
	if cmd != nil {
		t.Fatalf("expected ticking to stop once every letter shows")
	}
	if got := strings.TrimSpace(plain(p.View(20, 1))); got != "hello world" {
		t.Fatalf("view = %q", got)
	}
}

func TestDocument_IgnoresOtherPanelsTicks(t *testing.T) {
	p := NewText("hidden", true)
	d := p.(*document)
	p.Update(RevealTickMsg{ID: d.id + 1000, Time: time.Unix(1, 0)})
	p.Update(RevealTickMsg{ID: d.id + 1000, Time: time.Unix(5, 0)})
	if d.reveal.r.Done() {
		t.Fatalf("another panel's ticks must not advance this reveal")
	}
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !d.reveal.r.Done() {
		t.Fatalf("enter should skip the reveal")
	}
}

func TestSkills_Empty(t *testing.T) {
	p := NewSkills(nil, false)
	if !strings.Contains(plain(p.View(30, 2)), "No skills listed.") {
		t.Fatalf("expected empty-state text")
	}
}

func TestInbox_AppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "inbox.jsonl")
	inbox := NewInbox(path)
	for _, name := range []string{"Ada", "Grace"} {
		if err := inbox.Append(Message{Time: time.Unix(1, 0).UTC(), Name: name, Email: "x@y.z", Message: "hi"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var msg Message
	if err := json.Unmarshal([]byte(lines[1]), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Name != "Grace" {
		t.Fatalf("second message name = %q", msg.Name)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("perm = %v, want 0600", info.Mode().Perm())
	}

	var nilInbox *Inbox
	if err := nilInbox.Append(Message{}); err == nil {
		t.Fatalf("expected an error without an inbox")
	}
}

func TestContact_ComposeAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inbox.jsonl")
	c := NewContact(config.ContactConfig{Email: "me@example.com"}, NewInbox(path), false)
	c.now = func() time.Time { return time.Unix(10, 0) }

	if !strings.Contains(plain(c.View(50, c.Height(50))), "Email: me@example.com") {
		t.Fatalf("expected contact details in view")
	}
	c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !c.Capturing() {
		t.Fatalf("enter should open the message form")
	}
	c.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if c.Capturing() {
		t.Fatalf("esc should close the form")
	}
	if !strings.Contains(plain(c.View(50, c.Height(50))), "Message discarded.") {
		t.Fatalf("expected discard notice")
	}

	c.fName, c.fEmail, c.fMessage = " Ada ", "ada@example.com", "Hello there"
	msg := c.submit()()
	c.Update(msg)
	if !strings.Contains(plain(c.View(50, c.Height(50))), "Thanks!") {
		t.Fatalf("expected thank-you status after saving")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read inbox: %v", err)
	}
	if !strings.Contains(string(data), `"name":"Ada"`) {
		t.Fatalf("inbox = %s", data)
	}
}

func TestContact_WithoutInboxHasNoForm(t *testing.T) {
	c := NewContact(config.ContactConfig{Email: "me@example.com"}, nil, false)
	c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if c.Capturing() {
		t.Fatalf("form must not open without an inbox")
	}
	if strings.Contains(plain(c.View(50, 6)), "leave a message") {
		t.Fatalf("hint should be hidden without an inbox")
	}
}

func TestEmailValidation(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"a@b", true},
		{" someone@example.com ", true},
		{"", false},
		{"@example.com", false},
		{"someone@", false},
		{"plain", false},
	}
	for _, tt := range tests {
		if err := validEmail(tt.in); (err == nil) != tt.ok {
			t.Fatalf("validEmail(%q) = %v, want ok=%v", tt.in, err, tt.ok)
		}
	}
}

type fakeRepos struct {
	repos []github.Repo
	err   error
	calls int
}

func (f *fakeRepos) Pinned(ctx context.Context) ([]github.Repo, error) {
	f.calls++
	return f.repos, f.err
}

func TestProjects_LoadsRepos(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	src := &fakeRepos{repos: []github.Repo{
		{Name: "termdesk", Description: "A desktop in a terminal", URL: "https://github.com/x/termdesk", Stars: 1234, UpdatedAt: now.Add(-72 * time.Hour)},
		{Name: "other", Description: github.NoDescription},
	}}
	p := NewProjects(src, time.Second)
	p.now = func() time.Time { return now }

	if p.Init() == nil {
		t.Fatalf("expected a fetch command")
	}
	if !strings.Contains(plain(p.View(60, 3)), "Loading projects") {
		t.Fatalf("expected loading state")
	}

	msg := p.fetch()()
	p.Update(msg)
	if src.calls != 1 {
		t.Fatalf("calls = %d", src.calls)
	}
	repo, ok := p.Selected()
	if !ok || repo.Name != "termdesk" {
		t.Fatalf("selected = %+v, %v", repo, ok)
	}
	item := repoItem{repo: src.repos[0], now: now}
	if !strings.Contains(item.Title(), "1,234") {
		t.Fatalf("title = %q", item.Title())
	}
	if !strings.Contains(item.Description(), "3 days ago") {
		t.Fatalf("description = %q", item.Description())
	}
	view := plain(p.View(60, 12))
	if !strings.Contains(view, "termdesk") || !strings.Contains(view, "https://github.com/x/termdesk") {
		t.Fatalf("view missing repo details:\n%s", view)
	}
}

func TestProjects_ErrorAndRetry(t *testing.T) {
	src := &fakeRepos{err: github.ErrRateLimited}
	p := NewProjects(src, time.Second)
	p.Update(p.fetch()())

	view := plain(p.View(80, 5))
	if !strings.Contains(view, "rate limit") || !strings.Contains(view, "Press r to retry.") {
		t.Fatalf("unexpected error view:\n%s", view)
	}
	if _, ok := p.Selected(); ok {
		t.Fatalf("nothing is selectable in the error state")
	}

	src.err = errors.New("boom")
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil || p.state != projectsLoading {
		t.Fatalf("r should restart loading")
	}
}

func TestProjects_IgnoresOtherPanelsResults(t *testing.T) {
	p := NewProjects(&fakeRepos{}, time.Second)
	p.Update(projectsLoadedMsg{id: p.id + 1, err: errors.New("not mine")})
	if p.state != projectsLoading {
		t.Fatalf("state changed by a foreign result: %v", p.state)
	}
}

func TestProjects_Unconfigured(t *testing.T) {
	p := NewProjects(nil, 0)
	if p.Init() != nil {
		t.Fatalf("unconfigured panel must not fetch")
	}
	if !strings.Contains(plain(p.View(80, 3)), "github.username") {
		t.Fatalf("expected setup hint")
	}
}
