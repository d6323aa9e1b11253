package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/1broseidon/termdesk/internal/github"
)

// RepoSource lists the repositories shown in the Projects panel.
type RepoSource interface {
	Pinned(ctx context.Context) ([]github.Repo, error)
}

type projectsState int

const (
	projectsUnconfigured projectsState = iota
	projectsLoading
	projectsLoaded
	projectsFailed
)

// projectsLoadedMsg carries the result of a fetch.
type projectsLoadedMsg struct {
	id    int
	repos []github.Repo
	err   error
}

// repoItem implements list.Item for a repository.
type repoItem struct {
	repo github.Repo
	now  time.Time
}

func (i repoItem) Title() string {
	return fmt.Sprintf("%s  ★ %s", i.repo.Name, humanize.Comma(int64(i.repo.Stars)))
}

func (i repoItem) Description() string {
	parts := []string{i.repo.Description}
	if len(i.repo.Languages) > 0 {
		parts = append(parts, i.repo.Languages[0].Name)
	}
	if !i.repo.UpdatedAt.IsZero() {
		parts = append(parts, "updated "+humanize.RelTime(i.repo.UpdatedAt, i.now, "ago", "from now"))
	}
	return strings.Join(parts, " · ")
}

func (i repoItem) FilterValue() string { return i.repo.Name }

// Projects lists pinned GitHub repositories.
type Projects struct {
	id      int
	source  RepoSource
	timeout time.Duration
	now     func() time.Time

	state   projectsState
	err     error
	spinner spinner.Model
	list    list.Model
}

// NewProjects builds the Projects panel. A nil source shows a setup hint
// instead of fetching.
func NewProjects(source RepoSource, timeout time.Duration) *Projects {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Pinned projects"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	p := &Projects{
		id:      nextID(),
		source:  source,
		timeout: timeout,
		now:     time.Now,
		spinner: sp,
		list:    l,
	}
	if source != nil {
		p.state = projectsLoading
	}
	return p
}

func (p *Projects) fetch() tea.Cmd {
	src, id, timeout := p.source, p.id, p.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		repos, err := src.Pinned(ctx)
		return projectsLoadedMsg{id: id, repos: repos, err: err}
	}
}

func (p *Projects) Init() tea.Cmd {
	if p.state != projectsLoading {
		return nil
	}
	return tea.Batch(p.spinner.Tick, p.fetch())
}

func (p *Projects) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		if msg.id != p.id {
			return p, nil
		}
		if msg.err != nil {
			p.state = projectsFailed
			p.err = msg.err
			return p, nil
		}
		now := p.now()
		items := make([]list.Item, 0, len(msg.repos))
		for _, r := range msg.repos {
			items = append(items, repoItem{repo: r, now: now})
		}
		p.state = projectsLoaded
		p.err = nil
		return p, p.list.SetItems(items)

	case spinner.TickMsg:
		if p.state != projectsLoading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		if msg.String() == "r" && p.state == projectsFailed {
			p.state = projectsLoading
			p.err = nil
			return p, tea.Batch(p.spinner.Tick, p.fetch())
		}
	}

	if p.state == projectsLoaded {
		var cmd tea.Cmd
		p.list, cmd = p.list.Update(msg)
		return p, cmd
	}
	return p, nil
}

// Selected returns the highlighted repository.
func (p *Projects) Selected() (github.Repo, bool) {
	if p.state != projectsLoaded {
		return github.Repo{}, false
	}
	item, ok := p.list.SelectedItem().(repoItem)
	if !ok {
		return github.Repo{}, false
	}
	return item.repo, true
}

func (p *Projects) message(width int) string {
	switch p.state {
	case projectsUnconfigured:
		return subtleStyle.Width(width).Render("Set github.username in the config to list pinned projects.")
	case projectsLoading:
		return p.spinner.View() + " Loading projects..."
	case projectsFailed:
		text := "Could not load projects: " + p.err.Error()
		if errors.Is(p.err, github.ErrRateLimited) {
			text = github.ErrRateLimited.Error()
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			errorStyle.Width(width).Render(text),
			"",
			subtleStyle.Render("Press r to retry."),
		)
	}
	return ""
}

func (p *Projects) Height(width int) int {
	if p.state != projectsLoaded {
		return lipgloss.Height(p.message(width))
	}
	n := len(p.list.Items())
	if n == 0 {
		return 3
	}
	// title block plus two rows per item plus the URL footer
	return 2 + n*2 + 2
}

func (p *Projects) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if p.state != projectsLoaded {
		return fit(p.message(width), width, height)
	}
	if len(p.list.Items()) == 0 {
		return fit(subtleStyle.Render("No pinned repositories."), width, height)
	}
	footer := ""
	if repo, ok := p.Selected(); ok && repo.URL != "" {
		footer = subtleStyle.Render(repo.URL)
	}
	listHeight := height
	if footer != "" && height > 2 {
		listHeight = height - 1
	}
	p.list.SetSize(width, listHeight)
	if listHeight == height {
		return fit(p.list.View(), width, height)
	}
	return fit(lipgloss.JoinVertical(lipgloss.Left, p.list.View(), footer), width, height)
}
