package content

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/github"
)

// Content keys understood by the library.
const (
	KeyAbout    = "about"
	KeyProjects = "projects"
	KeyContact  = "contact"
	KeySkills   = "skills"
)

// Library builds a fresh panel for every window that asks for one.
type Library struct {
	cfg     config.ContentConfig
	repos   RepoSource
	timeout time.Duration
	inbox   *Inbox
	logger  *slog.Logger
}

// LibraryOptions configures a Library.
type LibraryOptions struct {
	Content config.ContentConfig
	// Repos backs the Projects panel. Nil shows a setup hint.
	Repos   RepoSource
	Timeout time.Duration
	Inbox   *Inbox
	Logger  *slog.Logger
}

// NewLibrary creates a content library.
func NewLibrary(opts LibraryOptions) *Library {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Library{
		cfg:     opts.Content,
		repos:   opts.Repos,
		timeout: opts.Timeout,
		inbox:   opts.Inbox,
		logger:  logger,
	}
}

// LibraryFromConfig wires the library to the GitHub client and inbox
// described by cfg. dataDir holds the default inbox.
func LibraryFromConfig(cfg *config.Config, dataDir string, logger *slog.Logger) *Library {
	opts := LibraryOptions{
		Content: cfg.Content,
		Timeout: time.Duration(cfg.GitHub.TimeoutSeconds) * time.Second,
		Logger:  logger,
	}
	if cfg.GitHub.Username != "" {
		token := ""
		if cfg.GitHub.TokenEnv != "" {
			token = os.Getenv(cfg.GitHub.TokenEnv)
		}
		opts.Repos = github.NewClient(github.Options{
			Username: cfg.GitHub.Username,
			Token:    token,
			Endpoint: cfg.GitHub.Endpoint,
			Exclude:  cfg.GitHub.Exclude,
			Limit:    cfg.GitHub.Limit,
			Timeout:  opts.Timeout,
		})
	}
	inbox := cfg.Content.Contact.Inbox
	if inbox == "" && dataDir != "" {
		inbox = filepath.Join(dataDir, "inbox.jsonl")
	}
	if inbox != "" {
		opts.Inbox = NewInbox(inbox)
	}
	return NewLibrary(opts)
}

// Lookup returns a new panel for key. Keys are matched case-insensitively.
func (l *Library) Lookup(key string) (any, bool) {
	var p Panel
	switch strings.ToLower(strings.TrimSpace(key)) {
	case KeyAbout:
		p = NewAbout(l.cfg.Name, l.cfg.About, l.cfg.Reveal)
	case KeySkills:
		p = NewSkills(l.cfg.Skills, l.cfg.Reveal)
	case KeyContact:
		p = NewContact(l.cfg.Contact, l.inbox, l.cfg.Reveal)
	case KeyProjects:
		p = NewProjects(l.repos, l.timeout)
	default:
		return nil, false
	}
	l.logger.Debug("content panel created", "key", key)
	return p, true
}
