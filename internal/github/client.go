// Package github fetches a user's pinned repositories for the Projects
// panel.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	DefaultEndpoint = "https://api.github.com/graphql"
	DefaultLimit    = 6
	NoDescription   = "No description available"
)

// ErrRateLimited is returned when GitHub refuses the request for quota
// reasons. A token raises the limit.
var ErrRateLimited = errors.New("GitHub rate limit exceeded; set a token to raise the limit")

// Language is a repository language with its display color.
type Language struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Repo is one pinned repository as shown in the Projects panel.
type Repo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	Stars       int        `json:"stars"`
	Forks       int        `json:"forks"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Languages   []Language `json:"languages"`
	Topics      []string   `json:"topics"`
}

// Options configures a Client.
type Options struct {
	Username string
	Token    string
	Endpoint string
	Exclude  string
	Limit    int
	Timeout  time.Duration
}

// Client queries the GitHub GraphQL API.
type Client struct {
	opts Options
	http *http.Client
}

// NewClient creates a client. With a token, requests carry it as a bearer
// credential.
func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	base := &http.Client{Timeout: opts.Timeout}
	httpClient := base
	if token := strings.TrimSpace(opts.Token); token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		httpClient.Timeout = opts.Timeout
	}
	return &Client{opts: opts, http: httpClient}
}

const pinnedQuery = `query($login: String!, $first: Int!) {
  user(login: $login) {
    pinnedItems(first: $first, types: REPOSITORY) {
      nodes {
        ... on Repository {
          name
          description
          url
          stargazerCount
          forkCount
          updatedAt
          languages(first: 5) { nodes { name color } }
          repositoryTopics(first: 5) { nodes { topic { name } } }
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		User *struct {
			PinnedItems struct {
				Nodes []repoNode `json:"nodes"`
			} `json:"pinnedItems"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Message string `json:"message"`
}

type repoNode struct {
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	URL            string    `json:"url"`
	StargazerCount int       `json:"stargazerCount"`
	ForkCount      int       `json:"forkCount"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Languages      struct {
		Nodes []Language `json:"nodes"`
	} `json:"languages"`
	RepositoryTopics struct {
		Nodes []struct {
			Topic struct {
				Name string `json:"name"`
			} `json:"topic"`
		} `json:"nodes"`
	} `json:"repositoryTopics"`
}

// Pinned returns the user's pinned repositories, minus the excluded one.
func (c *Client) Pinned(ctx context.Context) ([]Repo, error) {
	if c.opts.Username == "" {
		return nil, fmt.Errorf("github username is not configured")
	}

	body, err := json.Marshal(graphQLRequest{
		Query:     pinnedQuery,
		Variables: map[string]any{"login": c.opts.Username, "first": c.opts.Limit},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query GitHub: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read GitHub response: %w", err)
	}

	var out graphQLResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode == http.StatusForbidden || strings.Contains(strings.ToLower(string(raw)), "rate limit") {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("GitHub returned HTTP %d", resp.StatusCode)
	}

	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			if strings.Contains(strings.ToLower(e.Message), "rate limit") {
				return nil, ErrRateLimited
			}
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("GitHub query failed: %s", strings.Join(msgs, ", "))
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusForbidden {
			return nil, ErrRateLimited
		}
		if out.Message != "" {
			return nil, fmt.Errorf("GitHub returned HTTP %d: %s", resp.StatusCode, out.Message)
		}
		return nil, fmt.Errorf("GitHub returned HTTP %d", resp.StatusCode)
	}

	if out.Data.User == nil {
		return nil, nil
	}
	repos := make([]Repo, 0, len(out.Data.User.PinnedItems.Nodes))
	for _, n := range out.Data.User.PinnedItems.Nodes {
		if n.Name == "" || strings.EqualFold(n.Name, c.opts.Exclude) {
			continue
		}
		repos = append(repos, n.repo())
	}
	return repos, nil
}

func (n repoNode) repo() Repo {
	r := Repo{
		Name:        n.Name,
		Description: NoDescription,
		URL:         n.URL,
		Stars:       n.StargazerCount,
		Forks:       n.ForkCount,
		UpdatedAt:   n.UpdatedAt,
		Languages:   n.Languages.Nodes,
	}
	if n.Description != nil && strings.TrimSpace(*n.Description) != "" {
		r.Description = *n.Description
	}
	for _, t := range n.RepositoryTopics.Nodes {
		r.Topics = append(r.Topics, t.Topic.Name)
	}
	return r
}
