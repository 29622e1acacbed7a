// Package github lists public repositories through the GitHub REST API.
// Results are cached in Redis and concurrent misses for one username share a
// single upstream request.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNotFound indicates GitHub has no user with the requested name.
	ErrNotFound = errors.New("github: user not found")
	// ErrUpstream indicates GitHub answered with an unexpected status.
	ErrUpstream = errors.New("github: unexpected response")
)

const (
	// DefaultBaseURL is the public GitHub API endpoint.
	DefaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "devconnect"
	requestTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20
	cacheKeyPrefix   = "github:repos:"
)

// Repo is the subset of the GitHub repository resource exposed to clients.
type Repo struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	HTMLURL         string    `json:"html_url"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	WatchersCount   int       `json:"watchers_count"`
	ForksCount      int       `json:"forks_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Config controls the client.
type Config struct {
	BaseURL   string
	Token     string
	UserAgent string
	CacheTTL  time.Duration
}

// Client talks to the GitHub API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      *redis.Client
	group      singleflight.Group
	logger     *slog.Logger
}

// NewClient constructs a Client. A nil cache or a zero CacheTTL disables caching.
func NewClient(cfg Config, cache *redis.Client, logger *slog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      cache,
		logger:     logger,
	}
}

// ListRepos returns the five oldest-created public repositories of username.
func (c *Client) ListRepos(ctx context.Context, username string) ([]Repo, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNotFound
	}
	key := cacheKeyPrefix + strings.ToLower(username)

	if repos, ok := c.cached(ctx, key); ok {
		return repos, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// Detached so one caller's cancellation does not fail the others.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requestTimeout)
		defer cancel()
		repos, err := c.fetch(fetchCtx, username)
		if err != nil {
			return nil, err
		}
		c.store(fetchCtx, key, repos)
		return repos, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Repo), nil
	}
}

func (c *Client) fetch(ctx context.Context, username string) ([]Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc", c.cfg.BaseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: list repos: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var repos []Repo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&repos); err != nil {
		return nil, fmt.Errorf("github: decode repos: %w", err)
	}
	if repos == nil {
		repos = []Repo{}
	}
	return repos, nil
}

func (c *Client) cached(ctx context.Context, key string) ([]Repo, bool) {
	if c.cache == nil || c.cfg.CacheTTL <= 0 {
		return nil, false
	}
	data, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("github cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	var repos []Repo
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, false
	}
	return repos, true
}

func (c *Client) store(ctx context.Context, key string, repos []Repo) {
	if c.cache == nil || c.cfg.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(repos)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.cfg.CacheTTL).Err(); err != nil {
		c.logger.Warn("github cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}
