// Package devdocs is the HTTP client for the upstream documentation source.
// It fetches the per-version entry index (index.json) and raw page markup.
package devdocs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/yriveiro/opencode-python-docs/internal/apperr"
	"github.com/yriveiro/opencode-python-docs/internal/models"
)

// DefaultFetchTimeout bounds every upstream request. A request that
// exceeds it is cancelled and surfaces as a fetch error.
const DefaultFetchTimeout = 30 * time.Second

// DefaultRequestsPerSecond is the upstream request budget.
const DefaultRequestsPerSecond = 4

// Client fetches documentation data from a devdocs-style source.
type Client struct {
	baseURL string
	product string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit caps outgoing requests per second. Zero or negative
// means unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		limit := rate.Limit(rps)
		if rps <= 0 {
			limit = rate.Inf
		}
		c.limiter = rate.NewLimiter(limit, 1)
	}
}

// NewClient creates a Client for one product slug (e.g. "python") against
// the given base URL.
func NewClient(baseURL, product string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		product: product,
		timeout: DefaultFetchTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = &http.Client{
		Timeout: c.timeout,
	}
	return c
}

// FetchIndex retrieves and parses the entry index for a version.
func (c *Client) FetchIndex(ctx context.Context, version string) (*models.DocIndex, error) {
	body, err := c.get(ctx, c.indexURL(version))
	if err != nil {
		return nil, err
	}
	var index models.DocIndex
	if err := json.Unmarshal(body, &index); err != nil {
		return nil, fmt.Errorf("devdocs: parse index for %s: %w", c.slug(version), err)
	}
	return &index, nil
}

// FetchPage retrieves the raw markup of one document. The path must be the
// normalized document path, without the .html suffix.
func (c *Client) FetchPage(ctx context.Context, version, path string) (string, error) {
	body, err := c.get(ctx, c.pageURL(version, path))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("devdocs: rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("devdocs: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("devdocs: GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("devdocs: GET %s: %w", url, apperr.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("devdocs: GET %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("devdocs: read body: %w", err)
	}
	return body, nil
}

func (c *Client) slug(version string) string {
	if version == "" {
		return c.product
	}
	return c.product + "~" + version
}

func (c *Client) indexURL(version string) string {
	return c.baseURL + "/" + c.slug(version) + "/index.json"
}

func (c *Client) pageURL(version, path string) string {
	return c.baseURL + "/" + c.slug(version) + "/" + path + ".html"
}
