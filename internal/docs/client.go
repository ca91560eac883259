package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the raw GitHub location of the documentation repo.
	DefaultBaseURL = "https://raw.githubusercontent.com/mustavikhan05/selise-blocks-docs/master/"

	catalogFile  = "topics.json"
	templateFile = "CLAUDE.md"

	requestTimeout = 30 * time.Second
	catalogTTL     = 5 * time.Minute
)

// Client fetches the documentation catalog and topic content.
type Client struct {
	baseURL string
	http    *http.Client

	mu        sync.Mutex
	catalog   *Catalog
	fetchedAt time.Time
}

// NewClient creates a documentation client. An empty baseURL selects the
// public repository.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Catalog returns the topics catalog, served from a short-lived cache.
func (c *Client) Catalog(ctx context.Context) (*Catalog, error) {
	c.mu.Lock()
	if c.catalog != nil && time.Since(c.fetchedAt) < catalogTTL {
		cached := c.catalog
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	data, err := c.fetch(ctx, c.baseURL+catalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documentation catalog: %w", err)
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode documentation catalog: %w", err)
	}
	if catalog.BaseURL == "" {
		catalog.BaseURL = c.baseURL
	}

	c.mu.Lock()
	c.catalog = &catalog
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return &catalog, nil
}

// FetchTopic retrieves the markdown content of one catalog topic.
func (c *Client) FetchTopic(ctx context.Context, catalog *Catalog, topic Topic) (*Document, error) {
	base := catalog.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	data, err := c.fetch(ctx, base+topic.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch topic %s: %w", topic.ID, err)
	}
	return &Document{Topic: topic, Content: string(data)}, nil
}

// FetchAgentTemplate retrieves the CLAUDE.md agent guidance template shipped
// with the documentation.
func (c *Client) FetchAgentTemplate(ctx context.Context) (string, error) {
	data, err := c.fetch(ctx, c.baseURL+templateFile)
	if err != nil {
		return "", fmt.Errorf("failed to fetch agent template: %w", err)
	}
	return string(data), nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
