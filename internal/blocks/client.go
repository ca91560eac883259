package blocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/seliseblocks/blocks-mcp/internal/session"
)

const (
	// DefaultBaseURL is the public SELISE Blocks API endpoint.
	DefaultBaseURL = "https://api.seliseblocks.com"

	// DefaultBlocksKey identifies the cloud console application.
	DefaultBlocksKey = "d7e5554c758541db8a18694b64ef423d"

	consoleOrigin  = "https://cloud.seliseblocks.com"
	requestTimeout = 30 * time.Second

	userAgent = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Mobile Safari/537.36"
)

// Config holds the client settings. Zero values fall back to the public
// endpoint and console key.
type Config struct {
	BaseURL    string
	BlocksKey  string
	HTTPClient *http.Client
}

// Client talks to the SELISE Blocks API.
type Client struct {
	baseURL   string
	blocksKey string
	http      *http.Client
}

// New creates a Blocks API client.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	blocksKey := cfg.BlocksKey
	if blocksKey == "" {
		blocksKey = DefaultBlocksKey
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL:   baseURL,
		blocksKey: blocksKey,
		http:      httpClient,
	}
}

// BaseURL returns the configured API endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Result is a decoded JSON object response. The Blocks services are not
// consistent about their success flag, so both spellings are checked.
type Result map[string]any

// Succeeded reports the vendor success flag. Responses without a flag count
// as successful; a non-2xx status would have failed the call earlier.
func (r Result) Succeeded() bool {
	for _, key := range []string{"isSuccess", "success"} {
		if v, ok := r[key].(bool); ok {
			return v
		}
	}
	return true
}

// Errors returns the vendor error detail, if any.
func (r Result) Errors() any {
	return r["errors"]
}

// browserHeaders returns the header set the cloud console sends. The API
// rejects requests without the sec-* and x-blocks-key headers.
func (c *Client) browserHeaders() http.Header {
	h := http.Header{}
	h.Set("accept", "application/json")
	h.Set("accept-language", "en-US,en;q=0.9")
	h.Set("content-type", "application/json")
	h.Set("dnt", "1")
	h.Set("Origin", consoleOrigin)
	h.Set("priority", "u=1, i")
	h.Set("Referer", consoleOrigin+"/")
	h.Set("sec-ch-ua", `"Chromium";v="139", "Not;A=Brand";v="99"`)
	h.Set("sec-ch-ua-mobile", "?1")
	h.Set("sec-ch-ua-platform", `"Android"`)
	h.Set("sec-fetch-dest", "empty")
	h.Set("sec-fetch-mode", "cors")
	h.Set("sec-fetch-site", "same-site")
	h.Set("user-agent", userAgent)
	h.Set("x-blocks-key", c.blocksKey)
	return h
}

// do executes one API call. auth may be nil for unauthenticated endpoints.
// body (if non-nil) is sent as JSON; out (if non-nil) receives the decoded
// response.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, auth *session.AuthContext, body, out any) error {
	raw, err := c.doRaw(ctx, op, method, path, query, auth, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

// doRaw is the transport layer shared by do and the endpoints that need the
// untouched body (schema creation sometimes answers with plain text).
func (c *Client) doRaw(ctx context.Context, op, method, path string, query url.Values, auth *session.AuthContext, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header = c.browserHeaders()
	req.Header.Set("x-request-id", uuid.NewString())
	if auth != nil {
		req.Header.Set("Authorization", auth.AuthorizationValue())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// postForm sends a form-encoded request. Only the token endpoint uses this;
// it rejects the JSON content type the other endpoints require.
func (c *Client) postForm(ctx context.Context, op, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header = c.browserHeaders()
	req.Header.Set("content-type", "application/x-www-form-urlencoded")
	req.Header.Set("x-request-id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(data)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s: failed to decode response: %w", op, err)
		}
	}
	return nil
}
