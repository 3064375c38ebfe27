// Package figmaapi is a minimal client for the Figma REST API: file
// contents and rendered image URLs.
package figmaapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.figma.com/v1"

var (
	ErrNoToken      = errors.New("no Figma token configured; set FIGMA_TOKEN or add it to .figkitrc")
	ErrUnauthorized = errors.New("figma api: unauthorized (401), check your FIGMA_TOKEN")
	ErrForbidden    = errors.New("figma api: forbidden (403), you may not have access to this file")
	ErrNotFound     = errors.New("figma api: not found (404), check the file key")
	ErrRateLimited  = errors.New("figma api: rate limit exceeded")
)

// Client talks to the Figma REST API.
type Client struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
	// MaxRetries bounds retries on 429. Backoff doubles from RetryBase.
	MaxRetries int
	RetryBase  time.Duration
}

// NewClient creates a client for the public API.
func NewClient(token string) *Client {
	return &Client{
		Token:      token,
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		MaxRetries: 3,
		RetryBase:  time.Second,
	}
}

// GetFile returns the raw JSON of a file (GET /files/:key).
func (c *Client) GetFile(ctx context.Context, fileKey string) ([]byte, error) {
	if fileKey == "" {
		return nil, errors.New("figma api: empty file key")
	}
	return c.do(ctx, c.endpoint("files", url.PathEscape(fileKey)))
}

// ImageURLs renders nodes and returns their URLs keyed by node ID. Nodes
// Figma could not render come back as null and are omitted.
func (c *Client) ImageURLs(ctx context.Context, fileKey string, ids []string, format string, scale float64) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	if format == "" {
		format = "png"
	}
	if scale == 0 {
		scale = 2
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("format", format)
	q.Set("scale", fmt.Sprintf("%g", scale))
	body, err := c.do(ctx, c.endpoint("images", url.PathEscape(fileKey))+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Images map[string]*string `json:"images"`
		Err    *string            `json:"err"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing image urls: %w", err)
	}
	if resp.Err != nil && *resp.Err != "" {
		return nil, fmt.Errorf("figma image api error: %s", *resp.Err)
	}

	out := make(map[string]string, len(resp.Images))
	for id, u := range resp.Images {
		if u != nil && *u != "" {
			out[id] = *u
		}
	}
	return out, nil
}

func (c *Client) endpoint(parts ...string) string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(parts, "/")
}

// do executes an authenticated GET, retrying on 429.
func (c *Client) do(ctx context.Context, reqURL string) ([]byte, error) {
	if c.Token == "" {
		return nil, ErrNoToken
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("X-FIGMA-TOKEN", c.Token)

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("figma api request failed: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			return body, nil
		case http.StatusTooManyRequests:
			if attempt >= c.MaxRetries {
				return nil, fmt.Errorf("%w after %d retries", ErrRateLimited, attempt)
			}
			backoff := time.Duration(math.Pow(2, float64(attempt))) * c.RetryBase
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		case http.StatusUnauthorized:
			return nil, ErrUnauthorized
		case http.StatusForbidden:
			return nil, ErrForbidden
		case http.StatusNotFound:
			return nil, ErrNotFound
		default:
			return nil, fmt.Errorf("figma api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
	}
}

// ParseFileURL extracts the file key and optional node ID from a figma.com
// URL such as https://www.figma.com/design/<key>/<name>?node-id=1-2.
func ParseFileURL(rawURL string) (fileKey, nodeID string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid figma url: %w", err)
	}
	if u.Host == "" {
		u, err = url.Parse("https://" + rawURL)
		if err != nil {
			return "", "", fmt.Errorf("invalid figma url: %w", err)
		}
	}
	if !strings.HasSuffix(u.Hostname(), "figma.com") {
		return "", "", fmt.Errorf("not a figma url: host is %s", u.Hostname())
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return "", "", errors.New("invalid figma url: expected figma.com/design/<fileKey>/...")
	}
	switch parts[0] {
	case "design", "file", "proto", "board":
	default:
		return "", "", fmt.Errorf("unsupported figma url type: %s (expected design, file, proto or board)", parts[0])
	}

	fileKey = parts[1]
	if len(parts) >= 4 && parts[2] == "branch" {
		fileKey = parts[3]
	}
	if id := u.Query().Get("node-id"); id != "" {
		nodeID = strings.ReplaceAll(id, "-", ":")
	}
	return fileKey, nodeID, nil
}
