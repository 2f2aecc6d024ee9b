package pkgmeta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultPyPIURL is the base of the PyPI JSON API.
	DefaultPyPIURL     = "https://pypi.org/pypi"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)

// HTTPDoer is the subset of *http.Client used by PyPIClient.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// PyPIOption customizes a PyPIClient.
type PyPIOption func(*PyPIClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) PyPIOption {
	return func(c *PyPIClient) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) PyPIOption {
	return func(c *PyPIClient) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout}
		}
	}
}

// PyPIClient looks up published releases through the PyPI JSON API.
type PyPIClient struct {
	baseURL string
	http    HTTPDoer
}

// NewPyPIClient returns a client rooted at baseURL (DefaultPyPIURL when empty).
func NewPyPIClient(baseURL string, opts ...PyPIOption) *PyPIClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultPyPIURL
	}
	client := &PyPIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type pypiProject struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
}

// Latest returns the newest published version of name.
func (c *PyPIClient) Latest(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("pypi latest: package name required")
	}
	endpoint := c.baseURL + "/" + url.PathEscape(name) + "/json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("pypi latest: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pypi latest %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("pypi latest %s: http %d: %s", name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var project pypiProject
	if err := json.NewDecoder(resp.Body).Decode(&project); err != nil {
		return "", fmt.Errorf("pypi latest %s: decode response: %w", name, err)
	}
	version := strings.TrimSpace(project.Info.Version)
	if version == "" {
		return "", fmt.Errorf("pypi latest %s: response has no version", name)
	}
	return version, nil
}
