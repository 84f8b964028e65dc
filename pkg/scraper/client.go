package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public Langara registration host
const DefaultBaseURL = "https://swing.langara.bc.ca"

const (
	subjectSearchPath = "/prod/hzgkfcls.P_Sel_Crse_Search"
	courseSearchPath  = "/prod/hzgkfcls.P_GetCrse"
	attributesPath    = "/prod/hzgkcald.P_DispCrseAttr"
)

// Client handles HTTP requests to the registration website
type Client struct {
	httpClient *http.Client
	baseURL    string
	noCache    bool
}

// NewClient creates a new scraper client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// WithoutCache makes course searches always hit the network
func (c *Client) WithoutCache() *Client {
	c.noCache = true
	return c
}

// BaseURL returns the host the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// post sends a POST request and returns the raw response. Transport failures
// come back as *NetworkError; the status code is left to the caller.
func (c *Client) post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
		// Banner rejects form posts from default Go user agents
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	return resp, nil
}

// get sends a GET request; errors follow the same rules as post
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	return resp, nil
}

func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("%s%s", c.baseURL, path)
}
