package gsc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
)

const (
	// DefaultSearchConsoleBaseURL is the Search Console (webmasters v3)
	// API endpoint.
	DefaultSearchConsoleBaseURL = "https://www.googleapis.com/webmasters/v3"

	// ScopeWebmastersReadonly is the OAuth2 scope for read-only analytics
	// access.
	ScopeWebmastersReadonly = "https://www.googleapis.com/auth/webmasters.readonly"
)

// Row is one row of search analytics data. Keys holds one value per
// requested dimension, in dimension order. CTR is a fraction in [0, 1];
// display code multiplies by 100.
type Row struct {
	Keys        []string `json:"keys"`
	Clicks      int64    `json:"clicks"`
	Impressions int64    `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Position    float64  `json:"position"`
}

// QueryResponse is the searchanalytics.query response envelope.
type QueryResponse struct {
	Rows                    []Row  `json:"rows"`
	ResponseAggregationType string `json:"responseAggregationType,omitempty"`
}

// Client executes search analytics queries against one fixed property.
// Safe for concurrent use; the underlying OAuth2 transport caches and
// refreshes tokens internally.
type Client struct {
	httpClient *http.Client
	baseURL    string
	siteURL    string
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientHTTPClient replaces the authenticated HTTP client. Tests use
// this to point the client at a fake upstream without credentials.
func WithClientHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

// WithClientBaseURL overrides the Search Console API endpoint.
func WithClientBaseURL(url string) ClientOption {
	return func(cl *Client) { cl.baseURL = strings.TrimRight(url, "/") }
}

// WithClientLogger sets the logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(cl *Client) { cl.logger = logger }
}

// NewClient builds a Client from a service-account key (decoded JSON) for
// the given property. siteURL is the Search Console property identifier,
// e.g. "sc-domain:www.example.ai" or "https://www.example.ai/".
//
// The OAuth2 transport picks up a base HTTP client from ctx via
// oauth2.HTTPClient if one is set.
func NewClient(ctx context.Context, serviceAccountKey []byte, siteURL string, opts ...ClientOption) (*Client, error) {
	if siteURL == "" {
		return nil, fmt.Errorf("site URL is required")
	}

	c := &Client{
		baseURL: DefaultSearchConsoleBaseURL,
		siteURL: siteURL,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		jwtConfig, err := google.JWTConfigFromJSON(serviceAccountKey, ScopeWebmastersReadonly)
		if err != nil {
			return nil, fmt.Errorf("parsing service account key: %w", err)
		}
		c.httpClient = jwtConfig.Client(ctx)
		c.httpClient.Timeout = 30 * time.Second
	}

	return c, nil
}

// Query submits a normalized query to the searchanalytics.query endpoint
// and returns the response envelope. A transport failure or non-2xx status
// is an *UpstreamError; a well-formed response with zero rows is
// ErrNoResults.
func (c *Client) Query(ctx context.Context, q *Query) (*QueryResponse, error) {
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	endpoint := fmt.Sprintf("%s/sites/%s/searchAnalytics/query", c.baseURL, url.PathEscape(c.siteURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("executing search analytics query",
		slog.String("site", c.siteURL),
		slog.String("range", q.StartDate+".."+q.EndDate),
		slog.Int64("row_limit", q.RowLimit),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{API: "search console", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{API: "search console", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			API:        "search console",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
		}
	}

	var out QueryResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &UpstreamError{API: "search console", Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if len(out.Rows) == 0 {
		return nil, ErrNoResults
	}
	return &out, nil
}
