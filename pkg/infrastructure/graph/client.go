// Package graph implements the ads archive HTTP client
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/adintel/ads-library-mcp/pkg/domain/ads"
	"github.com/adintel/ads-library-mcp/pkg/domain/errors"
)

const (
	defaultBaseURL  = "https://graph.facebook.com"
	archiveEndpoint = "ads_archive"
)

// Client queries the ads archive endpoint of the Graph API
type Client struct {
	baseURL     string
	apiVersion  string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the Graph API base URL (used by tests)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates an ads archive client with retrying transport
func NewClient(accessToken, apiVersion string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = nil

	client := &Client{
		baseURL:     defaultBaseURL,
		apiVersion:  apiVersion,
		accessToken: accessToken,
		httpClient:  retryClient.StandardClient(),
		logger:      logger.With("component", "graph-client"),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// archiveEnvelope matches the ads_archive response shape
type archiveEnvelope struct {
	Data  []ads.Ad  `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

// apiError is the Graph API error object
type apiError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	TraceID   string `json:"fbtrace_id,omitempty"`
	Transient bool   `json:"is_transient,omitempty"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s (type=%s, code=%d)", e.Message, e.Type, e.Code)
}

// SearchAds queries the ads archive and returns the matching ad records
func (c *Client) SearchAds(ctx context.Context, query ads.SearchQuery) ([]ads.Ad, error) {
	if c.accessToken == "" {
		return nil, errors.New(errors.CodeTokenMissing, "graph", "access token not configured", nil)
	}

	values := url.Values{}
	for key, value := range ads.ArchiveParams(query) {
		values.Set(key, value)
	}
	values.Set("access_token", c.accessToken)

	endpoint := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.apiVersion, archiveEndpoint, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.New(errors.CodeInternalError, "graph", "failed to build archive request", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.New(errors.CodeNetworkError, "graph", "ads archive request failed", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("ads archive request completed",
		"status", resp.StatusCode,
		"brand", query.BrandName,
		"duration", time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, errors.New(errors.CodeIoError, "graph", "failed to read archive response", err)
	}

	var envelope archiveEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, errors.New(errors.CodeGraphAPIError, "graph",
				fmt.Sprintf("archive returned status %d", resp.StatusCode), nil)
		}
		return nil, errors.New(errors.CodeGraphAPIError, "graph", "failed to decode archive response", err)
	}

	if envelope.Error != nil {
		return nil, errors.New(errors.CodeGraphAPIError, "graph", "archive rejected request", envelope.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.CodeGraphAPIError, "graph",
			fmt.Sprintf("archive returned status %d", resp.StatusCode), nil)
	}

	return envelope.Data, nil
}
