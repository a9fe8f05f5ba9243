// Package snapshot fetches ad snapshot pages and extracts their visible text
package snapshot

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html"

	"github.com/adintel/ads-library-mcp/pkg/domain/errors"
)

// adIDPattern matches the numeric ad ID embedded in snapshot URLs
var adIDPattern = regexp.MustCompile(`id=(\d+)`)

// ExtractAdID returns the ad ID embedded in a snapshot URL, or "" when absent
func ExtractAdID(snapshotURL string) string {
	match := adIDPattern.FindStringSubmatch(snapshotURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// Fetcher retrieves snapshot pages over HTTP
type Fetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = httpClient
	}
}

// NewFetcher creates a snapshot fetcher with retrying transport
func NewFetcher(timeout time.Duration, logger *slog.Logger, opts ...Option) *Fetcher {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = nil

	fetcher := &Fetcher{
		httpClient: retryClient.StandardClient(),
		logger:     logger.With("component", "snapshot-fetcher"),
	}

	for _, opt := range opts {
		opt(fetcher)
	}

	return fetcher
}

// VisibleText fetches a snapshot page and returns its visible text content,
// whitespace-normalized and joined with single spaces.
func (f *Fetcher) VisibleText(ctx context.Context, snapshotURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapshotURL, nil)
	if err != nil {
		return "", errors.New(errors.CodeInvalidParameter, "snapshot", "invalid snapshot url", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", errors.New(errors.CodeSnapshotFetchFailed, "snapshot", "failed to fetch snapshot page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.CodeSnapshotFetchFailed, "snapshot",
			"snapshot page returned status "+resp.Status, nil)
	}

	text, err := extractText(resp.Body)
	if err != nil {
		return "", errors.New(errors.CodeSnapshotParseFailed, "snapshot", "failed to parse snapshot page", err)
	}

	f.logger.Debug("snapshot page fetched", "url", snapshotURL, "text_length", len(text))
	return text, nil
}

// extractText walks the HTML tree collecting text nodes, skipping script and
// style subtrees, trimming each fragment and joining with single spaces.
func extractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var fragments []string
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if node.Type == html.TextNode {
			if trimmed := strings.TrimSpace(node.Data); trimmed != "" {
				fragments = append(fragments, strings.Join(strings.Fields(trimmed), " "))
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return strings.Join(fragments, " "), nil
}
