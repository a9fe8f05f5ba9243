package snapshot

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adintel/ads-library-mcp/pkg/domain/errors"
)

func TestExtractAdID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "standard snapshot url",
			url:  "https://www.facebook.com/ads/archive/render_ad/?id=123456789&access_token=abc",
			want: "123456789",
		},
		{
			name: "id later in query",
			url:  "https://example.com/render?foo=bar&id=42",
			want: "42",
		},
		{
			name: "no id present",
			url:  "https://example.com/render?foo=bar",
			want: "",
		},
		{
			name: "non-numeric id",
			url:  "https://example.com/render?id=abc",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAdID(tt.url))
		})
	}
}

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	fetcher := NewFetcher(2*time.Second, slog.Default(), WithHTTPClient(srv.Client()))
	return fetcher, srv.URL
}

func TestVisibleText(t *testing.T) {
	fetcher, url := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>
			<head>
				<title>Ad Snapshot</title>
				<style>body { color: red; }</style>
				<script>console.log("tracking");</script>
			</head>
			<body>
				<div>  Shop Now  </div>
				<p>Save   big
				today</p>
				<noscript>enable javascript</noscript>
			</body>
		</html>`))
	})

	text, err := fetcher.VisibleText(context.Background(), url)
	require.NoError(t, err)

	assert.Contains(t, text, "Ad Snapshot")
	assert.Contains(t, text, "Shop Now")
	assert.Contains(t, text, "Save big today")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "enable javascript")
	assert.False(t, strings.Contains(text, "  "), "text should be whitespace-normalized")
}

func TestVisibleTextHTTPError(t *testing.T) {
	fetcher, url := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := fetcher.VisibleText(context.Background(), url)
	require.Error(t, err)

	var structured *errors.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, errors.CodeSnapshotFetchFailed, structured.Code)
}
