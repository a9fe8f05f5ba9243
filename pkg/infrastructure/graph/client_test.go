package graph

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adintel/ads-library-mcp/pkg/domain/ads"
	"github.com/adintel/ads-library-mcp/pkg/domain/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient("test-token", "v19.0", 2*time.Second, slog.Default(),
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
	)
}

func TestSearchAdsSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v19.0/ads_archive", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, "test-token", query.Get("access_token"))
		assert.Equal(t, "nike", query.Get("search_terms"))
		assert.Equal(t, "US", query.Get("ad_reached_countries"))
		assert.Equal(t, "ALL", query.Get("ad_active_status"))
		assert.Equal(t, ads.ArchiveFields, query.Get("fields"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{
					"id": "123",
					"page_name": "Nike",
					"ad_snapshot_url": "https://www.facebook.com/ads/archive/render_ad/?id=123",
					"impressions": {"lower_bound": "1000", "upper_bound": "5000"},
					"publisher_platforms": ["facebook", "instagram"]
				},
				{"id": "456", "page_name": "Nike"}
			]
		}`))
	})

	records, err := client.SearchAds(context.Background(), ads.SearchQuery{
		BrandName: "nike",
		Country:   "US",
		AdType:    "ALL",
		Limit:     50,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "123", records[0].ID)
	assert.Equal(t, "Nike", records[0].PageName)
	require.NotNil(t, records[0].Impressions)
	assert.Equal(t, "1000", records[0].Impressions.LowerBound)
	assert.Equal(t, []string{"facebook", "instagram"}, records[0].PublisherPlatforms)
}

func TestSearchAdsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{
			"error": {"message": "Invalid parameter", "type": "OAuthException", "code": 100}
		}`))
	})

	_, err := client.SearchAds(context.Background(), ads.SearchQuery{BrandName: "nike", Country: "US", Limit: 1})
	require.Error(t, err)

	var structured *errors.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, errors.CodeGraphAPIError, structured.Code)
	assert.Contains(t, err.Error(), "Invalid parameter")
}

func TestSearchAdsNonJSONFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	_, err := client.SearchAds(context.Background(), ads.SearchQuery{BrandName: "nike", Country: "US", Limit: 1})
	require.Error(t, err)

	var structured *errors.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, errors.CodeGraphAPIError, structured.Code)
}

func TestSearchAdsMissingToken(t *testing.T) {
	client := NewClient("", "v19.0", time.Second, slog.Default())

	_, err := client.SearchAds(context.Background(), ads.SearchQuery{BrandName: "nike", Country: "US", Limit: 1})
	require.Error(t, err)

	var structured *errors.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, errors.CodeTokenMissing, structured.Code)
}

func TestSearchAdsEmptyData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": []}`))
	})

	records, err := client.SearchAds(context.Background(), ads.SearchQuery{BrandName: "unknown", Country: "US", Limit: 1})
	require.NoError(t, err)
	assert.Empty(t, records)
}
