package ads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchiveParams(t *testing.T) {
	tests := []struct {
		name       string
		query      SearchQuery
		wantAdType string
		hasAdType  bool
	}{
		{
			name:      "default ad type is omitted",
			query:     SearchQuery{BrandName: "nike", Country: "US", AdType: "ALL", Limit: 50},
			hasAdType: false,
		},
		{
			name:      "empty ad type is omitted",
			query:     SearchQuery{BrandName: "nike", Country: "US", Limit: 50},
			hasAdType: false,
		},
		{
			name:       "explicit ad type is forwarded",
			query:      SearchQuery{BrandName: "nike", Country: "DE", AdType: "POLITICAL_AND_ISSUE_ADS", Limit: 10},
			wantAdType: "POLITICAL_AND_ISSUE_ADS",
			hasAdType:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ArchiveParams(tt.query)

			assert.Equal(t, tt.query.BrandName, params["search_terms"])
			assert.Equal(t, tt.query.Country, params["ad_reached_countries"])
			assert.Equal(t, ArchiveFields, params["fields"])
			assert.Equal(t, "ALL", params["ad_active_status"])

			adType, ok := params["ad_type"]
			assert.Equal(t, tt.hasAdType, ok)
			if tt.hasAdType {
				assert.Equal(t, tt.wantAdType, adType)
			}

			_, leaked := params["access_token"]
			assert.False(t, leaked, "params must never carry the access token")
		})
	}
}
