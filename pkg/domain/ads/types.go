// Package ads provides typed structures for ads archive operations
package ads

import "strconv"

// ArchiveFields is the field list requested from the ads archive for every search.
const ArchiveFields = "id,ad_creation_time,ad_creative_bodies,ad_creative_link_captions,ad_creative_link_descriptions,ad_creative_link_titles,ad_snapshot_url,currency,demographic_distribution,delivery_by_region,impressions,page_id,page_name,publisher_platforms,spend"

// InsightsRange represents a lower/upper bound pair as reported by the archive
// (impressions and spend are only ever reported as ranges).
type InsightsRange struct {
	LowerBound string `json:"lower_bound,omitempty"`
	UpperBound string `json:"upper_bound,omitempty"`
}

// DemographicCell represents one age/gender slice of an ad's delivery
type DemographicCell struct {
	Age        string `json:"age,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Percentage string `json:"percentage,omitempty"`
}

// RegionDelivery represents delivery share for a single region
type RegionDelivery struct {
	Region     string `json:"region,omitempty"`
	Percentage string `json:"percentage,omitempty"`
}

// Ad is a single ad archive record
type Ad struct {
	ID                       string            `json:"id"`
	AdCreationTime           string            `json:"ad_creation_time,omitempty"`
	CreativeBodies           []string          `json:"ad_creative_bodies,omitempty"`
	CreativeLinkCaptions     []string          `json:"ad_creative_link_captions,omitempty"`
	CreativeLinkDescriptions []string          `json:"ad_creative_link_descriptions,omitempty"`
	CreativeLinkTitles       []string          `json:"ad_creative_link_titles,omitempty"`
	SnapshotURL              string            `json:"ad_snapshot_url,omitempty"`
	Currency                 string            `json:"currency,omitempty"`
	DemographicDistribution  []DemographicCell `json:"demographic_distribution,omitempty"`
	DeliveryByRegion         []RegionDelivery  `json:"delivery_by_region,omitempty"`
	Impressions              *InsightsRange    `json:"impressions,omitempty"`
	PageID                   string            `json:"page_id,omitempty"`
	PageName                 string            `json:"page_name,omitempty"`
	PublisherPlatforms       []string          `json:"publisher_platforms,omitempty"`
	Spend                    *InsightsRange    `json:"spend,omitempty"`
}

// SearchQuery holds the parameters for an ads archive search
type SearchQuery struct {
	BrandName string `json:"brand_name"`
	Country   string `json:"country"`
	AdType    string `json:"ad_type"`
	DateRange int    `json:"date_range"`
	Limit     int    `json:"limit"`
}

// SearchResult is the envelope returned by the search tool
type SearchResult struct {
	Brand        string            `json:"brand"`
	TotalAds     int               `json:"total_ads"`
	Ads          []Ad              `json:"ads"`
	SearchParams map[string]string `json:"search_params"`
	SessionID    string            `json:"session_id,omitempty"`
	Success      bool              `json:"success"`
}

// TextAnalysis summarizes the visible text of an ad creative
type TextAnalysis struct {
	WordCount         int      `json:"word_count"`
	CharacterCount    int      `json:"character_count"`
	SentimentKeywords []string `json:"sentiment_keywords"`
	FullText          string   `json:"full_text"`
}

// CTAAnalysis summarizes call-to-action phrases found in an ad creative
type CTAAnalysis struct {
	DetectedCTAs []string `json:"detected_ctas"`
	CTACount     int      `json:"cta_count"`
	UrgencyWords []string `json:"urgency_words"`
}

// CreativeAnalysis groups the per-aspect analyses of one creative
type CreativeAnalysis struct {
	TextAnalysis *TextAnalysis `json:"text_analysis,omitempty"`
	CTAAnalysis  *CTAAnalysis  `json:"cta_analysis,omitempty"`
}

// CreativeReport is the envelope returned by the creative analysis tool
type CreativeReport struct {
	AdURL     string           `json:"ad_url"`
	AdID      string           `json:"ad_id"`
	Analysis  CreativeAnalysis `json:"analysis"`
	SessionID string           `json:"session_id,omitempty"`
	Success   bool             `json:"success"`
}

// ArchiveParams builds the archive query parameters for a search, without the
// access token. The same map is echoed back to callers in search results.
func ArchiveParams(query SearchQuery) map[string]string {
	params := map[string]string{
		"search_terms":         query.BrandName,
		"ad_reached_countries": query.Country,
		"fields":               ArchiveFields,
		"limit":                strconv.Itoa(query.Limit),
		"ad_active_status":     "ALL",
	}
	if query.AdType != "" && query.AdType != "ALL" {
		params["ad_type"] = query.AdType
	}
	return params
}
