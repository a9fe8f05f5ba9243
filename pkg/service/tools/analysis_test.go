package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeText(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantWords    int
		wantChars    int
		wantKeywords []string
	}{
		{
			name:         "promotional copy",
			text:         "Amazing deal! Save NOW on our best shoes.",
			wantWords:    8,
			wantChars:    41,
			wantKeywords: []string{"amazing", "save", "now", "best"},
		},
		{
			name:         "neutral copy",
			text:         "We sell shoes.",
			wantWords:    3,
			wantChars:    14,
			wantKeywords: []string{},
		},
		{
			name:         "empty text",
			text:         "",
			wantWords:    0,
			wantChars:    0,
			wantKeywords: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := AnalyzeText(tt.text)
			require.NotNil(t, analysis)

			assert.Equal(t, tt.wantWords, analysis.WordCount)
			assert.Equal(t, tt.wantChars, analysis.CharacterCount)
			assert.Equal(t, tt.wantKeywords, analysis.SentimentKeywords)
			assert.Equal(t, tt.text, analysis.FullText)
		})
	}
}

func TestAnalyzeTextCountsRunes(t *testing.T) {
	analysis := AnalyzeText("héllo")
	assert.Equal(t, 5, analysis.CharacterCount)
}

func TestDetectCTAs(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantCTAs    []string
		wantUrgency []string
	}{
		{
			name:        "multiple ctas and urgency",
			text:        "Shop now before the offer expires. Hurry, learn more today!",
			wantCTAs:    []string{"shop now", "learn more"},
			wantUrgency: []string{"now", "expires", "hurry", "today"},
		},
		{
			name:        "second pattern group",
			text:        "Swipe up or click here to order now",
			wantCTAs:    []string{"click here", "swipe up", "order now"},
			wantUrgency: []string{"now"},
		},
		{
			name:        "no matches",
			text:        "A picture of a mountain",
			wantCTAs:    []string{},
			wantUrgency: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := DetectCTAs(tt.text)
			require.NotNil(t, analysis)

			assert.ElementsMatch(t, tt.wantCTAs, analysis.DetectedCTAs)
			assert.Equal(t, len(tt.wantCTAs), analysis.CTACount)
			assert.ElementsMatch(t, tt.wantUrgency, analysis.UrgencyWords)
		})
	}
}
