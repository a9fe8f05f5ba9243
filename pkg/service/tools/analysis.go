package tools

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/adintel/ads-library-mcp/pkg/domain/ads"
)

var (
	sentimentPattern = regexp.MustCompile(`\b(?:amazing|best|free|save|new|limited|exclusive|now)\b`)
	urgencyPattern   = regexp.MustCompile(`\b(?:now|today|limited|hurry|urgent|expires|deadline)\b`)

	ctaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:shop now|buy now|learn more|sign up|download|get started|try free|claim offer)\b`),
		regexp.MustCompile(`\b(?:click here|tap here|swipe up|see more|order now|book now)\b`),
	}
)

// AnalyzeText summarizes the visible text of a creative
func AnalyzeText(text string) *ads.TextAnalysis {
	lower := strings.ToLower(text)

	keywords := sentimentPattern.FindAllString(lower, -1)
	if keywords == nil {
		keywords = []string{}
	}

	return &ads.TextAnalysis{
		WordCount:         len(strings.Fields(text)),
		CharacterCount:    utf8.RuneCountInString(text),
		SentimentKeywords: keywords,
		FullText:          text,
	}
}

// DetectCTAs finds call-to-action phrases and urgency words in a creative
func DetectCTAs(text string) *ads.CTAAnalysis {
	lower := strings.ToLower(text)

	detected := []string{}
	for _, pattern := range ctaPatterns {
		detected = append(detected, pattern.FindAllString(lower, -1)...)
	}

	urgency := urgencyPattern.FindAllString(lower, -1)
	if urgency == nil {
		urgency = []string{}
	}

	return &ads.CTAAnalysis{
		DetectedCTAs: detected,
		CTACount:     len(detected),
		UrgencyWords: urgency,
	}
}
