package detector

import "strings"

// Source types, checked in this order.
const (
	SourceSocialMedia = "Social Media"
	SourceOfficial    = "Official Source"
	SourceMedia       = "Media"
	SourceBroadcast   = "Media (TV/Radio)"
	SourceUnknown     = "Unknown"
)

type sourceRule struct {
	sourceType string
	markers    []string
}

// sourceRules is matched top to bottom against lowercased text; the first
// rule with any marker present wins. Markers are plain substrings, so "gov"
// also matches "government" and "tv" matches any word containing it.
var sourceRules = []sourceRule{
	{SourceSocialMedia, []string{"facebook", "posted on social media", "twitter", "x.com"}},
	{SourceOfficial, []string{"ministry", "ministère", "gov"}},
	{SourceMedia, []string{"press", "journal", "news agency"}},
	{SourceBroadcast, []string{"tv", "radio", "television"}},
}

// SourceType guesses where a text was published from markers in it.
func SourceType(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range sourceRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.sourceType
			}
		}
	}
	return SourceUnknown
}
