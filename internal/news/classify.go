package news

import (
	"regexp"
	"strings"
)

// Keyword lists below are a published contract together with the rule order
// in Classify: changing either changes classification outcomes.

// Sports the digest actually follows.
var targetSportKeywords = []string{
	"cricket", "f1", "formula 1", "athletics", "soccer", "running", "marathon",
}

// Sports coverage that is dropped when none of the target sports appear.
var otherSportKeywords = []string{
	"football", "basketball", "tennis", "rugby", "olympics", "sports",
}

var aiKeywords = []string{
	"ai", "artificial intelligence", "machine learning",
}

var australiaKeywords = []string{
	"australia", "australian",
}

// Source names whose items count as Australian regardless of keywords.
// Compared for equality against the lowercased source name, so "The
// Australian Financial Review" does not match "the australian".
var australianSources = []string{
	"abc news", "sydney morning herald", "the australian",
}

var trendingKeywords = []string{
	"trending", "viral",
}

// Word-boundary patterns for short tokens, compiled once per process.
var shortTokenRe = map[string]*regexp.Regexp{}

func init() {
	for _, list := range [][]string{
		targetSportKeywords, otherSportKeywords, aiKeywords,
		australiaKeywords, trendingKeywords,
	} {
		for _, k := range list {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" && len(k) <= 3 && !strings.Contains(k, " ") {
				shortTokenRe[k] = regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`)
			}
		}
	}
}

// containsAny distinguishes phrases and short words so that a token like
// "ai" never matches inside "said" or "rain".
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}

		// Phrases match as substrings.
		if strings.Contains(k, " ") {
			if strings.Contains(text, k) {
				return true
			}
			continue
		}

		// Short tokens (<=3) require word boundaries.
		if len(k) <= 3 {
			re := shortTokenRe[k]
			if re == nil {
				re = regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`)
			}
			if re.MatchString(text) {
				return true
			}
			continue
		}

		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func isAustralianSource(source string) bool {
	source = strings.ToLower(strings.TrimSpace(source))
	for _, s := range australianSources {
		if source == s {
			return true
		}
	}
	return false
}

// Classify assigns an undifferentiated article to exactly one section, or
// reports false for the sports-adjacent-but-excluded case. The rules run in
// a fixed first-match order:
//
//  1. target-sport keyword          -> Sports News
//  2. other-sport keyword           -> discarded
//  3. AI/ML keyword                 -> AI News
//  4. Australia keyword or source   -> Australian News
//  5. trending keyword              -> Trending on Social Media
//  6. everything else              -> Major International News
//
// The other-sport discard runs before the AI check, so an Olympics story
// that also mentions AI is still dropped.
func Classify(a Article) (Section, bool) {
	text := strings.ToLower(a.Title + " " + a.Content)

	switch {
	case containsAny(text, targetSportKeywords):
		return SectionSports, true
	case containsAny(text, otherSportKeywords):
		return "", false
	case containsAny(text, aiKeywords):
		return SectionAI, true
	case containsAny(text, australiaKeywords) || isAustralianSource(a.Source):
		return SectionAustralia, true
	case containsAny(text, trendingKeywords):
		return SectionTrending, true
	default:
		return SectionWorld, true
	}
}
