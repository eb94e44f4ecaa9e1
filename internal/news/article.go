// Package news holds the article model, the section taxonomy and the
// keyword classifier that routes undifferentiated feed items into sections.
package news

import (
	"strings"
	"time"
)

// Article is one normalized news item. Created once by a source adapter,
// immutable afterwards.
type Article struct {
	Title     string
	Content   string
	URL       string
	Source    string
	Published time.Time // zero when the provider gave no parsable timestamp
}

// Section is a named topical bucket. The set is closed and the order of
// SectionOrder is the rendering order.
type Section string

const (
	SectionAI        Section = "AI News"
	SectionWorld     Section = "Major International News"
	SectionAustralia Section = "Australian News"
	SectionSports    Section = "Sports News"
	SectionTech      Section = "Tech News"
	SectionLongForm  Section = "Long-Form Articles"
	SectionTrending  Section = "Trending on Social Media"
)

// SectionOrder is the canonical rendering order of the digest.
var SectionOrder = []Section{
	SectionAI,
	SectionWorld,
	SectionAustralia,
	SectionSports,
	SectionTech,
	SectionLongForm,
	SectionTrending,
}

// SectionByName maps a configured section name back to the closed enumeration.
func SectionByName(name string) (Section, bool) {
	for _, s := range SectionOrder {
		if strings.EqualFold(string(s), name) {
			return s, true
		}
	}
	return "", false
}

// Normalize fills absent text fields with a deterministic placeholder so
// downstream stages never see empty titles, links or source names.
func Normalize(a Article) Article {
	if strings.TrimSpace(a.Title) == "" {
		a.Title = "Unknown"
	}
	if strings.TrimSpace(a.Content) == "" {
		a.Content = "Unknown"
	}
	if strings.TrimSpace(a.URL) == "" {
		a.URL = "Unknown"
	}
	if strings.TrimSpace(a.Source) == "" {
		a.Source = "Unknown"
	}
	return a
}

// WithinWindow reports whether the article was published inside the recency
// window ending at now. Articles without a parsable timestamp cannot be
// verified recent and are rejected.
func WithinWindow(a Article, now time.Time, daysBack int) bool {
	if a.Published.IsZero() {
		return false
	}
	cutoff := now.AddDate(0, 0, -daysBack)
	return !a.Published.Before(cutoff)
}
