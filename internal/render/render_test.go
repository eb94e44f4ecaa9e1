package render

import (
	"strings"
	"testing"
	"time"

	"dailydigest/internal/curator"
	"dailydigest/internal/news"
	"dailydigest/internal/trending"
)

func TestSectionsEscapesUserText(t *testing.T) {
	selections := map[news.Section]curator.Selection{
		news.SectionWorld: {
			Section: news.SectionWorld,
			Articles: []news.Article{{
				Title:   `<script>alert("x")</script>`,
				Content: `summary with <img src=x> markup & ampersand`,
				URL:     "https://example.com/story",
				Source:  `evil"source`,
			}},
			Provenance: curator.ProvenanceFallback,
		},
	}

	out, err := Sections(selections, nil)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(out, "<script>") {
		t.Error("title markup was not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("escaped title missing from output")
	}
	if strings.Contains(out, "<img") {
		t.Error("summary markup was not escaped")
	}
}

func TestSectionsCanonicalOrderAndEmptyNote(t *testing.T) {
	mk := func(s news.Section, title string) curator.Selection {
		return curator.Selection{
			Section:    s,
			Articles:   []news.Article{{Title: title, Content: "c", URL: "https://e.com", Source: "s"}},
			Provenance: curator.ProvenanceOracle,
		}
	}

	selections := map[news.Section]curator.Selection{
		news.SectionSports: mk(news.SectionSports, "sports story"),
		news.SectionAI:     mk(news.SectionAI, "ai story"),
	}
	empty := []news.Section{news.SectionTech, news.SectionLongForm}

	out, err := Sections(selections, empty)
	if err != nil {
		t.Fatal(err)
	}

	aiPos := strings.Index(out, "AI News")
	sportsPos := strings.Index(out, "Sports News")
	if aiPos < 0 || sportsPos < 0 {
		t.Fatalf("missing section headers in output:\n%s", out)
	}
	if aiPos > sportsPos {
		t.Error("sections not rendered in canonical order")
	}

	if !strings.Contains(out, "No items found for: Tech News, Long-Form Articles.") {
		t.Errorf("empty-section note missing:\n%s", out)
	}
}

func TestSectionsOmitsEmptySelections(t *testing.T) {
	selections := map[news.Section]curator.Selection{
		news.SectionTrending: {Section: news.SectionTrending, Provenance: curator.ProvenanceFallback},
	}

	out, err := Sections(selections, nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Trending on Social Media") {
		t.Error("selection with zero articles must be omitted")
	}
}

func TestSectionsTruncatesSummaries(t *testing.T) {
	long := strings.Repeat("a", 400)
	selections := map[news.Section]curator.Selection{
		news.SectionWorld: {
			Section:    news.SectionWorld,
			Articles:   []news.Article{{Title: "t", Content: long, URL: "https://e.com", Source: "s"}},
			Provenance: curator.ProvenanceOracle,
		},
	}

	out, err := Sections(selections, nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, long) {
		t.Error("summary was not truncated")
	}
	if !strings.Contains(out, strings.Repeat("a", summaryLen)+"...") {
		t.Error("truncated summary missing ellipsis")
	}
}

func TestDocument(t *testing.T) {
	links := []trending.Link{
		{Title: "Top <thread>", URL: "https://reddit.com/x"},
	}
	date := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	out, err := Document("<h2>Body</h2>", "Today: Min 10°C, Max 20°C", links, date)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "<h2>Body</h2>") {
		t.Error("rendered body must pass through unescaped")
	}
	if !strings.Contains(out, "Today: Min 10°C, Max 20°C") {
		t.Error("weather summary missing")
	}
	if strings.Contains(out, "<thread>") {
		t.Error("trending title was not escaped")
	}
	if !strings.Contains(out, "2025-06-02") {
		t.Error("footer date missing")
	}
}
