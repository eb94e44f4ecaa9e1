package curator

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"dailydigest/internal/news"
)

type fakeOracle struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeOracle) Rank(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func sportsPool(base time.Time) []news.Article {
	return []news.Article{
		{Title: "F1 race report", Content: "qualifying upset", Published: base.Add(-1 * time.Hour)},
		{Title: "Cricket final", Content: "last over drama", Published: base.Add(-2 * time.Hour)},
		{Title: "Unrelated item", Content: "misfiled by caller", Published: base.Add(-3 * time.Hour)},
	}
}

func TestCurateValidatesOracleIndices(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	oracle := &fakeOracle{response: "1,1,3"}
	cur := New(oracle, nil, 12, 2)

	sel := cur.Curate(context.Background(), news.SectionSports, sportsPool(base))

	if sel.Provenance != ProvenanceOracle {
		t.Fatalf("provenance = %q, want oracle", sel.Provenance)
	}
	want := []string{"F1 race report", "Unrelated item"}
	if len(sel.Articles) != 2 {
		t.Fatalf("selected %d articles, want 2", len(sel.Articles))
	}
	for i, w := range want {
		if sel.Articles[i].Title != w {
			t.Errorf("position %d: got %q, want %q", i, sel.Articles[i].Title, w)
		}
	}
}

func TestCurateFallsBack(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"empty response", "", nil},
		{"garbage text", "sorry, I cannot rank these", nil},
		{"all indices invalid", "0, 99, 100", nil},
		{"oracle error", "", errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &fakeOracle{response: tt.response, err: tt.err}
			cur := New(oracle, nil, 12, 2)

			sel := cur.Curate(context.Background(), news.SectionSports, sportsPool(base))

			if sel.Provenance != ProvenanceFallback {
				t.Fatalf("provenance = %q, want fallback", sel.Provenance)
			}
			// Deterministic top-2 by recency.
			want := []string{"F1 race report", "Cricket final"}
			if len(sel.Articles) != len(want) {
				t.Fatalf("selected %d articles, want %d", len(sel.Articles), len(want))
			}
			for i, w := range want {
				if sel.Articles[i].Title != w {
					t.Errorf("position %d: got %q, want %q", i, sel.Articles[i].Title, w)
				}
			}
		})
	}
}

func TestCurateNeverExceedsLimit(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	oracle := &fakeOracle{response: "1,2,3"}
	cur := New(oracle, nil, 12, 1)

	sel := cur.Curate(context.Background(), news.SectionSports, sportsPool(base))
	if len(sel.Articles) != 1 {
		t.Fatalf("selected %d articles, limit is 1", len(sel.Articles))
	}
}

func TestCurateSelectionIsFromPool(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pool := sportsPool(base)
	oracle := &fakeOracle{response: "3,2,1"}
	cur := New(oracle, nil, 12, 5)

	sel := cur.Curate(context.Background(), news.SectionSports, pool)

	inPool := make(map[string]bool)
	for _, a := range pool {
		inPool[a.URL+a.Title] = true
	}
	seen := make(map[string]bool)
	for _, a := range sel.Articles {
		if !inPool[a.URL+a.Title] {
			t.Errorf("selected article %q not in pool", a.Title)
		}
		if seen[a.URL+a.Title] {
			t.Errorf("article %q selected twice", a.Title)
		}
		seen[a.URL+a.Title] = true
	}
}

func TestCuratePoolSizeBoundsPrompt(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var pool []news.Article
	for i := 0; i < 20; i++ {
		pool = append(pool, news.Article{
			Title:     "article",
			Content:   "content",
			Published: base.Add(-time.Duration(i) * time.Minute),
		})
	}

	oracle := &fakeOracle{response: "1"}
	cur := New(oracle, nil, 12, 5)
	cur.Curate(context.Background(), news.SectionWorld, pool)

	if len(oracle.prompts) != 1 {
		t.Fatalf("oracle called %d times, want 1", len(oracle.prompts))
	}
	if strings.Contains(oracle.prompts[0], "13. Title:") {
		t.Error("prompt lists more than pool_size candidates")
	}
	if !strings.Contains(oracle.prompts[0], "12. Title:") {
		t.Error("prompt should list exactly pool_size candidates")
	}
}

func TestCurateEmptyPoolSkipsOracle(t *testing.T) {
	oracle := &fakeOracle{response: "1"}
	cur := New(oracle, nil, 12, 5)

	sel := cur.Curate(context.Background(), news.SectionWorld, nil)
	if len(sel.Articles) != 0 {
		t.Fatalf("empty pool produced %d articles", len(sel.Articles))
	}
	if len(oracle.prompts) != 0 {
		t.Error("oracle must not be called for an empty pool")
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		n    int
		want []int
	}{
		{"comma list", "1,3,5", 6, []int{1, 3, 5}},
		{"newline list", "2\n4\n1", 4, []int{2, 4, 1}},
		{"duplicates dropped first-occurrence order", "1,1,3", 3, []int{1, 3}},
		{"out of range dropped", "0,2,7", 3, []int{2}},
		{"embedded prose", "I pick articles 2 and 3.", 5, []int{2, 3}},
		{"no numbers", "none of these", 5, nil},
		{"empty", "", 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSelection(tt.raw, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseSelection(%q, %d) = %v, want %v", tt.raw, tt.n, got, tt.want)
			}
		})
	}
}
