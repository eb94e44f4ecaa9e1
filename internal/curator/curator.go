// Package curator picks the best articles per section: it shows a bounded,
// recency-sorted candidate pool to the ranking oracle and validates the
// returned indices, falling back to a deterministic top-N when the oracle
// output cannot be used. Sections are curated in isolation.
package curator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"dailydigest/internal/logger"
	"dailydigest/internal/metrics"
	"dailydigest/internal/news"
	"dailydigest/internal/ratelimit"
)

// Provenance records whether a section's selection came from the oracle or
// from the deterministic fallback.
type Provenance string

const (
	ProvenanceOracle   Provenance = "oracle"
	ProvenanceFallback Provenance = "fallback"
)

// Selection is the curated result for one section.
type Selection struct {
	Section    news.Section
	Articles   []news.Article
	Provenance Provenance
}

// Oracle ranks a numbered candidate list. The response is free-form text;
// only the integer tokens in it matter.
type Oracle interface {
	Rank(ctx context.Context, prompt string) (string, error)
}

const excerptLen = 220

// Per-section selection criteria shown to the oracle.
var sectionCriteria = map[news.Section]string{
	news.SectionAI:        "Articles about artificial intelligence, machine learning, AI releases.",
	news.SectionWorld:     "Global news, politics, world events.",
	news.SectionAustralia: "News from or about Australia.",
	news.SectionSports:    "Cricket, F1, athletics, soccer, running only.",
	news.SectionTech:      "Technology, gadgets, software.",
	news.SectionLongForm:  "In-depth analysis, features.",
	news.SectionTrending:  "Viral topics, trends.",
}

type Curator struct {
	oracle   Oracle
	limiter  *ratelimit.Limiter
	poolSize int
	limit    int
}

func New(oracle Oracle, limiter *ratelimit.Limiter, poolSize, limit int) *Curator {
	return &Curator{
		oracle:   oracle,
		limiter:  limiter,
		poolSize: poolSize,
		limit:    limit,
	}
}

// Curate selects at most limit articles for one section. The oracle sees
// only this section's candidates; any oracle failure degrades to the
// fallback selection, never to an empty result for a non-empty pool.
func (c *Curator) Curate(ctx context.Context, section news.Section, pool []news.Article) Selection {
	sorted := news.SortByRecency(pool)
	candidates := sorted
	if len(candidates) > c.poolSize {
		candidates = candidates[:c.poolSize]
	}

	chosen := c.askOracle(ctx, section, candidates)
	provenance := ProvenanceOracle
	if len(chosen) == 0 {
		chosen = fallback(candidates, c.limit)
		provenance = ProvenanceFallback
		metrics.Global.IncrementOracleFallbacks()
	}

	if len(chosen) > c.limit {
		chosen = chosen[:c.limit]
	}

	logger.Info("section curated",
		"section", string(section),
		"pool", len(pool),
		"selected", len(chosen),
		"provenance", string(provenance))

	return Selection{Section: section, Articles: chosen, Provenance: provenance}
}

// askOracle returns the validated oracle picks, or nil when the call fails,
// the budget is exhausted, or the response contains no usable index.
func (c *Curator) askOracle(ctx context.Context, section news.Section, candidates []news.Article) []news.Article {
	if len(candidates) == 0 {
		return nil
	}
	if c.limiter != nil && !c.limiter.UseGemini() {
		return nil
	}

	metrics.Global.IncrementOracleCalls()
	raw, err := c.oracle.Rank(ctx, buildPrompt(section, candidates, c.limit))
	if err != nil {
		logger.Warn("oracle call failed", "section", string(section), "error", err)
		return nil
	}

	indices := parseSelection(raw, len(candidates))
	if len(indices) == 0 {
		logger.Warn("oracle response unusable", "section", string(section), "response", truncate(raw, 120))
		return nil
	}

	chosen := make([]news.Article, 0, len(indices))
	for _, idx := range indices {
		chosen = append(chosen, candidates[idx-1])
	}
	return chosen
}

// buildPrompt numbers the candidates from 1 and instructs the oracle to
// answer with numbers only.
func buildPrompt(section news.Section, candidates []news.Article, limit int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a journalist curating an email newsletter for a highly-educated professional audience.\n\n")
	fmt.Fprintf(&b, "Section: %s\nCriteria: %s\n\n", section, sectionCriteria[section])
	fmt.Fprintf(&b, "Here is a numbered list of candidate articles. Select the best articles for this section, at most %d.\n", limit)
	b.WriteString("Only numbers from the list below are valid.\n\n")

	for i, a := range candidates {
		fmt.Fprintf(&b, "%d. Title: %s\n   Content: %s\n   Source: %s\n\n", i+1, a.Title, truncate(a.Content, excerptLen), a.Source)
	}

	b.WriteString("Output ONLY a comma-separated list of the chosen numbers. No extra text.\n")
	return b.String()
}

var intToken = regexp.MustCompile(`\d+`)

// parseSelection extracts the integer tokens of a raw oracle response and
// validates them against a pool of size n. Out-of-range and duplicate
// indices are dropped; first-occurrence order is preserved. An empty result
// signals that the fallback must be used.
func parseSelection(raw string, n int) []int {
	seen := make(map[int]bool)
	var indices []int

	for _, tok := range intToken.FindAllString(raw, -1) {
		idx, err := strconv.Atoi(tok)
		if err != nil || idx < 1 || idx > n {
			continue
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	return indices
}

// fallback is the deterministic top-N of the recency-sorted pool.
func fallback(sorted []news.Article, limit int) []news.Article {
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]news.Article, len(sorted))
	copy(out, sorted)
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
