// Package sources contains the adapters that normalize heterogeneous
// providers into news.Article records. Adapters never abort the run: an
// unreachable endpoint is logged and contributes zero articles.
package sources

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"dailydigest/internal/logger"
	"dailydigest/internal/metrics"
	"dailydigest/internal/news"
)

// FetchFeeds downloads and parses all RSS feeds, keeping only items inside
// the recency window. Items without a parsable publication time cannot be
// verified recent and are dropped here, since feeds offer no query-level
// date filtering.
func FetchFeeds(ctx context.Context, urls []string, now time.Time, daysBack int) []news.Article {
	parser := gofeed.NewParser()
	var articles []news.Article
	okCount := 0

	for _, url := range urls {
		feed, err := parser.ParseURLWithContext(url, ctx)
		if err != nil {
			logger.Warn("rss feed failed", "url", url, "error", err)
			metrics.Global.IncrementSourceFailures()
			continue
		}
		okCount++

		kept := 0
		for _, item := range feed.Items {
			a := feedItemToArticle(item, feed)
			if !news.WithinWindow(a, now, daysBack) {
				continue
			}
			articles = append(articles, a)
			kept++
		}
		logger.Debug("rss feed loaded", "url", url, "items", len(feed.Items), "kept", kept)
	}

	logger.Info("rss feeds processed", "ok", okCount, "total", len(urls), "articles", len(articles))
	metrics.Global.AddArticlesFetched(len(articles))
	return articles
}

func feedItemToArticle(item *gofeed.Item, feed *gofeed.Feed) news.Article {
	content := item.Description
	if content == "" {
		content = item.Content
	}

	source := feed.Title
	if source == "" {
		source = feed.Link
	}

	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	}

	return news.Normalize(news.Article{
		Title:     item.Title,
		Content:   stripMarkup(content),
		URL:       item.Link,
		Source:    source,
		Published: published,
	})
}

// stripMarkup reduces provider-supplied HTML fragments to plain text with
// collapsed whitespace. Feed summaries routinely embed markup.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
