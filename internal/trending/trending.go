// Package trending reduces a social feed to a bounded list of links for the
// digest's overview block.
package trending

import (
	"context"

	"github.com/mmcdole/gofeed"

	"dailydigest/internal/logger"
)

type Link struct {
	Title string
	URL   string
}

// Fetch returns at most limit (title, link) pairs from the feed. A failed
// fetch yields nil; the digest just goes out without a trending block.
func Fetch(ctx context.Context, feedURL string, limit int) []Link {
	parser := gofeed.NewParser()
	parser.UserAgent = "Mozilla/5.0 (compatible; DailyDigestBot/1.0)"

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		logger.Warn("trending feed failed", "url", feedURL, "error", err)
		return nil
	}

	links := make([]Link, 0, limit)
	for _, item := range feed.Items {
		if len(links) >= limit {
			break
		}
		if item.Title == "" || item.Link == "" {
			continue
		}
		links = append(links, Link{Title: item.Title, URL: item.Link})
	}

	logger.Debug("trending links fetched", "count", len(links))
	return links
}
