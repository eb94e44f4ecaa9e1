package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dailydigest/internal/cache"
	"dailydigest/internal/logger"
	"dailydigest/internal/metrics"
	"dailydigest/internal/news"
	"dailydigest/internal/ratelimit"
	"dailydigest/internal/retry"
)

const maxPageSize = 100

// SectionQuery describes one section-scoped fetch. With a source allow-list
// the headlines endpoint is used, otherwise a keyword search over the whole
// index.
type SectionQuery struct {
	Query   string
	Sources []string
}

type NewsAPIClient struct {
	apiKey   string
	baseURL  string
	pageSize int
	client   *http.Client
	limiter  *ratelimit.Limiter
	sources  *cache.SourceList
	retryCfg retry.Config
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Content     string    `json:"content"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

type sourceListResponse struct {
	Status  string `json:"status"`
	Sources []struct {
		ID string `json:"id"`
	} `json:"sources"`
}

func NewNewsAPIClient(apiKey string, pageSize int, timeout time.Duration, limiter *ratelimit.Limiter, retryCfg retry.Config) *NewsAPIClient {
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return &NewsAPIClient{
		apiKey:   apiKey,
		baseURL:  "https://newsapi.org/v2",
		pageSize: pageSize,
		client:   &http.Client{Timeout: timeout},
		limiter:  limiter,
		sources:  cache.NewSourceList(12 * time.Hour),
		retryCfg: retryCfg,
	}
}

// FetchSection runs one section-scoped query. Failures are recovered
// locally: the section simply gets zero API articles. The date cutoff is
// passed to the server as an optimization but enforced again client-side.
func (c *NewsAPIClient) FetchSection(ctx context.Context, q SectionQuery, now time.Time, daysBack int) []news.Article {
	if c.limiter != nil && !c.limiter.UseNewsAPI() {
		return nil
	}

	endpoint, params := c.buildRequest(ctx, q, now, daysBack)

	var resp newsAPIResponse
	err := retry.Do(ctx, c.retryCfg, func() error {
		return c.getJSON(ctx, endpoint, params, &resp)
	})
	if err != nil {
		logger.Warn("newsapi fetch failed", "query", q.Query, "error", err)
		metrics.Global.IncrementSourceFailures()
		return nil
	}
	if resp.Status != "ok" {
		logger.Warn("newsapi error response", "query", q.Query, "status", resp.Status, "message", resp.Message)
		metrics.Global.IncrementSourceFailures()
		return nil
	}

	var articles []news.Article
	for _, raw := range resp.Articles {
		content := raw.Content
		if content == "" {
			content = raw.Description
		}
		source := raw.Source.ID
		if source == "" {
			source = raw.Source.Name
		}

		a := news.Normalize(news.Article{
			Title:     raw.Title,
			Content:   content,
			URL:       raw.URL,
			Source:    source,
			Published: raw.PublishedAt,
		})
		if !news.WithinWindow(a, now, daysBack) {
			continue
		}
		articles = append(articles, a)
	}

	metrics.Global.AddArticlesFetched(len(articles))
	return articles
}

func (c *NewsAPIClient) buildRequest(ctx context.Context, q SectionQuery, now time.Time, daysBack int) (string, url.Values) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("pageSize", strconv.Itoa(c.pageSize))

	if len(q.Sources) > 0 {
		valid := c.validSources(ctx, q.Sources)
		if len(valid) > 0 {
			params.Set("sources", strings.Join(valid, ","))
			return c.baseURL + "/top-headlines", params
		}
		// All ids rejected; fall through to a plain search.
	}

	from := now.AddDate(0, 0, -daysBack).Format("2006-01-02")
	params.Set("q", q.Query)
	params.Set("from", from)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	return c.baseURL + "/everything", params
}

// validSources drops allow-list ids the provider does not recognize. When
// the canonical list itself cannot be fetched the ids are passed through
// unchecked rather than discarding the whole section.
func (c *NewsAPIClient) validSources(ctx context.Context, ids []string) []string {
	canonical, ok := c.sources.Get()
	if !ok {
		fetched, err := c.fetchSourceList(ctx)
		if err != nil {
			logger.Warn("source list unavailable, skipping allow-list validation", "error", err)
			return ids
		}
		c.sources.Put(fetched)
		canonical = fetched
	}

	var valid []string
	for _, id := range ids {
		if canonical[id] {
			valid = append(valid, id)
		} else {
			logger.Warn("dropping unknown source id", "id", id)
		}
	}
	return valid
}

func (c *NewsAPIClient) fetchSourceList(ctx context.Context) (map[string]bool, error) {
	if c.limiter != nil && !c.limiter.UseNewsAPI() {
		return nil, fmt.Errorf("newsapi request budget exhausted")
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)

	var resp sourceListResponse
	if err := c.getJSON(ctx, c.baseURL+"/top-headlines/sources", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi source list status %q", resp.Status)
	}

	ids := make(map[string]bool, len(resp.Sources))
	for _, s := range resp.Sources {
		ids[s.ID] = true
	}
	return ids, nil
}

func (c *NewsAPIClient) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("newsapi returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
