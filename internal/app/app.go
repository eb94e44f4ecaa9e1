// Package app sequences one digest run: fetch, classify, aggregate, curate,
// render, deliver.
package app

import (
	"context"
	"fmt"
	"time"

	"dailydigest/internal/config"
	"dailydigest/internal/curator"
	"dailydigest/internal/gemini"
	"dailydigest/internal/logger"
	"dailydigest/internal/mailer"
	"dailydigest/internal/metrics"
	"dailydigest/internal/news"
	"dailydigest/internal/ratelimit"
	"dailydigest/internal/render"
	"dailydigest/internal/retry"
	"dailydigest/internal/sources"
	"dailydigest/internal/storage"
	"dailydigest/internal/trending"
	"dailydigest/internal/weather"
)

type sectionFetcher interface {
	FetchSection(ctx context.Context, q sources.SectionQuery, now time.Time, daysBack int) []news.Article
}

type deliverer interface {
	Send(ctx context.Context, subject, htmlBody string, recipients []string) error
}

// App owns the collaborators of one digest pipeline. Collaborator fields
// are narrow so tests can substitute fakes.
type App struct {
	cfg      *config.Config
	sections []sectionTarget
	feeds    []string

	api     sectionFetcher
	curator *curator.Curator
	mail    deliverer
	oracle  *gemini.Client

	fetchFeeds  func(ctx context.Context, urls []string, now time.Time, daysBack int) []news.Article
	weatherText func(ctx context.Context) string
	trendingTop func(ctx context.Context) []trending.Link
	now         func() time.Time
}

type sectionTarget struct {
	section  news.Section
	query    sources.SectionQuery
	daysBack int
}

// New wires the production collaborators. Configuration must already be
// validated; this still fails fast on an unreadable section table or an
// unknown section name.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	sf, err := config.LoadSections(cfg.SectionsConfigPath)
	if err != nil {
		return nil, err
	}

	targets := make([]sectionTarget, 0, len(sf.Sections))
	for _, sc := range sf.Sections {
		section, ok := news.SectionByName(sc.Name)
		if !ok {
			return nil, fmt.Errorf("unknown section %q in %s", sc.Name, cfg.SectionsConfigPath)
		}
		daysBack := sc.DaysBack
		if daysBack < 1 {
			daysBack = cfg.DaysBack
		}
		targets = append(targets, sectionTarget{
			section:  section,
			query:    sources.SectionQuery{Query: sc.Query, Sources: sc.Sources},
			daysBack: daysBack,
		})
	}

	oracle, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.WeatherStorePath)
	if err != nil {
		return nil, err
	}

	retryCfg := retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	}
	limiter := ratelimit.New(cfg.MaxNewsAPIRequests, cfg.MaxGeminiRequests)
	weatherClient := weather.New(cfg.WeatherURL, cfg.WeatherArea, store, cfg.RequestTimeout)

	return &App{
		cfg:        cfg,
		sections:   targets,
		feeds:      sf.Feeds,
		api:        sources.NewNewsAPIClient(cfg.NewsAPIKey, cfg.PageSize, cfg.RequestTimeout, limiter, retryCfg),
		curator:    curator.New(oracle, limiter, cfg.PoolSize, cfg.SectionLimit),
		mail:       mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, retryCfg),
		oracle:     oracle,
		fetchFeeds: sources.FetchFeeds,
		weatherText: func(ctx context.Context) string {
			return weatherClient.Summary(ctx)
		},
		trendingTop: func(ctx context.Context) []trending.Link {
			return trending.Fetch(ctx, cfg.TrendingFeedURL, cfg.TrendingLimit)
		},
		now: time.Now,
	}, nil
}

func (a *App) Close() {
	if a.oracle != nil {
		a.oracle.Close()
	}
}

// Run executes one digest end to end. A run with zero aggregated articles
// ends early before any oracle or delivery call; that is a normal outcome,
// not an error.
func (a *App) Run(ctx context.Context) error {
	started := a.now()

	scoped := make(map[news.Section][]news.Article, len(a.sections))
	for _, t := range a.sections {
		fetched := a.api.FetchSection(ctx, t.query, started, t.daysBack)
		scoped[t.section] = append(scoped[t.section], fetched...)
		logger.Debug("section fetched", "section", string(t.section), "articles", len(fetched))
	}

	undifferentiated := a.fetchFeeds(ctx, a.feeds, started, a.cfg.DaysBack)

	pools := news.Aggregate(scoped, undifferentiated)
	if news.Total(pools) == 0 {
		logger.Info("no articles in any section, nothing to do")
		metrics.Global.RecordRun(time.Since(started))
		return nil
	}

	weatherSummary := a.weatherText(ctx)
	trendingLinks := a.trendingTop(ctx)

	selections := make(map[news.Section]curator.Selection)
	var empty []news.Section
	for _, s := range news.SectionOrder {
		pool := pools[s]
		if len(pool) == 0 {
			empty = append(empty, s)
			continue
		}
		selections[s] = a.curator.Curate(ctx, s, pool)
	}

	doc, err := a.compose(selections, empty, weatherSummary, trendingLinks, started)
	if err != nil {
		return err
	}

	subject := "Daily News Digest - " + started.Format("2006-01-02")
	if err := a.mail.Send(ctx, subject, doc, a.cfg.Recipients); err != nil {
		metrics.Global.SetError(err.Error())
		return fmt.Errorf("deliver digest: %w", err)
	}

	metrics.Global.RecordRun(time.Since(started))
	return nil
}

// compose renders the section blocks and wraps them with the overview
// context into the final HTML document.
func (a *App) compose(selections map[news.Section]curator.Selection, empty []news.Section, weatherSummary string, links []trending.Link, date time.Time) (string, error) {
	body, err := render.Sections(selections, empty)
	if err != nil {
		return "", err
	}
	return render.Document(body, weatherSummary, links, date)
}
