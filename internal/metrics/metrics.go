package metrics

import (
	"sync"
	"time"
)

// Metrics collects counters for one or more digest runs. Exposed over the
// optional monitoring endpoints in cmd/dailydigest.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesFetched   int64
	ArticlesDiscarded int64
	SourceFailures    int64
	OracleCalls       int64
	OracleFallbacks   int64
	EmailsSent        int64
	EmailFailures     int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementArticlesDiscarded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesDiscarded++
}

func (m *Metrics) IncrementSourceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFailures++
}

func (m *Metrics) IncrementOracleCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OracleCalls++
}

func (m *Metrics) IncrementOracleFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OracleFallbacks++
}

func (m *Metrics) IncrementEmailsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsSent++
}

func (m *Metrics) IncrementEmailFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailFailures++
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_fetched":     m.ArticlesFetched,
		"articles_discarded":   m.ArticlesDiscarded,
		"source_failures":      m.SourceFailures,
		"oracle_calls":         m.OracleCalls,
		"oracle_fallbacks":     m.OracleFallbacks,
		"emails_sent":          m.EmailsSent,
		"email_failures":       m.EmailFailures,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
