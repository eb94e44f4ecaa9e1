package ratelimit

import (
	"sync"

	"dailydigest/internal/logger"
)

// Limiter caps outbound API requests for one digest run. A zero maximum
// means unlimited. Exhausting the Gemini budget degrades curation to the
// deterministic fallback; exhausting the NewsAPI budget yields empty
// results for the remaining section fetches.
type Limiter struct {
	mu           sync.Mutex
	newsapiCount int
	geminiCount  int
	maxNewsAPI   int
	maxGemini    int
}

func New(maxNewsAPI, maxGemini int) *Limiter {
	return &Limiter{
		maxNewsAPI: maxNewsAPI,
		maxGemini:  maxGemini,
	}
}

// UseNewsAPI consumes one NewsAPI request from the budget. Returns false
// when the budget is exhausted.
func (l *Limiter) UseNewsAPI() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxNewsAPI > 0 && l.newsapiCount >= l.maxNewsAPI {
		logger.Warn("newsapi request budget exhausted", "used", l.newsapiCount, "max", l.maxNewsAPI)
		return false
	}
	l.newsapiCount++
	return true
}

// UseGemini consumes one Gemini request from the budget.
func (l *Limiter) UseGemini() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxGemini > 0 && l.geminiCount >= l.maxGemini {
		logger.Warn("gemini request budget exhausted", "used", l.geminiCount, "max", l.maxGemini)
		return false
	}
	l.geminiCount++
	return true
}

// Stats reports request counts for the monitoring endpoints.
func (l *Limiter) Stats() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return map[string]int{
		"newsapi_used":  l.newsapiCount,
		"newsapi_limit": l.maxNewsAPI,
		"gemini_used":   l.geminiCount,
		"gemini_limit":  l.maxGemini,
	}
}
