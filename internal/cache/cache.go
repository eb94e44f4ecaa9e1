// Package cache keeps the provider's canonical source-id list in memory so
// allow-list validation costs at most one API call per TTL window.
package cache

import (
	"sync"
	"time"
)

type SourceList struct {
	mu        sync.RWMutex
	ids       map[string]bool
	fetchedAt time.Time
	ttl       time.Duration
}

func NewSourceList(ttl time.Duration) *SourceList {
	return &SourceList{ttl: ttl}
}

// Get returns the cached id set, or false when the cache is empty or stale.
func (s *SourceList) Get() (map[string]bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ids == nil || time.Since(s.fetchedAt) > s.ttl {
		return nil, false
	}
	return s.ids, true
}

func (s *SourceList) Put(ids map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = ids
	s.fetchedAt = time.Now()
}
