package nlp

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/leadmesh/core"
)

// CachedService decorates a core.NLPService with a TTL-bounded result cache
// keyed by input text. Caching is a latency optimization only; correctness
// never depends on it. Expired entries are dropped lazily on lookup and
// opportunistically when the cache exceeds maxEntries.
type CachedService struct {
	inner      core.NLPService
	ttl        time.Duration
	maxEntries int

	mu       sync.Mutex
	analysis map[string]cachedAnalysis
	replies  map[string]cachedReply
}

type cachedAnalysis struct {
	result  core.NLPResult
	expires time.Time
}

type cachedReply struct {
	text    string
	expires time.Time
}

// NewCachedService wraps inner with a cache. ttl <= 0 disables expiry checks
// entirely and maxEntries <= 0 defaults to 1024.
func NewCachedService(inner core.NLPService, ttl time.Duration, maxEntries int) *CachedService {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &CachedService{
		inner:      inner,
		ttl:        ttl,
		maxEntries: maxEntries,
		analysis:   make(map[string]cachedAnalysis),
		replies:    make(map[string]cachedReply),
	}
}

// ProcessText returns a cached result when fresh, delegating to the inner
// service otherwise. Failed inner calls are not cached.
func (c *CachedService) ProcessText(ctx context.Context, text string, hint map[string]any) (core.NLPResult, error) {
	c.mu.Lock()
	if entry, ok := c.analysis[text]; ok && c.fresh(entry.expires) {
		c.mu.Unlock()
		return entry.result, nil
	}
	c.mu.Unlock()

	res, err := c.inner.ProcessText(ctx, text, hint)
	if err != nil {
		return res, err
	}

	c.mu.Lock()
	c.evictAnalysisLocked()
	c.analysis[text] = cachedAnalysis{result: res, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return res, nil
}

// GenerateResponse returns a cached reply when fresh, delegating otherwise.
func (c *CachedService) GenerateResponse(ctx context.Context, prompt string, hint map[string]any) (string, error) {
	c.mu.Lock()
	if entry, ok := c.replies[prompt]; ok && c.fresh(entry.expires) {
		c.mu.Unlock()
		return entry.text, nil
	}
	c.mu.Unlock()

	text, err := c.inner.GenerateResponse(ctx, prompt, hint)
	if err != nil {
		return text, err
	}

	c.mu.Lock()
	c.evictRepliesLocked()
	c.replies[prompt] = cachedReply{text: text, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return text, nil
}

func (c *CachedService) fresh(expires time.Time) bool {
	return c.ttl <= 0 || time.Now().Before(expires)
}

func (c *CachedService) evictAnalysisLocked() {
	if len(c.analysis) < c.maxEntries {
		return
	}
	now := time.Now()
	for k, entry := range c.analysis {
		if c.ttl > 0 && now.After(entry.expires) {
			delete(c.analysis, k)
		}
	}
	// Still full of fresh entries: drop arbitrary ones to make room.
	for k := range c.analysis {
		if len(c.analysis) < c.maxEntries {
			break
		}
		delete(c.analysis, k)
	}
}

func (c *CachedService) evictRepliesLocked() {
	if len(c.replies) < c.maxEntries {
		return
	}
	now := time.Now()
	for k, entry := range c.replies {
		if c.ttl > 0 && now.After(entry.expires) {
			delete(c.replies, k)
		}
	}
	for k := range c.replies {
		if len(c.replies) < c.maxEntries {
			break
		}
		delete(c.replies, k)
	}
}
