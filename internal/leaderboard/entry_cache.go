package leaderboard

import (
	"runboard/internal/providers"
	"sync"

	json "github.com/goccy/go-json"
)

// EntryCache holds rendered leaderboard views and suppresses duplicate
// in-flight fetches for the same key.
type EntryCache struct {
	cache  providers.CacheProviderInterface
	logger providers.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	wg      sync.WaitGroup
}

func NewEntryCache(cache providers.CacheProviderInterface, logger providers.Logger) *EntryCache {
	return &EntryCache{cache: cache, logger: logger, pending: make(map[string]struct{})}
}

func (c *EntryCache) Get(key string) ([]Entry, bool) {
	b, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		c.logger.Warnf(providers.TypeLeaderboard, "Dropping unreadable cache entry %s: %v", key, err)
		c.cache.Del(key)
		return nil, false
	}
	return entries, true
}

func (c *EntryCache) Set(key string, entries []Entry) {
	b, err := json.Marshal(entries)
	if err != nil {
		c.logger.Errorf(providers.TypeLeaderboard, "Cache entry %s not encoded: %v", key, err)
		return
	}
	c.cache.Set(key, b)
}

// Request runs fetch in the background and stores its result. It returns false
// without doing anything when key is already in flight.
func (c *EntryCache) Request(key string, fetch func() ([]Entry, error)) bool {
	c.mu.Lock()
	if _, busy := c.pending[key]; busy {
		c.mu.Unlock()
		return false
	}
	c.pending[key] = struct{}{}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			delete(c.pending, key)
			c.mu.Unlock()
		}()
		entries, err := fetch()
		if err != nil {
			c.logger.Warnf(providers.TypeLeaderboard, "Fetch for %s failed: %v", key, err)
			return
		}
		c.Set(key, entries)
	}()
	return true
}

func (c *EntryCache) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.pending[key]
	return busy
}

func (c *EntryCache) Invalidate(key string) {
	c.cache.Del(key)
}

// Wait blocks until every in-flight fetch has finished.
func (c *EntryCache) Wait() {
	c.wg.Wait()
}
