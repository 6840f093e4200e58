package memory

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"inkwell-feed-service/internal/custom_errors"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Cache is an in-process stand-in for the Redis cache. Values go through a
// JSON round-trip so serialization behaves the same as the real backend.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	// now is swappable so TTL expiry can be tested without sleeping.
	now func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// SetClock overrides the cache's time source.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	c.mu.RLock()
	e, exists := c.entries[key]
	now := c.now()
	c.mu.RUnlock()

	if !exists {
		return custom_errors.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return custom_errors.ErrCacheMiss
	}

	return json.Unmarshal(e.data, dest)
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = entry{data: data, expiresAt: expiresAt}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if matched, _ := path.Match(pattern, key); matched {
			delete(c.entries, key)
		}
	}
	return nil
}
