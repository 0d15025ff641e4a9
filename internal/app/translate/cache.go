package translate

import (
	"strings"
	"sync"

	"lightspeed-sync/internal/domain/model"
)

// Cache is the optional session-scoped translation reuse map. It is
// passed explicitly by the caller, append-only for the session lifetime,
// never persisted, and discarded when the session ends. A nil Cache is a
// valid no-op: every lookup misses and every store is dropped.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// CacheKey builds the reuse key for one item.
func CacheKey(item model.TranslationItem) string {
	return strings.Join([]string{item.SourceLang, item.TargetLang, item.Field, item.Text}, ":")
}

// ShopCacheKey is the shop-scoped variant used for per-shop retranslate
// overrides, so a retranslated value in one shop never leaks into another.
func ShopCacheKey(tld string, item model.TranslationItem) string {
	return tld + ":" + CacheKey(item)
}

func (c *Cache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[key]
	return text, ok
}

func (c *Cache) Put(key, text string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = text
}

// Len reports the number of cached translations.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
