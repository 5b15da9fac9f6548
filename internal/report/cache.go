package report

import "sync"

// CacheKey identifies a generated report. The key space is small and
// bounded (16 MBTI types x valid wing pairs x 2 languages), so the cache
// carries no eviction.
type CacheKey struct {
	MBTI     string
	MainType string
	Subtype  string
	Lang     string
}

// KeyFor builds the cache key from validated params, normalizing the MBTI
// code so "intj-a" and "INTJ" land on the same entry.
func KeyFor(p *GenerateParams) CacheKey {
	base, _ := BaseMBTI(p.MBTI)
	return CacheKey{
		MBTI:     base,
		MainType: string(p.MainType),
		Subtype:  string(p.Subtype),
		Lang:     p.Lang,
	}
}

// Cache accumulates report fragments per personality/language key so a
// language switch or repeat request does not re-run the provider chain.
type Cache struct {
	mu      sync.RWMutex
	entries map[CacheKey]Fragment
}

func NewCache() *Cache {
	return &Cache{entries: make(map[CacheKey]Fragment)}
}

// Lookup returns the cached fragment restricted to the requested modules,
// and whether every requested module was present.
func (c *Cache) Lookup(key CacheKey, modules []string) (Fragment, bool) {
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return Subset(cached, modules)
}

// Merge folds frag into the entry for key and returns the merged whole.
func (c *Cache) Merge(key CacheKey, frag Fragment) Fragment {
	c.mu.Lock()
	defer c.mu.Unlock()
	merged := Merge(c.entries[key], frag)
	c.entries[key] = merged
	return merged
}

// Len reports the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
