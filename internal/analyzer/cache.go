package analyzer

import (
	"crypto/sha256"
	"fmt"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/classmeta/internal/analyzer/parsers"
)

// DefaultCacheSize is the number of parsed files kept by a ParseCache.
const DefaultCacheSize = 4096

type cachedShard struct {
	hash   [sha256.Size]byte
	result *parsers.FileExtraction
}

// ParseCache keeps parsed files keyed by path. An entry is only returned when
// the file content still hashes to the stored value. Cached results are shared
// and must not be modified.
type ParseCache struct {
	cache otter.Cache[string, cachedShard]
}

// NewParseCache creates a cache holding up to capacity files.
func NewParseCache(capacity int) (*ParseCache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	cache, err := otter.MustBuilder[string, cachedShard](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build parse cache: %w", err)
	}
	return &ParseCache{cache: cache}, nil
}

// Lookup returns the cached result for path if its content hash matches.
func (c *ParseCache) Lookup(path string, hash [sha256.Size]byte) (*parsers.FileExtraction, bool) {
	shard, ok := c.cache.Get(path)
	if !ok || shard.hash != hash {
		return nil, false
	}
	return shard.result, true
}

// Store records the parse result of path for content with the given hash.
func (c *ParseCache) Store(path string, hash [sha256.Size]byte, result *parsers.FileExtraction) {
	c.cache.Set(path, cachedShard{hash: hash, result: result})
}

// Forget drops path from the cache.
func (c *ParseCache) Forget(path string) {
	c.cache.Delete(path)
}

// Len returns the number of cached files.
func (c *ParseCache) Len() int {
	return c.cache.Size()
}

// Close releases the cache.
func (c *ParseCache) Close() {
	c.cache.Close()
}
