package analyzer

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/classmeta/internal/analyzer/parsers"
)

// Test Plan for ParseCache:
// - A stored result is returned for the same path and content hash
// - A different hash misses
// - Forget drops the entry

func TestParseCache(t *testing.T) {
	t.Parallel()

	cache, err := NewParseCache(0)
	require.NoError(t, err)
	defer cache.Close()

	hash := sha256.Sum256([]byte("struct A { int a; };"))
	result := &parsers.FileExtraction{Language: "c", FilePath: "a.c"}

	_, ok := cache.Lookup("a.c", hash)
	assert.False(t, ok)

	cache.Store("a.c", hash, result)

	got, ok := cache.Lookup("a.c", hash)
	require.True(t, ok)
	assert.Same(t, result, got)

	_, ok = cache.Lookup("a.c", sha256.Sum256([]byte("changed")))
	assert.False(t, ok)

	cache.Forget("a.c")
	_, ok = cache.Lookup("a.c", hash)
	assert.False(t, ok)
}
