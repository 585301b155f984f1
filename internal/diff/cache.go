package diff

import "github.com/codalotl/artifactview/internal/q/memo"

// DefaultCacheSize is the number of diffs a Cache created with NewCache(0) holds.
const DefaultCacheSize = 128

// Cache memoizes DiffLines by the content of the (old, new) pair. It is safe for concurrent use. Returned Results are shared between callers and must not be
// modified.
type Cache struct {
	memo *memo.Cache[Result]
}

// NewCache returns a Cache holding up to size results. If size is 0, DefaultCacheSize is used; if negative, nothing is cached.
func NewCache(size int) *Cache {
	if size == 0 {
		size = DefaultCacheSize
	}
	return &Cache{memo: memo.New[Result](size)}
}

// DiffLines returns DiffLines(oldText, newText), computing it only if the pair is not already cached.
func (c *Cache) DiffLines(oldText, newText string) Result {
	return c.memo.GetOrCompute(memo.Key(oldText, newText), func() Result {
		return DiffLines(oldText, newText)
	})
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.memo.Len()
}
