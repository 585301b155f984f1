package markdown

import (
	"strconv"

	"github.com/codalotl/artifactview/internal/q/memo"
)

// DefaultCacheSize is the number of renders a Cache created with NewCache(0) holds.
const DefaultCacheSize = 64

// Cache memoizes Parse+RenderHTML by source and options. It is safe for concurrent use.
type Cache struct {
	memo *memo.Cache[string]
}

// NewCache returns a Cache holding up to size renders. If size is 0, DefaultCacheSize is used; if negative, nothing is cached.
func NewCache(size int) *Cache {
	if size == 0 {
		size = DefaultCacheSize
	}
	return &Cache{memo: memo.New[string](size)}
}

// RenderHTML returns RenderHTML(Parse(source), opts), computing it only if not already cached.
func (c *Cache) RenderHTML(source string, opts RenderOptions) string {
	key := memo.Key(source, strconv.FormatBool(opts.LegacyOrderedLists), strconv.FormatBool(opts.LanguageClass))
	return c.memo.GetOrCompute(key, func() string {
		return RenderHTML(Parse(source), opts)
	})
}
