package predeval

import (
	"fmt"
	"regexp"
	"sync"
)

type regexKey struct {
	keyID   uint32
	pattern string
}

// RegexCache compiles each (key_id, pattern) pair exactly once, the first
// time a plan references it, and reuses the compiled *regexp.Regexp for
// every row afterward. One cache is built per plan load and shared
// read-only across the whole execution.
type RegexCache struct {
	mu       sync.Mutex
	compiled map[regexKey]*regexp.Regexp
}

// NewRegexCache returns an empty cache.
func NewRegexCache() *RegexCache {
	return &RegexCache{compiled: make(map[regexKey]*regexp.Regexp)}
}

// Get returns the compiled regexp for (keyID, pattern), compiling and
// caching it on first use.
func (c *RegexCache) Get(keyID uint32, pattern string) (*regexp.Regexp, error) {
	k := regexKey{keyID: keyID, pattern: pattern}

	c.mu.Lock()
	defer c.mu.Unlock()
	if re, ok := c.compiled[k]; ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling regex %q for key %d: %w", pattern, keyID, err)
	}

	c.compiled[k] = re
	return re, nil
}
