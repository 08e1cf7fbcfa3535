// Package cache memoizes parse results by source content.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/untillpro/goutils/logger"

	"structscan/internal/model"
	"structscan/internal/parser"
)

type entry struct {
	registry *model.Registry
	diags    parser.Diagnostics
}

// Cache wraps a Parser with an LRU of recent results keyed by the SHA-256
// of the source text. Callers always receive their own copy of a registry.
// Safe for concurrent use.
type Cache struct {
	parser  *parser.Parser
	entries *lru.Cache[string, entry]
}

// New creates a cache holding at most size parse results.
func New(p *parser.Parser, size int) (*Cache, error) {
	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("creating parse cache: %w", err)
	}
	return &Cache{parser: p, entries: entries}, nil
}

// Parse returns the registry and diagnostics for src, parsing only on a miss.
func (c *Cache) Parse(src string) (*model.Registry, parser.Diagnostics) {
	key := Key(src)
	if e, ok := c.entries.Get(key); ok {
		logger.Verbose("parse cache hit", key[:12])
		return e.registry.Clone(), copyDiags(e.diags)
	}

	reg, diags := c.parser.ParseString(src)
	c.entries.Add(key, entry{registry: reg.Clone(), diags: copyDiags(diags)})
	return reg, diags
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached result.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Key returns the cache key for src.
func Key(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

func copyDiags(d parser.Diagnostics) parser.Diagnostics {
	if d == nil {
		return nil
	}
	out := make(parser.Diagnostics, len(d))
	copy(out, d)
	return out
}
