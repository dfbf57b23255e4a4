// Package cache holds small in-process caches for hot per-request lookups.
package cache

import (
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/enablementhq/tracker-api/internal/parser"
)

const (
	defaultCategoryCacheSize = 1024
	defaultCategoryCacheTTL  = 30 * time.Second
)

// CategoryCache caches per-user category snapshots for the command parser.
// Entries expire quickly so category renames show up without explicit
// invalidation, but writers should still call Invalidate on mutation.
type CategoryCache struct {
	lru *lru.LRU[uuid.UUID, []parser.CategoryRef]
}

// NewCategoryCache creates a category cache with default sizing
func NewCategoryCache() *CategoryCache {
	return &CategoryCache{
		lru: lru.NewLRU[uuid.UUID, []parser.CategoryRef](defaultCategoryCacheSize, nil, defaultCategoryCacheTTL),
	}
}

// Get returns the cached snapshot for a user, if present and fresh
func (c *CategoryCache) Get(userID uuid.UUID) ([]parser.CategoryRef, bool) {
	return c.lru.Get(userID)
}

// Set stores a snapshot for a user
func (c *CategoryCache) Set(userID uuid.UUID, refs []parser.CategoryRef) {
	c.lru.Add(userID, refs)
}

// Invalidate drops a user's snapshot after a category mutation
func (c *CategoryCache) Invalidate(userID uuid.UUID) {
	c.lru.Remove(userID)
}
