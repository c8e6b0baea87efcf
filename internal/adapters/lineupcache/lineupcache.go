// Package lineupcache keeps recently returned lineups addressable by id,
// so a prediction or comparison can reference a prior optimization result
// instead of restating the whole crew.
package lineupcache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oarbit/rigger/internal/domain/crew"
	"github.com/oarbit/rigger/pkg/metrics"
)

// defaultMaxSize bounds the cache when no option overrides it.
const defaultMaxSize = 256

// Entry is one cached optimization result. The roster snapshot travels
// with the lineup so a later prediction resolves athletes as they were
// scored at optimization time.
type Entry struct {
	LineupID  string
	BoatClass string
	Lineup    crew.Lineup
	Roster    crew.Roster
	Score     float64
	StoredAt  time.Time
}

// Cache stores recently returned lineups under minted ids.
type Cache interface {
	// Put stores a lineup with its roster snapshot and returns the minted
	// lineup id. The oldest entry is evicted once the bound is reached.
	Put(ctx context.Context, boatClass string, lineup crew.Lineup, roster crew.Roster, score float64) string

	// Get returns the entry for id, reporting whether it was present.
	Get(ctx context.Context, id string) (Entry, bool)

	Size() int
}

// Option applies a configuration option to the cache.
type Option func(*InMemoryCache)

// WithMaxSize bounds how many lineups the cache retains.
func WithMaxSize(size int) Option {
	return func(c *InMemoryCache) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// InMemoryCache implements Cache with a mutex-guarded map plus an
// insertion-order list for FIFO eviction.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string // insertion order, oldest first
	maxSize int
}

// NewInMemoryCache creates a bounded cache with configuration options.
func NewInMemoryCache(opts ...Option) *InMemoryCache {
	c := &InMemoryCache{
		maxSize: defaultMaxSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	c.entries = make(map[string]Entry, c.maxSize)
	c.order = make([]string, 0, c.maxSize)

	return c
}

// Put stores a lineup under a fresh uuid and returns it.
func (c *InMemoryCache) Put(_ context.Context, boatClass string, lineup crew.Lineup, roster crew.Roster, score float64) string {
	id := uuid.New().String()
	entry := Entry{
		LineupID:  id,
		BoatClass: boatClass,
		Lineup:    lineup.Clone(),
		Roster:    roster,
		Score:     score,
		StoredAt:  time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[id] = entry
	c.order = append(c.order, id)
	metrics.UpdateLineupCacheSize(len(c.entries))

	return id
}

// Get returns the entry for id, reporting whether it was present.
func (c *InMemoryCache) Get(_ context.Context, id string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if ok {
		metrics.RecordLineupCacheHit()
	} else {
		metrics.RecordLineupCacheMiss()
	}
	return entry, ok
}

// Size returns the number of cached lineups.
func (c *InMemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictOldest drops the front of the insertion order. Caller holds the
// write lock.
func (c *InMemoryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
	metrics.RecordLineupCacheEviction()
}
