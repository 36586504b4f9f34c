// Package cache holds the per-run memory cache. Every upstream fetch
// during one generation run goes through it so a league's scoreboard or
// a team's roster is fetched once no matter how many teams need it.
package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/teamarr/teamarr/internal/telemetry"
)

// RunCache memoizes fetch results for the duration of one generation
// run. Concurrent requests for the same key are collapsed to a single
// upstream call. A successful fetch that produced no data is cached as
// nil and will not be re-fetched; only errors leave the key unset.
type RunCache struct {
	mu      sync.RWMutex
	entries map[string]any
	group   singleflight.Group
}

func NewRunCache() *RunCache {
	return &RunCache{entries: make(map[string]any)}
}

// Do returns the cached value for key, or runs fetch once and caches
// its result. nil results are cached; errors are not.
func (c *RunCache) Do(key string, fetch func() (any, error)) (any, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		telemetry.Metrics.CacheHits.Inc()
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Recheck under the flight: a previous flight may have
		// populated the key between our read and Do.
		c.mu.RLock()
		v, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		telemetry.Metrics.CacheMisses.Inc()
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = v
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Get reads a cached value without fetching. ok is true even for a
// cached nil.
func (c *RunCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores a value directly, bypassing the flight group.
func (c *RunCache) Put(key string, v any) {
	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
}

// Len reports the number of cached keys.
func (c *RunCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every entry. Called between generation runs.
func (c *RunCache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]any)
	c.mu.Unlock()
}

// Fetch is the typed wrapper around Do for callers that know the
// value's concrete type. A cached nil comes back as the zero value
// with found=false and no error.
func Fetch[T any](c *RunCache, key string, fetch func() (T, error)) (T, bool, error) {
	var zero T
	v, err := c.Do(key, func() (any, error) {
		val, err := fetch()
		if err != nil {
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		return zero, false, err
	}
	if v == nil {
		return zero, false, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false, nil
	}
	return typed, true, nil
}
