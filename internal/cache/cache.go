// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

// Package cache provides the thread-safe TTL result cache that memoizes
// scorer outputs. It is the only shared mutable state in the scoring core
// and is constructed once per process and injected, never global.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Entry is one cached value with its expiry. Entries are owned exclusively
// by the cache and replaced atomically, never partially overwritten.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Stats tracks cache effectiveness counters.
type Stats struct {
	Hits       int64
	Misses     int64
	StaleReads int64
	Evictions  int64
	TotalKeys  int64
	LastSweep  time.Time
}

// Cache is a thread-safe in-memory TTL cache. Expired entries are kept
// until the next sweep so callers can fall back to a stale value when an
// upstream fetch fails.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry

	statsMu sync.Mutex
	stats   Stats

	sweepInterval time.Duration
	done          chan struct{}
	closeOnce     sync.Once
}

// New creates a cache whose background sweep runs every sweepInterval.
// A non-positive interval disables the sweep; Close stops it.
func New(sweepInterval time.Duration) *Cache {
	c := &Cache{
		entries:       make(map[string]Entry),
		sweepInterval: sweepInterval,
		done:          make(chan struct{}),
	}

	if sweepInterval > 0 {
		go c.sweepLoop()
	}

	return c
}

// Get returns the fresh value for key, or false if the key is absent or
// past its expiry.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.ExpiresAt) {
		c.recordMiss()
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// GetStale returns the value for key even if it has expired, as long as
// the sweep has not yet removed it. Used as a last-resort fallback when
// recomputation fails.
func (c *Cache) GetStale(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.statsMu.Lock()
		c.stats.StaleReads++
		c.statsMu.Unlock()
	}
	return entry.Data, true
}

// Set stores value under key with the given TTL, overwriting any existing
// entry and resetting its expiry to now + ttl.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.TotalKeys = total
	c.statsMu.Unlock()
}

// Invalidate removes the entry for key. Safe to call for absent keys.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()

	if existed {
		c.recordEvictions(1)
	}
}

// InvalidatePattern removes every entry whose key starts with prefix.
// Returns the number of entries removed. Used when underlying content
// changes, e.g. a new post invalidates all trending keys.
func (c *Cache) InvalidatePattern(prefix string) int {
	c.mu.Lock()
	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.recordEvictions(int64(removed))
	}
	return removed
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.Evictions += evicted
	c.stats.TotalKeys = 0
	c.statsMu.Unlock()
}

// Len returns the current number of entries, expired included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache) GetStats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// HitRate returns the hit percentage across Get calls.
func (c *Cache) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Close stops the background sweep. The cache remains usable.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

// sweep removes all expired entries.
func (c *Cache) sweep() {
	now := time.Now()

	c.mu.Lock()
	evicted := int64(0)
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.Evictions += evicted
	c.stats.TotalKeys = total
	c.stats.LastSweep = now
	c.statsMu.Unlock()
}

func (c *Cache) recordHit() {
	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
}

func (c *Cache) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
}

func (c *Cache) recordEvictions(n int64) {
	c.statsMu.Lock()
	c.stats.Evictions += n
	c.statsMu.Unlock()
}
