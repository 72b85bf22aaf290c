// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("k", "v", time.Minute)

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("Get(k) = absent, want present")
	}
	if got != "v" {
		t.Errorf("Get(k) = %v, want v", got)
	}
}

func TestCache_GetAbsent(t *testing.T) {
	c := New(0)
	defer c.Close()

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) = present, want absent")
	}
}

func TestCache_SetOverwrites(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("k", "old", time.Minute)
	c.Set("k", "new", time.Minute)

	got, ok := c.Get("k")
	if !ok || got != "new" {
		t.Errorf("Get(k) = %v, %v, want new, true", got, ok)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("k", "v", 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Get(k) after expiry = present, want absent")
	}
}

func TestCache_GetStale(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("k", "v", 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	// Fresh read misses, stale read still serves until the sweep runs.
	if _, ok := c.Get("k"); ok {
		t.Fatal("Get(k) after expiry = present, want absent")
	}
	got, ok := c.GetStale("k")
	if !ok || got != "v" {
		t.Errorf("GetStale(k) = %v, %v, want v, true", got, ok)
	}

	c.sweep()
	if _, ok := c.GetStale("k"); ok {
		t.Error("GetStale(k) after sweep = present, want absent")
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("k", "v", time.Minute)
	c.Invalidate("k")

	if _, ok := c.Get("k"); ok {
		t.Error("Get(k) after Invalidate = present, want absent")
	}

	// Invalidating an absent key is a no-op.
	c.Invalidate("missing")
}

func TestCache_InvalidatePattern(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("trending_24h_10", 1, time.Minute)
	c.Set("trending_7d_10", 2, time.Minute)
	c.Set("other_key", 3, time.Minute)

	removed := c.InvalidatePattern("trending_")
	if removed != 2 {
		t.Errorf("InvalidatePattern removed %d, want 2", removed)
	}

	if _, ok := c.Get("trending_24h_10"); ok {
		t.Error("trending_24h_10 survived pattern invalidation")
	}
	if _, ok := c.Get("trending_7d_10"); ok {
		t.Error("trending_7d_10 survived pattern invalidation")
	}
	if _, ok := c.Get("other_key"); !ok {
		t.Error("other_key was removed, want intact")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestCache_Stats(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("k", "v", time.Minute)
	c.Get("k")
	c.Get("k")
	c.Get("missing")

	s := c.GetStats()
	if s.Hits != 2 {
		t.Errorf("Hits = %d, want 2", s.Hits)
	}
	if s.Misses != 1 {
		t.Errorf("Misses = %d, want 1", s.Misses)
	}

	wantRate := float64(2) / 3 * 100
	if got := c.HitRate(); got != wantRate {
		t.Errorf("HitRate() = %v, want %v", got, wantRate)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(0)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key_%d", n%4)
			for j := 0; j < 200; j++ {
				c.Set(key, n, time.Minute)
				if v, ok := c.Get(key); ok {
					// Values are replaced atomically, never partially.
					if _, isInt := v.(int); !isInt {
						t.Errorf("Get(%s) returned corrupted value %v", key, v)
						return
					}
				}
				c.InvalidatePattern("key_0")
			}
		}(i)
	}
	wg.Wait()
}

func TestCache_SweepEvictsExpired(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("short", 1, 5*time.Millisecond)
	c.Set("long", 2, time.Minute)
	time.Sleep(15 * time.Millisecond)

	c.sweep()

	if c.Len() != 1 {
		t.Errorf("Len() after sweep = %d, want 1", c.Len())
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("long entry evicted by sweep, want kept")
	}
}
