// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

// Package cache provides a bounded, thread-safe LRU cache with per-entry
// TTL. Enrichment results (reverse geocoding, elevations) are cached here
// so that repeated lookups for the same spot never hit the mapping
// provider twice within the TTL.
//
// Expiry is lazy: an expired entry is dropped when it is next read or
// when it reaches the tail and is evicted. There is no background
// goroutine, so a cache needs no Close.
package cache

import (
	"crypto/sha256"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultCapacity = 10000
	defaultTTL      = 5 * time.Minute
)

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	prev      *entry[V]
	next      *entry[V]
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Keys      int
}

// LRU is a least recently used cache. head.next is the most recently used
// entry, tail.prev the least.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[string]*entry[V]
	head  *entry[V]
	tail  *entry[V]

	hits      int64
	misses    int64
	evictions int64
}

// Option configures an LRU.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a cache holding at most capacity entries, each living ttl.
// Non-positive values select the defaults.
func New[V any](capacity int, ttl time.Duration, opts ...Option) *LRU[V] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	c := &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		now:      o.now,
		items:    make(map[string]*entry[V]),
		head:     &entry[V]{},
		tail:     &entry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the value for key if present and not expired.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		c.remove(e)
		c.evictions++
		c.misses++
		return zero, false
	}
	c.moveToFront(e)
	c.hits++
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *LRU[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a custom TTL.
func (c *LRU[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(ttl)
	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expires
		c.moveToFront(e)
		return
	}

	if len(c.items) >= c.capacity {
		c.remove(c.tail.prev)
		c.evictions++
	}
	e := &entry[V]{key: key, value: value, expiresAt: expires}
	c.items[key] = e
	c.pushFront(e)
}

// Delete removes key. Missing keys are ignored.
func (c *LRU[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.remove(e)
		c.evictions++
	}
}

// Len returns the number of stored entries, including expired ones not
// yet collected.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns a snapshot of cache counters.
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Evictions: c.evictions, Keys: len(c.items)}
}

// HitRate returns hits as a percentage of lookups.
func (c *LRU[V]) HitRate() float64 {
	s := c.Stats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

func (c *LRU[V]) pushFront(e *entry[V]) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *LRU[V]) moveToFront(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.pushFront(e)
}

// remove must not be called with a sentinel.
func (c *LRU[V]) remove(e *entry[V]) {
	if e == c.head || e == c.tail {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	delete(c.items, e.key)
}

// GenerateKey creates a compact cache key from a method name and any
// JSON-serializable parameters.
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}

// CoordinateKey rounds a coordinate to precision decimal places so that
// fixes a few meters apart share a key. Four places is roughly 11 m.
func CoordinateKey(prefix string, lat, lng float64, precision int) string {
	scale := math.Pow(10, float64(precision))
	rl := math.Round(lat*scale) / scale
	rg := math.Round(lng*scale) / scale
	// Normalize negative zero.
	if rl == 0 {
		rl = 0
	}
	if rg == 0 {
		rg = 0
	}
	return prefix + ":" + strconv.FormatFloat(rl, 'f', precision, 64) + "," + strconv.FormatFloat(rg, 'f', precision, 64)
}
