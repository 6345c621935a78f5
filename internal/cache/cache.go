// Package cache holds recent remote read responses keyed by request
// signature. Entries live for a fixed TTL and are evicted lazily on read.
package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

// DefaultTTL is the lifetime of a cache entry.
const DefaultTTL = 5 * time.Minute

// Cache stores serialized responses.
//
// Get reports a miss for absent or expired keys. Set overwrites any
// existing entry and restarts its lifetime. Flush drops every entry.
// Keys lists the keys that would currently hit. Ping reports whether the
// backing store is reachable.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
	Flush(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

type entry struct {
	payload  []byte
	storedAt time.Time
}

// Memory is a process-local Cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Memory cache.
type Option func(*Memory)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(m *Memory) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates an empty in-process cache.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the payload stored under key while it is younger than the TTL.
// An expired entry is removed.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if m.now().Sub(e.storedAt) < m.ttl {
		return e.payload, true
	}

	m.mu.Lock()
	// A concurrent Set may have refreshed the key since the read lock was released.
	if cur, ok := m.entries[key]; ok && cur.storedAt.Equal(e.storedAt) {
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil, false
}

// Set stores payload under key with the current time.
func (m *Memory) Set(_ context.Context, key string, payload []byte) {
	m.mu.Lock()
	m.entries[key] = entry{payload: payload, storedAt: m.now()}
	m.mu.Unlock()
}

// Flush drops every entry.
func (m *Memory) Flush(context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
	return nil
}

// Keys returns the unexpired keys in sorted order. Expired entries are
// skipped, not evicted.
func (m *Memory) Keys(context.Context) ([]string, error) {
	now := m.now()
	m.mu.RLock()
	keys := make([]string, 0, len(m.entries))
	for k, e := range m.entries {
		if now.Sub(e.storedAt) < m.ttl {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()
	slices.Sort(keys)
	return keys, nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
