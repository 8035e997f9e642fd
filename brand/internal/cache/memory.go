package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the in-process tier.
const DefaultMaxEntries = 1000

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// Memory is a mutex-guarded expiring map bounded to maxEntries.
// When full, the entry closest to expiry (the oldest, under a uniform
// TTL) is evicted.
type Memory struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]memoryEntry

	now func() time.Time // overridable in tests
}

// NewMemory creates an in-process cache tier.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]memoryEntry),
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	me, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().After(me.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	e := me.entry
	return &e, true
}

func (m *Memory) Set(_ context.Context, key string, e *Entry) {
	if e == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictOldestLocked()
	}
	m.entries[key] = memoryEntry{entry: *e, expiresAt: m.now().Add(m.ttl)}
}

func (m *Memory) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, me := range m.entries {
		if oldestKey == "" || me.expiresAt.Before(oldest) {
			oldestKey = k
			oldest = me.expiresAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
