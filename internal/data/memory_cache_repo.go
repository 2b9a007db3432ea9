package data

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	expires time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// MemoryCacheRepo implements core.CacheRepository in process memory.
// Expired entries are dropped lazily on access and by Sweep.
type MemoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   TimeProvider
}

// NewMemoryCacheRepo creates an empty in-memory cache. A nil clock uses real time.
func NewMemoryCacheRepo(clock TimeProvider) *MemoryCacheRepo {
	if clock == nil {
		clock = &RealTimeProvider{}
	}
	return &MemoryCacheRepo{entries: make(map[string]memoryEntry), clock: clock}
}

func (m *MemoryCacheRepo) entry(value []byte, ttl time.Duration) memoryEntry {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.clock.Now().Add(ttl)
	}
	return e
}

// lookup returns the live entry for key. Callers hold m.mu.
func (m *MemoryCacheRepo) lookup(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if e.expired(m.clock.Now()) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// Set stores a copy of value under key.
func (m *MemoryCacheRepo) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = m.entry(value, ttl)
	return nil
}

// Get returns a copy of the stored value, or nil when missing or expired.
func (m *MemoryCacheRepo) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.lookup(key)
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), e.value...), nil
}

// Delete removes key.
func (m *MemoryCacheRepo) Delete(_ context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lookup(key)
	delete(m.entries, key)
	return ok, nil
}

// Exists reports whether key holds a live value.
func (m *MemoryCacheRepo) Exists(_ context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lookup(key)
	return ok, nil
}

// SetIfNotExists stores value only when key holds no live value.
func (m *MemoryCacheRepo) SetIfNotExists(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.entries[key] = m.entry(value, ttl)
	return true, nil
}

// Health always succeeds.
func (m *MemoryCacheRepo) Health(context.Context) error { return nil }

// Sweep drops every expired entry and returns how many were removed.
func (m *MemoryCacheRepo) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	removed := 0
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (m *MemoryCacheRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
