package tokens

import (
	"context"
	"sync"
	"time"
)

// MemoryUsageStore tracks redeemed token IDs in memory. Suitable for a
// single-process deployment and for tests.
type MemoryUsageStore struct {
	mu   sync.Mutex
	used map[string]time.Time
}

// NewMemoryUsageStore creates an empty in-memory usage store.
func NewMemoryUsageStore() *MemoryUsageStore {
	return &MemoryUsageStore{used: make(map[string]time.Time)}
}

// MarkUsed records the jti. Returns true on first use, false on replay.
// Expired entries are pruned opportunistically.
func (s *MemoryUsageStore) MarkUsed(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, expiry := range s.used {
		if now.After(expiry) {
			delete(s.used, key)
		}
	}

	if _, exists := s.used[jti]; exists {
		return false, nil
	}
	s.used[jti] = now.Add(ttl)
	return true, nil
}

var _ UsageStore = (*MemoryUsageStore)(nil)
