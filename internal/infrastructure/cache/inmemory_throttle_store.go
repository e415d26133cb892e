package cache

import (
	"context"
	"sync"
	"time"

	"github.com/wms/backend/internal/domain/integration"
)

// InMemoryThrottleStore implements ThrottleStore with a process-local map.
// This is the default for single-instance deployments; multi-replica setups
// should use the Redis store so replicas share suppression state.
type InMemoryThrottleStore struct {
	mu       sync.Mutex
	lastSent map[string]time.Time

	// now is swapped in tests
	now func() time.Time
}

// NewInMemoryThrottleStore creates a new in-memory throttle store
func NewInMemoryThrottleStore() *InMemoryThrottleStore {
	return &InMemoryThrottleStore{
		lastSent: make(map[string]time.Time),
		now:      time.Now,
	}
}

// ShouldSend returns true and records the send when no send is recorded for
// fingerprint inside the window. Check and mark happen under one lock so
// concurrent callers cannot both pass.
func (s *InMemoryThrottleStore) ShouldSend(_ context.Context, fingerprint string, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sent, ok := s.lastSent[fingerprint]; ok && now.Sub(sent) < window {
		return false, nil
	}

	s.lastSent[fingerprint] = now

	// Opportunistic cleanup keeps the map bounded without a janitor goroutine
	if len(s.lastSent) > 1024 {
		for fp, sent := range s.lastSent {
			if now.Sub(sent) >= window {
				delete(s.lastSent, fp)
			}
		}
	}
	return true, nil
}

// Ensure InMemoryThrottleStore implements ThrottleStore
var _ integration.ThrottleStore = (*InMemoryThrottleStore)(nil)
