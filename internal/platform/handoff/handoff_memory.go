package handoff

import (
	"context"
	"maps"
	"sync"
	"time"

	"fox_trade/internal/feature/dailyreport/usecase"
)

// DefaultMaxRuns caps how many runs a MemoryStore keeps at once.
const DefaultMaxRuns = 1000

// MemoryStore is a process-local HandoffStore used when Redis is unavailable.
// Like the Redis store, each Put refreshes the run's TTL. Expired runs are swept on Put,
// and once the cap is reached the run closest to expiry is evicted.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxRuns int
	runs    map[string]*memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	values    map[string]string
	expiresAt time.Time
}

var _ usecase.HandoffStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore. A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		maxRuns: DefaultMaxRuns,
		runs:    make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, runID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	e, ok := s.runs[runID]
	if !ok {
		if len(s.runs) >= s.maxRuns {
			s.evictOldest()
		}
		e = &memoryEntry{values: make(map[string]string, len(values))}
		s.runs[runID] = e
	}
	maps.Copy(e.values, values)
	e.expiresAt = now.Add(s.ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, runID string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.runs[runID]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, usecase.ErrHandoffNotFound
	}
	return maps.Clone(e.values), nil
}

// Len returns the number of runs currently held, expired ones included until the next sweep.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}

func (s *MemoryStore) sweep(now time.Time) {
	for id, e := range s.runs {
		if !now.Before(e.expiresAt) {
			delete(s.runs, id)
		}
	}
}

func (s *MemoryStore) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, e := range s.runs {
		if oldestID == "" || e.expiresAt.Before(oldest) {
			oldestID, oldest = id, e.expiresAt
		}
	}
	delete(s.runs, oldestID)
}
