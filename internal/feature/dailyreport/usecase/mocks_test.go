package usecase

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"fox_trade/internal/feature/dailyreport/domain/entity"
	klineentity "fox_trade/internal/feature/kline/domain/entity"
)

// mockFetcher is a mock implementation of the KLineFetcher interface.
type mockFetcher struct {
	FetchFunc func(ctx context.Context, q klineentity.Query) (klineentity.FetchResult, error)
	Queries   []klineentity.Query
}

func (m *mockFetcher) Fetch(ctx context.Context, q klineentity.Query) (klineentity.FetchResult, error) {
	m.Queries = append(m.Queries, q)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, q)
	}
	return klineentity.FetchResult{}, errors.New("FetchFunc is not implemented")
}

// mockHandoffStore keeps values in a map. PutErr is returned from every Put when set.
type mockHandoffStore struct {
	mu     sync.Mutex
	values map[string]map[string]string
	PutErr error
}

func newMockHandoffStore() *mockHandoffStore {
	return &mockHandoffStore{values: make(map[string]map[string]string)}
}

func (m *mockHandoffStore) Put(_ context.Context, runID string, values map[string]string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[runID] = maps.Clone(values)
	return nil
}

func (m *mockHandoffStore) Get(_ context.Context, runID string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[runID]
	if !ok {
		return nil, ErrHandoffNotFound
	}
	return maps.Clone(v), nil
}

// mockRunRepository records every state written for a run.
type mockRunRepository struct {
	mu        sync.Mutex
	runs      map[string]entity.Run
	order     []string
	CreateErr error
	UpdateErr error
	Updates   []entity.Run
}

func newMockRunRepository() *mockRunRepository {
	return &mockRunRepository{runs: make(map[string]entity.Run)}
}

func (m *mockRunRepository) Create(_ context.Context, run *entity.Run) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = *run
	m.order = append(m.order, run.ID)
	return nil
}

func (m *mockRunRepository) Update(_ context.Context, run *entity.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates = append(m.Updates, *run)
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.runs[run.ID] = *run
	return nil
}

func (m *mockRunRepository) FindByID(_ context.Context, id string) (*entity.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return &r, nil
}

func (m *mockRunRepository) ListRecent(_ context.Context, limit int) ([]entity.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Run
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[m.order[i]])
	}
	return out, nil
}

// mockExtractor and mockReporter return the next scripted error on each call.
type mockExtractor struct {
	mu     sync.Mutex
	errs   []error
	calls  int
	block  chan struct{}
	RunIDs []string
	Query  klineentity.Query
}

func (m *mockExtractor) Extract(_ context.Context, runID string, q klineentity.Query) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunIDs = append(m.RunIDs, runID)
	m.Query = q
	i := m.calls
	m.calls++
	if i < len(m.errs) {
		return m.errs[i]
	}
	return nil
}

type mockReporter struct {
	errs  []error
	calls int
}

func (m *mockReporter) Report(_ context.Context, _ string) error {
	i := m.calls
	m.calls++
	if i < len(m.errs) {
		return m.errs[i]
	}
	return nil
}

type mockRunRecorder struct {
	mu       sync.Mutex
	statuses []entity.RunStatus
}

func (m *mockRunRecorder) RunFinished(status entity.RunStatus, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}
