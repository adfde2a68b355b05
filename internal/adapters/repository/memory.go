package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/okian/atlas/internal/domain/model"
)

// MemoryStore serves a Dataset from memory. Results are copies; callers may
// not mutate the store through them.
type MemoryStore struct {
	mu       sync.RWMutex
	data     Dataset
	lastSync time.Time
	fail     error
	closed   bool
}

// NewMemoryStore creates a store over the mock dataset unless WithDataset is
// given.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		data:     MockDataset(),
		lastSync: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.data.Summary != nil && s.data.Summary.LastSync == nil {
		sum := *s.data.Summary
		sum.LastSync = model.Ptr(s.lastSync)
		s.data.Summary = &sum
	}
	return s
}

func (s *MemoryStore) check(ctx context.Context, query string) error {
	if err := ctx.Err(); err != nil {
		return queryFailed(err, query, "memory: "+query)
	}
	if s.closed {
		return queryFailed(eris.New("store closed"), query, "memory: "+query)
	}
	if s.fail != nil {
		return queryFailed(s.fail, query, "memory: "+query)
	}
	return nil
}

// ListSectors implements Store.
func (s *MemoryStore) ListSectors(ctx context.Context) (_ []model.Sector, err error) {
	defer observe(QueryListSectors, time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err = s.check(ctx, QueryListSectors); err != nil {
		return nil, err
	}
	out := append([]model.Sector(nil), s.data.Sectors...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListRegions implements Store.
func (s *MemoryStore) ListRegions(ctx context.Context) (_ []model.Region, err error) {
	defer observe(QueryListRegions, time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err = s.check(ctx, QueryListRegions); err != nil {
		return nil, err
	}
	out := append([]model.Region(nil), s.data.Regions...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListSectorMetrics implements Store.
func (s *MemoryStore) ListSectorMetrics(ctx context.Context, year int) (_ []model.SectorMetric, err error) {
	defer observe(QueryListMetrics, time.Now(), &err)
	if err = validYear(year); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err = s.check(ctx, QueryListMetrics); err != nil {
		return nil, err
	}
	out := make([]model.SectorMetric, 0, len(s.data.Metrics))
	for _, m := range s.data.Metrics {
		if m.Year == year {
			out = append(out, m)
		}
	}
	return out, nil
}

// LatestGlobalSummary implements Store.
func (s *MemoryStore) LatestGlobalSummary(ctx context.Context) (_ *model.GlobalSummary, err error) {
	defer observe(QueryLatestSummary, time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err = s.check(ctx, QueryLatestSummary); err != nil {
		return nil, err
	}
	if s.data.Summary == nil {
		return nil, nil
	}
	sum := *s.data.Summary
	return &sum, nil
}

// ListInvestmentFlows implements Store.
func (s *MemoryStore) ListInvestmentFlows(ctx context.Context, year int) (_ []model.InvestmentFlow, err error) {
	defer observe(QueryListFlows, time.Now(), &err)
	if err = validYear(year); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err = s.check(ctx, QueryListFlows); err != nil {
		return nil, err
	}
	var out []model.InvestmentFlow
	for _, f := range s.data.Flows {
		if f.Year == year {
			out = append(out, f)
		}
	}
	return out, nil
}

// Dataset returns a copy of the served dataset, used to seed other stores.
func (s *MemoryStore) Dataset() Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds := s.data
	ds.Sectors = append([]model.Sector(nil), ds.Sectors...)
	ds.Regions = append([]model.Region(nil), ds.Regions...)
	ds.Metrics = append([]model.SectorMetric(nil), ds.Metrics...)
	ds.Flows = append([]model.InvestmentFlow(nil), ds.Flows...)
	if ds.Summary != nil {
		sum := *ds.Summary
		ds.Summary = &sum
	}
	return ds
}

// Close implements Store. Later queries fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
