// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/okian/atlas/internal/adapters/repository"
	"github.com/okian/atlas/internal/domain/dashboard"
	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
	"github.com/okian/atlas/internal/domain/viewmode"
	"github.com/okian/atlas/pkg/logger"
	"github.com/okian/atlas/pkg/metrics"
)

// Service loads per-year snapshots from the metric store, caches them and
// answers dashboard queries from the cache.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	scorer *scoring.Scorer
	loads  singleflight.Group

	// Configuration
	year            int
	ttl             time.Duration
	refreshInterval time.Duration
	loadTimeout     time.Duration
	defaultMode     viewmode.Mode
	now             func() time.Time

	// State
	cache   map[int]cached
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	logger logger.Logger
}

type cached struct {
	snap    *model.Snapshot
	expires time.Time
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		scorer:          scoring.NewScorer(),
		year:            model.DefaultYear,
		ttl:             24 * time.Hour, // ingestion runs daily
		refreshInterval: time.Hour,
		loadTimeout:     30 * time.Second,
		defaultMode:     viewmode.Public,
		now:             time.Now,
		cache:           make(map[int]cached),
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	return s
}

// Start warms the default year and starts the background refresher. A failed
// warm-up is logged; the service then serves the loading state until a load
// succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting atlas service...",
		logger.Int("year", s.year),
		logger.Duration("snapshotTTL", s.ttl),
	)

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "initial snapshot load failed", logger.Error(err))
	}

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.refreshLoop()
	}

	s.logger.Info(ctx, "atlas service started")
	return nil
}

// Stop halts background refresh and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	s.mu.Unlock()

	s.wg.Wait()
	if err := s.store.Close(); err != nil {
		s.log().Warn(context.Background(), "closing metric store", logger.Error(err))
	}
	s.log().Info(context.Background(), "atlas service stopped")
}

func (s *Service) refreshLoop() {
	defer s.wg.Done()
	t := time.NewTicker(s.refreshInterval)
	defer t.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-t.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.refreshInterval)
			if err := s.Refresh(ctx); err != nil {
				s.log().Warn(ctx, "background refresh failed", logger.Error(err))
			}
			cancel()
		}
	}
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

// Year is the default reporting year.
func (s *Service) Year() int { return s.year }

// Scorer is the opportunity scorer in use.
func (s *Service) Scorer() *scoring.Scorer { return s.scorer }

// Snapshot returns the cached snapshot of year, loading it when absent or
// expired. A year of 0 means the default year. Concurrent loads of the same
// year share one set of store queries.
func (s *Service) Snapshot(ctx context.Context, year int) (*model.Snapshot, error) {
	year = s.resolveYear(year)
	s.mu.RLock()
	c, ok := s.cache[year]
	s.mu.RUnlock()
	if ok && s.now().Before(c.expires) {
		metrics.RecordCacheHit()
		return c.snap, nil
	}
	metrics.RecordCacheMiss()
	return s.load(ctx, year)
}

// Peek returns the cached snapshot of year, stale or not, without touching
// the store. It returns dashboard.ErrNotLoaded when nothing is cached.
func (s *Service) Peek(year int) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cache[s.resolveYear(year)]
	if !ok {
		return nil, dashboard.ErrNotLoaded
	}
	return c.snap, nil
}

// Refresh reloads the default year. Readers keep the previous snapshot until
// the new one is in place.
func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.load(ctx, s.year)
	return err
}

func (s *Service) resolveYear(year int) int {
	if year <= 0 {
		return s.year
	}
	return year
}

// load runs one shared fetch per year. The fetch is detached from the
// caller that started it and bounded by loadTimeout; each caller waits only
// as long as its own context allows.
func (s *Service) load(ctx context.Context, year int) (*model.Snapshot, error) {
	start := time.Now()
	ch := s.loads.DoChan(strconv.Itoa(year), func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		return s.fetch(lctx, year)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	ms := float64(time.Since(start).Microseconds()) / 1000
	switch {
	case res.Err != nil:
		_ = metrics.RecordSnapshotLoad(metrics.OutcomeFailed, ms)
		return nil, res.Err
	case res.Shared:
		_ = metrics.RecordSnapshotLoad(metrics.OutcomeShared, ms)
	default:
		_ = metrics.RecordSnapshotLoad(metrics.OutcomeLoaded, ms)
	}
	return res.Val.(*model.Snapshot), nil
}

// fetch runs the store queries of one year in parallel. Any failure fails the
// whole load; partial snapshots are never cached.
func (s *Service) fetch(ctx context.Context, year int) (*model.Snapshot, error) {
	snap := &model.Snapshot{Year: year}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Sectors, err = s.store.ListSectors(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Regions, err = s.store.ListRegions(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Metrics, err = s.store.ListSectorMetrics(gctx, year)
		return err
	})
	g.Go(func() (err error) {
		snap.Summary, err = s.store.LatestGlobalSummary(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Flows, err = s.store.ListInvestmentFlows(gctx, year)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log().Error(ctx, "snapshot load failed", logger.Int("year", year), logger.Error(err))
		return nil, err
	}

	snap.LoadedAt = s.now().UTC()
	s.mu.Lock()
	s.cache[year] = cached{snap: snap, expires: snap.LoadedAt.Add(s.ttl)}
	s.mu.Unlock()

	unmapped := dashboard.Unmapped(snap)
	for _, name := range unmapped {
		s.log().Warn(ctx, "sector matches no known kind", logger.Int("year", year), logger.String("sector", name))
	}
	metrics.UpdateUnmappedSectors(len(unmapped))
	metrics.UpdateSnapshotSize(len(snap.Sectors), len(snap.Regions), len(snap.Metrics))
	metrics.UpdateSnapshotLoadedAt(snap.LoadedAt.Unix())
	s.log().Info(ctx, "snapshot loaded",
		logger.Int("year", year),
		logger.Int("sectors", len(snap.Sectors)),
		logger.Int("regions", len(snap.Regions)),
		logger.Int("rows", len(snap.Metrics)),
		logger.Int("flows", len(snap.Flows)),
	)
	return snap, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	years := make([]int, 0, len(s.cache))
	for y := range s.cache {
		years = append(years, y)
	}
	sort.Ints(years)
	stats := map[string]interface{}{
		"started":         s.started,
		"year":            s.year,
		"snapshotTTL":     s.ttl.String(),
		"refreshInterval": s.refreshInterval.String(),
		"defaultMode":     string(s.defaultMode),
		"cachedYears":     years,
	}
	if c, ok := s.cache[s.year]; ok {
		stats["loadedAt"] = c.snap.LoadedAt
		stats["sectors"] = len(c.snap.Sectors)
		stats["metricRows"] = len(c.snap.Metrics)
		stats["fresh"] = s.now().Before(c.expires)
	}
	return stats
}
