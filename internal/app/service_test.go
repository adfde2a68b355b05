package service_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/atlas/internal/adapters/repository"
	service "github.com/okian/atlas/internal/app"
	"github.com/okian/atlas/internal/domain/aggregate"
	"github.com/okian/atlas/internal/domain/dashboard"
	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
	"github.com/okian/atlas/internal/domain/viewmode"
	"github.com/okian/atlas/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// countingStore counts fact-table loads and can hold them until released.
type countingStore struct {
	repository.Store
	loads atomic.Int64
	gate  chan struct{}
}

func (c *countingStore) ListSectorMetrics(ctx context.Context, year int) ([]model.SectorMetric, error) {
	c.loads.Add(1)
	if c.gate != nil {
		select {
		case <-c.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return c.Store.ListSectorMetrics(ctx, year)
}

func metric(sectorID, regionID string, need, infra, capital, stability float64) model.SectorMetric {
	return model.SectorMetric{
		ID:                sectorID + "/" + regionID,
		SectorID:          sectorID,
		RegionID:          regionID,
		Year:              model.DefaultYear,
		UnmetNeedIndex:    model.Ptr(need),
		InfrastructureGap: model.Ptr(infra),
		CapitalInflowUSD:  model.Ptr(capital),
		AIMaturityScore:   model.Ptr(stability),
	}
}

func dataset(lastSync time.Time) repository.Dataset {
	return repository.Dataset{
		Sectors: []model.Sector{
			{ID: "agri", Name: "Agriculture", BaselineSystemRisk: model.Ptr(40.0)},
			{ID: "gov", Name: "Governance", BaselineSystemRisk: model.Ptr(80.0)},
			{ID: "health", Name: "Healthcare", BaselineSystemRisk: model.Ptr(20.0)},
		},
		Regions: []model.Region{
			{ID: "la", Name: "Latin America", IncomeLevel: model.IncomeUpperMiddle, RegulatoryIndex: model.Ptr(44.0)},
			{ID: "na", Name: "North America", IncomeLevel: model.IncomeHigh, RegulatoryIndex: model.Ptr(72.0)},
		},
		Metrics: []model.SectorMetric{
			metric("health", "na", 78, 40, 2e9, 62),
			metric("health", "la", 82, 50, 1e9, 58),
			metric("gov", "na", 94, 60, 0, 25),
			metric("agri", "la", 91, 55, 2.5e9, 40),
		},
		Summary: &model.GlobalSummary{
			ID:                   "latest",
			GlobalReadinessScore: model.Ptr(57.5),
			TotalAIDeployments:   model.Ptr(int64(48932)),
			TotalCapitalInflow:   model.Ptr(184.2e9),
			GlobalUnmetNeedIndex: model.Ptr(69.4),
			LastSync:             model.Ptr(lastSync),
		},
	}
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newService(store repository.Store, clk *clock, opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithStore(store),
		service.WithClock(clk.Now),
		service.WithRefreshInterval(0),
		service.WithLogger(logger.Nop()),
	}
	return service.New(append(base, opts...)...)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Year(), ShouldEqual, model.DefaultYear)
			So(svc.DefaultMode(), ShouldEqual, viewmode.Public)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["snapshotTTL"], ShouldEqual, "24h0m0s")
		})
	})

	Convey("Given invalid options", t, func() {
		svc := service.New(
			service.WithYear(-3),
			service.WithDefaultMode(viewmode.Mode("kiosk")),
			service.WithSnapshotTTL(-time.Second),
		)

		Convey("Then they are ignored", func() {
			So(svc.Year(), ShouldEqual, model.DefaultYear)
			So(svc.DefaultMode(), ShouldEqual, viewmode.Public)
			So(svc.GetStats()["snapshotTTL"], ShouldEqual, "24h0m0s")
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service over a counting store", t, func() {
		clk := &clock{now: time.Date(2024, 11, 2, 12, 0, 0, 0, time.UTC)}
		store := &countingStore{Store: repository.NewMemoryStore(repository.WithDataset(dataset(clk.now)))}
		svc := newService(store, clk)
		ctx := context.Background()

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then the default year is warmed", func() {
				snap, err := svc.Peek(0)
				So(err, ShouldBeNil)
				So(snap.Year, ShouldEqual, model.DefaultYear)
				So(len(snap.Metrics), ShouldEqual, 4)
				So(store.loads.Load(), ShouldEqual, 1)
				So(svc.GetStats()["started"], ShouldEqual, true)
				So(svc.GetStats()["fresh"], ShouldEqual, true)
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
				So(store.loads.Load(), ShouldEqual, 1)
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()

			Convey("Then it is marked stopped and the store is closed", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				_, err := store.ListSectors(ctx)
				So(errors.Is(err, repository.ErrUnavailable), ShouldBeTrue)
			})
		})
	})

	Convey("Given a store that cannot be reached", t, func() {
		clk := &clock{now: time.Now()}
		svc := newService(repository.NewMemoryStore(repository.WithFailure(errors.New("dial tcp: refused"))), clk)

		Convey("Then Start still succeeds and the service stays in the loading state", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			defer svc.Stop()
			_, err := svc.Peek(0)
			So(errors.Is(err, dashboard.ErrNotLoaded), ShouldBeTrue)
		})
	})
}

func TestService_SnapshotCache(t *testing.T) {
	Convey("Given a service with a one hour TTL", t, func() {
		clk := &clock{now: time.Date(2024, 11, 2, 12, 0, 0, 0, time.UTC)}
		store := &countingStore{Store: repository.NewMemoryStore(repository.WithDataset(dataset(clk.now)))}
		svc := newService(store, clk, service.WithSnapshotTTL(time.Hour))
		ctx := context.Background()

		Convey("Repeated reads within the TTL hit the cache", func() {
			a, err := svc.Snapshot(ctx, 0)
			So(err, ShouldBeNil)
			b, err := svc.Snapshot(ctx, model.DefaultYear)
			So(err, ShouldBeNil)
			So(a, ShouldPointTo, b)
			So(store.loads.Load(), ShouldEqual, 1)
		})

		Convey("An expired snapshot is reloaded", func() {
			_, _ = svc.Snapshot(ctx, 0)
			clk.Advance(61 * time.Minute)
			_, err := svc.Snapshot(ctx, 0)
			So(err, ShouldBeNil)
			So(store.loads.Load(), ShouldEqual, 2)
		})

		Convey("Years are cached independently", func() {
			_, _ = svc.Snapshot(ctx, 2024)
			prior, err := svc.Snapshot(ctx, 2023)
			So(err, ShouldBeNil)
			So(prior.Metrics, ShouldBeEmpty)
			So(store.loads.Load(), ShouldEqual, 2)
			So(svc.GetStats()["cachedYears"], ShouldResemble, []int{2023, 2024})
		})
	})

	Convey("Given many concurrent readers of a cold year", t, func() {
		clk := &clock{now: time.Now()}
		store := &countingStore{
			Store: repository.NewMemoryStore(repository.WithDataset(dataset(clk.now))),
			gate:  make(chan struct{}),
		}
		svc := newService(store, clk)

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Snapshot(context.Background(), 0)
				errs <- err
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(store.gate)
		wg.Wait()
		close(errs)

		Convey("Then the store is queried once", func() {
			for err := range errs {
				So(err, ShouldBeNil)
			}
			So(store.loads.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given a cold load started by a caller that goes away", t, func() {
		clk := &clock{now: time.Now()}
		store := &countingStore{
			Store: repository.NewMemoryStore(repository.WithDataset(dataset(clk.now))),
			gate:  make(chan struct{}),
		}
		svc := newService(store, clk)

		leaderCtx, cancelLeader := context.WithCancel(context.Background())
		leaderErr := make(chan error, 1)
		go func() {
			_, err := svc.Snapshot(leaderCtx, 0)
			leaderErr <- err
		}()
		for store.loads.Load() == 0 {
			time.Sleep(time.Millisecond)
		}

		followerErr := make(chan error, 1)
		var followerSnap *model.Snapshot
		go func() {
			snap, err := svc.Snapshot(context.Background(), 0)
			followerSnap = snap
			followerErr <- err
		}()
		time.Sleep(20 * time.Millisecond)

		cancelLeader()
		lerr := <-leaderErr
		close(store.gate)
		ferr := <-followerErr

		Convey("Then only the leader sees its cancellation", func() {
			So(errors.Is(lerr, context.Canceled), ShouldBeTrue)
			So(ferr, ShouldBeNil)
			So(followerSnap, ShouldNotBeNil)
			So(followerSnap.Metrics, ShouldHaveLength, 4)
		})

		Convey("And the shared load still ran once and was cached", func() {
			So(store.loads.Load(), ShouldEqual, 1)
			_, err := svc.Peek(0)
			So(err, ShouldBeNil)
		})
	})

	Convey("Given a store that never answers", t, func() {
		clk := &clock{now: time.Now()}
		store := &countingStore{
			Store: repository.NewMemoryStore(repository.WithDataset(dataset(clk.now))),
			gate:  make(chan struct{}),
		}
		svc := newService(store, clk, service.WithLoadTimeout(20*time.Millisecond))

		_, err := svc.Snapshot(context.Background(), 0)

		Convey("Then the load gives up after the load timeout", func() {
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			_, perr := svc.Peek(0)
			So(errors.Is(perr, dashboard.ErrNotLoaded), ShouldBeTrue)
		})
	})

	Convey("Given a store with a sector no kind matches", t, func() {
		clk := &clock{now: time.Now()}
		ds := dataset(clk.now)
		ds.Sectors = append(ds.Sectors, model.Sector{ID: "mining", Name: "Mining"})
		var buf bytes.Buffer
		svc := newService(repository.NewMemoryStore(repository.WithDataset(ds)), clk,
			service.WithLogger(logger.New(&buf)))

		_, err := svc.Snapshot(context.Background(), 0)

		Convey("Then the load succeeds and the sector is reported", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "sector matches no known kind")
			So(buf.String(), ShouldContainSubstring, "Mining")
		})
	})

	Convey("Given a failing store", t, func() {
		clk := &clock{now: time.Now()}
		svc := newService(repository.NewMemoryStore(repository.WithFailure(errors.New("timeout"))), clk)

		_, err := svc.Heatmap(context.Background(), 0)

		Convey("Then the failure propagates and nothing is cached", func() {
			So(errors.Is(err, repository.ErrUnavailable), ShouldBeTrue)
			_, perr := svc.Peek(0)
			So(errors.Is(perr, dashboard.ErrNotLoaded), ShouldBeTrue)
		})
	})
}

func TestService_Dashboard(t *testing.T) {
	Convey("Given a service over a small dataset", t, func() {
		clk := &clock{now: time.Date(2024, 11, 2, 12, 0, 0, 0, time.UTC)}
		store := repository.NewMemoryStore(repository.WithDataset(dataset(clk.now)))
		svc := newService(store, clk)
		ctx := context.Background()

		Convey("Sectors returns one card per sector", func() {
			cards, err := svc.Sectors(ctx, 0)
			So(err, ShouldBeNil)
			So(len(cards), ShouldEqual, 3)
			So(cards[2].Scores.Opportunity.Score, ShouldEqual, 73)
		})

		Convey("Sector reports unknown ids", func() {
			_, err := svc.Sector(ctx, "space", 0)
			So(errors.Is(err, dashboard.ErrNotFound), ShouldBeTrue)
		})

		Convey("Heatmap ranks by opportunity score", func() {
			rows, err := svc.Heatmap(ctx, 0)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 3)
			So(rows[0].Name, ShouldEqual, "Governance")
			So(rows[0].Heat, ShouldEqual, scoring.HeatCritical)
			So(rows[2].Name, ShouldEqual, "Healthcare")
		})

		Convey("Risks puts the weakest sector first", func() {
			rows, err := svc.Risks(ctx, 0)
			So(err, ShouldBeNil)
			So(rows[0].SectorID, ShouldEqual, "gov")
		})

		Convey("Quadrant places every sector with data", func() {
			points, err := svc.Quadrant(ctx, 0)
			So(err, ShouldBeNil)
			So(len(points), ShouldEqual, 3)
		})

		Convey("Compare returns a minus b", func() {
			cmp, err := svc.Compare(ctx, "health", "gov", 0)
			So(err, ShouldBeNil)
			So(cmp.Delta.UnmetNeedIndex, ShouldEqual, 80-94)
		})

		Convey("Regional breakdown filters regions first", func() {
			rows, err := svc.RegionalBreakdown(ctx, "health", 0, aggregate.RegionFilter{Income: model.IncomeHigh})
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
			So(rows[0].RegionID, ShouldEqual, "na")
		})

		Convey("Regions summarize across sectors", func() {
			rows, err := svc.Regions(ctx, 0, aggregate.RegionFilter{})
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
		})

		Convey("Flows of a year without flows are empty", func() {
			flows, err := svc.Flows(ctx, 0)
			So(err, ShouldBeNil)
			So(flows, ShouldBeEmpty)
		})
	})
}

func TestService_Summary(t *testing.T) {
	Convey("Given a summary synced at noon", t, func() {
		synced := time.Date(2024, 11, 2, 12, 0, 0, 0, time.UTC)
		clk := &clock{now: synced.Add(time.Hour)}
		svc := newService(repository.NewMemoryStore(repository.WithDataset(dataset(synced))), clk,
			service.WithSnapshotTTL(24*time.Hour))
		ctx := context.Background()

		Convey("Then one hour later it is fresh", func() {
			v, err := svc.Summary(ctx)
			So(err, ShouldBeNil)
			So(v.Stale, ShouldBeFalse)
			So(*v.Summary.GlobalReadinessScore, ShouldEqual, 57.5)
		})

		Convey("Then a day and a bit later it is stale", func() {
			clk.Advance(25 * time.Hour)
			v, err := svc.Summary(ctx)
			So(err, ShouldBeNil)
			So(v.Stale, ShouldBeTrue)
		})
	})

	Convey("Given a store without a summary", t, func() {
		ds := dataset(time.Now())
		ds.Summary = nil
		svc := newService(repository.NewMemoryStore(repository.WithDataset(ds)), &clock{now: time.Now()})

		_, err := svc.Summary(context.Background())

		So(errors.Is(err, dashboard.ErrNoData), ShouldBeTrue)
	})
}

func TestService_ViewMode(t *testing.T) {
	Convey("Given a service over a counting store", t, func() {
		clk := &clock{now: time.Now()}
		store := &countingStore{Store: repository.NewMemoryStore(repository.WithDataset(dataset(clk.now)))}
		svc := newService(store, clk, service.WithDefaultMode(viewmode.Insights))

		Convey("Before any load hero metrics keep their literal values", func() {
			cfg, err := svc.ViewMode("public")
			So(err, ShouldBeNil)
			So(cfg.ID, ShouldEqual, viewmode.Public)
			literal, _ := viewmode.Lookup(viewmode.Public)
			So(cfg.HeroMetrics, ShouldResemble, literal.HeroMetrics)
			So(store.loads.Load(), ShouldEqual, 0)
		})

		Convey("After a load, switching modes substitutes live values without refetching", func() {
			_, err := svc.Snapshot(context.Background(), 0)
			So(err, ShouldBeNil)

			opp, err := svc.ViewMode("opportunity")
			So(err, ShouldBeNil)
			pub, err := svc.ViewMode("PUBLIC")
			So(err, ShouldBeNil)

			So(store.loads.Load(), ShouldEqual, 1)
			var need, readiness int64
			for _, h := range opp.HeroMetrics {
				if h.Label == viewmode.LabelUnmetNeed {
					need = h.Value
				}
			}
			for _, h := range pub.HeroMetrics {
				if h.Label == viewmode.LabelGlobalReadiness {
					readiness = h.Value
				}
			}
			So(need, ShouldEqual, 69)
			So(readiness, ShouldEqual, 58)
		})

		Convey("An empty name selects the default mode", func() {
			cfg, err := svc.ViewMode("")
			So(err, ShouldBeNil)
			So(cfg.ID, ShouldEqual, viewmode.Insights)
		})

		Convey("An unknown name is rejected", func() {
			_, err := svc.ViewMode("kiosk")
			So(errors.Is(err, viewmode.ErrUnknownViewMode), ShouldBeTrue)
		})

		Convey("Modes lists all four", func() {
			So(len(svc.Modes()), ShouldEqual, 4)
		})
	})
}
