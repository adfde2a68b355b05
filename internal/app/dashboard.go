package service

import (
	"context"
	"time"

	"github.com/okian/atlas/internal/domain/aggregate"
	"github.com/okian/atlas/internal/domain/dashboard"
	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/viewmode"
	"github.com/okian/atlas/pkg/metrics"
)

// Operation names recorded in the aggregation latency histogram.
const (
	OpSectors  = "sectors"
	OpSector   = "sector"
	OpRegional = "regional"
	OpRegions  = "regions"
	OpHeatmap  = "heatmap"
	OpQuadrant = "quadrant"
	OpRisks    = "risks"
	OpCompare  = "compare"
	OpFlows    = "flows"
	OpSummary  = "summary"
)

// from loads the snapshot of year and times fn over it.
func from[T any](ctx context.Context, s *Service, year int, op string, fn func(*model.Snapshot) (T, error)) (T, error) {
	snap, err := s.Snapshot(ctx, year)
	if err != nil {
		var zero T
		return zero, err
	}
	start := time.Now()
	out, err := fn(snap)
	metrics.RecordAggregationLatency(op, float64(time.Since(start).Microseconds())/1000)
	return out, err
}

// Sectors returns one card per sector, ordered by name.
func (s *Service) Sectors(ctx context.Context, year int) ([]dashboard.Card, error) {
	return from(ctx, s, year, OpSectors, func(snap *model.Snapshot) ([]dashboard.Card, error) {
		return dashboard.Cards(snap, s.scorer)
	})
}

// Sector returns the card of one sector. A sector without rows yields a card
// with a nil aggregate.
func (s *Service) Sector(ctx context.Context, id string, year int) (dashboard.Card, error) {
	return from(ctx, s, year, OpSector, func(snap *model.Snapshot) (dashboard.Card, error) {
		return dashboard.CardFor(snap, s.scorer, id)
	})
}

// RegionalBreakdown aggregates one sector per region after filtering regions.
func (s *Service) RegionalBreakdown(ctx context.Context, id string, year int, f aggregate.RegionFilter) ([]aggregate.RegionAggregate, error) {
	return from(ctx, s, year, OpRegional, func(snap *model.Snapshot) ([]aggregate.RegionAggregate, error) {
		return dashboard.Regional(snap, id, f)
	})
}

// Regions aggregates all sectors per region.
func (s *Service) Regions(ctx context.Context, year int, f aggregate.RegionFilter) ([]dashboard.RegionSummary, error) {
	return from(ctx, s, year, OpRegions, func(snap *model.Snapshot) ([]dashboard.RegionSummary, error) {
		return dashboard.Regions(snap, f)
	})
}

// Heatmap ranks sectors by opportunity score, highest first.
func (s *Service) Heatmap(ctx context.Context, year int) ([]dashboard.HeatmapRow, error) {
	return from(ctx, s, year, OpHeatmap, func(snap *model.Snapshot) ([]dashboard.HeatmapRow, error) {
		return dashboard.Heatmap(snap, s.scorer)
	})
}

// Quadrant places sectors on the capital versus need plane.
func (s *Service) Quadrant(ctx context.Context, year int) ([]dashboard.QuadrantPoint, error) {
	return from(ctx, s, year, OpQuadrant, func(snap *model.Snapshot) ([]dashboard.QuadrantPoint, error) {
		return dashboard.Quadrant(snap, s.scorer)
	})
}

// Risks returns the risk index, most critical first.
func (s *Service) Risks(ctx context.Context, year int) ([]dashboard.RiskRow, error) {
	return from(ctx, s, year, OpRisks, func(snap *model.Snapshot) ([]dashboard.RiskRow, error) {
		return dashboard.Risks(snap, s.scorer)
	})
}

// Compare puts two sectors side by side.
func (s *Service) Compare(ctx context.Context, a, b string, year int) (dashboard.Comparison, error) {
	return from(ctx, s, year, OpCompare, func(snap *model.Snapshot) (dashboard.Comparison, error) {
		return dashboard.Compare(snap, s.scorer, a, b)
	})
}

// Flows totals investment flows by sector and stage.
func (s *Service) Flows(ctx context.Context, year int) ([]dashboard.FlowTotal, error) {
	return from(ctx, s, year, OpFlows, dashboard.Flows)
}

// Summary returns the global summary of the default year's snapshot,
// flagged stale once it is older than the snapshot TTL.
func (s *Service) Summary(ctx context.Context) (dashboard.SummaryView, error) {
	return from(ctx, s, 0, OpSummary, func(snap *model.Snapshot) (dashboard.SummaryView, error) {
		return dashboard.Summary(snap, s.now(), s.ttl)
	})
}

// DefaultMode is the view mode served when none is requested.
func (s *Service) DefaultMode() viewmode.Mode { return s.defaultMode }

// ViewMode resolves a mode's configuration. An empty name selects the
// default mode. Hero metrics use the cached summary when the default year is
// loaded; switching modes never queries the store.
func (s *Service) ViewMode(name string) (viewmode.Config, error) {
	m := s.defaultMode
	if name != "" {
		var err error
		if m, err = viewmode.Parse(name); err != nil {
			return viewmode.Config{}, err
		}
	}
	var sum *model.GlobalSummary
	if snap, err := s.Peek(0); err == nil {
		sum = snap.Summary
	}
	return viewmode.Resolve(m, sum)
}

// Modes lists every view mode configuration with literal hero values.
func (s *Service) Modes() []viewmode.Config {
	return viewmode.Configs()
}
