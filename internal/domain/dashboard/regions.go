package dashboard

import (
	"github.com/okian/atlas/internal/domain/aggregate"
	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
)

// Regional is the per-region breakdown of one sector after pre-filtering.
func Regional(s *model.Snapshot, sectorID string, f aggregate.RegionFilter) ([]aggregate.RegionAggregate, error) {
	if s == nil {
		return nil, ErrNotLoaded
	}
	if _, ok := s.SectorByID(sectorID); !ok {
		return nil, ErrNotFound
	}
	return aggregate.ByRegion(s.Metrics, s.Regions, sectorID, s.Year, f), nil
}

// RegionSummary is a region's cross-sector profile.
type RegionSummary struct {
	Region    model.Region              `json:"region"`
	Band      scoring.RegulatoryBand    `json:"regulatoryBand,omitempty"`
	Aggregate aggregate.RegionAggregate `json:"aggregate"`
}

// Regions aggregates all sectors per region. Regions without rows in the
// snapshot year are omitted.
func Regions(s *model.Snapshot, f aggregate.RegionFilter) ([]RegionSummary, error) {
	if s == nil {
		return nil, ErrNotLoaded
	}
	idx := s.RegionIndex()
	aggs := aggregate.Regions(s.Metrics, s.Regions, s.Year, f)
	out := make([]RegionSummary, 0, len(aggs))
	for _, a := range aggs {
		rs := RegionSummary{Aggregate: a}
		if r, ok := idx[a.RegionID]; ok {
			rs.Region = r
			if r.RegulatoryIndex != nil {
				rs.Band = scoring.BandOf(*r.RegulatoryIndex)
			}
		} else {
			rs.Region = model.Region{ID: a.RegionID, Name: a.RegionName}
		}
		out = append(out, rs)
	}
	return out, nil
}
