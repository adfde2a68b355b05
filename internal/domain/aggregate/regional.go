package aggregate

import (
	"sort"

	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
)

// RegionFilter narrows the candidate rows before they are aggregated. Zero
// values mean "no restriction".
type RegionFilter struct {
	Income model.IncomeLevel      `json:"income,omitempty"`
	Band   scoring.RegulatoryBand `json:"regulatoryBand,omitempty"`
}

// IsEmpty reports whether the filter restricts nothing.
func (f RegionFilter) IsEmpty() bool { return f.Income == "" && f.Band == "" }

// Match reports whether region r passes the filter. A region without a
// regulatory index never matches a band restriction.
func (f RegionFilter) Match(r model.Region) bool {
	if f.Income != "" && r.IncomeLevel != f.Income {
		return false
	}
	if f.Band != "" {
		if r.RegulatoryIndex == nil || scoring.BandOf(*r.RegulatoryIndex) != f.Band {
			return false
		}
	}
	return true
}

// ByRegion aggregates sectorID's rows of year per region. Filtering happens
// on the candidate rows first, so hidden regions never contribute to any
// average. Sector-level rows (no region) are skipped. Output is ordered by
// region name, then id.
func ByRegion(rows []model.SectorMetric, regions []model.Region, sectorID string, year int, f RegionFilter) []RegionAggregate {
	return group(rows, regions, year, f, func(m model.SectorMetric) bool { return m.SectorID == sectorID }, sectorID)
}

// Regions aggregates every sector's rows of year per region.
func Regions(rows []model.SectorMetric, regions []model.Region, year int, f RegionFilter) []RegionAggregate {
	return group(rows, regions, year, f, func(model.SectorMetric) bool { return true }, "")
}

func group(rows []model.SectorMetric, regions []model.Region, year int, f RegionFilter, keep func(model.SectorMetric) bool, sectorID string) []RegionAggregate {
	idx := make(map[string]model.Region, len(regions))
	for _, r := range regions {
		idx[r.ID] = r
	}

	buckets := make(map[string][]model.SectorMetric)
	for _, m := range rows {
		if m.Year != year || m.RegionID == "" || !keep(m) {
			continue
		}
		if !f.IsEmpty() {
			reg, ok := idx[m.RegionID]
			if !ok || !f.Match(reg) {
				continue
			}
		}
		buckets[m.RegionID] = append(buckets[m.RegionID], m)
	}

	out := make([]RegionAggregate, 0, len(buckets))
	for regionID, bucket := range buckets {
		agg := reduce(bucket)
		agg.SectorID = sectorID
		agg.Year = year
		name := bucket[0].RegionName
		if reg, ok := idx[regionID]; ok {
			name = reg.Name
		}
		out = append(out, RegionAggregate{RegionID: regionID, RegionName: name, SectorAggregate: *agg})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RegionName != out[j].RegionName {
			return out[i].RegionName < out[j].RegionName
		}
		return out[i].RegionID < out[j].RegionID
	})
	return out
}
