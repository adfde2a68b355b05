package model

import "time"

// Snapshot is the full read set for one reporting year, loaded in one pass
// from the metric store. It is never mutated after loading.
type Snapshot struct {
	Year     int              `json:"year"`
	Sectors  []Sector         `json:"sectors"`
	Regions  []Region         `json:"regions"`
	Metrics  []SectorMetric   `json:"metrics"`
	Flows    []InvestmentFlow `json:"flows"`
	Summary  *GlobalSummary   `json:"summary"`
	LoadedAt time.Time        `json:"loadedAt"`
}

// SectorByID returns the sector with the given id.
func (s *Snapshot) SectorByID(id string) (Sector, bool) {
	for _, sec := range s.Sectors {
		if sec.ID == id {
			return sec, true
		}
	}
	return Sector{}, false
}

// RegionIndex maps region id to region.
func (s *Snapshot) RegionIndex() map[string]Region {
	idx := make(map[string]Region, len(s.Regions))
	for _, r := range s.Regions {
		idx[r.ID] = r
	}
	return idx
}
