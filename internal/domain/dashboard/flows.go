package dashboard

import (
	"sort"

	"github.com/okian/atlas/internal/domain/model"
)

// FlowTotal sums investment flows of one sector and stage.
type FlowTotal struct {
	SectorID   string  `json:"sectorId"`
	SectorName string  `json:"sectorName"`
	Stage      string  `json:"stage"`
	AmountUSD  float64 `json:"amountUsd"`
	DealCount  int64   `json:"dealCount"`
	Flows      int     `json:"flows"`
}

// UnstagedFlow labels flows without a stage.
const UnstagedFlow = "unspecified"

// Flows totals the snapshot year's investment flows by sector and stage.
// Nil amounts and counts add nothing.
func Flows(s *model.Snapshot) ([]FlowTotal, error) {
	if s == nil {
		return nil, ErrNotLoaded
	}
	type key struct{ sector, stage string }
	totals := make(map[key]*FlowTotal)
	for _, f := range s.Flows {
		if f.Year != s.Year {
			continue
		}
		stage := f.Stage
		if stage == "" {
			stage = UnstagedFlow
		}
		k := key{f.SectorID, stage}
		t, ok := totals[k]
		if !ok {
			t = &FlowTotal{SectorID: f.SectorID, Stage: stage}
			if sec, found := s.SectorByID(f.SectorID); found {
				t.SectorName = sec.Name
			}
			totals[k] = t
		}
		if f.AmountUSD != nil {
			t.AmountUSD += *f.AmountUSD
		}
		if f.DealCount != nil {
			t.DealCount += *f.DealCount
		}
		t.Flows++
	}

	out := make([]FlowTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SectorName != out[j].SectorName {
			return out[i].SectorName < out[j].SectorName
		}
		if out[i].SectorID != out[j].SectorID {
			return out[i].SectorID < out[j].SectorID
		}
		return out[i].Stage < out[j].Stage
	})
	return out, nil
}
