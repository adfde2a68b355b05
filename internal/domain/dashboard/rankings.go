package dashboard

import (
	"sort"

	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
)

// HeatmapRow is one sector in the opportunity heatmap.
type HeatmapRow struct {
	SectorID          string            `json:"sectorId"`
	Name              string            `json:"name"`
	Slug              string            `json:"slug,omitempty"`
	OpportunityScore  int               `json:"opportunityScore"`
	Urgency           int               `json:"urgency"`
	CapitalNorm       int               `json:"capitalNorm"`
	UnmetNeed         int               `json:"unmetNeed"`
	InfrastructureGap int               `json:"infrastructureGap"`
	Stability         int               `json:"stability"`
	CapitalInflowUSD  float64           `json:"capitalInflowUsd"`
	Heat              scoring.HeatLevel `json:"heat"`
	Talent            scoring.Talent    `json:"talent"`
	Friction          scoring.Friction  `json:"friction"`
}

// Heatmap ranks sectors with data by opportunity score, highest first. Ties
// are broken by name.
func Heatmap(s *model.Snapshot, sc *scoring.Scorer) ([]HeatmapRow, error) {
	cards, err := Cards(s, sc)
	if err != nil {
		return nil, err
	}
	cards = withData(cards)
	out := make([]HeatmapRow, 0, len(cards))
	for _, c := range cards {
		row := HeatmapRow{
			SectorID:          c.Sector.ID,
			Name:              c.Sector.Name,
			OpportunityScore:  c.Scores.Opportunity.Score,
			Urgency:           c.Scores.Opportunity.Urgency,
			CapitalNorm:       c.Scores.Opportunity.CapitalNorm,
			UnmetNeed:         c.Aggregate.UnmetNeedIndex,
			InfrastructureGap: c.Aggregate.InfrastructureGap,
			Stability:         c.Aggregate.StabilityScore,
			CapitalInflowUSD:  c.Aggregate.CapitalInflow,
			Heat:              scoring.HeatLevelOf(c.Scores.Opportunity.Score),
			Talent:            c.Scores.Talent,
			Friction:          c.Scores.Friction,
		}
		if c.Meta != nil {
			row.Slug = c.Meta.Slug
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OpportunityScore != out[j].OpportunityScore {
			return out[i].OpportunityScore > out[j].OpportunityScore
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// QuadrantPoint places a sector on the need/capital matrix.
type QuadrantPoint struct {
	SectorID         string           `json:"sectorId"`
	Name             string           `json:"name"`
	X                int              `json:"x"` // capital normalization
	Y                int              `json:"y"` // unmet need
	Quadrant         scoring.Quadrant `json:"quadrant"`
	OpportunityScore int              `json:"opportunityScore"`
}

// Quadrant returns one point per sector with data, ordered by name.
func Quadrant(s *model.Snapshot, sc *scoring.Scorer) ([]QuadrantPoint, error) {
	cards, err := Cards(s, sc)
	if err != nil {
		return nil, err
	}
	cards = withData(cards)
	byName(cards)
	out := make([]QuadrantPoint, 0, len(cards))
	for _, c := range cards {
		out = append(out, QuadrantPoint{
			SectorID:         c.Sector.ID,
			Name:             c.Sector.Name,
			X:                c.Scores.Opportunity.CapitalNorm,
			Y:                c.Aggregate.UnmetNeedIndex,
			Quadrant:         c.Scores.Quadrant,
			OpportunityScore: c.Scores.Opportunity.Score,
		})
	}
	return out, nil
}

// RiskRow is one entry of the risk and gap index.
type RiskRow struct {
	SectorID     string        `json:"sectorId"`
	Name         string        `json:"name"`
	Score        int           `json:"score"`
	Tier         scoring.Risk  `json:"tier"`
	Trend        scoring.Trend `json:"trend"`
	Resilience   int           `json:"resilience"`
	BaselineRisk *float64      `json:"baselineRisk"`
	Factor       string        `json:"factor,omitempty"`
}

// Risks lists sectors with data by adjusted risk score, most critical first.
func Risks(s *model.Snapshot, sc *scoring.Scorer) ([]RiskRow, error) {
	cards, err := Cards(s, sc)
	if err != nil {
		return nil, err
	}
	cards = withData(cards)
	out := make([]RiskRow, 0, len(cards))
	for _, c := range cards {
		out = append(out, RiskRow{
			SectorID:     c.Sector.ID,
			Name:         c.Sector.Name,
			Score:        c.Scores.Risk.Score,
			Tier:         c.Scores.Risk.Tier,
			Trend:        c.Scores.Trend,
			Resilience:   c.Aggregate.StabilityScore,
			BaselineRisk: c.Sector.BaselineSystemRisk,
			Factor:       c.Sector.Description,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
