// Package dashboard composes the aggregation engine and scoring functions
// into the read models the dashboard shows. Every builder takes a loaded
// snapshot; a nil snapshot is the loading state and yields ErrNotLoaded.
package dashboard

import (
	"sort"

	"github.com/okian/atlas/internal/domain/aggregate"
	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
	"github.com/okian/atlas/internal/domain/sector"
)

// Scores are the labels derived from one sector aggregate.
type Scores struct {
	Maturity           scoring.Maturity       `json:"maturity"`
	InvestmentGap      scoring.InvestmentGap  `json:"investmentGap"`
	InvestmentGapRatio float64                `json:"investmentGapRatio"`
	Talent             scoring.Talent         `json:"talent"`
	Friction           scoring.Friction       `json:"friction"`
	Opportunity        scoring.Opportunity    `json:"opportunity"`
	Risk               scoring.RiskAssessment `json:"risk"`
	Trend              scoring.Trend          `json:"trend"`
	Quadrant           scoring.Quadrant       `json:"quadrant"`
}

// Card is one sector tile. Aggregate and Scores are nil when the sector has
// no rows in the snapshot year.
type Card struct {
	Sector    model.Sector               `json:"sector"`
	Meta      *sector.Meta               `json:"meta,omitempty"`
	Aggregate *aggregate.SectorAggregate `json:"aggregate"`
	Scores    *Scores                    `json:"scores"`
}

// HasData reports whether the card carries an aggregate.
func (c Card) HasData() bool { return c.Aggregate != nil }

// Cards builds a card for every sector, in snapshot order.
func Cards(s *model.Snapshot, sc *scoring.Scorer) ([]Card, error) {
	if s == nil {
		return nil, ErrNotLoaded
	}
	out := make([]Card, 0, len(s.Sectors))
	for _, sec := range s.Sectors {
		out = append(out, card(s, sc, sec))
	}
	return out, nil
}

// CardFor builds the card of one sector. Unknown ids yield ErrNotFound.
func CardFor(s *model.Snapshot, sc *scoring.Scorer, sectorID string) (Card, error) {
	if s == nil {
		return Card{}, ErrNotLoaded
	}
	sec, ok := s.SectorByID(sectorID)
	if !ok {
		return Card{}, ErrNotFound
	}
	return card(s, sc, sec), nil
}

// Unmapped lists the names of snapshot sectors that match no known sector
// kind. Their cards carry no Meta; the service reports them on every load.
func Unmapped(s *model.Snapshot) []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, sec := range s.Sectors {
		if _, err := sector.ByName(sec.Name); err != nil {
			out = append(out, sec.Name)
		}
	}
	return out
}

func card(s *model.Snapshot, sc *scoring.Scorer, sec model.Sector) Card {
	c := Card{Sector: sec}
	if k, err := sector.ByName(sec.Name); err == nil {
		m := k.Meta()
		c.Meta = &m
	}
	c.Aggregate = aggregate.Sector(s.Metrics, sec.ID, s.Year)
	if c.Aggregate != nil {
		scores := score(sc, sec, c.Aggregate)
		c.Scores = &scores
	}
	return c
}

func score(sc *scoring.Scorer, sec model.Sector, a *aggregate.SectorAggregate) Scores {
	opp := sc.Opportunity(opportunityInput(a))
	baseline := 0.0
	if sec.BaselineSystemRisk != nil {
		baseline = *sec.BaselineSystemRisk
	}
	return Scores{
		Maturity:           scoring.MaturityTier(a.StabilityScore),
		InvestmentGap:      scoring.InvestmentGapTier(a.UnmetNeedIndex, a.CapitalInflow),
		InvestmentGapRatio: scoring.InvestmentGapRatio(a.UnmetNeedIndex, a.CapitalInflow),
		Talent:             scoring.TalentTier(a.TalentDensity),
		Friction:           scoring.FrictionTier(a.RegulatoryFriction),
		Opportunity:        opp,
		Risk:               scoring.AssessRisk(a.StabilityScore, baseline),
		Trend:              scoring.TrendOf(a.CapitalGrowthRate),
		Quadrant:           scoring.QuadrantOf(a.UnmetNeedIndex, opp.CapitalNorm),
	}
}

func opportunityInput(a *aggregate.SectorAggregate) scoring.OpportunityInput {
	return scoring.OpportunityInput{
		UnmetNeed:         a.UnmetNeedIndex,
		InfrastructureGap: a.InfrastructureGap,
		CapitalInflowUSD:  a.CapitalInflow,
		Stability:         a.StabilityScore,
	}
}

// withData keeps the cards that have an aggregate.
func withData(cards []Card) []Card {
	out := cards[:0:0]
	for _, c := range cards {
		if c.HasData() {
			out = append(out, c)
		}
	}
	return out
}

func byName(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Sector.Name < cards[j].Sector.Name })
}
