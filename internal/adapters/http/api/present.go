package api

import (
	"github.com/okian/atlas/internal/domain/dashboard"
	"github.com/okian/atlas/internal/domain/format"
)

// cardDisplay holds the formatted strings a sector tile shows.
type cardDisplay struct {
	Capital     string `json:"capital"`
	Deployments string `json:"deployments"`
	Opportunity string `json:"opportunity"`
	Stability   string `json:"stability"`
}

type cardView struct {
	dashboard.Card
	Display cardDisplay `json:"display"`
}

func presentCard(c dashboard.Card) cardView {
	v := cardView{Card: c}
	if !c.HasData() {
		v.Display = cardDisplay{
			Capital:     format.Capital(format.DefaultCapital),
			Deployments: format.Count(format.DefaultCount),
			Opportunity: format.NoDataLabel,
			Stability:   format.NoDataLabel,
		}
		return v
	}
	v.Display = cardDisplay{
		Capital:     format.Capital(c.Aggregate.CapitalInflow),
		Deployments: format.Count(c.Aggregate.TotalDeployments),
		Opportunity: format.Score(c.Scores.Opportunity.Score, "/100"),
		Stability:   format.Score(c.Aggregate.StabilityScore, "/100"),
	}
	return v
}

func presentCards(cards []dashboard.Card) []cardView {
	out := make([]cardView, len(cards))
	for i, c := range cards {
		out[i] = presentCard(c)
	}
	return out
}

// summaryDisplay is the headline band. Absent fields fall back to the
// central display defaults.
type summaryDisplay struct {
	Readiness      int    `json:"readiness"`
	Deployments    string `json:"deployments"`
	Capital        string `json:"capital"`
	UnmetNeed      int    `json:"unmetNeed"`
	OpportunityGap int    `json:"opportunityGap"`
}

type summaryView struct {
	dashboard.SummaryView
	Display summaryDisplay `json:"display"`
}

func presentSummary(s dashboard.SummaryView) summaryView {
	g := s.Summary
	return summaryView{
		SummaryView: s,
		Display: summaryDisplay{
			Readiness:      format.PercentOr(g.GlobalReadinessScore),
			Deployments:    format.Count(format.CountOr(g.TotalAIDeployments)),
			Capital:        format.Capital(format.CapitalOr(g.TotalCapitalInflow)),
			UnmetNeed:      format.PercentOr(g.GlobalUnmetNeedIndex),
			OpportunityGap: format.PercentOr(g.OpportunityGapIndex),
		},
	}
}
