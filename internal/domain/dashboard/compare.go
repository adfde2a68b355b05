package dashboard

import (
	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
)

// Delta is a minus b for each compared dimension.
type Delta struct {
	AIAdoptionRate     int   `json:"aiAdoptionRate"`
	StabilityScore     int   `json:"stabilityScore"`
	WorkforceReadiness int   `json:"workforceReadiness"`
	PolicyReadiness    int   `json:"policyReadiness"`
	TalentDensity      int   `json:"talentDensity"`
	TotalDeployments   int64 `json:"totalDeployments"`
	UnmetNeedIndex     int   `json:"unmetNeedIndex"`
	InfrastructureGap  int   `json:"infrastructureGap"`
	RegulatoryFriction int   `json:"regulatoryFriction"`
}

// Comparison holds two sector cards side by side.
type Comparison struct {
	A     Card  `json:"a"`
	B     Card  `json:"b"`
	Delta Delta `json:"delta"`
}

// Compare builds the side-by-side view of sectors a and b. Both must exist
// (ErrNotFound) and both must have rows for the year (ErrNoData).
func Compare(s *model.Snapshot, sc *scoring.Scorer, a, b string) (Comparison, error) {
	ca, err := CardFor(s, sc, a)
	if err != nil {
		return Comparison{}, err
	}
	cb, err := CardFor(s, sc, b)
	if err != nil {
		return Comparison{}, err
	}
	if !ca.HasData() || !cb.HasData() {
		return Comparison{}, ErrNoData
	}
	x, y := ca.Aggregate, cb.Aggregate
	return Comparison{
		A: ca,
		B: cb,
		Delta: Delta{
			AIAdoptionRate:     x.AIAdoptionRate - y.AIAdoptionRate,
			StabilityScore:     x.StabilityScore - y.StabilityScore,
			WorkforceReadiness: x.WorkforceReadiness - y.WorkforceReadiness,
			PolicyReadiness:    x.PolicyReadiness - y.PolicyReadiness,
			TalentDensity:      x.TalentDensity - y.TalentDensity,
			TotalDeployments:   x.TotalDeployments - y.TotalDeployments,
			UnmetNeedIndex:     x.UnmetNeedIndex - y.UnmetNeedIndex,
			InfrastructureGap:  x.InfrastructureGap - y.InfrastructureGap,
			RegulatoryFriction: x.RegulatoryFriction - y.RegulatoryFriction,
		},
	}, nil
}
