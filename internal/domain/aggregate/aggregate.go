// Package aggregate reduces raw sector metric rows into summary records.
//
// Rules:
//   - only rows of the requested year are ever considered;
//   - percentage fields are the rounded mean of their non-nil values, or 0
//     when a field has no values at all, clamped to 0-100;
//   - capital inflow and deployments are sums, nil counting as 0, and are
//     never clamped; neither is the mean growth rate;
//   - an empty candidate set yields nil, never a zero-filled record.
package aggregate

import (
	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
)

// SectorAggregate is the reduced view of a set of metric rows. Field names
// are domain terms for the storage columns; the numbers are unchanged.
type SectorAggregate struct {
	SectorID string `json:"sectorId"`
	Year     int    `json:"year"`
	Rows     int    `json:"rows"`

	StabilityScore     int `json:"stabilityScore"`     // ai_maturity_score
	AIAdoptionRate     int `json:"aiAdoptionRate"`     // ai_adoption_rate
	UnmetNeedIndex     int `json:"unmetNeedIndex"`     // unmet_need_index
	InfrastructureGap  int `json:"infrastructureGap"`  // infrastructure_gap
	WorkforceReadiness int `json:"workforceReadiness"` // workforce_readiness
	PolicyReadiness    int `json:"policyReadiness"`    // policy_readiness_score
	RegulatoryFriction int `json:"regulatoryFriction"` // regulatory_friction_index
	TalentDensity      int `json:"talentDensity"`      // talent_density_index
	Confidence         int `json:"confidence"`         // confidence_score

	CapitalInflow    float64 `json:"capitalInflow"`    // sum of capital_inflow_usd
	TotalDeployments int64   `json:"totalDeployments"` // sum of ai_deployments

	// CapitalGrowthRate is the unrounded mean growth rate, used for trends.
	CapitalGrowthRate float64 `json:"capitalGrowthRate"`
}

// RegionAggregate is a SectorAggregate scoped to one region.
type RegionAggregate struct {
	RegionID   string `json:"regionId"`
	RegionName string `json:"regionName"`
	SectorAggregate
}

// Sector aggregates every row of sectorID in year. It returns nil when no
// row matches.
func Sector(rows []model.SectorMetric, sectorID string, year int) *SectorAggregate {
	matched := make([]model.SectorMetric, 0, len(rows))
	for _, r := range rows {
		if r.Year == year && r.SectorID == sectorID {
			matched = append(matched, r)
		}
	}
	agg := reduce(matched)
	if agg == nil {
		return nil
	}
	agg.SectorID = sectorID
	agg.Year = year
	return agg
}

// reduce collapses rows that have already been filtered. nil for no rows.
func reduce(rows []model.SectorMetric) *SectorAggregate {
	if len(rows) == 0 {
		return nil
	}
	agg := &SectorAggregate{
		Rows:               len(rows),
		StabilityScore:     avg(rows, func(m model.SectorMetric) *float64 { return m.AIMaturityScore }),
		AIAdoptionRate:     avg(rows, func(m model.SectorMetric) *float64 { return m.AIAdoptionRate }),
		UnmetNeedIndex:     avg(rows, func(m model.SectorMetric) *float64 { return m.UnmetNeedIndex }),
		InfrastructureGap:  avg(rows, func(m model.SectorMetric) *float64 { return m.InfrastructureGap }),
		WorkforceReadiness: avg(rows, func(m model.SectorMetric) *float64 { return m.WorkforceReadiness }),
		PolicyReadiness:    avg(rows, func(m model.SectorMetric) *float64 { return m.PolicyReadinessScore }),
		RegulatoryFriction: avg(rows, func(m model.SectorMetric) *float64 { return m.RegulatoryFrictionIndex }),
		TalentDensity:      avg(rows, func(m model.SectorMetric) *float64 { return m.TalentDensityIndex }),
		Confidence:         avg(rows, func(m model.SectorMetric) *float64 { return m.ConfidenceScore }),
		CapitalGrowthRate:  mean(rows, func(m model.SectorMetric) *float64 { return m.CapitalGrowthRate }),
	}
	for _, r := range rows {
		if r.CapitalInflowUSD != nil {
			agg.CapitalInflow += *r.CapitalInflowUSD
		}
		if r.AIDeployments != nil {
			agg.TotalDeployments += *r.AIDeployments
		}
	}
	return agg
}

// avg is the percentage mean of field. Out-of-range rows cannot push it
// outside 0-100.
func avg(rows []model.SectorMetric, field func(model.SectorMetric) *float64) int {
	return scoring.ClampPercent(scoring.RoundHalfUp(mean(rows, field)))
}

// mean averages the non-nil values of field; 0 when there are none.
func mean(rows []model.SectorMetric, field func(model.SectorMetric) *float64) float64 {
	var sum float64
	n := 0
	for _, r := range rows {
		if v := field(r); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
