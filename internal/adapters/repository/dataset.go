package repository

import (
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/atlas/internal/domain/model"
)

// Dataset is a complete, in-memory copy of the metric store tables.
type Dataset struct {
	Sectors []model.Sector
	Regions []model.Region
	Metrics []model.SectorMetric
	Summary *model.GlobalSummary
	Flows   []model.InvestmentFlow
}

var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/okian/atlas"))

// StableID derives a deterministic UUID from a natural key such as
// "sector/healthcare" so mock rows keep their ids across restarts.
func StableID(key string) string {
	return uuid.NewSHA1(idSpace, []byte(key)).String()
}

type sectorProfile struct {
	slug, name, factor string
	baselineRisk       float64
	priority           float64

	// 2024 global means
	adoption, maturity, need, infra float64
	workforce, policy, friction     float64
	talent, confidence              float64
	capitalB, growth                float64
	deployments                     int64
}

var sectorProfiles = []sectorProfile{
	{slug: "agriculture", name: "Agriculture", factor: "Smallholder access below 5% globally", baselineRisk: 48, priority: 0.8,
		adoption: 31, maturity: 41, need: 91, infra: 62, workforce: 38, policy: 36, friction: 28, talent: 34, confidence: 71,
		capitalB: 1.9, growth: 7.5, deployments: 4210},
	{slug: "education", name: "Education", factor: "Digital equity improving but uneven", baselineRisk: 30, priority: 0.9,
		adoption: 47, maturity: 55, need: 88, infra: 51, workforce: 57, policy: 49, friction: 41, talent: 44, confidence: 78,
		capitalB: 2.4, growth: 6.1, deployments: 8930},
	{slug: "energy", name: "Energy & Climate", factor: "Grid modernization lag vs climate timeline", baselineRisk: 72, priority: 1.2,
		adoption: 44, maturity: 38, need: 85, infra: 71, workforce: 46, policy: 42, friction: 63, talent: 52, confidence: 69,
		capitalB: 5.6, growth: 3.2, deployments: 7120},
	{slug: "governance", name: "Governance", factor: "Policy framework gaps in 120+ nations", baselineRisk: 80, priority: 1.1,
		adoption: 26, maturity: 29, need: 94, infra: 58, workforce: 35, policy: 31, friction: 66, talent: 29, confidence: 62,
		capitalB: 0.9, growth: -1.4, deployments: 2860},
	{slug: "healthcare", name: "Healthcare", factor: "Rural diagnostics remain under-served", baselineRisk: 35, priority: 1.3,
		adoption: 58, maturity: 64, need: 78, infra: 45, workforce: 61, policy: 55, friction: 57, talent: 71, confidence: 84,
		capitalB: 8.2, growth: 9.4, deployments: 17240},
	{slug: "labor", name: "Labor & Economy", factor: "Reskilling programs reaching 12% of displaced", baselineRisk: 55, priority: 1.0,
		adoption: 52, maturity: 47, need: 72, infra: 40, workforce: 49, policy: 44, friction: 46, talent: 48, confidence: 74,
		capitalB: 4.3, growth: -0.6, deployments: 8572},
}

type regionProfile struct {
	slug, name, iso string
	income          model.IncomeLevel
	regulatory      float64
	policyMaturity  float64
	gdpT            float64
	population      int64

	// offsets applied to sector means
	adoption, readiness, need float64

	// share of global capital
	capitalShare float64
}

var regionProfiles = []regionProfile{
	{slug: "asia-pacific", name: "Asia-Pacific", iso: "APAC", income: model.IncomeUpperMiddle, regulatory: 55, policyMaturity: 58,
		gdpT: 38.1, population: 4_300_000_000, adoption: 10, readiness: 8, need: -2, capitalShare: 0.28},
	{slug: "europe", name: "Europe", iso: "EUR", income: model.IncomeHigh, regulatory: 84, policyMaturity: 81,
		gdpT: 24.6, population: 745_000_000, adoption: 3, readiness: 6, need: -9, capitalShare: 0.23},
	{slug: "latin-america", name: "Latin America", iso: "LAC", income: model.IncomeUpperMiddle, regulatory: 44, policyMaturity: 39,
		gdpT: 6.3, population: 660_000_000, adoption: -14, readiness: -12, need: 7, capitalShare: 0.06},
	{slug: "middle-east-africa", name: "Middle East & Africa", iso: "MEA", income: model.IncomeLowerMiddle, regulatory: 38, policyMaturity: 33,
		gdpT: 6.8, population: 1_900_000_000, adoption: -22, readiness: -19, need: 11, capitalShare: 0.07},
	{slug: "north-america", name: "North America", iso: "NAM", income: model.IncomeHigh, regulatory: 72, policyMaturity: 76,
		gdpT: 30.2, population: 375_000_000, adoption: 20, readiness: 15, need: -12, capitalShare: 0.36},
}

var flowStages = []struct {
	stage string
	share float64
	deals int64
}{
	{"seed", 0.12, 41},
	{"series_a", 0.23, 17},
	{"growth", 0.65, 6},
}

// MockDataset builds the deterministic dataset served by the memory store:
// six sectors, five macro regions, 2023 and 2024 fact rows, one summary and
// 2024 investment flows.
func MockDataset() Dataset {
	var ds Dataset
	for _, p := range sectorProfiles {
		ds.Sectors = append(ds.Sectors, model.Sector{
			ID:                   StableID("sector/" + p.slug),
			Name:                 p.name,
			Description:          p.factor,
			BaselineSystemRisk:   model.Ptr(p.baselineRisk),
			GlobalPriorityWeight: model.Ptr(p.priority),
		})
	}
	for _, r := range regionProfiles {
		ds.Regions = append(ds.Regions, model.Region{
			ID:               StableID("region/" + r.slug),
			Name:             r.name,
			ISOCode:          r.iso,
			IncomeLevel:      r.income,
			RegulatoryIndex:  model.Ptr(r.regulatory),
			AIPolicyMaturity: model.Ptr(r.policyMaturity),
			GDPUSD:           model.Ptr(r.gdpT * 1e12),
			Population:       model.Ptr(r.population),
		})
	}

	var deployments int64
	var capital float64
	for _, year := range []int{model.DefaultYear - 1, model.DefaultYear} {
		for _, p := range sectorProfiles {
			for _, r := range regionProfiles {
				m := mockMetric(p, r, year)
				ds.Metrics = append(ds.Metrics, m)
				if year == model.DefaultYear {
					deployments += *m.AIDeployments
					capital += *m.CapitalInflowUSD
				}
			}
		}
	}

	for _, p := range sectorProfiles {
		for _, r := range regionProfiles[len(regionProfiles)-2:] {
			for _, st := range flowStages {
				key := "flow/" + p.slug + "/" + r.slug + "/" + st.stage
				ds.Flows = append(ds.Flows, model.InvestmentFlow{
					ID:        StableID(key),
					SectorID:  StableID("sector/" + p.slug),
					RegionID:  StableID("region/" + r.slug),
					Year:      model.DefaultYear,
					Stage:     st.stage,
					AmountUSD: model.Ptr(math.Round(p.capitalB * 1e9 * r.capitalShare * st.share)),
					DealCount: model.Ptr(st.deals),
				})
			}
		}
	}

	ds.Summary = &model.GlobalSummary{
		ID:                   StableID("summary/latest"),
		GlobalReadinessScore: model.Ptr(54.0),
		TotalAIDeployments:   model.Ptr(deployments),
		TotalCapitalInflow:   model.Ptr(capital),
		GlobalUnmetNeedIndex: model.Ptr(72.0),
		OpportunityGapIndex:  model.Ptr(61.0),
	}
	return ds
}

func mockMetric(p sectorProfile, r regionProfile, year int) model.SectorMetric {
	// 2023 rows trail 2024 by a fixed step.
	lag := 0.0
	capitalScale := 1.0
	if year < model.DefaultYear {
		lag = 4
		capitalScale = 0.82
	}
	pct := func(base, offset float64) *float64 {
		return model.Ptr(math.Max(0, math.Min(100, math.Round(base+offset-lag))))
	}
	m := model.SectorMetric{
		ID:                      StableID("metric/" + p.slug + "/" + r.slug + "/" + strconv.Itoa(year)),
		SectorID:                StableID("sector/" + p.slug),
		RegionID:                StableID("region/" + r.slug),
		Year:                    year,
		SectorName:              p.name,
		RegionName:              r.name,
		AIAdoptionRate:          pct(p.adoption, r.adoption),
		AIMaturityScore:         pct(p.maturity, r.readiness),
		AIDeployments:           model.Ptr(int64(math.Round(float64(p.deployments) * r.capitalShare * capitalScale))),
		CapitalInflowUSD:        model.Ptr(math.Round(p.capitalB * 1e9 * r.capitalShare * capitalScale)),
		CapitalGrowthRate:       model.Ptr(p.growth + r.adoption/10),
		UnmetNeedIndex:          model.Ptr(math.Max(0, math.Min(100, p.need+r.need+lag))),
		InfrastructureGap:       model.Ptr(math.Max(0, math.Min(100, p.infra-r.readiness+lag))),
		WorkforceReadiness:      pct(p.workforce, r.readiness),
		PolicyReadinessScore:    pct(p.policy, (r.policyMaturity-50)/2),
		RegulatoryFrictionIndex: model.Ptr(math.Max(0, math.Min(100, p.friction+(r.regulatory-55)/3))),
		TalentDensityIndex:      pct(p.talent, r.readiness),
		ConfidenceScore:         pct(p.confidence, r.readiness/2),
	}
	// Thin coverage in MEA: talent density and confidence are not reported.
	if r.iso == "MEA" {
		m.TalentDensityIndex = nil
		m.ConfidenceScore = nil
	}
	return m
}
