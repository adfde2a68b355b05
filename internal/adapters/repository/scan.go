package repository

import (
	"time"

	"github.com/okian/atlas/internal/domain/model"
)

// scannable is satisfied by pgx.Row(s) and *sql.Row(s).
type scannable interface {
	Scan(dest ...any) error
}

const sectorColumns = `id, name, description, baseline_system_risk, global_priority_weight`

func scanSector(row scannable) (model.Sector, error) {
	var s model.Sector
	var desc *string
	if err := row.Scan(&s.ID, &s.Name, &desc, &s.BaselineSystemRisk, &s.GlobalPriorityWeight); err != nil {
		return model.Sector{}, err
	}
	if desc != nil {
		s.Description = *desc
	}
	return s, nil
}

const regionColumns = `id, name, iso_code, income_level, regulatory_index, ai_policy_maturity, gdp_usd, population`

func scanRegion(row scannable) (model.Region, error) {
	var r model.Region
	var iso, income *string
	if err := row.Scan(&r.ID, &r.Name, &iso, &income, &r.RegulatoryIndex, &r.AIPolicyMaturity, &r.GDPUSD, &r.Population); err != nil {
		return model.Region{}, err
	}
	if iso != nil {
		r.ISOCode = *iso
	}
	if income != nil {
		// Unknown levels are kept out of the model rather than failing the load.
		if lvl, err := model.ParseIncomeLevel(*income); err == nil {
			r.IncomeLevel = lvl
		}
	}
	return r, nil
}

func scanMetric(row scannable) (model.SectorMetric, error) {
	var m model.SectorMetric
	var regionID, sectorName, regionName *string
	err := row.Scan(
		&m.ID, &m.SectorID, &regionID, &m.Year, &sectorName, &regionName,
		&m.AIAdoptionRate, &m.AIMaturityScore, &m.AIDeployments,
		&m.CapitalInflowUSD, &m.CapitalGrowthRate, &m.UnmetNeedIndex,
		&m.InfrastructureGap, &m.WorkforceReadiness, &m.PolicyReadinessScore,
		&m.RegulatoryFrictionIndex, &m.TalentDensityIndex, &m.ConfidenceScore,
		&m.LastUpdated,
	)
	if err != nil {
		return model.SectorMetric{}, err
	}
	m.RegionID = deref(regionID)
	m.SectorName = deref(sectorName)
	m.RegionName = deref(regionName)
	return m, nil
}

func scanSummary(row scannable) (model.GlobalSummary, error) {
	var g model.GlobalSummary
	var lastSync *time.Time
	err := row.Scan(&g.ID, &g.GlobalReadinessScore, &g.TotalAIDeployments, &g.TotalCapitalInflow,
		&g.GlobalUnmetNeedIndex, &g.OpportunityGapIndex, &lastSync)
	if err != nil {
		return model.GlobalSummary{}, err
	}
	if lastSync != nil {
		t := lastSync.UTC()
		g.LastSync = &t
	}
	return g, nil
}

func scanFlow(row scannable) (model.InvestmentFlow, error) {
	var f model.InvestmentFlow
	var regionID, stage *string
	if err := row.Scan(&f.ID, &f.SectorID, &regionID, &f.Year, &stage, &f.AmountUSD, &f.DealCount); err != nil {
		return model.InvestmentFlow{}, err
	}
	f.RegionID = deref(regionID)
	f.Stage = deref(stage)
	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
