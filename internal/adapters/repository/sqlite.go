package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/okian/atlas/internal/domain/model"
)

// SQLiteStore reads the metric store tables from a local SQLite file. It is
// used for offline datasets and tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// One writer; readers share it. Avoids SQLITE_BUSY during Seed.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sectors (
	id                     TEXT PRIMARY KEY,
	name                   TEXT NOT NULL,
	description            TEXT,
	baseline_system_risk   REAL,
	global_priority_weight REAL
);

CREATE TABLE IF NOT EXISTS regions (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	iso_code           TEXT,
	income_level       TEXT,
	regulatory_index   REAL,
	ai_policy_maturity REAL,
	gdp_usd            REAL,
	population         INTEGER
);

CREATE TABLE IF NOT EXISTS sector_metrics (
	id                        TEXT PRIMARY KEY,
	sector_id                 TEXT NOT NULL REFERENCES sectors(id),
	region_id                 TEXT REFERENCES regions(id),
	year                      INTEGER NOT NULL,
	ai_adoption_rate          REAL,
	ai_maturity_score         REAL,
	ai_deployments            INTEGER,
	capital_inflow_usd        REAL,
	capital_growth_rate       REAL,
	unmet_need_index          REAL,
	infrastructure_gap        REAL,
	workforce_readiness       REAL,
	policy_readiness_score    REAL,
	regulatory_friction_index REAL,
	talent_density_index      REAL,
	confidence_score          REAL,
	last_updated              DATETIME
);

CREATE TABLE IF NOT EXISTS global_summary (
	id                      TEXT PRIMARY KEY,
	global_readiness_score  REAL,
	total_ai_deployments    INTEGER,
	total_capital_inflow    REAL,
	global_unmet_need_index REAL,
	opportunity_gap_index   REAL,
	last_sync               DATETIME
);

CREATE TABLE IF NOT EXISTS investment_flows (
	id         TEXT PRIMARY KEY,
	sector_id  TEXT NOT NULL REFERENCES sectors(id),
	region_id  TEXT REFERENCES regions(id),
	year       INTEGER NOT NULL,
	stage      TEXT,
	amount_usd REAL,
	deal_count INTEGER
);

CREATE INDEX IF NOT EXISTS idx_sector_metrics_year ON sector_metrics(year);
CREATE INDEX IF NOT EXISTS idx_sector_metrics_sector_year ON sector_metrics(sector_id, year);
CREATE INDEX IF NOT EXISTS idx_investment_flows_year ON investment_flows(year);
`

const (
	liteListMetrics = `SELECT m.id, m.sector_id, m.region_id, m.year, s.name, r.name,
	m.ai_adoption_rate, m.ai_maturity_score, m.ai_deployments,
	m.capital_inflow_usd, m.capital_growth_rate, m.unmet_need_index,
	m.infrastructure_gap, m.workforce_readiness, m.policy_readiness_score,
	m.regulatory_friction_index, m.talent_density_index, m.confidence_score,
	m.last_updated
FROM sector_metrics m
JOIN sectors s ON s.id = m.sector_id
LEFT JOIN regions r ON r.id = m.region_id
WHERE m.year = ?
ORDER BY m.id`

	liteLatestSummary = `SELECT id, global_readiness_score, total_ai_deployments, total_capital_inflow,
	global_unmet_need_index, opportunity_gap_index, last_sync
FROM global_summary ORDER BY last_sync IS NULL, last_sync DESC LIMIT 1`

	liteListFlows = `SELECT id, sector_id, region_id, year, stage, amount_usd, deal_count
FROM investment_flows WHERE year = ? ORDER BY id`
)

// Migrate creates the tables when missing.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Seed replaces the table contents with ds in one transaction.
func (s *SQLiteStore) Seed(ctx context.Context, ds Dataset) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin seed")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"investment_flows", "sector_metrics", "global_summary", "regions", "sectors"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return eris.Wrapf(err, "sqlite: clear %s", table)
		}
	}
	for _, sec := range ds.Sectors {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO sectors (`+sectorColumns+`) VALUES (?, ?, ?, ?, ?)`,
			sec.ID, sec.Name, nullString(sec.Description), sec.BaselineSystemRisk, sec.GlobalPriorityWeight,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert sector %s", sec.ID)
		}
	}
	for _, r := range ds.Regions {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO regions (`+regionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, nullString(r.ISOCode), nullString(string(r.IncomeLevel)),
			r.RegulatoryIndex, r.AIPolicyMaturity, r.GDPUSD, r.Population,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert region %s", r.ID)
		}
	}
	for _, m := range ds.Metrics {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO sector_metrics (id, sector_id, region_id, year,
				ai_adoption_rate, ai_maturity_score, ai_deployments,
				capital_inflow_usd, capital_growth_rate, unmet_need_index,
				infrastructure_gap, workforce_readiness, policy_readiness_score,
				regulatory_friction_index, talent_density_index, confidence_score, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.SectorID, nullString(m.RegionID), m.Year,
			m.AIAdoptionRate, m.AIMaturityScore, m.AIDeployments,
			m.CapitalInflowUSD, m.CapitalGrowthRate, m.UnmetNeedIndex,
			m.InfrastructureGap, m.WorkforceReadiness, m.PolicyReadinessScore,
			m.RegulatoryFrictionIndex, m.TalentDensityIndex, m.ConfidenceScore, m.LastUpdated,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert metric %s", m.ID)
		}
	}
	if g := ds.Summary; g != nil {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO global_summary (id, global_readiness_score, total_ai_deployments, total_capital_inflow,
				global_unmet_need_index, opportunity_gap_index, last_sync) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.GlobalReadinessScore, g.TotalAIDeployments, g.TotalCapitalInflow,
			g.GlobalUnmetNeedIndex, g.OpportunityGapIndex, g.LastSync,
		); err != nil {
			return eris.Wrap(err, "sqlite: insert summary")
		}
	}
	for _, f := range ds.Flows {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO investment_flows (id, sector_id, region_id, year, stage, amount_usd, deal_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.SectorID, nullString(f.RegionID), f.Year, nullString(f.Stage), f.AmountUSD, f.DealCount,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert flow %s", f.ID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit seed")
}

// ListSectors implements Store.
func (s *SQLiteStore) ListSectors(ctx context.Context) (_ []model.Sector, err error) {
	defer observe(QueryListSectors, time.Now(), &err)
	rows, err := s.db.QueryContext(ctx, `SELECT `+sectorColumns+` FROM sectors ORDER BY name`)
	if err != nil {
		return nil, queryFailed(err, QueryListSectors, "sqlite: list sectors")
	}
	out, err := collectSQL(rows, scanSector)
	return out, queryFailed(err, QueryListSectors, "sqlite: scan sectors")
}

// ListRegions implements Store.
func (s *SQLiteStore) ListRegions(ctx context.Context) (_ []model.Region, err error) {
	defer observe(QueryListRegions, time.Now(), &err)
	rows, err := s.db.QueryContext(ctx, `SELECT `+regionColumns+` FROM regions ORDER BY name`)
	if err != nil {
		return nil, queryFailed(err, QueryListRegions, "sqlite: list regions")
	}
	out, err := collectSQL(rows, scanRegion)
	return out, queryFailed(err, QueryListRegions, "sqlite: scan regions")
}

// ListSectorMetrics implements Store.
func (s *SQLiteStore) ListSectorMetrics(ctx context.Context, year int) (_ []model.SectorMetric, err error) {
	defer observe(QueryListMetrics, time.Now(), &err)
	if err = validYear(year); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, liteListMetrics, year)
	if err != nil {
		return nil, queryFailed(err, QueryListMetrics, "sqlite: list sector metrics")
	}
	out, err := collectSQL(rows, scanMetric)
	return out, queryFailed(err, QueryListMetrics, "sqlite: scan sector metrics")
}

// LatestGlobalSummary implements Store.
func (s *SQLiteStore) LatestGlobalSummary(ctx context.Context) (_ *model.GlobalSummary, err error) {
	defer observe(QueryLatestSummary, time.Now(), &err)
	g, err := scanSummary(s.db.QueryRowContext(ctx, liteLatestSummary))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, queryFailed(err, QueryLatestSummary, "sqlite: latest global summary")
	}
	return &g, nil
}

// ListInvestmentFlows implements Store.
func (s *SQLiteStore) ListInvestmentFlows(ctx context.Context, year int) (_ []model.InvestmentFlow, err error) {
	defer observe(QueryListFlows, time.Now(), &err)
	if err = validYear(year); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, liteListFlows, year)
	if err != nil {
		return nil, queryFailed(err, QueryListFlows, "sqlite: list investment flows")
	}
	out, err := collectSQL(rows, scanFlow)
	return out, queryFailed(err, QueryListFlows, "sqlite: scan investment flows")
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func collectSQL[T any](rows *sql.Rows, scan func(scannable) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
