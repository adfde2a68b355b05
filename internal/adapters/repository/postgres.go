package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/okian/atlas/internal/domain/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock pools satisfy it.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// PostgresStore reads the metric store tables from Postgres.
type PostgresStore struct {
	pool Pool
}

const (
	pgListSectors = `SELECT id::text, name, description, baseline_system_risk, global_priority_weight
FROM sectors ORDER BY name`

	pgListRegions = `SELECT id::text, name, iso_code, income_level, regulatory_index, ai_policy_maturity, gdp_usd, population
FROM regions ORDER BY name`

	pgListMetrics = `SELECT m.id::text, m.sector_id::text, m.region_id::text, m.year, s.name, r.name,
	m.ai_adoption_rate, m.ai_maturity_score, m.ai_deployments,
	m.capital_inflow_usd, m.capital_growth_rate, m.unmet_need_index,
	m.infrastructure_gap, m.workforce_readiness, m.policy_readiness_score,
	m.regulatory_friction_index, m.talent_density_index, m.confidence_score,
	m.last_updated
FROM sector_metrics m
JOIN sectors s ON s.id = m.sector_id
LEFT JOIN regions r ON r.id = m.region_id
WHERE m.year = $1`

	pgLatestSummary = `SELECT id::text, global_readiness_score, total_ai_deployments, total_capital_inflow,
	global_unmet_need_index, opportunity_gap_index, last_sync
FROM global_summary ORDER BY last_sync DESC NULLS LAST LIMIT 1`

	pgListFlows = `SELECT id::text, sector_id::text, region_id::text, year, stage, amount_usd, deal_count
FROM investment_flows WHERE year = $1`
)

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ListSectors implements Store.
func (s *PostgresStore) ListSectors(ctx context.Context) (_ []model.Sector, err error) {
	defer observe(QueryListSectors, time.Now(), &err)
	rows, err := s.pool.Query(ctx, pgListSectors)
	if err != nil {
		return nil, queryFailed(err, QueryListSectors, "postgres: list sectors")
	}
	out, err := collect(rows, scanSector)
	return out, queryFailed(err, QueryListSectors, "postgres: scan sectors")
}

// ListRegions implements Store.
func (s *PostgresStore) ListRegions(ctx context.Context) (_ []model.Region, err error) {
	defer observe(QueryListRegions, time.Now(), &err)
	rows, err := s.pool.Query(ctx, pgListRegions)
	if err != nil {
		return nil, queryFailed(err, QueryListRegions, "postgres: list regions")
	}
	out, err := collect(rows, scanRegion)
	return out, queryFailed(err, QueryListRegions, "postgres: scan regions")
}

// ListSectorMetrics implements Store.
func (s *PostgresStore) ListSectorMetrics(ctx context.Context, year int) (_ []model.SectorMetric, err error) {
	defer observe(QueryListMetrics, time.Now(), &err)
	if err = validYear(year); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, pgListMetrics, year)
	if err != nil {
		return nil, queryFailed(err, QueryListMetrics, "postgres: list sector metrics")
	}
	out, err := collect(rows, scanMetric)
	return out, queryFailed(err, QueryListMetrics, "postgres: scan sector metrics")
}

// LatestGlobalSummary implements Store.
func (s *PostgresStore) LatestGlobalSummary(ctx context.Context) (_ *model.GlobalSummary, err error) {
	defer observe(QueryLatestSummary, time.Now(), &err)
	g, err := scanSummary(s.pool.QueryRow(ctx, pgLatestSummary))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, queryFailed(err, QueryLatestSummary, "postgres: latest global summary")
	}
	return &g, nil
}

// ListInvestmentFlows implements Store.
func (s *PostgresStore) ListInvestmentFlows(ctx context.Context, year int) (_ []model.InvestmentFlow, err error) {
	defer observe(QueryListFlows, time.Now(), &err)
	if err = validYear(year); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, pgListFlows, year)
	if err != nil {
		return nil, queryFailed(err, QueryListFlows, "postgres: list investment flows")
	}
	out, err := collect(rows, scanFlow)
	return out, queryFailed(err, QueryListFlows, "postgres: scan investment flows")
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func collect[T any](rows pgx.Rows, scan func(scannable) (T, error)) ([]T, error) {
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
