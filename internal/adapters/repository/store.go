// Package repository provides read access to the metric store: sectors,
// regions, the per-year fact table, the global summary and investment flows.
package repository

import (
	"context"

	"github.com/okian/atlas/internal/domain/model"
)

// Query names used for metrics and error wrapping.
const (
	QueryListSectors   = "list_sectors"
	QueryListRegions   = "list_regions"
	QueryListMetrics   = "list_sector_metrics"
	QueryLatestSummary = "latest_global_summary"
	QueryListFlows     = "list_investment_flows"
)

// Store is the read-only query surface of the metric store.
type Store interface {
	// ListSectors returns every sector ordered by name.
	ListSectors(ctx context.Context) ([]model.Sector, error)
	// ListRegions returns every region ordered by name.
	ListRegions(ctx context.Context) ([]model.Region, error)
	// ListSectorMetrics returns the fact rows of year with joined sector and
	// region names.
	ListSectorMetrics(ctx context.Context, year int) ([]model.SectorMetric, error)
	// LatestGlobalSummary returns the most recently synced summary, or nil
	// when none exists.
	LatestGlobalSummary(ctx context.Context) (*model.GlobalSummary, error)
	// ListInvestmentFlows returns the flows of year.
	ListInvestmentFlows(ctx context.Context, year int) ([]model.InvestmentFlow, error)
	// Close releases any held resources.
	Close() error
}

func validYear(year int) error {
	if year <= 0 {
		return ErrInvalidYear
	}
	return nil
}
