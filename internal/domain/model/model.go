// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"strings"
	"time"
)

// DefaultYear is the reporting year used when a caller does not pick one.
const DefaultYear = 2024

// ErrUnknownIncomeLevel is returned when an income level string does not parse.
var ErrUnknownIncomeLevel = errors.New("unknown income level")

// IncomeLevel is the World Bank style income classification of a region.
type IncomeLevel string

// Income levels.
const (
	IncomeHigh        IncomeLevel = "high"
	IncomeUpperMiddle IncomeLevel = "upper_middle"
	IncomeLowerMiddle IncomeLevel = "lower_middle"
	IncomeLow         IncomeLevel = "low"
)

// ParseIncomeLevel parses a case-insensitive income level. Hyphens are
// accepted in place of underscores ("upper-middle").
func ParseIncomeLevel(s string) (IncomeLevel, error) {
	switch l := IncomeLevel(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")); l {
	case IncomeHigh, IncomeUpperMiddle, IncomeLowerMiddle, IncomeLow:
		return l, nil
	}
	return "", ErrUnknownIncomeLevel
}

// Sector is one domain vertical (Healthcare, Education, ...).
type Sector struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	BaselineSystemRisk   *float64 `json:"baselineSystemRisk"`
	GlobalPriorityWeight *float64 `json:"globalPriorityWeight"`
}

// Region is a country or macro region.
type Region struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	ISOCode          string      `json:"isoCode"`
	IncomeLevel      IncomeLevel `json:"incomeLevel,omitempty"`
	RegulatoryIndex  *float64    `json:"regulatoryIndex"`
	AIPolicyMaturity *float64    `json:"aiPolicyMaturity"`
	GDPUSD           *float64    `json:"gdpUsd"`
	Population       *int64      `json:"population"`
}

// SectorMetric is the fact row: one per (sector, region, year). Every numeric
// field is nullable; a nil value is excluded from averages.
type SectorMetric struct {
	ID       string `json:"id"`
	SectorID string `json:"sectorId"`
	// RegionID is empty for sector-level facts.
	RegionID string `json:"regionId,omitempty"`
	Year     int    `json:"year"`

	// Joined display names.
	SectorName string `json:"sectorName,omitempty"`
	RegionName string `json:"regionName,omitempty"`

	AIAdoptionRate          *float64   `json:"aiAdoptionRate"`
	AIMaturityScore         *float64   `json:"aiMaturityScore"`
	AIDeployments           *int64     `json:"aiDeployments"`
	CapitalInflowUSD        *float64   `json:"capitalInflowUsd"`
	CapitalGrowthRate       *float64   `json:"capitalGrowthRate"`
	UnmetNeedIndex          *float64   `json:"unmetNeedIndex"`
	InfrastructureGap       *float64   `json:"infrastructureGap"`
	WorkforceReadiness      *float64   `json:"workforceReadiness"`
	PolicyReadinessScore    *float64   `json:"policyReadinessScore"`
	RegulatoryFrictionIndex *float64   `json:"regulatoryFrictionIndex"`
	TalentDensityIndex      *float64   `json:"talentDensityIndex"`
	ConfidenceScore         *float64   `json:"confidenceScore"`
	LastUpdated             *time.Time `json:"lastUpdated"`
}

// GlobalSummary caches cross-sector aggregates refreshed by ingestion.
type GlobalSummary struct {
	ID                   string     `json:"id"`
	GlobalReadinessScore *float64   `json:"globalReadinessScore"`
	TotalAIDeployments   *int64     `json:"totalAiDeployments"`
	TotalCapitalInflow   *float64   `json:"totalCapitalInflow"`
	GlobalUnmetNeedIndex *float64   `json:"globalUnmetNeedIndex"`
	OpportunityGapIndex  *float64   `json:"opportunityGapIndex"`
	LastSync             *time.Time `json:"lastSync"`
}

// InvestmentFlow is a disclosed capital movement into a sector and region.
type InvestmentFlow struct {
	ID        string   `json:"id"`
	SectorID  string   `json:"sectorId"`
	RegionID  string   `json:"regionId,omitempty"`
	Year      int      `json:"year"`
	Stage     string   `json:"stage,omitempty"`
	AmountUSD *float64 `json:"amountUsd"`
	DealCount *int64   `json:"dealCount"`
}

// Ptr returns a pointer to v. Handy for building nullable fixture rows.
func Ptr[T any](v T) *T { return &v }
