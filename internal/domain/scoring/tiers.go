package scoring

import "strings"

// Maturity is the AI maturity tier derived from the stability score.
type Maturity string

// Maturity tiers.
const (
	MaturityAdvanced Maturity = "Advanced"
	MaturityModerate Maturity = "Moderate"
	MaturityEarly    Maturity = "Early"
	MaturityNascent  Maturity = "Nascent"
)

// MaturityTier classifies a stability score (0-100).
func MaturityTier(stability int) Maturity {
	switch {
	case stability >= 70:
		return MaturityAdvanced
	case stability >= 50:
		return MaturityModerate
	case stability >= 30:
		return MaturityEarly
	default:
		return MaturityNascent
	}
}

// Talent is the talent concentration tier.
type Talent string

// Talent tiers.
const (
	TalentHigh   Talent = "High"
	TalentMedium Talent = "Medium"
	TalentLow    Talent = "Low"
)

// TalentTier classifies a talent density index (0-100).
func TalentTier(density int) Talent {
	switch {
	case density >= 70:
		return TalentHigh
	case density >= 45:
		return TalentMedium
	default:
		return TalentLow
	}
}

// Friction is the regulatory friction tier.
type Friction string

// Friction tiers.
const (
	FrictionVeryHigh Friction = "Very High"
	FrictionHigh     Friction = "High"
	FrictionMedium   Friction = "Medium"
	FrictionLow      Friction = "Low"
)

// FrictionTier classifies a regulatory friction index (0-100).
func FrictionTier(index int) Friction {
	switch {
	case index >= 60:
		return FrictionVeryHigh
	case index >= 45:
		return FrictionHigh
	case index >= 30:
		return FrictionMedium
	default:
		return FrictionLow
	}
}

// InvestmentGap is the tier of unmet need relative to capital inflow.
type InvestmentGap string

// Investment gap tiers.
const (
	GapCritical InvestmentGap = "Critical"
	GapHigh     InvestmentGap = "High"
	GapMedium   InvestmentGap = "Medium"
	GapLow      InvestmentGap = "Low"
)

// maximalGapRatio stands in for the ratio when there is no capital at all.
const maximalGapRatio = 100

// InvestmentGapRatio returns unmet need per billion USD of capital inflow.
// Zero or negative inflow is the maximal gap.
func InvestmentGapRatio(unmetNeed int, capitalInflowUSD float64) float64 {
	if capitalInflowUSD <= 0 {
		return maximalGapRatio
	}
	return float64(unmetNeed) / (capitalInflowUSD / usdPerBillion)
}

// InvestmentGapTier classifies the gap between unmet need and capital.
func InvestmentGapTier(unmetNeed int, capitalInflowUSD float64) InvestmentGap {
	ratio := InvestmentGapRatio(unmetNeed, capitalInflowUSD)
	switch {
	case ratio > 10:
		return GapCritical
	case ratio > 5:
		return GapHigh
	case ratio > 2:
		return GapMedium
	default:
		return GapLow
	}
}

// Risk is the systemic risk tier.
type Risk string

// Risk tiers.
const (
	RiskCritical Risk = "Critical"
	RiskElevated Risk = "Elevated"
	RiskModerate Risk = "Moderate"
	RiskLow      Risk = "Low"
)

// RiskAssessment pairs the adjusted score with its tier.
type RiskAssessment struct {
	Score int  `json:"score"`
	Tier  Risk `json:"tier"`
}

// RiskTier classifies an adjusted resilience score.
func RiskTier(adjusted int) Risk {
	switch {
	case adjusted < 30:
		return RiskCritical
	case adjusted < 50:
		return RiskElevated
	case adjusted < 70:
		return RiskModerate
	default:
		return RiskLow
	}
}

// AssessRisk discounts a resilience score by the sector's baseline system risk:
// round(resilience * (1 - baselineRisk/200)). Resilience and baseline risk are
// clamped to 0-100, so the adjusted score is too.
func AssessRisk(resilience int, baselineRisk float64) RiskAssessment {
	b := clamp(baselineRisk, 0, maxScore)
	adjusted := roundHalfUp(float64(ClampPercent(resilience)) * (1 - b/200))
	return RiskAssessment{Score: adjusted, Tier: RiskTier(adjusted)}
}

// Trend is the direction of capital flows.
type Trend string

// Trends.
const (
	TrendWorsening Trend = "Worsening"
	TrendStable    Trend = "Stable"
	TrendImproving Trend = "Improving"
)

// TrendOf classifies an average capital growth rate (percent).
func TrendOf(avgGrowthRate float64) Trend {
	switch {
	case avgGrowthRate < 0:
		return TrendWorsening
	case avgGrowthRate < 5:
		return TrendStable
	default:
		return TrendImproving
	}
}

// HeatLevel buckets an opportunity score for heatmap shading.
type HeatLevel string

// Heat levels.
const (
	HeatCritical HeatLevel = "Critical"
	HeatHigh     HeatLevel = "High"
	HeatModerate HeatLevel = "Moderate"
	HeatLow      HeatLevel = "Low"
)

// HeatLevelOf buckets a 0-100 value.
func HeatLevelOf(value int) HeatLevel {
	switch {
	case value >= 85:
		return HeatCritical
	case value >= 70:
		return HeatHigh
	case value >= 50:
		return HeatModerate
	default:
		return HeatLow
	}
}

// Quadrant places a sector on the need/capital matrix.
type Quadrant string

// Quadrants. HighNeedLowCapital is the strongest opportunity.
const (
	HighNeedLowCapital  Quadrant = "High Need / Low Capital"
	HighNeedHighCapital Quadrant = "High Need / High Capital"
	LowNeedLowCapital   Quadrant = "Low Need / Low Capital"
	LowNeedHighCapital  Quadrant = "Low Need / High Capital"
)

const quadrantMidpoint = 50

// QuadrantOf places unmet need (y) against normalized capital (x).
func QuadrantOf(unmetNeed, capitalNorm int) Quadrant {
	highNeed := unmetNeed >= quadrantMidpoint
	highCapital := capitalNorm >= quadrantMidpoint
	switch {
	case highNeed && !highCapital:
		return HighNeedLowCapital
	case highNeed:
		return HighNeedHighCapital
	case !highCapital:
		return LowNeedLowCapital
	default:
		return LowNeedHighCapital
	}
}

// RegulatoryBand groups regions by regulatory index.
type RegulatoryBand string

// Regulatory bands.
const (
	BandHigh   RegulatoryBand = "high"
	BandMedium RegulatoryBand = "medium"
	BandLow    RegulatoryBand = "low"
)

// BandOf classifies a regulatory index: >=70 high, 40-69 medium, <40 low.
func BandOf(regulatoryIndex float64) RegulatoryBand {
	switch {
	case regulatoryIndex >= 70:
		return BandHigh
	case regulatoryIndex >= 40:
		return BandMedium
	default:
		return BandLow
	}
}

// ParseRegulatoryBand parses "high", "medium" or "low".
func ParseRegulatoryBand(s string) (RegulatoryBand, error) {
	switch b := RegulatoryBand(strings.ToLower(strings.TrimSpace(s))); b {
	case BandHigh, BandMedium, BandLow:
		return b, nil
	}
	return "", ErrUnknownBand
}
