// Package scoring derives scores and qualitative tiers from aggregated sector
// metrics. Every function is pure: identical inputs give identical outputs.
package scoring

import (
	"fmt"
	"math"
)

const (
	maxScore      = 100
	usdPerBillion = 1e9

	// defaultReferenceUSD is the capital that counts as one normalization point.
	defaultReferenceUSD = 5e8
)

// OpportunityWeights are the product constants of the opportunity score:
//
//	round(urgency*Urgency + unmetNeed*UnmetNeed +
//	      (100-capitalNorm)*CapitalScarcity + (100-stability)*Instability)
type OpportunityWeights struct {
	Urgency         float64 `json:"urgency"`
	UnmetNeed       float64 `json:"unmetNeed"`
	CapitalScarcity float64 `json:"capitalScarcity"`
	Instability     float64 `json:"instability"`

	// UrgencyNeed and UrgencyInfrastructure weight unmet need and
	// infrastructure gap inside urgency.
	UrgencyNeed           float64 `json:"urgencyNeed"`
	UrgencyInfrastructure float64 `json:"urgencyInfrastructure"`
}

// DefaultOpportunityWeights returns the heatmap ranking constants.
func DefaultOpportunityWeights() OpportunityWeights {
	return OpportunityWeights{
		Urgency:               0.3,
		UnmetNeed:             0.35,
		CapitalScarcity:       0.2,
		Instability:           0.15,
		UrgencyNeed:           0.6,
		UrgencyInfrastructure: 0.4,
	}
}

// Validate checks that both weight groups sum to 1 and none is negative.
func (w OpportunityWeights) Validate() error {
	for _, v := range []float64{w.Urgency, w.UnmetNeed, w.CapitalScarcity, w.Instability, w.UrgencyNeed, w.UrgencyInfrastructure} {
		if v < 0 {
			return fmt.Errorf("%w: negative weight %v", ErrInvalidWeights, v)
		}
	}
	if s := w.Urgency + w.UnmetNeed + w.CapitalScarcity + w.Instability; math.Abs(s-1) > 0.001 {
		return fmt.Errorf("%w: composite weights sum to %.3f", ErrInvalidWeights, s)
	}
	if s := w.UrgencyNeed + w.UrgencyInfrastructure; math.Abs(s-1) > 0.001 {
		return fmt.Errorf("%w: urgency weights sum to %.3f", ErrInvalidWeights, s)
	}
	return nil
}

// OpportunityInput is the aggregate slice the opportunity score needs.
type OpportunityInput struct {
	UnmetNeed         int
	InfrastructureGap int
	CapitalInflowUSD  float64
	Stability         int
}

// Opportunity is the computed opportunity breakdown.
type Opportunity struct {
	Score       int `json:"score"`
	Urgency     int `json:"urgency"`
	CapitalNorm int `json:"capitalNorm"`
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithOpportunityWeights replaces the composite weights when they validate.
func WithOpportunityWeights(w OpportunityWeights) Option {
	return func(s *Scorer) {
		if w.Validate() == nil {
			s.weights = w
		}
	}
}

// WithReferenceCapital sets the USD amount worth one normalization point.
func WithReferenceCapital(usd float64) Option {
	return func(s *Scorer) {
		if usd > 0 {
			s.referenceUSD = usd
		}
	}
}

// Scorer computes opportunity scores with configurable constants.
type Scorer struct {
	weights      OpportunityWeights
	referenceUSD float64
}

// NewScorer creates a scorer with the default constants.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights:      DefaultOpportunityWeights(),
		referenceUSD: defaultReferenceUSD,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the active composite weights.
func (s *Scorer) Weights() OpportunityWeights { return s.weights }

// Urgency blends unmet need and infrastructure gap.
func (s *Scorer) Urgency(unmetNeed, infrastructureGap int) int {
	return ClampPercent(roundHalfUp(float64(unmetNeed)*s.weights.UrgencyNeed + float64(infrastructureGap)*s.weights.UrgencyInfrastructure))
}

// CapitalNorm maps USD inflow onto 0-100 in reference units, capped at 100.
// Zero, negative and non-finite inflow normalize to 0.
func (s *Scorer) CapitalNorm(capitalInflowUSD float64) int {
	if capitalInflowUSD <= 0 || math.IsNaN(capitalInflowUSD) || math.IsInf(capitalInflowUSD, 0) {
		return 0
	}
	units := capitalInflowUSD / usdPerBillion / (s.referenceUSD / usdPerBillion)
	return min(roundHalfUp(units), maxScore)
}

// Opportunity computes the weighted composite used for heatmap ranking.
// Percentage inputs are clamped to 0-100 first, so the score and urgency
// stay in range whatever the caller passes.
func (s *Scorer) Opportunity(in OpportunityInput) Opportunity {
	need := ClampPercent(in.UnmetNeed)
	stability := ClampPercent(in.Stability)
	urgency := s.Urgency(need, ClampPercent(in.InfrastructureGap))
	capNorm := s.CapitalNorm(in.CapitalInflowUSD)
	w := s.weights
	score := float64(urgency)*w.Urgency +
		float64(need)*w.UnmetNeed +
		float64(maxScore-capNorm)*w.CapitalScarcity +
		float64(maxScore-stability)*w.Instability
	return Opportunity{
		Score:       ClampPercent(roundHalfUp(score)),
		Urgency:     urgency,
		CapitalNorm: capNorm,
	}
}

// RoundHalfUp rounds to the nearest integer with halves going up, matching
// the rounding the dashboard has always displayed.
func RoundHalfUp(x float64) int { return roundHalfUp(x) }

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// ClampPercent bounds v to 0-100.
func ClampPercent(v int) int {
	return max(0, min(maxScore, v))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
