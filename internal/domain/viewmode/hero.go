package viewmode

import (
	"github.com/okian/atlas/internal/domain/format"
	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
)

// HeroMetrics returns m's headline metrics with live summary values
// substituted where the mode defines a rule. A nil summary, or a nil field,
// keeps the literal default.
//
//	public:      Global Readiness Score <- round(global_readiness_score)
//	             AI Systems Indexed     <- total_ai_deployments
//	opportunity: Unmet Need Index       <- round(global_unmet_need_index)
//	             Addressable Capital    <- round(total_capital_inflow / 1e9)
func HeroMetrics(m Mode, s *model.GlobalSummary) ([]HeroMetric, error) {
	c, err := Lookup(m)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return c.HeroMetrics, nil
	}
	for i := range c.HeroMetrics {
		h := &c.HeroMetrics[i]
		switch {
		case m == Public && h.Label == LabelGlobalReadiness && s.GlobalReadinessScore != nil:
			h.Value = int64(scoring.RoundHalfUp(*s.GlobalReadinessScore))
		case m == Public && h.Label == LabelSystemsIndexed && s.TotalAIDeployments != nil:
			h.Value = *s.TotalAIDeployments
		case m == Opportunity && h.Label == LabelUnmetNeed && s.GlobalUnmetNeedIndex != nil:
			h.Value = int64(scoring.RoundHalfUp(*s.GlobalUnmetNeedIndex))
		case m == Opportunity && h.Label == LabelAddressableCapital && s.TotalCapitalInflow != nil:
			h.Value = format.Billions(*s.TotalCapitalInflow)
		}
	}
	return c.HeroMetrics, nil
}

// Resolve returns m's configuration with hero metrics already substituted.
func Resolve(m Mode, s *model.GlobalSummary) (Config, error) {
	c, err := Lookup(m)
	if err != nil {
		return Config{}, err
	}
	if c.HeroMetrics, err = HeroMetrics(m, s); err != nil {
		return Config{}, err
	}
	return c, nil
}
