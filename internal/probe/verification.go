package probe

import (
	"fmt"

	"github.com/okian/atlas/internal/domain/dashboard"
	"github.com/okian/atlas/internal/domain/scoring"
	"github.com/okian/atlas/internal/domain/viewmode"
)

const maxPercent = 100

// verifier collects check results. A failed check records a violation and
// never stops the run.
type verifier struct {
	scorer     *scoring.Scorer
	checks     int
	violations []string
}

func (v *verifier) check(ok bool, format string, args ...any) {
	v.checks++
	if !ok {
		v.violations = append(v.violations, fmt.Sprintf(format, args...))
	}
}

func inPercent(x int) bool { return x >= 0 && x <= maxPercent }

// sectors recomputes every card's opportunity from its own aggregate.
func (v *verifier) sectors(cards []dashboard.Card) {
	v.check(len(cards) > 0, "sector list is empty")
	for _, c := range cards {
		if !c.HasData() {
			v.check(c.Scores == nil, "sector %s has scores without data", c.Sector.Name)
			continue
		}
		if c.Scores == nil {
			v.check(false, "sector %s has data without scores", c.Sector.Name)
			continue
		}
		a := c.Aggregate
		want := v.scorer.Opportunity(scoring.OpportunityInput{
			UnmetNeed:         a.UnmetNeedIndex,
			InfrastructureGap: a.InfrastructureGap,
			CapitalInflowUSD:  a.CapitalInflow,
			Stability:         a.StabilityScore,
		})
		v.check(c.Scores.Opportunity == want,
			"sector %s opportunity %+v, recomputed %+v", c.Sector.Name, c.Scores.Opportunity, want)
		v.check(c.Scores.Maturity == scoring.MaturityTier(a.StabilityScore),
			"sector %s maturity %q for stability %d", c.Sector.Name, c.Scores.Maturity, a.StabilityScore)
		for name, x := range map[string]int{
			"stability": a.StabilityScore,
			"adoption":  a.AIAdoptionRate,
			"unmetNeed": a.UnmetNeedIndex,
			"risk":      c.Scores.Risk.Score,
		} {
			v.check(inPercent(x), "sector %s %s %d out of range", c.Sector.Name, name, x)
		}
	}
}

// heatmap checks ordering, bounds and heat labels.
func (v *verifier) heatmap(rows []dashboard.HeatmapRow, withData int) {
	v.check(len(rows) == withData, "heatmap has %d rows, %d sectors have data", len(rows), withData)
	for i, r := range rows {
		v.check(inPercent(r.OpportunityScore), "heatmap %s score %d out of range", r.Name, r.OpportunityScore)
		v.check(r.Heat == scoring.HeatLevelOf(r.OpportunityScore),
			"heatmap %s heat %q for score %d", r.Name, r.Heat, r.OpportunityScore)
		if i == 0 {
			continue
		}
		p := rows[i-1]
		v.check(p.OpportunityScore > r.OpportunityScore ||
			(p.OpportunityScore == r.OpportunityScore && p.Name <= r.Name),
			"heatmap %s (%d) ranked above %s (%d)", p.Name, p.OpportunityScore, r.Name, r.OpportunityScore)
	}
}

// risks checks that the most critical sector comes first.
func (v *verifier) risks(rows []dashboard.RiskRow) {
	for i, r := range rows {
		v.check(r.Tier == scoring.RiskTier(r.Score), "risk %s tier %q for score %d", r.Name, r.Tier, r.Score)
		if i > 0 {
			p := rows[i-1]
			v.check(p.Score < r.Score || (p.Score == r.Score && p.Name <= r.Name),
				"risk %s (%d) ranked above %s (%d)", p.Name, p.Score, r.Name, r.Score)
		}
	}
}

// modes checks that the service exposes the full mode table with the
// section visibility this build knows.
func (v *verifier) modes(cfgs []viewmode.Config) {
	seen := make(map[viewmode.Mode]bool, len(cfgs))
	for _, c := range cfgs {
		seen[c.ID] = true
		v.check(len(c.HeroMetrics) > 0, "mode %s has no hero metrics", c.ID)
		want, err := viewmode.Lookup(c.ID)
		if err != nil {
			v.check(false, "mode %s unknown", c.ID)
			continue
		}
		v.check(c.Sections == want.Sections, "mode %s sections %+v, expected %+v", c.ID, c.Sections, want.Sections)
	}
	for _, m := range viewmode.All() {
		v.check(seen[m], "mode %s missing", m)
	}
}
