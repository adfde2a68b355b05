package viewmode

// Hero labels that live summary data can override.
const (
	LabelGlobalReadiness    = "Global Readiness Score"
	LabelSystemsIndexed     = "AI Systems Indexed"
	LabelUnmetNeed          = "Unmet Need Index"
	LabelAddressableCapital = "Addressable Capital"
)

var table = map[Mode]Config{
	Public: {
		ID:          Public,
		Label:       "Public View",
		Description: "Global credibility, institutional positioning",
		Weights:     Weights{Deployment: 0.25, UnmetNeed: 0.15, Maturity: 0.20, Capital: 0.10, Talent: 0.05, Regulatory: 0.10, Policy: 0.10, Confidence: 0.05},
		Emphasis:    Emphasis{Metrics: []string{"Global Readiness Score", "Sector Stability", "Risk Index"}, Tone: ToneMeasured},
		Sections:    Sections{Regions: true, Quadrant: false, Heatmap: false, Risks: true},
		HeroMetrics: []HeroMetric{
			{Value: 54, Label: LabelGlobalReadiness, Suffix: "/100"},
			{Value: 156, Label: "Countries Tracked"},
			{Value: 72, Label: "Sector Stability", Suffix: "%"},
			{Value: 48932, Label: LabelSystemsIndexed},
		},
		HeroSubtitle: "Mapping artificial intelligence readiness, deployment impact, and system stability across critical global infrastructure. A public intelligence portal for transparency and collaborative decision-making.",
	},
	Insights: {
		ID:          Insights,
		Label:       "Insights View",
		Description: "Data journalism, explainer interface",
		Weights:     Weights{Deployment: 0.20, UnmetNeed: 0.20, Maturity: 0.15, Capital: 0.10, Talent: 0.10, Regulatory: 0.10, Policy: 0.10, Confidence: 0.05},
		Emphasis:    Emphasis{Metrics: []string{"Adoption Rate", "Gap Analysis", "Regional Stories"}, Tone: ToneExplanatory},
		Sections:    Sections{Regions: true, Quadrant: true, Heatmap: false, Risks: false},
		HeroMetrics: []HeroMetric{
			{Value: 54, Label: "AI Adoption Rate", Suffix: "%"},
			{Value: 48, Label: "Infrastructure Gap", Suffix: "%"},
			{Value: 63, Label: "Workforce Readiness", Suffix: "%"},
			{Value: 41, Label: "Digital Equity Index", Suffix: "/100"},
		},
		HeroSubtitle: "Understanding how AI adoption unfolds across sectors: where progress is real, where gaps persist, and what the data reveals about workforce and infrastructure readiness.",
	},
	Opportunity: {
		ID:          Opportunity,
		Label:       "Opportunity View",
		Description: "Venture intelligence, founder and VC scouting",
		Weights:     Weights{Deployment: 0.10, UnmetNeed: 0.35, Maturity: 0.25, Capital: 0.15, Talent: 0.10, Regulatory: 0.05, Policy: 0.00, Confidence: 0.00},
		Emphasis:    Emphasis{Metrics: []string{"Opportunity Score", "Market Gaps", "Talent Density"}, Tone: ToneActionable},
		Sections:    Sections{Regions: false, Quadrant: true, Heatmap: true, Risks: false},
		HeroMetrics: []HeroMetric{
			{Value: 87, Label: "High-Grade Opportunities"},
			{Value: 72, Label: LabelUnmetNeed, Suffix: "%"},
			{Value: 48, Label: LabelAddressableCapital, Suffix: "B"},
			{Value: 23, Label: "Market Gaps Identified"},
		},
		HeroSubtitle: "Identifying under-served AI markets, capital gaps, and high-potential sectors for founders, investors, and accelerators seeking defensible opportunity.",
	},
	Policy: {
		ID:          Policy,
		Label:       "Policy View",
		Description: "Government advisory, strategic planning",
		Weights:     Weights{Deployment: 0.15, UnmetNeed: 0.10, Maturity: 0.10, Capital: 0.05, Talent: 0.15, Regulatory: 0.20, Policy: 0.20, Confidence: 0.05},
		Emphasis:    Emphasis{Metrics: []string{"Policy Readiness", "Workforce Impact", "Infrastructure Gap"}, Tone: ToneAnalytical},
		Sections:    Sections{Regions: true, Quadrant: false, Heatmap: false, Risks: true},
		HeroMetrics: []HeroMetric{
			{Value: 58, Label: "Policy Readiness", Suffix: "%"},
			{Value: 64, Label: "Workforce Impact Risk", Suffix: "/100"},
			{Value: 47, Label: "Regulatory Clarity", Suffix: "%"},
			{Value: 32, Label: "Infrastructure Investment", Suffix: "B"},
		},
		HeroSubtitle: "Assessing AI policy maturity, workforce displacement risk, and regulatory clarity to support national planning and government advisory functions.",
	},
}
