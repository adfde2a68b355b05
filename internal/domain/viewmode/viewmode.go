// Package viewmode holds the static per-audience presentation table.
//
// Each mode carries an 8-dimension weight vector, section visibility flags
// and hero headline metrics. The weights are descriptive metadata: no score
// in this service is computed from them.
package viewmode

import (
	"fmt"
	"math"
	"strings"
)

// Mode is an audience-specific presentation configuration.
type Mode string

// Known modes.
const (
	Public      Mode = "public"
	Insights    Mode = "insights"
	Opportunity Mode = "opportunity"
	Policy      Mode = "policy"
)

// All returns the modes in switcher order.
func All() []Mode { return []Mode{Public, Insights, Opportunity, Policy} }

// Parse resolves a case-insensitive mode name.
func Parse(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Public, Insights, Opportunity, Policy:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownViewMode, s)
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	_, ok := table[m]
	return ok
}

// Tone is the editorial register of a mode.
type Tone string

// Tones.
const (
	ToneMeasured    Tone = "measured"
	ToneExplanatory Tone = "explanatory"
	ToneActionable  Tone = "actionable"
	ToneAnalytical  Tone = "analytical"
)

// Weights biases which metric dimensions an audience sees emphasized.
type Weights struct {
	Deployment float64 `json:"deployment"`
	UnmetNeed  float64 `json:"unmetNeed"`
	Maturity   float64 `json:"maturity"`
	Capital    float64 `json:"capital"`
	Talent     float64 `json:"talent"`
	Regulatory float64 `json:"regulatory"`
	Policy     float64 `json:"policy"`
	Confidence float64 `json:"confidence"`
}

const weightTolerance = 0.001

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Deployment + w.UnmetNeed + w.Maturity + w.Capital +
		w.Talent + w.Regulatory + w.Policy + w.Confidence
}

// Validate checks that weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Deployment, w.UnmetNeed, w.Maturity, w.Capital, w.Talent, w.Regulatory, w.Policy, w.Confidence} {
		if v < 0 {
			return fmt.Errorf("%w: negative weight %f", ErrInvalidWeights, v)
		}
	}
	if math.Abs(w.Sum()-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %.4f", ErrInvalidWeights, w.Sum())
	}
	return nil
}

// Sections are the optional dashboard sections a mode shows.
type Sections struct {
	Regions  bool `json:"regions"`
	Quadrant bool `json:"quadrant"`
	Heatmap  bool `json:"heatmap"`
	Risks    bool `json:"risks"`
}

// HeroMetric is a headline number.
type HeroMetric struct {
	Value  int64  `json:"value"`
	Label  string `json:"label"`
	Suffix string `json:"suffix,omitempty"`
}

// Emphasis names the metrics a mode foregrounds.
type Emphasis struct {
	Metrics []string `json:"metrics"`
	Tone    Tone     `json:"tone"`
}

// Config is one row of the table.
type Config struct {
	ID           Mode         `json:"id"`
	Label        string       `json:"label"`
	Description  string       `json:"description"`
	Weights      Weights      `json:"weights"`
	Emphasis     Emphasis     `json:"emphasis"`
	Sections     Sections     `json:"sections"`
	HeroMetrics  []HeroMetric `json:"heroMetrics"`
	HeroSubtitle string       `json:"heroSubtitle"`
}

// Lookup returns a copy of the configuration for m. Callers may modify the
// result freely.
func Lookup(m Mode) (Config, error) {
	c, ok := table[m]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownViewMode, m)
	}
	return c.clone(), nil
}

// Configs returns copies of every configuration in switcher order.
func Configs() []Config {
	out := make([]Config, 0, len(table))
	for _, m := range All() {
		out = append(out, table[m].clone())
	}
	return out
}

func (c Config) clone() Config {
	c.Emphasis.Metrics = append([]string(nil), c.Emphasis.Metrics...)
	c.HeroMetrics = append([]HeroMetric(nil), c.HeroMetrics...)
	return c
}
