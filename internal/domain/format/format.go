// Package format turns engine numbers into display values. It is only used at
// the presentation boundary; the engine never sees formatted values.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Display defaults for values that are absent (no rows, nil summary field).
// These are the only fallback literals in the service.
const (
	DefaultPercent  = 50
	DefaultCount    = 0
	DefaultCapital  = 0.0
	NoDataLabel     = "No data"
	capitalBillion  = 1e9
	capitalMillion  = 1e6
	capitalThousand = 1e3
)

var printer = message.NewPrinter(language.English)

// Capital renders a USD amount with a K/M/B suffix and one decimal,
// e.g. 68_400_000_000 -> "$68.4B". Amounts under $1K are printed whole.
func Capital(usd float64) string {
	if math.IsNaN(usd) || math.IsInf(usd, 0) {
		usd = DefaultCapital
	}
	sign := ""
	if usd < 0 {
		sign = "-"
		usd = -usd
	}
	switch {
	case usd >= capitalBillion:
		return fmt.Sprintf("%s$%.1fB", sign, usd/capitalBillion)
	case usd >= capitalMillion:
		return fmt.Sprintf("%s$%.1fM", sign, usd/capitalMillion)
	case usd >= capitalThousand:
		return fmt.Sprintf("%s$%.1fK", sign, usd/capitalThousand)
	default:
		return fmt.Sprintf("%s$%.0f", sign, usd)
	}
}

// Count renders an integer with thousands separators ("48,932").
func Count(n int64) string {
	return printer.Sprintf("%d", n)
}

// Billions converts USD to whole billions, rounded half up.
func Billions(usd float64) int64 {
	if usd <= 0 || math.IsNaN(usd) || math.IsInf(usd, 0) {
		return 0
	}
	return int64(math.Floor(usd/capitalBillion + 0.5))
}

// PercentOr rounds p into [0,100], or returns DefaultPercent when p is nil.
func PercentOr(p *float64) int {
	if p == nil || math.IsNaN(*p) {
		return DefaultPercent
	}
	v := math.Floor(*p + 0.5)
	return int(math.Max(0, math.Min(100, v)))
}

// CountOr returns *n, or DefaultCount when n is nil.
func CountOr(n *int64) int64 {
	if n == nil {
		return DefaultCount
	}
	return *n
}

// CapitalOr returns *usd, or DefaultCapital when usd is nil.
func CapitalOr(usd *float64) float64 {
	if usd == nil {
		return DefaultCapital
	}
	return *usd
}

// Score renders a 0-100 score with its suffix, e.g. Score(54, "/100").
func Score(v int, suffix string) string {
	return printer.Sprintf("%d%s", v, suffix)
}
