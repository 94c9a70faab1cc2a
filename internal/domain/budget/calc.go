package budget

import (
	"fmt"
	"math"
)

const (
	MinBudget     = 10000.0
	MaxBudget     = 130000.0
	DefaultBudget = 10000.0

	adjustFactor = 0.2
	roundingStep = 1000.0
)

// Adjust computes the next period's spending ceiling from the closed
// period's realized spend. Overruns grow the budget past actual spend,
// underruns shrink it toward actual spend, and an exact match gets a
// flat 20% headroom. The result is rounded to the nearest thousand and
// clamped to [MinBudget, MaxBudget].
func Adjust(currentBudget, actualSpend float64) (float64, string) {
	var raw float64
	var reason string

	switch {
	case actualSpend > currentBudget:
		over := actualSpend - currentBudget
		raw = actualSpend + adjustFactor*over
		reason = fmt.Sprintf("Exceeded budget by %.2f: raised ceiling to cover the overrun", over)
	case actualSpend < currentBudget:
		under := currentBudget - actualSpend
		raw = actualSpend + adjustFactor*under
		reason = fmt.Sprintf("Under budget by %.2f: lowered ceiling toward actual spend", under)
	default:
		raw = actualSpend * (1 + adjustFactor)
		reason = "Spend matched budget exactly: added 20% headroom"
	}

	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
		return MinBudget, "Invalid adjustment input: reset to minimum budget"
	}

	rounded := math.Round(raw/roundingStep) * roundingStep
	if rounded < MinBudget {
		rounded = MinBudget
	}
	if rounded > MaxBudget {
		rounded = MaxBudget
	}
	return rounded, reason
}
