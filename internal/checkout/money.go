package checkout

import (
	"math"
	"strconv"
)

// round2 rounds to 2 decimal places. Totals accumulate in full precision
// and are rounded once, at presentation and submission boundaries.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatAmount renders a monetary value as a fixed 2-decimal string, the
// form the backend and the payment-reference token both require.
func formatAmount(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', 2, 64)
}
