package cli

import (
	"fmt"
	"math"
)

// FormatPrice formats a price with two decimal places.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// FormatPnL formats a profit-or-loss value with an explicit sign.
func FormatPnL(pnl float64) string {
	if pnl >= 0 {
		return fmt.Sprintf("+%.2f", pnl)
	}
	return fmt.Sprintf("%.2f", pnl)
}

// FormatPercent formats a fraction as a percentage with one decimal place.
func FormatPercent(fraction float64) string {
	if math.IsNaN(fraction) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// FormatIndicator formats an indicator value, rendering undefined as a dash.
func FormatIndicator(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}
