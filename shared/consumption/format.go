package consumption

import (
	"fmt"
	"math"
)

// Round2 rounds v to 2 decimal places, halves away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatKwh renders an energy figure for display, e.g. "12.00 kWh"
func FormatKwh(kwh float64) string {
	return fmt.Sprintf("%.2f kWh", Round2(kwh))
}

// FormatCost renders a currency amount for display, e.g. "$657.00"
func FormatCost(amount float64) string {
	return fmt.Sprintf("$%.2f", Round2(amount))
}

// FormatPercent renders a share for display, e.g. "42.50%"
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", Round2(pct))
}
