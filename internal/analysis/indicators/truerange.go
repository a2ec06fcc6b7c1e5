package indicators

import (
	"fmt"

	"idx-signals/internal/models"
)

// trueRange calculates the true range for a bar given its predecessor.
func trueRange(current, previous models.Bar) float64 {
	highLow := current.High - current.Low
	highClose := abs(current.High - previous.Close)
	lowClose := abs(current.Low - previous.Close)

	tr := highLow
	if highClose > tr {
		tr = highClose
	}
	if lowClose > tr {
		tr = lowClose
	}
	return tr
}

// TrueRangeSeries computes the per-bar True Range. The first bar uses
// high-low since it has no prior close. A negative result can only come
// from a defect in this package, never from input, so it panics.
func TrueRangeSeries(bars []models.Bar) []float64 {
	n := len(bars)
	tr := make([]float64, n)
	if n == 0 {
		return tr
	}

	tr[0] = bars[0].High - bars[0].Low
	for i := 1; i < n; i++ {
		tr[i] = trueRange(bars[i], bars[i-1])
	}

	for i, v := range tr {
		if v < 0 {
			panic(fmt.Sprintf("indicators: negative true range %.6f at bar %d", v, i))
		}
	}
	return tr
}
