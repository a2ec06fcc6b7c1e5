// Package signal derives directional trade signals from indicator series.
package signal

import (
	"idx-signals/internal/analysis/indicators"
)

// CrossUp flags bars where series a transitions from at-or-below b to
// strictly above it. Index 0 is never a cross, and a bar with any undefined
// operand at i-1 or i is no signal.
func CrossUp(a, b []float64) []bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]bool, n)
	for i := 1; i < n; i++ {
		if !operandsDefined(a, b, i) {
			continue
		}
		out[i] = a[i-1] <= b[i-1] && a[i] > b[i]
	}
	return out
}

// CrossDown is the bearish mirror of CrossUp.
func CrossDown(a, b []float64) []bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]bool, n)
	for i := 1; i < n; i++ {
		if !operandsDefined(a, b, i) {
			continue
		}
		out[i] = a[i-1] >= b[i-1] && a[i] < b[i]
	}
	return out
}

func operandsDefined(a, b []float64, i int) bool {
	return indicators.Defined(a[i-1]) && indicators.Defined(a[i]) &&
		indicators.Defined(b[i-1]) && indicators.Defined(b[i])
}
