package indicators

import (
	"fmt"

	"idx-signals/internal/models"
)

// EMA calculates Exponential Moving Average.
type EMA struct {
	span int
}

// NewEMA creates a new EMA indicator.
func NewEMA(span int) *EMA {
	return &EMA{span: span}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("ema_%d", e.span)
}

func (e *EMA) Period() int {
	return e.span
}

func (e *EMA) Calculate(bars []models.Bar) ([]float64, error) {
	if e.span <= 0 {
		return nil, ErrInvalidPeriod
	}
	return CalculateEMA(closePrices(bars), e.span), nil
}

// CalculateEMA calculates EMA on raw values (helper for other indicators).
// The seed at span-1 is the simple mean of the first span values; earlier
// indices are undefined. Shorter input yields an all-undefined series.
func CalculateEMA(values []float64, span int) []float64 {
	n := len(values)
	result := undefinedSeries(n)
	if span <= 0 || n < span {
		return result
	}

	multiplier := 2.0 / float64(span+1)
	result[span-1] = mean(values[:span])
	for i := span; i < n; i++ {
		result[i] = (values[i]-result[i-1])*multiplier + result[i-1]
	}
	return result
}

// MACD calculates Moving Average Convergence Divergence.
type MACD struct {
	fastSpan   int
	slowSpan   int
	signalSpan int
}

// NewMACD creates a new MACD indicator with the given spans (12, 26, 9 are
// the conventional defaults).
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastSpan:   fast,
		slowSpan:   slow,
		signalSpan: signal,
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("macd_%d_%d_%d", m.fastSpan, m.slowSpan, m.signalSpan)
}

func (m *MACD) Period() int {
	return m.slowSpan + m.signalSpan - 1
}

func (m *MACD) Calculate(bars []models.Bar) (map[string][]float64, error) {
	if m.fastSpan <= 0 || m.slowSpan <= 0 || m.signalSpan <= 0 {
		return nil, ErrInvalidPeriod
	}

	n := len(bars)
	closes := closePrices(bars)
	fastEMA := CalculateEMA(closes, m.fastSpan)
	slowEMA := CalculateEMA(closes, m.slowSpan)

	// Line is defined once both EMAs are; with fast < slow that is the
	// slow warm-up.
	macdLine := undefinedSeries(n)
	for i := 0; i < n; i++ {
		if Defined(fastEMA[i]) && Defined(slowEMA[i]) {
			macdLine[i] = fastEMA[i] - slowEMA[i]
		}
	}

	// Signal is an EMA over the defined region of the line.
	signalLine := undefinedSeries(n)
	start := firstDefined(macdLine)
	if start >= 0 {
		signalEMA := CalculateEMA(macdLine[start:], m.signalSpan)
		for i, v := range signalEMA {
			signalLine[start+i] = v
		}
	}

	histogram := undefinedSeries(n)
	for i := 0; i < n; i++ {
		if Defined(macdLine[i]) && Defined(signalLine[i]) {
			histogram[i] = macdLine[i] - signalLine[i]
		}
	}

	return map[string][]float64{
		"macd":      macdLine,
		"signal":    signalLine,
		"histogram": histogram,
	}, nil
}

// firstDefined returns the index of the first defined value, or -1.
func firstDefined(values []float64) int {
	for i, v := range values {
		if Defined(v) {
			return i
		}
	}
	return -1
}
