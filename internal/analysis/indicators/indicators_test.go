package indicators

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idx-signals/internal/models"
)

// barSeq builds bars around the given closes with a fixed 2-point range.
func barSeq(closes []float64) []models.Bar {
	base := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func TestTrueRangeSeries(t *testing.T) {
	bars := []models.Bar{
		{High: 12, Low: 9, Close: 11},
		{High: 13, Low: 10, Close: 12},
		{High: 20, Low: 18, Close: 19},
	}
	tr := TrueRangeSeries(bars)

	require.Len(t, tr, 3)
	assert.InDelta(t, 3.0, tr[0], 1e-9) // first bar has no prior close
	assert.InDelta(t, 3.0, tr[1], 1e-9) // high-low dominates
	assert.InDelta(t, 8.0, tr[2], 1e-9) // gap up: |high - prev close|
}

func TestTrueRangeSeriesEmpty(t *testing.T) {
	assert.Empty(t, TrueRangeSeries(nil))
}

func TestWilderSmoothSeedAndRecursion(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	s := WilderSmooth(values, 3)

	require.Len(t, s, 6)
	assert.False(t, Defined(s[0]))
	assert.False(t, Defined(s[1]))
	assert.InDelta(t, 2.0, s[2], 1e-9) // seed: mean of first 3
	assert.InDelta(t, 8.0/3.0, s[3], 1e-9)
	assert.InDelta(t, 31.0/9.0, s[4], 1e-9)
	assert.InDelta(t, 116.0/27.0, s[5], 1e-9)
}

func TestWilderSmoothShortSeries(t *testing.T) {
	s := WilderSmooth([]float64{1, 2}, 3)
	require.Len(t, s, 2)
	for _, v := range s {
		assert.False(t, Defined(v))
	}
}

func TestWilderSmoothInvalidPeriod(t *testing.T) {
	s := WilderSmooth([]float64{1, 2, 3}, 0)
	for _, v := range s {
		assert.False(t, Defined(v))
	}
}

func TestATRConstantRange(t *testing.T) {
	// Identical bars make every true range equal to high-low.
	bars := barSeq([]float64{100, 100, 100, 100, 100, 100})
	atr := NewATR(3)

	values, err := atr.Calculate(bars)
	require.NoError(t, err)
	require.Len(t, values, 6)
	assert.False(t, Defined(values[1]))
	for i := 2; i < 6; i++ {
		assert.InDelta(t, 2.0, values[i], 1e-9, "index %d", i)
	}
}

func TestATRInvalidPeriod(t *testing.T) {
	_, err := NewATR(0).Calculate(barSeq([]float64{1, 2, 3}))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestRSIFlatSeriesIsNeutral(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}
	rsi := NewRSI(14)

	values, err := rsi.Calculate(barSeq(closes))
	require.NoError(t, err)
	for i := 0; i < 14; i++ {
		assert.False(t, Defined(values[i]), "index %d before warm-up", i)
	}
	for i := 14; i < len(values); i++ {
		assert.InDelta(t, 50.0, values[i], 1e-9, "index %d", i)
	}
}

func TestRSIMonotonicDrift(t *testing.T) {
	up := make([]float64, 200)
	down := make([]float64, 200)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 400 - float64(i)
	}

	upValues, err := NewRSI(14).Calculate(barSeq(up))
	require.NoError(t, err)
	downValues, err := NewRSI(14).Calculate(barSeq(down))
	require.NoError(t, err)

	assert.Greater(t, upValues[199], 90.0)
	assert.Less(t, downValues[199], 10.0)
}

func TestRSIZeroLossHardCeiling(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	values, err := NewRSI(14).Calculate(barSeq(closes))
	require.NoError(t, err)
	for i := 14; i < len(values); i++ {
		assert.InDelta(t, 100.0, values[i], 1e-9, "index %d", i)
	}
}

func TestRSIZeroLossDecayOffset(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	values, err := NewRSIWithPolicy(14, ZeroLossDecayOffset).Calculate(barSeq(closes))
	require.NoError(t, err)

	// Offset starts at one point and halves every period bars.
	assert.InDelta(t, 99.0, values[14], 1e-9)
	assert.InDelta(t, 99.5, values[28], 1e-9)
	assert.InDelta(t, 99.75, values[42], 1e-9)
	assert.Less(t, values[56], 100.0)
}

func TestRSIShortSeriesUndefined(t *testing.T) {
	values, err := NewRSI(14).Calculate(barSeq([]float64{1, 2, 3}))
	require.NoError(t, err)
	for _, v := range values {
		assert.False(t, Defined(v))
	}
}

func TestEMASeedAndRecursion(t *testing.T) {
	s := CalculateEMA([]float64{1, 2, 3, 4, 5}, 3)

	require.Len(t, s, 5)
	assert.False(t, Defined(s[0]))
	assert.False(t, Defined(s[1]))
	assert.InDelta(t, 2.0, s[2], 1e-9) // SMA seed
	assert.InDelta(t, 3.0, s[3], 1e-9)
	assert.InDelta(t, 4.0, s[4], 1e-9)
}

func TestMACDWarmup(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	macd := NewMACD(12, 26, 9)

	series, err := macd.Calculate(barSeq(closes))
	require.NoError(t, err)

	line := series["macd"]
	signal := series["signal"]
	hist := series["histogram"]
	require.Len(t, line, 60)

	// The line warms up with the slow EMA, the signal nine bars later.
	assert.False(t, Defined(line[24]))
	assert.True(t, Defined(line[25]))
	assert.False(t, Defined(signal[32]))
	assert.True(t, Defined(signal[33]))
	assert.True(t, Defined(hist[33]))
	assert.InDelta(t, line[40]-signal[40], hist[40], 1e-9)
}

func TestMACDInvalidPeriod(t *testing.T) {
	_, err := NewMACD(0, 26, 9).Calculate(barSeq([]float64{1, 2, 3}))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestEngineMemoizesByName(t *testing.T) {
	engine := NewEngine(barSeq([]float64{1, 2, 3, 4, 5, 6, 7, 8}))
	atr := NewATR(3)

	first, err := engine.Compute(atr, false)
	require.NoError(t, err)
	assert.True(t, engine.Cached("atr_3"))

	second, err := engine.Compute(atr, false)
	require.NoError(t, err)
	assert.Same(t, &first[0], &second[0], "cached series must be reused")

	forced, err := engine.Compute(atr, true)
	require.NoError(t, err)
	assert.NotSame(t, &first[0], &forced[0], "force must recompute")
	assert.InDeltaSlice(t, first[2:], forced[2:], 1e-9)
}

func TestEngineInvalidate(t *testing.T) {
	engine := NewEngine(barSeq([]float64{1, 2, 3, 4, 5}))
	_, err := engine.Compute(NewEMA(3), false)
	require.NoError(t, err)
	require.True(t, engine.Cached("ema_3"))

	engine.Invalidate("ema_3")
	assert.False(t, engine.Cached("ema_3"))
}

func TestEngineComputeAll(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	engine := NewEngine(barSeq(closes))

	inds := []Indicator{NewEMA(9), NewEMA(21), NewRSI(14), NewATR(14)}
	results, errs := engine.ComputeAll(context.Background(), inds, 2)

	assert.Empty(t, errs)
	require.Len(t, results, 4)
	for _, ind := range inds {
		assert.True(t, engine.Cached(ind.Name()), ind.Name())
		assert.Len(t, results[ind.Name()], 40)
	}
}

func TestEngineComputeAllCollectsErrors(t *testing.T) {
	engine := NewEngine(barSeq([]float64{1, 2, 3}))
	results, errs := engine.ComputeAll(context.Background(), []Indicator{NewEMA(3), NewATR(0)}, 2)

	assert.Len(t, results, 1)
	require.Contains(t, errs, "atr_0")
	assert.ErrorIs(t, errs["atr_0"], ErrInvalidPeriod)
}
