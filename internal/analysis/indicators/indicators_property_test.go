package indicators

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"idx-signals/internal/models"
)

// barGen generates valid bars with realistic OHLCV values.
func barGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.Bar{}), map[string]gopter.Gen{
		"Open":   gen.Float64Range(100.0, 1000.0),
		"High":   gen.Float64Range(100.0, 1000.0),
		"Low":    gen.Float64Range(100.0, 1000.0),
		"Close":  gen.Float64Range(100.0, 1000.0),
		"Volume": gen.Int64Range(1000, 10000000),
	}).Map(func(b models.Bar) models.Bar {
		// Enforce OHLC constraints: High >= max(Open, Close), Low <= min(Open, Close)
		b.High = math.Max(b.High, math.Max(b.Open, b.Close))
		b.Low = math.Min(b.Low, math.Min(b.Open, b.Close))
		if b.Low > b.High {
			b.Low, b.High = b.High, b.Low
		}
		return b
	})
}

// barSliceGen generates an ordered slice of valid bars.
func barSliceGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, barGen()).Map(func(bars []models.Bar) []models.Bar {
		for len(bars) < minLen {
			bars = append(bars, bars[len(bars)-1])
		}
		base := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
		for i := range bars {
			bars[i].Timestamp = base.Add(time.Duration(i) * time.Hour)
		}
		return bars
	})
}

func TestProperty_RSIWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	// Disable shrinking so that shrunk bars cannot violate OHLC constraints.
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("defined RSI values are within [0, 100]", prop.ForAll(
		func(bars []models.Bar) bool {
			rsi := NewRSI(14)
			values, err := rsi.Calculate(bars)
			if err != nil {
				return false
			}
			for _, v := range values {
				if !Defined(v) {
					continue
				}
				if v < 0 || v > 100 {
					return false
				}
			}
			return true
		},
		barSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_ATRNonNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("defined ATR values are non-negative", prop.ForAll(
		func(bars []models.Bar) bool {
			atr := NewATR(14)
			values, err := atr.Calculate(bars)
			if err != nil {
				return false
			}
			for _, v := range values {
				if Defined(v) && v < 0 {
					return false
				}
			}
			return true
		},
		barSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_WarmupBoundaryExact(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("EMA is undefined before span-1 and defined after", prop.ForAll(
		func(bars []models.Bar) bool {
			span := 9
			values, err := NewEMA(span).Calculate(bars)
			if err != nil {
				return false
			}
			for i, v := range values {
				if i < span-1 && Defined(v) {
					return false
				}
				if i >= span-1 && !Defined(v) {
					return false
				}
			}
			return true
		},
		barSliceGen(15, 80),
	))

	properties.Property("Wilder smoothing stays within input bounds after warm-up", prop.ForAll(
		func(bars []models.Bar) bool {
			tr := TrueRangeSeries(bars)
			lo, hi := tr[0], tr[0]
			for _, v := range tr {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
			smoothed := WilderSmooth(tr, 14)
			for _, v := range smoothed {
				if !Defined(v) {
					continue
				}
				if v < lo-1e-9 || v > hi+1e-9 {
					return false
				}
			}
			return true
		},
		barSliceGen(20, 100),
	))

	properties.TestingRun(t)
}
