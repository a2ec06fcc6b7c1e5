package indicators

import (
	"fmt"
	"math"

	"idx-signals/internal/models"
)

// ZeroLossPolicy selects what RSI reports when the average loss is zero but
// the average gain is not. HardCeiling pins the value at 100. DecayOffset
// instead reports 100 minus an offset that starts at one point and halves
// every period bars past warm-up, so a pure uptrend saturates gradually
// rather than instantly.
type ZeroLossPolicy string

const (
	ZeroLossHardCeiling ZeroLossPolicy = "hard_ceiling"
	ZeroLossDecayOffset ZeroLossPolicy = "decay_offset"
)

const decayOffsetStart = 1.0

// RSI calculates the Relative Strength Index with Wilder smoothing.
type RSI struct {
	period int
	policy ZeroLossPolicy
}

// NewRSI creates a new RSI indicator with the hard-ceiling zero-loss policy.
func NewRSI(period int) *RSI {
	return &RSI{period: period, policy: ZeroLossHardCeiling}
}

// NewRSIWithPolicy creates a new RSI indicator with an explicit zero-loss policy.
func NewRSIWithPolicy(period int, policy ZeroLossPolicy) *RSI {
	return &RSI{period: period, policy: policy}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("rsi_%d", r.period)
}

func (r *RSI) Period() int {
	return r.period
}

func (r *RSI) Calculate(bars []models.Bar) ([]float64, error) {
	if r.period <= 0 {
		return nil, ErrInvalidPeriod
	}

	n := len(bars)
	result := undefinedSeries(n)
	// Seeding needs period deltas, i.e. period+1 bars.
	if n < r.period+1 {
		return result, nil
	}

	closes := closePrices(bars)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	// Seed averages over deltas 1..period.
	avgGain := mean(gains[1 : r.period+1])
	avgLoss := mean(losses[1 : r.period+1])
	result[r.period] = r.value(avgGain, avgLoss, 0)

	for i := r.period + 1; i < n; i++ {
		avgGain = (avgGain*float64(r.period-1) + gains[i]) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + losses[i]) / float64(r.period)
		result[i] = r.value(avgGain, avgLoss, i-r.period)
	}

	return result, nil
}

// value maps average gain/loss to an RSI value. barsSinceSeed drives the
// decay-offset policy.
func (r *RSI) value(avgGain, avgLoss float64, barsSinceSeed int) float64 {
	switch {
	case avgGain == 0 && avgLoss == 0:
		return 50
	case avgLoss == 0:
		if r.policy == ZeroLossDecayOffset {
			offset := decayOffsetStart * math.Pow(0.5, float64(barsSinceSeed)/float64(r.period))
			return clamp(100-offset, 0, 100)
		}
		return 100
	default:
		rs := avgGain / avgLoss
		return clamp(100-(100/(1+rs)), 0, 100)
	}
}
