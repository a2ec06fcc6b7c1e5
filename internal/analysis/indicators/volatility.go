package indicators

import (
	"fmt"

	"idx-signals/internal/models"
)

// ATR calculates the Average True Range.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("atr_%d", a.period)
}

func (a *ATR) Period() int {
	return a.period
}

func (a *ATR) Calculate(bars []models.Bar) ([]float64, error) {
	if a.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	return WilderSmooth(TrueRangeSeries(bars), a.period), nil
}
