package trading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idx-signals/internal/errors"
	"idx-signals/internal/models"
)

func testBars(rows [][4]float64) []models.Bar {
	base := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
	bars := make([]models.Bar, len(rows))
	for i, r := range rows {
		bars[i] = models.Bar{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      r[0],
			High:      r[1],
			Low:       r[2],
			Close:     r[3],
			Volume:    1000,
		}
	}
	return bars
}

func TestRoundToTick(t *testing.T) {
	v, err := RoundToTick(977, 5, RoundFloor)
	require.NoError(t, err)
	assert.InDelta(t, 975, v, 1e-9)

	v, err = RoundToTick(1063, 5, RoundCeil)
	require.NoError(t, err)
	assert.InDelta(t, 1065, v, 1e-9)

	// Already on the grid stays put either way.
	v, err = RoundToTick(975, 5, RoundCeil)
	require.NoError(t, err)
	assert.InDelta(t, 975, v, 1e-9)
}

func TestRoundToTickInvalidTick(t *testing.T) {
	_, err := RoundToTick(100, 0, RoundFloor)
	assert.ErrorIs(t, err, errors.ErrInvalidTick)

	_, err = RoundToTick(100, -0.05, RoundCeil)
	assert.ErrorIs(t, err, errors.ErrInvalidTick)
}

func TestRoundingDirectionsBySide(t *testing.T) {
	assert.Equal(t, RoundFloor, StopRounding(models.SideBuy))
	assert.Equal(t, RoundCeil, TargetRounding(models.SideBuy))
	assert.Equal(t, RoundCeil, StopRounding(models.SideSell))
	assert.Equal(t, RoundFloor, TargetRounding(models.SideSell))
}

func TestComputeSLTPBuy(t *testing.T) {
	p := SLTPParams{SLMultiplier: 1.5, TPMultiplier: 3.0, TickSize: 5}
	res := ComputeSLTP(1005, 20, models.SideBuy, p)

	assert.InDelta(t, 975, res.StopLoss, 1e-9)
	assert.InDelta(t, 1065, res.TakeProfit, 1e-9)
	assert.InDelta(t, 975, res.RoundedSL, 1e-9)
	assert.InDelta(t, 1065, res.RoundedTP, 1e-9)
	assert.Empty(t, res.Notes)
}

func TestComputeSLTPRoundingWidensBracket(t *testing.T) {
	p := SLTPParams{SLMultiplier: 1.5, TPMultiplier: 3.0, TickSize: 7}
	res := ComputeSLTP(1003, 17, models.SideBuy, p)

	assert.LessOrEqual(t, res.RoundedSL, res.StopLoss)
	assert.GreaterOrEqual(t, res.RoundedTP, res.TakeProfit)

	res = ComputeSLTP(1003, 17, models.SideSell, p)
	assert.GreaterOrEqual(t, res.RoundedSL, res.StopLoss)
	assert.LessOrEqual(t, res.RoundedTP, res.TakeProfit)
}

func TestComputeSLTPSell(t *testing.T) {
	p := SLTPParams{SLMultiplier: 1.5, TPMultiplier: 3.0}
	res := ComputeSLTP(1000, 20, models.SideSell, p)

	assert.InDelta(t, 1030, res.StopLoss, 1e-9)
	assert.InDelta(t, 940, res.TakeProfit, 1e-9)
	// No tick configured: rounded levels equal raw ones.
	assert.InDelta(t, res.StopLoss, res.RoundedSL, 1e-9)
	assert.InDelta(t, res.TakeProfit, res.RoundedTP, 1e-9)
}

func TestComputeSLTPZeroATR(t *testing.T) {
	p := SLTPParams{SLMultiplier: 1.5, TPMultiplier: 3.0}
	res := ComputeSLTP(500, 0, models.SideBuy, p)

	assert.InDelta(t, 500, res.StopLoss, 1e-9)
	assert.InDelta(t, 500, res.TakeProfit, 1e-9)
	assert.Contains(t, res.Notes, models.NoteATRZero)
}

func TestComputeSLTPNonPositiveStop(t *testing.T) {
	p := SLTPParams{SLMultiplier: 1.5, TPMultiplier: 3.0}
	res := ComputeSLTP(10, 20, models.SideBuy, p)

	assert.Contains(t, res.Notes, models.NoteNonPositiveStop)
	assert.LessOrEqual(t, res.RoundedSL, 0.0, "no clamp floor configured")

	p.MinPositiveStop = 0.05
	res = ComputeSLTP(10, 20, models.SideBuy, p)
	assert.Contains(t, res.Notes, models.NoteNonPositiveStop)
	assert.InDelta(t, 0.05, res.RoundedSL, 1e-9)
}

func TestResolveEntry(t *testing.T) {
	bars := testBars([][4]float64{
		{100, 102, 99, 101},
		{101, 104, 100, 103},
	})

	v, err := ResolveEntry(bars, 0, models.EntryClose)
	require.NoError(t, err)
	assert.InDelta(t, 101, v, 1e-9)

	v, err = ResolveEntry(bars, 0, models.EntryNextOpen)
	require.NoError(t, err)
	assert.InDelta(t, 101, v, 1e-9)

	_, err = ResolveEntry(bars, 1, models.EntryNextOpen)
	assert.ErrorIs(t, err, errors.ErrNoNextBar)

	_, err = ResolveEntry(bars, 5, models.EntryClose)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)

	_, err = ResolveEntry(bars, 0, models.EntrySource("vwap"))
	var verr *errors.ValidationError
	assert.ErrorAs(t, err, &verr)
}
