package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idx-signals/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testBars(n int) []models.Bar {
	base := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      100 + float64(i),
			High:      102 + float64(i),
			Low:       99 + float64(i),
			Close:     101 + float64(i),
			Volume:    int64(1000 * (i + 1)),
		}
	}
	return bars
}

func TestSaveAndGetBars(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bars := testBars(5)

	require.NoError(t, s.SaveBars(ctx, "RELIANCE", bars))

	got, err := s.GetBars(ctx, "RELIANCE", bars[0].Timestamp, bars[4].Timestamp)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.InDelta(t, bars[0].Open, got[0].Open, 1e-9)
	assert.Equal(t, bars[4].Volume, got[4].Volume)
	assert.True(t, got[0].Timestamp.Equal(bars[0].Timestamp))
}

func TestSaveBarsUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bars := testBars(3)

	require.NoError(t, s.SaveBars(ctx, "TCS", bars))
	bars[1].Close = 999
	require.NoError(t, s.SaveBars(ctx, "TCS", bars))

	got, err := s.GetBars(ctx, "TCS", bars[0].Timestamp, bars[2].Timestamp)
	require.NoError(t, err)
	require.Len(t, got, 3, "re-saving must not duplicate rows")
	assert.InDelta(t, 999, got[1].Close, 1e-9)
}

func TestGetBarsRangeFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bars := testBars(5)
	require.NoError(t, s.SaveBars(ctx, "INFY", bars))

	got, err := s.GetBars(ctx, "INFY", bars[1].Timestamp, bars[3].Timestamp)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = s.GetBars(ctx, "ABSENT", bars[0].Timestamp, bars[4].Timestamp)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveAndGetSignals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := 101.5
	atr := 2.25
	signals := []models.Signal{
		{
			Index:      4,
			Side:       models.SideBuy,
			Timestamp:  time.Date(2024, 1, 2, 13, 15, 0, 0, time.UTC),
			EntryPrice: &entry,
			ATRValue:   &atr,
			Note:       "atr_zero;non_positive_stop",
		},
		{Index: 9, Side: models.SideSell, Timestamp: time.Date(2024, 1, 3, 9, 15, 0, 0, time.UTC)},
	}

	require.NoError(t, s.SaveSignals(ctx, "SBIN", signals))

	got, err := s.GetSignals(ctx, "SBIN")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 4, got[0].Index)
	assert.Equal(t, models.SideBuy, got[0].Side)
	require.NotNil(t, got[0].EntryPrice)
	assert.InDelta(t, entry, *got[0].EntryPrice, 1e-9)
	require.NotNil(t, got[0].ATRValue)
	assert.InDelta(t, atr, *got[0].ATRValue, 1e-9)
	assert.True(t, got[0].HasNote("atr_zero"))

	assert.Equal(t, 9, got[1].Index)
	assert.Nil(t, got[1].EntryPrice, "unset enrichment stays NULL")
	assert.Nil(t, got[1].RoundedSL)
}

func TestSaveAndGetTrades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trades := []models.Trade{
		{
			Side:       models.SideBuy,
			EntryIndex: 1,
			EntryTime:  time.Date(2024, 1, 2, 10, 15, 0, 0, time.UTC),
			EntryPrice: 100,
			ExitIndex:  4,
			ExitTime:   time.Date(2024, 1, 2, 13, 15, 0, 0, time.UTC),
			ExitPrice:  104,
			StopLoss:   98,
			TakeProfit: 104,
			ATRAtEntry: 2,
			PnL:        4,
			Reason:     models.CloseTakeProfit,
		},
		{
			Side:       models.SideSell,
			EntryIndex: 7,
			EntryTime:  time.Date(2024, 1, 2, 16, 15, 0, 0, time.UTC),
			EntryPrice: 110,
			ExitIndex:  9,
			ExitTime:   time.Date(2024, 1, 2, 18, 15, 0, 0, time.UTC),
			ExitPrice:  113,
			StopLoss:   113,
			TakeProfit: 104,
			ATRAtEntry: 2,
			PnL:        -3,
			Reason:     models.CloseStopLoss,
		},
	}

	require.NoError(t, s.SaveTrades(ctx, "HDFC", trades))

	got, err := s.GetTrades(ctx, "HDFC")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.CloseTakeProfit, got[0].Reason)
	assert.InDelta(t, 4, got[0].PnL, 1e-9)
	assert.Equal(t, models.SideSell, got[1].Side)
	assert.InDelta(t, -3, got[1].PnL, 1e-9)
}
