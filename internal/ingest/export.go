package ingest

import (
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"idx-signals/internal/errors"
	"idx-signals/internal/models"
)

type signalRow struct {
	Index          int    `csv:"index"`
	SignalType     string `csv:"signal_type"`
	Date           string `csv:"date"`
	EntryPrice     string `csv:"entry_price"`
	ATRValue       string `csv:"atr_value"`
	SLPrice        string `csv:"sl_price"`
	TPPrice        string `csv:"tp_price"`
	SLPriceRounded string `csv:"sl_price_rounded"`
	TPPriceRounded string `csv:"tp_price_rounded"`
	Note           string `csv:"note"`
}

type tradeRow struct {
	Side       string  `csv:"side"`
	EntryIndex int     `csv:"entry_index"`
	EntryTime  string  `csv:"entry_time"`
	EntryPrice float64 `csv:"entry_price"`
	ExitIndex  int     `csv:"exit_index"`
	ExitTime   string  `csv:"exit_time"`
	ExitPrice  float64 `csv:"exit_price"`
	StopLoss   float64 `csv:"stop_loss"`
	TakeProfit float64 `csv:"take_profit"`
	ATRAtEntry float64 `csv:"atr_at_entry"`
	PnL        float64 `csv:"pnl"`
	Reason     string  `csv:"reason"`
}

// WriteSignalsCSV writes generated signals to path. Unset enrichment
// fields are left blank rather than zero-filled.
func WriteSignalsCSV(path string, signals []models.Signal) error {
	rows := make([]*signalRow, 0, len(signals))
	for _, s := range signals {
		rows = append(rows, &signalRow{
			Index:          s.Index,
			SignalType:     string(s.Side),
			Date:           s.Timestamp.Format("2006-01-02 15:04:05"),
			EntryPrice:     formatOpt(s.EntryPrice),
			ATRValue:       formatOpt(s.ATRValue),
			SLPrice:        formatOpt(s.SLPrice),
			TPPrice:        formatOpt(s.TPPrice),
			SLPriceRounded: formatOpt(s.RoundedSL),
			TPPriceRounded: formatOpt(s.RoundedTP),
			Note:           s.Note,
		})
	}
	return writeCSV(path, &rows)
}

// WriteTradesCSV writes simulated trades to path.
func WriteTradesCSV(path string, trades []models.Trade) error {
	rows := make([]*tradeRow, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, &tradeRow{
			Side:       string(t.Side),
			EntryIndex: t.EntryIndex,
			EntryTime:  t.EntryTime.Format("2006-01-02 15:04:05"),
			EntryPrice: t.EntryPrice,
			ExitIndex:  t.ExitIndex,
			ExitTime:   t.ExitTime.Format("2006-01-02 15:04:05"),
			ExitPrice:  t.ExitPrice,
			StopLoss:   t.StopLoss,
			TakeProfit: t.TakeProfit,
			ATRAtEntry: t.ATRAtEntry,
			PnL:        t.PnL,
			Reason:     string(t.Reason),
		})
	}
	return writeCSV(path, &rows)
}

func writeCSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	if err := gocsv.Marshal(rows, f); err != nil {
		return errors.Wrap(err, "writing csv")
	}
	return nil
}

func formatOpt(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
