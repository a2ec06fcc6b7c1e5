package trading

import (
	"idx-signals/internal/models"
)

// SLTPParams configures exit sizing.
type SLTPParams struct {
	SLMultiplier float64
	TPMultiplier float64
	// TickSize <= 0 means no tick grid is configured and raw levels are used.
	TickSize float64
	// MinPositiveStop replaces a rounded stop that lands at or below zero.
	// Zero leaves the stop untouched; the diagnostic note is attached either way.
	MinPositiveStop float64
}

// SLTPResult carries raw and tick-rounded exit levels plus any diagnostic
// notes accumulated while computing them.
type SLTPResult struct {
	StopLoss   float64
	TakeProfit float64
	RoundedSL  float64
	RoundedTP  float64
	Notes      []string
}

// ComputeSLTP derives stop-loss and take-profit from entry price and ATR.
// atr == 0 collapses both levels onto the entry with an atr_zero note; a
// non-positive rounded stop is clamped with a non_positive_stop note.
// Degenerate numerics never produce errors, only notes.
func ComputeSLTP(entry, atr float64, side models.Side, p SLTPParams) SLTPResult {
	var res SLTPResult

	if atr == 0 {
		res.StopLoss = entry
		res.TakeProfit = entry
		res.Notes = append(res.Notes, models.NoteATRZero)
	} else if side == models.SideBuy {
		res.StopLoss = entry - atr*p.SLMultiplier
		res.TakeProfit = entry + atr*p.TPMultiplier
	} else {
		res.StopLoss = entry + atr*p.SLMultiplier
		res.TakeProfit = entry - atr*p.TPMultiplier
	}

	res.RoundedSL = res.StopLoss
	res.RoundedTP = res.TakeProfit
	if p.TickSize > 0 {
		// Directions guarantee rounding never tightens the bracket.
		if sl, err := RoundToTick(res.StopLoss, p.TickSize, StopRounding(side)); err == nil {
			res.RoundedSL = sl
		}
		if tp, err := RoundToTick(res.TakeProfit, p.TickSize, TargetRounding(side)); err == nil {
			res.RoundedTP = tp
		}
	}

	if res.RoundedSL <= 0 {
		res.Notes = append(res.Notes, models.NoteNonPositiveStop)
		if p.MinPositiveStop > 0 {
			res.RoundedSL = p.MinPositiveStop
		}
	}

	return res
}
