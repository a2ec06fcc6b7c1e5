package trading

import (
	"idx-signals/internal/analysis/indicators"
	"idx-signals/internal/errors"
	"idx-signals/internal/models"
)

// PositionState is the simulator's lifecycle cursor.
type PositionState int

const (
	StateIdle PositionState = iota
	StateOpen
	StateClosed
)

// Simulator enforces the single-open-position rule for one instrument's
// signal stream. Signals must be processed in ascending bar order; the
// resolution of signal N gates signal N+1, so processing is strictly
// sequential.
type Simulator struct {
	bars        []models.Bar
	atr         []float64
	entrySource models.EntrySource
	sltp        SLTPParams

	state       PositionState
	nextAllowed int // signals at or before this index are rejected
	blocked     bool
}

// NewSimulator creates a simulator over one instrument's bars. atr is the
// ATR series aligned to bars (undefined values allowed).
func NewSimulator(bars []models.Bar, atr []float64, entrySource models.EntrySource, sltp SLTPParams) *Simulator {
	return &Simulator{
		bars:        bars,
		atr:         atr,
		entrySource: entrySource,
		sltp:        sltp,
		state:       StateIdle,
		nextAllowed: -1,
	}
}

// State returns the simulator's current lifecycle state.
func (s *Simulator) State() PositionState {
	return s.state
}

// Process accepts or rejects one signal, annotating it either way. An
// accepted signal opens a position, is immediately scanned forward to its
// resolution, and yields a Trade. Rejected or unresolvable signals yield nil.
func (s *Simulator) Process(sig *models.Signal) *models.Trade {
	if s.blocked || sig.Index <= s.nextAllowed {
		sig.AppendNote(models.NoteSkippedOpenTrade)
		return nil
	}

	entry, err := s.resolveAndAnnotate(sig)
	if err != nil {
		// Without an entry or ATR the open interval cannot be bounded, so
		// every later signal is rejected rather than guessed at.
		sig.AppendNote(models.NoteInsufficientBlocking)
		s.blocked = true
		return nil
	}

	s.state = StateOpen
	trade := s.scanForward(sig, entry)
	s.state = StateClosed
	s.nextAllowed = trade.ExitIndex
	return trade
}

// resolveAndAnnotate fills in the signal's entry, ATR and SL/TP fields.
func (s *Simulator) resolveAndAnnotate(sig *models.Signal) (float64, error) {
	entry, err := ResolveEntry(s.bars, sig.Index, s.entrySource)
	if err != nil {
		if errors.Is(err, errors.ErrNoNextBar) {
			sig.AppendNote(models.NoteCannotUseNextOpen)
		}
		return 0, err
	}
	sig.EntryPrice = &entry

	if sig.Index >= len(s.atr) || !indicators.Defined(s.atr[sig.Index]) {
		sig.AppendNote(models.NoteInsufficientATR)
		return 0, errors.ErrDataNotFound
	}
	atr := s.atr[sig.Index]
	sig.ATRValue = &atr

	res := ComputeSLTP(entry, atr, sig.Side, s.sltp)
	sig.SLPrice = &res.StopLoss
	sig.TPPrice = &res.TakeProfit
	sig.RoundedSL = &res.RoundedSL
	sig.RoundedTP = &res.RoundedTP
	for _, note := range res.Notes {
		sig.AppendNote(note)
	}
	return entry, nil
}

// scanForward walks bars strictly after the entry bar looking for the first
// SL/TP touch. The take-profit check runs first on each bar, so a bar that
// touches both levels resolves in the trade's favor. No touch closes the
// position on the final bar's close.
func (s *Simulator) scanForward(sig *models.Signal, entry float64) *models.Trade {
	entryIdx := entryBarIndex(sig.Index, s.entrySource)
	sl := *sig.RoundedSL
	tp := *sig.RoundedTP

	trade := &models.Trade{
		Side:       sig.Side,
		EntryIndex: entryIdx,
		EntryTime:  s.bars[entryIdx].Timestamp,
		EntryPrice: entry,
		StopLoss:   sl,
		TakeProfit: tp,
		ATRAtEntry: *sig.ATRValue,
	}

	for j := entryIdx + 1; j < len(s.bars); j++ {
		bar := s.bars[j]
		if sig.Side == models.SideBuy {
			if bar.High >= tp {
				return s.close(trade, j, tp, models.CloseTakeProfit)
			}
			if bar.Low <= sl {
				return s.close(trade, j, sl, models.CloseStopLoss)
			}
		} else {
			if bar.Low <= tp {
				return s.close(trade, j, tp, models.CloseTakeProfit)
			}
			if bar.High >= sl {
				return s.close(trade, j, sl, models.CloseStopLoss)
			}
		}
	}

	last := len(s.bars) - 1
	return s.close(trade, last, s.bars[last].Close, models.CloseEndOfData)
}

func (s *Simulator) close(trade *models.Trade, index int, price float64, reason models.CloseReason) *models.Trade {
	trade.ExitIndex = index
	trade.ExitTime = s.bars[index].Timestamp
	trade.ExitPrice = price
	trade.Reason = reason
	if trade.Side == models.SideBuy {
		trade.PnL = trade.ExitPrice - trade.EntryPrice
	} else {
		trade.PnL = trade.EntryPrice - trade.ExitPrice
	}
	return trade
}
