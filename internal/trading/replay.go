package trading

import (
	"sort"

	"github.com/rs/zerolog"

	"idx-signals/internal/models"
)

// Summary aggregates trade outcomes for one replay.
type Summary struct {
	Trades   int
	Wins     int
	Losses   int
	WinRate  float64
	TotalPnL float64
	AvgPnL   float64
}

// Result is the outcome of replaying a signal list against history.
// Signals holds every input signal with its accumulated annotations;
// Skipped counts the ones rejected by the single-open-position rule or
// blocked on missing data.
type Result struct {
	Trades  []models.Trade
	Signals []models.Signal
	Skipped int
	Summary Summary
}

// Replayer drives a Simulator across an ordered signal list, producing
// trade records and summary statistics. Replays are deterministic for
// identical bars, signals and parameters.
type Replayer struct {
	sim    *Simulator
	logger zerolog.Logger
}

// NewReplayer creates a replayer around a fresh simulator.
func NewReplayer(sim *Simulator, logger zerolog.Logger) *Replayer {
	return &Replayer{sim: sim, logger: logger}
}

// Run processes every signal in ascending bar order. A signal that cannot
// be sized never aborts the replay; it is annotated and skipped.
func (r *Replayer) Run(signals []models.Signal) *Result {
	ordered := make([]models.Signal, len(signals))
	copy(ordered, signals)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	res := &Result{Signals: ordered}
	for i := range res.Signals {
		sig := &res.Signals[i]
		trade := r.sim.Process(sig)
		if trade == nil {
			res.Skipped++
			r.logger.Debug().
				Int("bar_index", sig.Index).
				Str("note", sig.Note).
				Msg("signal skipped")
			continue
		}
		res.Trades = append(res.Trades, *trade)
		r.logger.Debug().
			Int("entry_index", trade.EntryIndex).
			Int("exit_index", trade.ExitIndex).
			Float64("pnl", trade.PnL).
			Str("reason", string(trade.Reason)).
			Msg("trade resolved")
	}

	res.Summary = summarize(res.Trades)
	return res
}

func summarize(trades []models.Trade) Summary {
	s := Summary{Trades: len(trades)}
	for _, t := range trades {
		s.TotalPnL += t.PnL
		if t.PnL > 0 {
			s.Wins++
		} else {
			s.Losses++
		}
	}
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades)
		s.AvgPnL = s.TotalPnL / float64(s.Trades)
	}
	return s
}
