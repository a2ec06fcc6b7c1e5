package signal

import (
	"github.com/rs/zerolog"

	"idx-signals/internal/analysis/indicators"
	"idx-signals/internal/models"
)

// Params configures the generator. Unset periods and spans fall back to the
// defaults below; thresholds are taken as given, so a zero RSI threshold is
// a valid setting. Fields match the configuration keys in internal/config.
type Params struct {
	FastSpan      int
	SlowSpan      int
	RSIPeriod     int
	ConfirmWindow int // bars ahead allowed for RSI confirmation
	BuyThreshold  float64
	SellThreshold float64
	MinDistance   int // debounce between emitted signals, in bars

	MACDFilter bool // require MACD histogram >= 0 (buy) / <= 0 (sell)
	MACDFast   int
	MACDSlow   int
	MACDSignal int

	ATRMin    float64 // 0 disables the ATR floor filter
	ATRPeriod int

	Mode         models.SignalMode
	ZeroLoss     indicators.ZeroLossPolicy
	ForceCompute bool
}

// DefaultParams returns the conventional EMA-cross + RSI configuration.
func DefaultParams() Params {
	return Params{
		FastSpan:      9,
		SlowSpan:      21,
		RSIPeriod:     14,
		ConfirmWindow: 1,
		BuyThreshold:  30,
		SellThreshold: 70,
		MinDistance:   5,
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,
		ATRPeriod:     14,
		Mode:          models.ModeBuyOnly,
		ZeroLoss:      indicators.ZeroLossHardCeiling,
	}
}

// Generator emits signals from EMA crossovers confirmed by RSI, with
// optional MACD and ATR filters and a minimum distance between signals.
type Generator struct {
	params Params
	logger zerolog.Logger
}

// NewGenerator creates a generator. Unset spans and periods take defaults;
// threshold values are used as provided.
func NewGenerator(params Params, logger zerolog.Logger) *Generator {
	def := DefaultParams()
	if params.FastSpan <= 0 {
		params.FastSpan = def.FastSpan
	}
	if params.SlowSpan <= 0 {
		params.SlowSpan = def.SlowSpan
	}
	if params.RSIPeriod <= 0 {
		params.RSIPeriod = def.RSIPeriod
	}
	if params.ConfirmWindow < 0 {
		params.ConfirmWindow = def.ConfirmWindow
	}
	if params.MinDistance < 0 {
		params.MinDistance = def.MinDistance
	}
	if params.MACDFast <= 0 {
		params.MACDFast = def.MACDFast
	}
	if params.MACDSlow <= 0 {
		params.MACDSlow = def.MACDSlow
	}
	if params.MACDSignal <= 0 {
		params.MACDSignal = def.MACDSignal
	}
	if params.ATRPeriod <= 0 {
		params.ATRPeriod = def.ATRPeriod
	}
	if params.Mode == "" {
		params.Mode = def.Mode
	}
	if params.ZeroLoss == "" {
		params.ZeroLoss = def.ZeroLoss
	}
	return &Generator{params: params, logger: logger}
}

// Generate runs signal detection over the engine's bar sequence.
// Signals are returned in ascending bar order.
func (g *Generator) Generate(engine *indicators.Engine) ([]models.Signal, error) {
	p := g.params
	bars := engine.Bars()
	n := len(bars)
	if n == 0 {
		return nil, nil
	}

	fast, err := engine.Compute(indicators.NewEMA(p.FastSpan), p.ForceCompute)
	if err != nil {
		return nil, err
	}
	slow, err := engine.Compute(indicators.NewEMA(p.SlowSpan), p.ForceCompute)
	if err != nil {
		return nil, err
	}
	rsi, err := engine.Compute(indicators.NewRSIWithPolicy(p.RSIPeriod, p.ZeroLoss), p.ForceCompute)
	if err != nil {
		return nil, err
	}

	var macdHist []float64
	if p.MACDFilter {
		macd, err := engine.ComputeMulti(indicators.NewMACD(p.MACDFast, p.MACDSlow, p.MACDSignal), p.ForceCompute)
		if err != nil {
			return nil, err
		}
		macdHist = macd["histogram"]
	}

	var atr []float64
	if p.ATRMin > 0 {
		atr, err = engine.Compute(indicators.NewATR(p.ATRPeriod), p.ForceCompute)
		if err != nil {
			return nil, err
		}
	}

	crossesUp := CrossUp(fast, slow)
	var crossesDown []bool
	if p.Mode == models.ModeBoth {
		crossesDown = CrossDown(fast, slow)
	}

	var signals []models.Signal
	lastEmitted := -1 << 30

	for i := 0; i < n; i++ {
		var side models.Side
		switch {
		case crossesUp[i]:
			side = models.SideBuy
		case crossesDown != nil && crossesDown[i]:
			side = models.SideSell
		default:
			continue
		}

		effective, ok := g.confirm(rsi, i, side)
		if !ok {
			continue
		}
		if effective-lastEmitted < p.MinDistance {
			continue
		}
		if macdHist != nil && !g.macdOK(macdHist, effective, side) {
			continue
		}
		if atr != nil && !(indicators.Defined(atr[effective]) && atr[effective] > p.ATRMin) {
			continue
		}

		sig := models.Signal{
			Index:     effective,
			Side:      side,
			Timestamp: bars[effective].Timestamp,
		}
		signals = append(signals, sig)
		lastEmitted = effective

		g.logger.Debug().
			Str("side", string(side)).
			Int("cross_index", i).
			Int("bar_index", effective).
			Msg("signal confirmed")
	}

	return signals, nil
}

// confirm looks for the RSI condition at the cross bar or within the
// confirmation window after it. The returned index is the effective signal
// bar (the confirming bar when confirmation is deferred).
func (g *Generator) confirm(rsi []float64, i int, side models.Side) (int, bool) {
	for w := 0; w <= g.params.ConfirmWindow; w++ {
		j := i + w
		if j >= len(rsi) {
			break
		}
		if g.rsiOK(rsi, j, side) {
			return j, true
		}
	}
	return 0, false
}

// rsiOK holds when RSI is past the threshold and moving in the signal's
// direction relative to the prior bar.
func (g *Generator) rsiOK(rsi []float64, j int, side models.Side) bool {
	if j < 1 || !indicators.Defined(rsi[j]) || !indicators.Defined(rsi[j-1]) {
		return false
	}
	if side == models.SideBuy {
		return rsi[j] > g.params.BuyThreshold && rsi[j] > rsi[j-1]
	}
	return rsi[j] < g.params.SellThreshold && rsi[j] < rsi[j-1]
}

func (g *Generator) macdOK(hist []float64, j int, side models.Side) bool {
	if j >= len(hist) || !indicators.Defined(hist[j]) {
		return false
	}
	if side == models.SideBuy {
		return hist[j] >= 0
	}
	return hist[j] <= 0
}
