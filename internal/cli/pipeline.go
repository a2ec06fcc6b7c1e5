package cli

import (
	"path/filepath"
	"strings"

	"idx-signals/internal/analysis/indicators"
	"idx-signals/internal/analysis/signal"
	"idx-signals/internal/config"
	"idx-signals/internal/ingest"
	"idx-signals/internal/models"
	"idx-signals/internal/trading"
)

// signalParams maps strategy configuration to generator parameters.
func signalParams(cfg *config.Config) signal.Params {
	p := signal.DefaultParams()
	if len(cfg.Strategy.EMASpans) == 2 {
		p.FastSpan = cfg.Strategy.EMASpans[0]
		p.SlowSpan = cfg.Strategy.EMASpans[1]
	}
	p.RSIPeriod = cfg.Strategy.RSIPeriod
	p.BuyThreshold = cfg.Strategy.RSIBuyThreshold
	p.SellThreshold = cfg.Strategy.RSISellThreshold
	p.ConfirmWindow = cfg.Strategy.ConfirmWindow
	p.MinDistance = cfg.Strategy.MinSignalDistance
	p.MACDFilter = cfg.Strategy.MACDConfirm
	p.MACDFast = cfg.Strategy.MACDFast
	p.MACDSlow = cfg.Strategy.MACDSlow
	p.MACDSignal = cfg.Strategy.MACDSignal
	p.ATRMin = cfg.Strategy.ATRMin
	p.ATRPeriod = cfg.Strategy.ATRPeriod
	p.Mode = models.SignalMode(cfg.Strategy.SignalMode)
	p.ZeroLoss = indicators.ZeroLossPolicy(cfg.Strategy.RSIZeroLossPolicy)
	return p
}

// sltpParams maps risk configuration to stop and target parameters.
func sltpParams(cfg *config.Config) trading.SLTPParams {
	return trading.SLTPParams{
		SLMultiplier:    cfg.Risk.SLMultiplier,
		TPMultiplier:    cfg.Risk.TPMultiplier,
		TickSize:        cfg.Risk.TickSize,
		MinPositiveStop: cfg.Risk.MinPositiveStop,
	}
}

// runPipeline loads bars, generates signals, and replays them through the
// position simulator. The signals in the result carry entry, ATR, and
// stop-loss annotations added during replay.
func runPipeline(app *App, barPath string) (*trading.Result, []models.Bar, error) {
	bars, err := ingest.LoadBars(barPath)
	if err != nil {
		return nil, nil, err
	}

	engine := indicators.NewEngine(bars)
	gen := signal.NewGenerator(signalParams(app.Config), app.Logger)
	signals, err := gen.Generate(engine)
	if err != nil {
		return nil, nil, err
	}

	atr, err := engine.Compute(indicators.NewATR(app.Config.Strategy.ATRPeriod), false)
	if err != nil {
		return nil, nil, err
	}

	sim := trading.NewSimulator(bars, atr, models.EntrySource(app.Config.Risk.EntryPriceSource), sltpParams(app.Config))
	replayer := trading.NewReplayer(sim, app.Logger)
	return replayer.Run(signals), bars, nil
}

// symbolFromPath derives a symbol name from a bar file path.
func symbolFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}
