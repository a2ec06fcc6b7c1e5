package cli

import (
	"github.com/spf13/cobra"

	"idx-signals/internal/ingest"
	"idx-signals/internal/logging"
	"idx-signals/internal/models"
	"idx-signals/internal/notify"
)

func newSignalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signals <bars.csv>",
		Short: "Generate entry signals from a bar file",
		Long: `Generate EMA-crossover entry signals confirmed by RSI, annotated
with ATR-based stop-loss and take-profit levels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol, _ := cmd.Flags().GetString("symbol")
			outPath, _ := cmd.Flags().GetString("out")
			doNotify, _ := cmd.Flags().GetBool("notify")
			save, _ := cmd.Flags().GetBool("save")

			if symbol == "" {
				symbol = symbolFromPath(args[0])
			}

			res, _, err := runPipeline(app, args[0])
			if err != nil {
				return err
			}
			for _, sig := range res.Signals {
				logging.LogSignal(app.Logger, symbol, string(sig.Side), sig.Index, sig.Note)
			}

			if outPath != "" {
				if err := ingest.WriteSignalsCSV(outPath, res.Signals); err != nil {
					return err
				}
				output.Info("Wrote %d signals to %s", len(res.Signals), outPath)
			}

			if save && app.Store != nil {
				if err := app.Store.SaveSignals(cmd.Context(), symbol, res.Signals); err != nil {
					return err
				}
				output.Dim("Saved %d signals for %s", len(res.Signals), symbol)
			}

			if doNotify {
				notifier, err := notify.NewDeduper(notify.NewTerminalNotifier(), app.Config.Data.StatePath)
				if err != nil {
					return err
				}
				if err := notifier.Notify(cmd.Context(), symbol, res.Signals); err != nil {
					return err
				}
			}

			if output.IsJSON() {
				return output.JSON(res.Signals)
			}
			printSignals(output, res.Signals)
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "symbol name (default: derived from file name)")
	cmd.Flags().String("out", "", "write signals to a CSV file")
	cmd.Flags().Bool("notify", false, "dispatch new signals, deduplicated against prior runs")
	cmd.Flags().Bool("save", false, "persist signals to the local database")
	return cmd
}

func printSignals(output *Output, signals []models.Signal) {
	if len(signals) == 0 {
		output.Dim("No signals generated")
		return
	}
	output.Bold("%-6s %-5s %-17s %-10s %-10s %-10s %-10s %s", "INDEX", "SIDE", "DATE", "ENTRY", "ATR", "SL", "TP", "NOTE")
	for _, sig := range signals {
		side := output.Green(string(sig.Side))
		if sig.Side == models.SideSell {
			side = output.Red(string(sig.Side))
		}
		output.Printf("%-6d %-5s %-17s %-10s %-10s %-10s %-10s %s\n",
			sig.Index, side,
			sig.Timestamp.Format("2006-01-02 15:04"),
			optPrice(sig.EntryPrice), optPrice(sig.ATRValue),
			optPrice(sig.RoundedSL), optPrice(sig.RoundedTP),
			output.DimText(sig.Note))
	}
}

func optPrice(v *float64) string {
	if v == nil {
		return "-"
	}
	return FormatPrice(*v)
}
