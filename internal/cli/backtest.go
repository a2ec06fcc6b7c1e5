package cli

import (
	"github.com/spf13/cobra"

	"idx-signals/internal/ingest"
	"idx-signals/internal/logging"
	"idx-signals/internal/trading"
)

func newBacktestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backtest <bars.csv>",
		Short: "Replay generated signals through a single-position backtest",
		Long: `Generate signals over a bar file and replay them with at most one
open position at a time, reporting per-trade outcomes and summary statistics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol, _ := cmd.Flags().GetString("symbol")
			outPath, _ := cmd.Flags().GetString("out")
			save, _ := cmd.Flags().GetBool("save")

			if symbol == "" {
				symbol = symbolFromPath(args[0])
			}

			res, bars, err := runPipeline(app, args[0])
			if err != nil {
				return err
			}
			for _, tr := range res.Trades {
				logging.LogTrade(app.Logger, symbol, string(tr.Side), tr.EntryPrice, tr.ExitPrice, tr.PnL, string(tr.Reason))
			}

			if outPath != "" {
				if err := ingest.WriteTradesCSV(outPath, res.Trades); err != nil {
					return err
				}
				output.Info("Wrote %d trades to %s", len(res.Trades), outPath)
			}

			if save && app.Store != nil {
				if err := app.Store.SaveBars(cmd.Context(), symbol, bars); err != nil {
					return err
				}
				if err := app.Store.SaveTrades(cmd.Context(), symbol, res.Trades); err != nil {
					return err
				}
				output.Dim("Saved %d bars and %d trades for %s", len(bars), len(res.Trades), symbol)
			}

			if output.IsJSON() {
				return output.JSON(res)
			}
			printBacktest(output, symbol, res)
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "symbol name (default: derived from file name)")
	cmd.Flags().String("out", "", "write trades to a CSV file")
	cmd.Flags().Bool("save", false, "persist bars and trades to the local database")
	return cmd
}

func printBacktest(output *Output, symbol string, res *trading.Result) {
	output.Bold("Backtest: %s", symbol)
	output.Printf("Signals: %d generated, %d skipped\n\n", len(res.Signals), res.Skipped)

	if len(res.Trades) == 0 {
		output.Dim("No trades resolved")
		return
	}

	output.Bold("%-5s %-7s %-17s %-10s %-7s %-17s %-10s %-10s %s", "SIDE", "ENTRY#", "ENTRY TIME", "ENTRY", "EXIT#", "EXIT TIME", "EXIT", "PNL", "REASON")
	for _, t := range res.Trades {
		pnl := output.Green(FormatPnL(t.PnL))
		if t.PnL < 0 {
			pnl = output.Red(FormatPnL(t.PnL))
		}
		output.Printf("%-5s %-7d %-17s %-10s %-7d %-17s %-10s %-10s %s\n",
			string(t.Side), t.EntryIndex,
			t.EntryTime.Format("2006-01-02 15:04"), FormatPrice(t.EntryPrice),
			t.ExitIndex, t.ExitTime.Format("2006-01-02 15:04"), FormatPrice(t.ExitPrice),
			pnl, string(t.Reason))
	}

	s := res.Summary
	output.Println()
	output.Bold("Summary")
	output.Printf("  Trades:    %d (%d wins, %d losses)\n", s.Trades, s.Wins, s.Losses)
	output.Printf("  Win rate:  %s\n", FormatPercent(s.WinRate))
	pnlLine := output.Green(FormatPnL(s.TotalPnL))
	if s.TotalPnL < 0 {
		pnlLine = output.Red(FormatPnL(s.TotalPnL))
	}
	output.Printf("  Total PnL: %s\n", pnlLine)
	output.Printf("  Avg PnL:   %s\n", FormatPnL(s.AvgPnL))
}
