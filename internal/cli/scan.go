package cli

import (
	"github.com/spf13/cobra"

	"idx-signals/internal/batch"
	"idx-signals/internal/logging"
	"idx-signals/internal/notify"
)

func newScanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [bars-dir]",
		Short: "Run the signal pipeline over a directory of bar files",
		Long: `Process every CSV bar file in a directory concurrently, generating
signals per symbol. New signals are dispatched through the deduplicating
notifier so repeated scans only announce fresh signals.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			workers, _ := cmd.Flags().GetInt("workers")
			save, _ := cmd.Flags().GetBool("save")

			dir := app.Config.Data.BarsDir
			if len(args) == 1 {
				dir = args[0]
			}

			notifier, err := notify.NewDeduper(notify.NewTerminalNotifier(), app.Config.Data.StatePath)
			if err != nil {
				return err
			}

			scanner := batch.NewScanner(workers, app.Logger)
			results, err := scanner.Scan(dir, func(path string) (string, error) {
				symbol := symbolFromPath(path)
				res, bars, err := runPipeline(app, path)
				if err != nil {
					return symbol, err
				}
				symlog := logging.WithSymbol(app.Logger, symbol)
				symlog.Info().
					Int("signals", len(res.Signals)).
					Int("bars", len(bars)).
					Msg("scan complete")
				if save && app.Store != nil {
					if err := app.Store.SaveBars(cmd.Context(), symbol, bars); err != nil {
						return symbol, err
					}
					if err := app.Store.SaveSignals(cmd.Context(), symbol, res.Signals); err != nil {
						return symbol, err
					}
				}
				return symbol, notifier.Notify(cmd.Context(), symbol, res.Signals)
			})
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					output.Error("%s: %v", r.Path, r.Err)
				}
			}
			if output.IsJSON() {
				return output.JSON(map[string]int{"files": len(results), "failed": failed})
			}
			output.Printf("\nScanned %d files, %d failed\n", len(results), failed)
			return nil
		},
	}

	cmd.Flags().Int("workers", 0, "concurrent workers (default: number of CPUs)")
	cmd.Flags().Bool("save", false, "persist bars and signals to the local database")
	return cmd
}
