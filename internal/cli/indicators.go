package cli

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/spf13/cobra"

	"idx-signals/internal/analysis/indicators"
	"idx-signals/internal/ingest"
)

func newIndicatorsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indicators <bars.csv>",
		Short: "Compute indicator series over a bar file",
		Long: `Compute the configured EMA, RSI, MACD and ATR series over a bar
file and print the most recent values. Warm-up bars render as "-".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tail, _ := cmd.Flags().GetInt("tail")

			bars, err := ingest.LoadBars(args[0])
			if err != nil {
				return err
			}
			engine := indicators.NewEngine(bars)
			cfg := app.Config.Strategy

			policy := indicators.ZeroLossPolicy(cfg.RSIZeroLossPolicy)
			inds := []indicators.Indicator{
				indicators.NewEMA(cfg.EMASpans[0]),
				indicators.NewEMA(cfg.EMASpans[1]),
				indicators.NewRSIWithPolicy(cfg.RSIPeriod, policy),
				indicators.NewATR(cfg.ATRPeriod),
			}

			results, errs := engine.ComputeAll(context.Background(), inds, runtime.NumCPU())
			for name, err := range errs {
				return fmt.Errorf("computing %s: %w", name, err)
			}

			macd, err := engine.ComputeMulti(indicators.NewMACD(cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal), false)
			if err != nil {
				return err
			}
			for key, series := range macd {
				results["macd."+key] = series
			}

			if output.IsJSON() {
				return output.JSON(tailSeries(results, tail))
			}
			printIndicators(output, results, tail)
			return nil
		},
	}

	cmd.Flags().Int("tail", 10, "number of most recent bars to print")
	return cmd
}

// tailSeries trims each series to its last tail values and maps undefined
// entries to nil so they encode as null rather than NaN.
func tailSeries(results map[string][]float64, tail int) map[string][]*float64 {
	out := make(map[string][]*float64, len(results))
	for name, series := range results {
		if tail > 0 && len(series) > tail {
			series = series[len(series)-tail:]
		}
		vals := make([]*float64, len(series))
		for i, v := range series {
			if indicators.Defined(v) {
				v := v
				vals[i] = &v
			}
		}
		out[name] = vals
	}
	return out
}

func printIndicators(output *Output, results map[string][]float64, tail int) {
	names := make([]string, 0, len(results))
	var n int
	for name, series := range results {
		names = append(names, name)
		n = len(series)
	}
	sort.Strings(names)

	start := 0
	if tail > 0 && n > tail {
		start = n - tail
	}

	header := fmt.Sprintf("%-6s", "INDEX")
	for _, name := range names {
		header += fmt.Sprintf(" %-12s", name)
	}
	output.Bold("%s", header)

	for i := start; i < n; i++ {
		row := fmt.Sprintf("%-6d", i)
		for _, name := range names {
			row += fmt.Sprintf(" %-12s", FormatIndicator(results[name][i]))
		}
		output.Println(row)
	}
}
