package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"idx-signals/internal/config"
	"idx-signals/internal/logging"
	"idx-signals/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-06-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Data.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, persistence disabled")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Data.DBPath).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "idxsignals",
		Short: "idx-signals - indicator-driven signal and backtest CLI",
		Long: `idx-signals computes technical indicators over OHLCV bar files,
generates crossover-based entry signals with ATR stop-loss and take-profit
levels, and replays them through a single-position backtest.

Use 'idxsignals help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/idx-signals)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newIndicatorsCmd(app))
	rootCmd.AddCommand(newSignalsCmd(app))
	rootCmd.AddCommand(newBacktestCmd(app))
	rootCmd.AddCommand(newScanCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("idx-signals v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			configDir, _ := cmd.Flags().GetString("config")
			path, err := config.WriteTemplate(configDir)
			if err != nil {
				return err
			}
			output.Success("Wrote %s", path)
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Strategy")
	output.Printf("  EMA spans:           %v\n", cfg.Strategy.EMASpans)
	output.Printf("  RSI period:          %d (buy < %.1f, sell > %.1f)\n",
		cfg.Strategy.RSIPeriod, cfg.Strategy.RSIBuyThreshold, cfg.Strategy.RSISellThreshold)
	output.Printf("  RSI zero-loss:       %s\n", cfg.Strategy.RSIZeroLossPolicy)
	output.Printf("  MACD:                %d/%d/%d (confirm: %t)\n",
		cfg.Strategy.MACDFast, cfg.Strategy.MACDSlow, cfg.Strategy.MACDSignal, cfg.Strategy.MACDConfirm)
	output.Printf("  ATR period:          %d (min %.4f)\n", cfg.Strategy.ATRPeriod, cfg.Strategy.ATRMin)
	output.Printf("  Confirm window:      %d\n", cfg.Strategy.ConfirmWindow)
	output.Printf("  Min signal distance: %d\n", cfg.Strategy.MinSignalDistance)
	output.Printf("  Signal mode:         %s\n", cfg.Strategy.SignalMode)
	output.Println()
	output.Bold("Risk")
	output.Printf("  SL multiplier:       %.2f\n", cfg.Risk.SLMultiplier)
	output.Printf("  TP multiplier:       %.2f\n", cfg.Risk.TPMultiplier)
	output.Printf("  Tick size:           %.4f\n", cfg.Risk.TickSize)
	output.Printf("  Entry price source:  %s\n", cfg.Risk.EntryPriceSource)
	output.Println()
	output.Bold("Data")
	output.Printf("  Bars dir:            %s\n", cfg.Data.BarsDir)
	output.Printf("  DB path:             %s\n", cfg.Data.DBPath)
	output.Printf("  State path:          %s\n", cfg.Data.StatePath)
}
