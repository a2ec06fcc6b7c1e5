// Package config provides configuration management for the signal engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"idx-signals/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Strategy StrategyConfig `mapstructure:"strategy"`
	Risk     RiskConfig     `mapstructure:"risk"`
	Data     DataConfig     `mapstructure:"data"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// StrategyConfig holds signal generation parameters.
type StrategyConfig struct {
	EMASpans          []int   `mapstructure:"ema_spans"`
	RSIPeriod         int     `mapstructure:"rsi_period"`
	RSIBuyThreshold   float64 `mapstructure:"rsi_buy_threshold"`
	RSISellThreshold  float64 `mapstructure:"rsi_sell_threshold"`
	RSIZeroLossPolicy string  `mapstructure:"rsi_zero_loss_policy"` // hard_ceiling, decay_offset
	MACDFast          int     `mapstructure:"macd_fast"`
	MACDSlow          int     `mapstructure:"macd_slow"`
	MACDSignal        int     `mapstructure:"macd_signal"`
	MACDConfirm       bool    `mapstructure:"macd_confirm"`
	ATRPeriod         int     `mapstructure:"atr_period"`
	ATRMin            float64 `mapstructure:"atr_min"`
	ConfirmWindow     int     `mapstructure:"confirm_window"`
	MinSignalDistance int     `mapstructure:"min_signal_distance"`
	SignalMode        string  `mapstructure:"signal_mode"` // buy_only, both
}

// RiskConfig holds stop-loss and take-profit parameters.
type RiskConfig struct {
	SLMultiplier     float64 `mapstructure:"sl_multiplier"`
	TPMultiplier     float64 `mapstructure:"tp_multiplier"`
	TickSize         float64 `mapstructure:"tick_size"`
	MinPositiveStop  float64 `mapstructure:"min_positive_stop"`
	EntryPriceSource string  `mapstructure:"entry_price_source"` // close, next_open
}

// DataConfig holds data location configuration.
type DataConfig struct {
	BarsDir   string `mapstructure:"bars_dir"`
	DBPath    string `mapstructure:"db_path"`
	StatePath string `mapstructure:"state_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  bool   `mapstructure:"file"`
	Path  string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/idx-signals"
	}
	return filepath.Join(home, ".config", "idx-signals")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A missing config file
// yields the built-in defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("strategy.ema_spans", []int{9, 21})
	v.SetDefault("strategy.rsi_period", 14)
	v.SetDefault("strategy.rsi_buy_threshold", 30.0)
	v.SetDefault("strategy.rsi_sell_threshold", 70.0)
	v.SetDefault("strategy.rsi_zero_loss_policy", "hard_ceiling")
	v.SetDefault("strategy.macd_fast", 12)
	v.SetDefault("strategy.macd_slow", 26)
	v.SetDefault("strategy.macd_signal", 9)
	v.SetDefault("strategy.macd_confirm", false)
	v.SetDefault("strategy.atr_period", 14)
	v.SetDefault("strategy.atr_min", 0.0)
	v.SetDefault("strategy.confirm_window", 1)
	v.SetDefault("strategy.min_signal_distance", 5)
	v.SetDefault("strategy.signal_mode", "buy_only")

	v.SetDefault("risk.sl_multiplier", 1.5)
	v.SetDefault("risk.tp_multiplier", 3.0)
	v.SetDefault("risk.tick_size", 0.0)
	v.SetDefault("risk.min_positive_stop", 0.0)
	v.SetDefault("risk.entry_price_source", "close")

	v.SetDefault("data.bars_dir", filepath.Join(configDir, "bars"))
	v.SetDefault("data.db_path", filepath.Join(configDir, "idx-signals.db"))
	v.SetDefault("data.state_path", filepath.Join(configDir, "dispatch_state.json"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.path", filepath.Join(configDir, "logs", "idxsignals.log"))
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Strategy.EMASpans) != 2 {
		return errors.Wrapf(errors.ErrConfigInvalid, "ema_spans must have exactly 2 entries, got %d", len(c.Strategy.EMASpans))
	}
	if c.Strategy.EMASpans[0] >= c.Strategy.EMASpans[1] {
		return errors.Wrapf(errors.ErrConfigInvalid, "ema_spans fast %d must be less than slow %d", c.Strategy.EMASpans[0], c.Strategy.EMASpans[1])
	}
	for _, span := range c.Strategy.EMASpans {
		if span <= 0 {
			return errors.Wrapf(errors.ErrConfigInvalid, "ema span must be positive, got %d", span)
		}
	}
	if c.Strategy.RSIPeriod <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "rsi_period must be positive, got %d", c.Strategy.RSIPeriod)
	}
	if c.Strategy.RSIBuyThreshold < 0 || c.Strategy.RSIBuyThreshold > 100 {
		return errors.Wrapf(errors.ErrConfigInvalid, "rsi_buy_threshold must be in [0, 100], got %g", c.Strategy.RSIBuyThreshold)
	}
	if c.Strategy.RSISellThreshold < 0 || c.Strategy.RSISellThreshold > 100 {
		return errors.Wrapf(errors.ErrConfigInvalid, "rsi_sell_threshold must be in [0, 100], got %g", c.Strategy.RSISellThreshold)
	}
	if p := c.Strategy.RSIZeroLossPolicy; p != "hard_ceiling" && p != "decay_offset" {
		return errors.Wrapf(errors.ErrConfigInvalid, "rsi_zero_loss_policy must be hard_ceiling or decay_offset, got %q", p)
	}
	if c.Strategy.MACDFast <= 0 || c.Strategy.MACDSlow <= 0 || c.Strategy.MACDSignal <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "macd periods must be positive")
	}
	if c.Strategy.MACDFast >= c.Strategy.MACDSlow {
		return errors.Wrapf(errors.ErrConfigInvalid, "macd_fast %d must be less than macd_slow %d", c.Strategy.MACDFast, c.Strategy.MACDSlow)
	}
	if c.Strategy.ATRPeriod <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "atr_period must be positive, got %d", c.Strategy.ATRPeriod)
	}
	if c.Strategy.ConfirmWindow < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "confirm_window must be non-negative, got %d", c.Strategy.ConfirmWindow)
	}
	if c.Strategy.MinSignalDistance < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "min_signal_distance must be non-negative, got %d", c.Strategy.MinSignalDistance)
	}
	if m := c.Strategy.SignalMode; m != "buy_only" && m != "both" {
		return errors.Wrapf(errors.ErrConfigInvalid, "signal_mode must be buy_only or both, got %q", m)
	}

	if c.Risk.SLMultiplier <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "sl_multiplier must be positive, got %g", c.Risk.SLMultiplier)
	}
	if c.Risk.TPMultiplier <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "tp_multiplier must be positive, got %g", c.Risk.TPMultiplier)
	}
	if c.Risk.TickSize < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "tick_size must be non-negative, got %g", c.Risk.TickSize)
	}
	if s := c.Risk.EntryPriceSource; s != "close" && s != "next_open" {
		return errors.Wrapf(errors.ErrConfigInvalid, "entry_price_source must be close or next_open, got %q", s)
	}
	return nil
}
