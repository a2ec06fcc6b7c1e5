package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# idx-signals configuration

[strategy]
ema_spans = [9, 21]
rsi_period = 14
rsi_buy_threshold = 30.0
rsi_sell_threshold = 70.0
rsi_zero_loss_policy = "hard_ceiling"  # or "decay_offset"
macd_fast = 12
macd_slow = 26
macd_signal = 9
macd_confirm = false
atr_period = 14
atr_min = 0.0
confirm_window = 1
min_signal_distance = 5
signal_mode = "buy_only"  # or "both"

[risk]
sl_multiplier = 1.5
tp_multiplier = 3.0
tick_size = 0.0  # 0 disables tick rounding
min_positive_stop = 0.0
entry_price_source = "close"  # or "next_open"

[logging]
level = "info"
file = false
`

// WriteTemplate writes a commented default config.toml into configDir.
// Returns an error if the file already exists.
func WriteTemplate(configDir string) (string, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
		return "", fmt.Errorf("writing config template: %w", err)
	}
	return path, nil
}
