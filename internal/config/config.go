package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	BTC     BTCConfig     `mapstructure:"btc"`
	Scanner ScannerConfig `mapstructure:"scanner"`
	Report  ReportConfig  `mapstructure:"report"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

func (cfg *Config) Validate() error {
	if err := cfg.BTC.Validate(); err != nil {
		return fmt.Errorf("invalid btc config: %w", err)
	}

	if err := cfg.Scanner.Validate(); err != nil {
		return fmt.Errorf("invalid scanner config: %w", err)
	}

	if err := cfg.Report.Validate(); err != nil {
		return fmt.Errorf("invalid report config: %w", err)
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}

	return nil
}

// setDefaults seeds viper with the default section values so a config
// file only has to spell out what differs from them. RPC credentials
// have no default on purpose.
func setDefaults(v *viper.Viper) {
	btc := DefaultBTCConfig()
	v.SetDefault("btc.rpchost", btc.RPCHost)
	v.SetDefault("btc.maxretrytimes", btc.MaxRetryTimes)
	v.SetDefault("btc.retryinterval", btc.RetryInterval)
	v.SetDefault("btc.netparams", btc.NetParams)

	scanner := DefaultScannerConfig()
	v.SetDefault("scanner.scan-window-size", scanner.ScanWindowSize)
	v.SetDefault("scanner.max-workers", scanner.MaxWorkers)
	v.SetDefault("scanner.magic-tag-hex", scanner.MagicTagHex)

	report := DefaultReportConfig()
	v.SetDefault("report.output-path", report.OutputPath)
	v.SetDefault("report.pretty", report.Pretty)
}

// New loads the config file at the given path, overlays environment
// variables (e.g. BTC_RPCHOST overrides btc.rpchost) and validates the
// result. Values absent from both fall back to the section defaults.
func New(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
