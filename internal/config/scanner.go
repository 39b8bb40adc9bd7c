package config

import (
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// defaultScanWindowSize matches the SCAN_RANGE default of the
	// surrounding tooling.
	defaultScanWindowSize = 50
	defaultMaxWorkers     = 4
	// defaultMagicTagHex is "bbn1", the registered Babylon phase-1
	// staking tag.
	defaultMagicTagHex = "62626e31"

	magicTagLen = 4
)

type ScannerConfig struct {
	ScanWindowSize   uint64 `mapstructure:"scan-window-size"`
	MaxWorkers       int    `mapstructure:"max-workers"`
	MagicTagHex      string `mapstructure:"magic-tag-hex"`
	GlobalParamsPath string `mapstructure:"global-params-path"`
}

func DefaultScannerConfig() *ScannerConfig {
	return &ScannerConfig{
		ScanWindowSize: defaultScanWindowSize,
		MaxWorkers:     defaultMaxWorkers,
		MagicTagHex:    defaultMagicTagHex,
	}
}

func (cfg *ScannerConfig) Validate() error {
	if cfg.ScanWindowSize == 0 {
		return errors.New("scan-window-size must be positive")
	}

	if cfg.MaxWorkers <= 0 {
		return errors.New("max-workers must be positive")
	}

	if _, err := cfg.MagicTag(); err != nil {
		return err
	}

	return nil
}

// MagicTag decodes the configured magic tag and enforces its fixed
// length.
func (cfg *ScannerConfig) MagicTag() ([]byte, error) {
	tag, err := hex.DecodeString(cfg.MagicTagHex)
	if err != nil {
		return nil, fmt.Errorf("magic-tag-hex is not valid hex: %w", err)
	}
	if len(tag) != magicTagLen {
		return nil, fmt.Errorf("magic tag must be %d bytes, got %d", magicTagLen, len(tag))
	}

	return tag, nil
}
