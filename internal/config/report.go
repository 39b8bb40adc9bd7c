package config

import "errors"

const defaultReportOutputPath = "babylon-stake-analysis.json"

// StdoutReportPath routes the report to stdout instead of a file.
const StdoutReportPath = "-"

type ReportConfig struct {
	// OutputPath is the file the report is written to, or "-" for
	// stdout.
	OutputPath string `mapstructure:"output-path"`
	Pretty     bool   `mapstructure:"pretty"`
}

func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		OutputPath: defaultReportOutputPath,
		Pretty:     true,
	}
}

func (cfg *ReportConfig) Validate() error {
	if cfg.OutputPath == "" {
		return errors.New("output-path cannot be empty")
	}

	return nil
}
