package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/config"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/stats"
)

// Writer serializes a completed scan report. It is the only component
// that knows about the output encoding; the rest of the pipeline only
// produces the snapshot.
type Writer struct {
	cfg *config.ReportConfig
}

func NewWriter(cfg *config.ReportConfig) *Writer {
	return &Writer{cfg: cfg}
}

func (w *Writer) Write(ctx context.Context, report *stats.ScanReport) error {
	var (
		data []byte
		err  error
	)
	if w.cfg.Pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal scan report: %w", err)
	}
	data = append(data, '\n')

	if w.cfg.OutputPath == config.StdoutReportPath {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write scan report to stdout: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(w.cfg.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scan report to %s: %w", w.cfg.OutputPath, err)
	}

	log.Ctx(ctx).Info().
		Str("path", w.cfg.OutputPath).
		Msg("scan report written")

	return nil
}
