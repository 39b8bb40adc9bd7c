package cli

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/clients/btcclient"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/config"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/observability/metrics"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/observability/tracing"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/report"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/scanner"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/staking"
)

func ScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scans recent BTC blocks for Babylon staking transactions and writes a report",
		Args:  cobra.ExactArgs(0),
		RunE:  runScan,
	}

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("error while loading config file: %s", cfgPath)
	}

	if cfg.Metrics.Enabled {
		metrics.Init(cfg.Metrics.GetMetricsPort())
	}

	var btcClient btcclient.BtcInterface
	btcClient, err = btcclient.NewBTCClient(&cfg.BTC)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating btc client")
	}
	btcClient = btcclient.NewBTCClientWithMetrics(btcClient)

	var globalParams *staking.GlobalParams
	if cfg.Scanner.GlobalParamsPath != "" {
		globalParams, err = staking.LoadGlobalParams(cfg.Scanner.GlobalParamsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("error while loading global staking params")
		}
	}

	// the progress bar goes to stderr so it never interleaves with a
	// report written to stdout
	var (
		bar     *progressbar.ProgressBar
		barOnce sync.Once
	)
	progress := func(total uint64) {
		// the hook runs concurrently from scan workers
		barOnce.Do(func() {
			bar = progressbar.NewOptions64(
				int64(total),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetDescription("Scanning blocks..."),
				progressbar.OptionShowCount(),
			)
		})
		if err := bar.Add(1); err != nil {
			log.Debug().Err(err).Msg("failed to update progress bar")
		}
	}

	scan, err := scanner.New(&cfg.Scanner, btcClient, globalParams, scanner.WithProgress(progress))
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating scanner")
	}

	scanStart := time.Now()
	scanReport, err := scan.Scan(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("scan failed")
	}
	metrics.ObserveScanDuration(time.Since(scanStart))

	if bar != nil {
		if err := bar.Finish(); err != nil {
			log.Debug().Err(err).Msg("failed to finish progress bar")
		}
	}

	writer := report.NewWriter(&cfg.Report)
	if err := writer.Write(ctx, scanReport); err != nil {
		log.Fatal().Err(err).Msg("error while writing scan report")
	}

	return nil
}
