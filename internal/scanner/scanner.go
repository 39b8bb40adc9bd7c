package scanner

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/clients/btcclient"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/config"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/observability/metrics"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/staking"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/stats"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
)

// ProgressFunc is invoked once per block after it has been processed or
// skipped, with the total number of blocks in the window.
type ProgressFunc func(total uint64)

type Option func(*Scanner)

func WithProgress(f ProgressFunc) Option {
	return func(s *Scanner) {
		s.progress = f
	}
}

// Scanner walks a window of recent blocks once and aggregates every
// decoded stake. Blocks are fetched and decoded by a bounded pool of
// workers; all results funnel into a single aggregator, whose ingestion
// is order-independent, so the final report does not depend on worker
// count or scheduling.
type Scanner struct {
	cfg      *config.ScannerConfig
	btc      btcclient.BtcInterface
	magicTag []byte
	// params is optional; when nil, decoded stakes are not checked
	// against versioned staking bounds.
	params   *staking.GlobalParams
	progress ProgressFunc
}

func New(cfg *config.ScannerConfig, btc btcclient.BtcInterface, params *staking.GlobalParams, opts ...Option) (*Scanner, error) {
	tag, err := cfg.MagicTag()
	if err != nil {
		return nil, err
	}

	s := &Scanner{
		cfg:      cfg,
		btc:      btc,
		magicTag: tag,
		params:   params,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Scan fetches the chain tip, walks the configured window and returns
// the final report. Failing to fetch the tip is fatal; individual block
// fetch failures degrade to skipped blocks and the walk continues.
func (s *Scanner) Scan(ctx context.Context) (*stats.ScanReport, error) {
	log := log.Ctx(ctx)

	tip, err := s.btc.GetTipHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain tip: %w", err)
	}
	metrics.SetBtcTipHeight(tip)

	window, err := types.NewScanWindow(tip, s.cfg.ScanWindowSize)
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint64("tip_height", tip).
		Uint64("start_height", window.StartHeight).
		Uint64("end_height", window.EndHeight).
		Int("max_workers", s.cfg.MaxWorkers).
		Msg("scanning block window")

	agg := stats.NewAggregator(window)

	eg, egCtx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, s.cfg.MaxWorkers)
	for _, height := range window.Heights() {
		sem <- struct{}{}

		eg.Go(func() error {
			defer func() { <-sem }()

			s.scanBlock(egCtx, height, agg)
			if s.progress != nil {
				s.progress(window.Size())
			}
			return nil
		})
	}

	// workers never fail the group; a fetch error only marks its block
	// as skipped
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report := agg.Snapshot()

	log.Info().
		Uint64("transactions_examined", report.TotalTransactionsExamined).
		Uint64("stakes_found", report.TotalStakesFound).
		Uint64("payloads_rejected", report.TotalPayloadsRejected).
		Uint64("blocks_skipped", report.TotalBlocksSkipped).
		Msg("scan completed")

	return report, nil
}

func (s *Scanner) scanBlock(ctx context.Context, height uint64, agg *stats.Aggregator) {
	ib, err := s.btc.GetBlockByHeight(ctx, height)
	if err != nil {
		log.Ctx(ctx).Warn().
			Err(err).
			Uint64("height", height).
			Msg("skipping block after retries exhausted")
		agg.AddSkippedBlock(height)
		metrics.IncBlocksSkipped()
		return
	}

	agg.AddExamined(uint64(len(ib.Txs)))
	metrics.AddTransactionsExamined(len(ib.Txs))

	var blockTime int64
	if ib.Header != nil {
		blockTime = ib.Header.Timestamp.Unix()
	}

	for _, tx := range ib.Txs {
		s.scanTx(height, blockTime, tx, agg)
	}
	metrics.IncBlocksScanned()
}

// scanTx runs one transaction through the extract-decode-classify
// steps. Rejections are routine and only counted; the overwhelming
// majority of OP_RETURN data on a public chain is unrelated to the
// protocol.
func (s *Scanner) scanTx(height uint64, blockTime int64, tx *btcutil.Tx, agg *stats.Aggregator) {
	payload, found := staking.ExtractOpReturnData(tx.MsgTx())
	if !found {
		return
	}

	data, reason := staking.ParsePayload(s.magicTag, payload)
	if reason != types.RejectionNone {
		s.reject(agg, reason)
		return
	}

	amount, reason := staking.StakingOutputValue(tx.MsgTx())
	if reason != types.RejectionNone {
		s.reject(agg, reason)
		return
	}

	if s.params != nil {
		versionParams := s.params.ParamsForHeight(height, data.Version)
		if versionParams == nil {
			s.reject(agg, types.RejectionNoParamsForHeight)
			return
		}
		if reason := versionParams.ValidateStake(amount, data.StakingTime); reason != types.RejectionNone {
			s.reject(agg, reason)
			return
		}
	}

	agg.Ingest(types.StakeRecord{
		TxHashHex:             tx.Hash().String(),
		BlockHeight:           height,
		BlockTimeUnix:         blockTime,
		StakerPkHex:           data.StakerPkHex(),
		FinalityProviderPkHex: data.FinalityProviderPkHex(),
		StakingTime:           data.StakingTime,
		StakingAmount:         amount,
		Version:               data.Version,
	})
	metrics.IncStakesFound()
}

func (s *Scanner) reject(agg *stats.Aggregator, reason types.RejectionReason) {
	agg.AddRejected(reason)
	metrics.IncPayloadsRejected(reason.String())
}
