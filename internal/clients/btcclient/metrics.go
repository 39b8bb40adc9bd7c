package btcclient

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/observability/metrics"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
)

type btcClientWithMetrics struct {
	btc BtcInterface
}

func NewBTCClientWithMetrics(btc BtcInterface) *btcClientWithMetrics {
	return &btcClientWithMetrics{btc: btc}
}

func (b *btcClientWithMetrics) GetTipHeight(ctx context.Context) (uint64, error) {
	return runBtcClientMethodWithMetrics("GetTipHeight", func() (uint64, error) {
		return b.btc.GetTipHeight(ctx)
	})
}

func (b *btcClientWithMetrics) GetBlockByHeight(ctx context.Context, height uint64) (*types.IndexedBlock, error) {
	return runBtcClientMethodWithMetrics("GetBlockByHeight", func() (*types.IndexedBlock, error) {
		return b.btc.GetBlockByHeight(ctx, height)
	})
}

func (b *btcClientWithMetrics) GetRawTransaction(ctx context.Context, txHash *chainhash.Hash) (*btcutil.Tx, error) {
	return runBtcClientMethodWithMetrics("GetRawTransaction", func() (*btcutil.Tx, error) {
		return b.btc.GetRawTransaction(ctx, txHash)
	})
}

func runBtcClientMethodWithMetrics[T any](method string, f func() (T, error)) (T, error) {
	startTime := time.Now()
	v, err := f()
	duration := time.Since(startTime)

	metrics.RecordBTCClientLatency(duration, method, err != nil)
	return v, err
}
