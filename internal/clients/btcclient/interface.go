package btcclient

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
)

type BtcInterface interface {
	GetTipHeight(ctx context.Context) (uint64, error)
	GetBlockByHeight(ctx context.Context, height uint64) (*types.IndexedBlock, error)
	GetRawTransaction(ctx context.Context, txHash *chainhash.Hash) (*btcutil.Tx, error)
}
