package btcclient

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/config"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/utils"
)

type BTCClient struct {
	client *rpcclient.Client
	cfg    *config.BTCConfig
}

func NewBTCClient(cfg *config.BTCConfig) (*BTCClient, error) {
	c, err := rpcclient.New(cfg.ToConnConfig(), nil)
	if err != nil {
		return nil, err
	}

	return &BTCClient{
		client: c,
		cfg:    cfg,
	}, nil
}

type BlockCountResponse struct {
	count int64
}

func (c *BTCClient) GetTipHeight(ctx context.Context) (uint64, error) {
	callForBlockCount := func() (*BlockCountResponse, error) {
		count, err := c.client.GetBlockCount()
		if err != nil {
			return nil, err
		}

		return &BlockCountResponse{count: count}, nil
	}

	blockCount, err := clientCallWithRetry(ctx, callForBlockCount, c.cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to get block count: %w", err)
	}

	return uint64(blockCount.count), nil
}

func (c *BTCClient) GetBlockByHeight(ctx context.Context, height uint64) (*types.IndexedBlock, error) {
	blockHash, err := c.GetBlockHashByHeight(ctx, height)
	if err != nil {
		return nil, err
	}

	callForBlock := func() (*wire.MsgBlock, error) {
		return c.client.GetBlock(blockHash)
	}

	block, err := clientCallWithRetry(ctx, callForBlock, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get block by hash %s: %w", blockHash.String(), err)
	}

	btcTxs := utils.GetWrappedTxs(block)
	return types.NewIndexedBlock(height, &block.Header, btcTxs), nil
}

func (c *BTCClient) GetBlockHashByHeight(ctx context.Context, height uint64) (*chainhash.Hash, error) {
	callForBlockHash := func() (*chainhash.Hash, error) {
		return c.client.GetBlockHash(int64(height))
	}

	blockHash, err := clientCallWithRetry(ctx, callForBlockHash, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get block hash by height %d: %w", height, err)
	}

	return blockHash, nil
}

func (c *BTCClient) GetRawTransaction(ctx context.Context, txHash *chainhash.Hash) (*btcutil.Tx, error) {
	callForTx := func() (*btcutil.Tx, error) {
		return c.client.GetRawTransaction(txHash)
	}

	tx, err := clientCallWithRetry(ctx, callForTx, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get raw transaction %s: %w", txHash.String(), err)
	}

	return tx, nil
}

func clientCallWithRetry[T any](
	ctx context.Context, call retry.RetryableFuncWithData[*T], cfg *config.BTCConfig,
) (*T, error) {
	result, err := retry.DoWithData(call, retry.Context(ctx),
		retry.Attempts(cfg.MaxRetryTimes), retry.Delay(cfg.RetryInterval), retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryTimes).
				Err(err).
				Msg("failed to call the RPC client")
		}))

	if err != nil {
		return nil, err
	}
	return result, nil
}
