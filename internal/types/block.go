package types

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
)

// IndexedBlock is a BTC block fetched over RPC together with its height
// and fully wrapped transactions.
type IndexedBlock struct {
	Height uint64
	Header *wire.BlockHeader
	Txs    []*btcutil.Tx
}

func NewIndexedBlock(height uint64, header *wire.BlockHeader, txs []*btcutil.Tx) *IndexedBlock {
	return &IndexedBlock{
		Height: height,
		Header: header,
		Txs:    txs,
	}
}
