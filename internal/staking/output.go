package staking

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
)

// A phase-1 stake transaction carries exactly three outputs: the
// taproot staking output, the OP_RETURN metadata output and the change
// output.
const stakeTxNumOutputs = 3

// StakingOutputValue locates the designated staking output of a stake
// transaction and returns its value in satoshis. The staked amount is
// carried by the first output, which must be a taproot output.
func StakingOutputValue(tx *wire.MsgTx) (uint64, types.RejectionReason) {
	if len(tx.TxOut) != stakeTxNumOutputs {
		return 0, types.RejectionWrongOutputCount
	}

	stakingOutput := tx.TxOut[0]
	if !txscript.IsPayToTaproot(stakingOutput.PkScript) {
		return 0, types.RejectionNoStakingOutput
	}
	if stakingOutput.Value < 0 {
		return 0, types.RejectionNoStakingOutput
	}

	return uint64(stakingOutput.Value), types.RejectionNone
}
