package cli

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
	"github.com/babylonlabs-io/babylon-staking-scanner/testutil"
)

var testMagicTag = []byte("bbn1")

func debugStakeTx(t *testing.T, payload []byte, amount int64) *wire.MsgTx {
	t.Helper()

	tx := wire.NewMsgTx(wire.TxVersion)
	taproot := append([]byte{txscript.OP_1, txscript.OP_DATA_32}, testutil.RandomPk(t)...)
	tx.AddTxOut(wire.NewTxOut(amount, taproot))
	opReturn := append([]byte{txscript.OP_RETURN, byte(len(payload))}, payload...)
	tx.AddTxOut(wire.NewTxOut(0, opReturn))
	change := append([]byte{txscript.OP_0, txscript.OP_DATA_20}, make([]byte, 20)...)
	tx.AddTxOut(wire.NewTxOut(1_000, change))

	return tx
}

func TestBuildTxDebugInfoValidStake(t *testing.T) {
	data := testutil.RandomPayloadData(t)
	payload, err := data.Encode(testMagicTag)
	require.NoError(t, err)

	info := buildTxDebugInfo("sometxid", debugStakeTx(t, payload, 500_000), testMagicTag, &chaincfg.MainNetParams)

	assert.Equal(t, "sometxid", info.TxID)
	assert.Equal(t, 3, info.OutputCount)
	assert.True(t, info.OpReturnFound)
	assert.Empty(t, info.RejectionReason)
	assert.Equal(t, uint64(500_000), info.StakingAmount)

	require.NotNil(t, info.Payload)
	assert.Equal(t, data.StakerPkHex(), info.Payload.StakerPkHex)
	assert.Equal(t, data.FinalityProviderPkHex(), info.Payload.FinalityProviderPkHex)
	assert.Equal(t, data.StakingTime, info.Payload.StakingTime)

	require.Len(t, info.Outputs, 3)
	assert.True(t, info.Outputs[0].IsTaproot)
	assert.True(t, info.Outputs[1].IsOpReturn)
	// the change output renders as an address on the given network
	assert.NotEmpty(t, info.Outputs[2].Addresses)
}

func TestBuildTxDebugInfoRejectedPayload(t *testing.T) {
	data := testutil.RandomPayloadData(t)
	payload, err := data.Encode(testMagicTag)
	require.NoError(t, err)
	copy(payload, "dead")

	info := buildTxDebugInfo("sometxid", debugStakeTx(t, payload, 500_000), testMagicTag, &chaincfg.MainNetParams)

	assert.True(t, info.OpReturnFound)
	assert.Nil(t, info.Payload)
	assert.Equal(t, types.RejectionBadMagic.String(), info.RejectionReason)
}

func TestBuildTxDebugInfoNoOpReturn(t *testing.T) {
	tx := wire.NewMsgTx(wire.TxVersion)
	change := append([]byte{txscript.OP_0, txscript.OP_DATA_20}, make([]byte, 20)...)
	tx.AddTxOut(wire.NewTxOut(42_000, change))

	info := buildTxDebugInfo("sometxid", tx, testMagicTag, &chaincfg.MainNetParams)

	assert.False(t, info.OpReturnFound)
	assert.Nil(t, info.Payload)
	assert.Empty(t, info.RejectionReason)
}
