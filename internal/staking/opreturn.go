package staking

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// ExtractOpReturnData locates the first OP_RETURN output of the
// transaction and returns the data it pushes. At most one OP_RETURN
// output per transaction is relevant to the protocol; any further ones
// are ignored. The boolean is false when the transaction carries no
// OP_RETURN output, which is the normal case for most transactions.
func ExtractOpReturnData(tx *wire.MsgTx) ([]byte, bool) {
	for _, txOut := range tx.TxOut {
		if data, ok := parseNullDataScript(txOut.PkScript); ok {
			return data, true
		}
	}

	return nil, false
}

// parseNullDataScript strips the OP_RETURN opcode and the data-push
// prefix from a nulldata script. Scripts whose push length does not
// match the remaining bytes are not valid nulldata scripts.
func parseNullDataScript(script []byte) ([]byte, bool) {
	if len(script) == 0 || script[0] != txscript.OP_RETURN {
		return nil, false
	}
	if len(script) == 1 {
		// bare OP_RETURN, empty payload
		return []byte{}, true
	}

	op := script[1]
	switch {
	case op <= txscript.OP_DATA_75:
		data := script[2:]
		if len(data) != int(op) {
			return nil, false
		}
		return data, true

	case op == txscript.OP_PUSHDATA1:
		if len(script) < 3 {
			return nil, false
		}
		data := script[3:]
		if len(data) != int(script[2]) {
			return nil, false
		}
		return data, true

	case op == txscript.OP_PUSHDATA2:
		if len(script) < 4 {
			return nil, false
		}
		size := int(script[2]) | int(script[3])<<8
		data := script[4:]
		if len(data) != size {
			return nil, false
		}
		return data, true
	}

	return nil, false
}
