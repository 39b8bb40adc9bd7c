package types

// StakeRecord is a fully decoded Babylon stake. It corresponds to
// exactly one transaction and one OP_RETURN output and is immutable
// once produced.
type StakeRecord struct {
	TxHashHex   string `json:"txid"`
	BlockHeight uint64 `json:"block_height"`
	// BlockTimeUnix is the header timestamp of the containing block.
	BlockTimeUnix         int64  `json:"block_time"`
	StakerPkHex           string `json:"staker_public_key"`
	FinalityProviderPkHex string `json:"finality_provider"`
	StakingTime           uint16 `json:"staking_time"`
	// StakingAmount is the value of the staking output in satoshis,
	// not part of the OP_RETURN payload itself.
	StakingAmount uint64 `json:"stake_amount"`
	Version       uint8  `json:"version"`
}
