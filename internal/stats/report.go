package stats

import (
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
)

// TimeRange spans the block header timestamps of the first and last
// stake of a rollup.
type TimeRange struct {
	FirstBlockTime int64 `json:"first_block_time"`
	LastBlockTime  int64 `json:"last_block_time"`
}

// FinalityProviderStats are the aggregated totals of one finality
// provider over the scan window.
type FinalityProviderStats struct {
	StakeCount          uint64    `json:"stake_count"`
	TotalStakedAmount   uint64    `json:"total_staked_amount"`
	AverageStake        float64   `json:"average_stake"`
	DistinctStakerCount uint64    `json:"distinct_staker_count"`
	TimeRange           TimeRange `json:"time_range"`
	Blocks              []uint64  `json:"blocks"`
	VersionsUsed        []uint8   `json:"versions_used"`
}

// VersionStats are the aggregated totals of one payload version over
// the scan window.
type VersionStats struct {
	StakeCount                    uint64    `json:"stake_count"`
	TotalStakedAmount             uint64    `json:"total_staked_amount"`
	AverageStake                  float64   `json:"average_stake"`
	DistinctStakerCount           uint64    `json:"distinct_staker_count"`
	DistinctFinalityProviderCount uint64    `json:"distinct_finality_provider_count"`
	TimeRange                     TimeRange `json:"time_range"`
	Blocks                        []uint64  `json:"blocks"`
}

// ScanReport is the immutable end-of-run snapshot handed to the report
// writer. All map keys and slices are canonically ordered so that
// identical scans serialize to identical bytes.
type ScanReport struct {
	ScanWindow                types.ScanWindow                 `json:"scan_window"`
	TotalTransactionsExamined uint64                           `json:"total_transactions_examined"`
	TotalStakesFound          uint64                           `json:"total_stakes_found"`
	TotalPayloadsRejected     uint64                           `json:"total_payloads_rejected"`
	TotalBlocksSkipped        uint64                           `json:"total_blocks_skipped"`
	SkippedBlocks             []uint64                         `json:"skipped_blocks,omitempty"`
	RejectionBreakdown        map[string]uint64                `json:"rejection_breakdown,omitempty"`
	FinalityProviders         map[string]FinalityProviderStats `json:"finality_providers"`
	Versions                  map[string]VersionStats          `json:"versions"`
	Transactions              []types.StakeRecord              `json:"transactions"`
}
