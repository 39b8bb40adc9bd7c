package stats_test

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/stats"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
	"github.com/babylonlabs-io/babylon-staking-scanner/testutil"
)

func testWindow(t *testing.T) types.ScanWindow {
	t.Helper()

	window, err := types.NewScanWindow(100, 3)
	require.NoError(t, err)
	return window
}

func randomStakeRecord(t *testing.T, height uint64) types.StakeRecord {
	t.Helper()

	data := testutil.RandomPayloadData(t)
	return types.StakeRecord{
		TxHashHex:             testutil.RandomPkHex(t),
		BlockHeight:           height,
		StakerPkHex:           data.StakerPkHex(),
		FinalityProviderPkHex: data.FinalityProviderPkHex(),
		StakingTime:           data.StakingTime,
		StakingAmount:         500_000,
		Version:               data.Version,
	}
}

func TestAggregatorTotals(t *testing.T) {
	agg := stats.NewAggregator(testWindow(t))

	fpKey := testutil.RandomPkHex(t)
	staker1 := testutil.RandomPkHex(t)
	staker2 := testutil.RandomPkHex(t)

	agg.AddExamined(10)
	agg.AddRejected(types.RejectionBadMagic)
	agg.AddRejected(types.RejectionBadMagic)
	agg.AddRejected(types.RejectionTooShort)
	agg.AddSkippedBlock(99)

	agg.Ingest(types.StakeRecord{
		TxHashHex:             "aa",
		BlockHeight:           98,
		BlockTimeUnix:         1_700_000_098,
		StakerPkHex:           staker1,
		FinalityProviderPkHex: fpKey,
		StakingAmount:         500_000,
	})
	agg.Ingest(types.StakeRecord{
		TxHashHex:             "bb",
		BlockHeight:           100,
		BlockTimeUnix:         1_700_000_100,
		StakerPkHex:           staker2,
		FinalityProviderPkHex: fpKey,
		StakingAmount:         300_000,
	})
	// same staker stakes twice to the same provider
	agg.Ingest(types.StakeRecord{
		TxHashHex:             "cc",
		BlockHeight:           100,
		BlockTimeUnix:         1_700_000_100,
		StakerPkHex:           staker1,
		FinalityProviderPkHex: fpKey,
		StakingAmount:         200_000,
	})

	report := agg.Snapshot()

	assert.Equal(t, uint64(10), report.TotalTransactionsExamined)
	assert.Equal(t, uint64(3), report.TotalStakesFound)
	assert.Equal(t, uint64(3), report.TotalPayloadsRejected)
	assert.Equal(t, uint64(1), report.TotalBlocksSkipped)
	assert.Equal(t, []uint64{99}, report.SkippedBlocks)
	assert.Equal(t, uint64(2), report.RejectionBreakdown[types.RejectionBadMagic.String()])
	assert.Equal(t, uint64(1), report.RejectionBreakdown[types.RejectionTooShort.String()])

	require.Len(t, report.FinalityProviders, 1)
	fpStats := report.FinalityProviders[fpKey]
	assert.Equal(t, uint64(3), fpStats.StakeCount)
	assert.Equal(t, uint64(1_000_000), fpStats.TotalStakedAmount)
	assert.Equal(t, uint64(2), fpStats.DistinctStakerCount)
	assert.InDelta(t, 333_333.33, fpStats.AverageStake, 0.01)
	assert.Equal(t, int64(1_700_000_098), fpStats.TimeRange.FirstBlockTime)
	assert.Equal(t, int64(1_700_000_100), fpStats.TimeRange.LastBlockTime)
	assert.Equal(t, []uint64{98, 100}, fpStats.Blocks)

	require.Len(t, report.Transactions, 3)
	assert.Equal(t, "aa", report.Transactions[0].TxHashHex)
}

func TestAggregatorOrderIndependence(t *testing.T) {
	records := make([]types.StakeRecord, 0, 30)
	for i := range 30 {
		records = append(records, randomStakeRecord(t, uint64(98+i%3)))
	}

	baseline := stats.NewAggregator(testWindow(t))
	for _, r := range records {
		baseline.Ingest(r)
	}
	baselineJSON, err := json.Marshal(baseline.Snapshot())
	require.NoError(t, err)

	for range 5 {
		shuffled := append([]types.StakeRecord{}, records...)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		agg := stats.NewAggregator(testWindow(t))
		for _, r := range shuffled {
			agg.Ingest(r)
		}

		permutedJSON, err := json.Marshal(agg.Snapshot())
		require.NoError(t, err)
		assert.Equal(t, baselineJSON, permutedJSON)
	}
}

func TestAggregatorNormalizesKeyCase(t *testing.T) {
	agg := stats.NewAggregator(testWindow(t))

	record := randomStakeRecord(t, 100)
	upper := record
	upper.FinalityProviderPkHex = "AABBCC"
	lower := record
	lower.TxHashHex = "other"
	lower.FinalityProviderPkHex = "aabbcc"

	agg.Ingest(upper)
	agg.Ingest(lower)

	report := agg.Snapshot()
	require.Len(t, report.FinalityProviders, 1)
	assert.Equal(t, uint64(2), report.FinalityProviders["aabbcc"].StakeCount)
}

func TestAggregatorSealedAfterSnapshot(t *testing.T) {
	agg := stats.NewAggregator(testWindow(t))
	agg.Snapshot()

	assert.Panics(t, func() {
		agg.Ingest(randomStakeRecord(t, 100))
	})
	assert.Panics(t, func() {
		agg.AddExamined(1)
	})
}

func TestEmptySnapshotSerializesEmptyLists(t *testing.T) {
	agg := stats.NewAggregator(testWindow(t))

	report := agg.Snapshot()
	require.NotNil(t, report.Transactions)

	serialized, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(serialized), `"transactions":[]`)
	assert.NotContains(t, string(serialized), `"transactions":null`)
}

func TestAggregatorTimeRangeIsOrderIndependent(t *testing.T) {
	mid := randomStakeRecord(t, 99)
	mid.BlockTimeUnix = 1_700_000_050
	early := mid
	early.TxHashHex = "early"
	early.BlockTimeUnix = 1_700_000_000
	late := mid
	late.TxHashHex = "late"
	late.BlockTimeUnix = 1_700_000_100

	agg := stats.NewAggregator(testWindow(t))
	agg.Ingest(late)
	agg.Ingest(early)
	agg.Ingest(mid)

	report := agg.Snapshot()
	fpStats := report.FinalityProviders[mid.FinalityProviderPkHex]
	assert.Equal(t, int64(1_700_000_000), fpStats.TimeRange.FirstBlockTime)
	assert.Equal(t, int64(1_700_000_100), fpStats.TimeRange.LastBlockTime)
}

func TestAggregatorVersionStats(t *testing.T) {
	agg := stats.NewAggregator(testWindow(t))

	r1 := randomStakeRecord(t, 98)
	r1.Version = 1
	r2 := randomStakeRecord(t, 99)
	r2.Version = 1
	r3 := randomStakeRecord(t, 100)
	r3.Version = 2

	agg.Ingest(r1)
	agg.Ingest(r2)
	agg.Ingest(r3)

	report := agg.Snapshot()
	require.Len(t, report.Versions, 2)
	assert.Equal(t, uint64(2), report.Versions["1"].StakeCount)
	assert.Equal(t, uint64(1), report.Versions["2"].StakeCount)
	assert.Equal(t, uint64(2), report.Versions["1"].DistinctStakerCount)
	assert.Equal(t, uint64(2), report.Versions["1"].DistinctFinalityProviderCount)
}
