package stats

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
)

// Aggregator is the single owner of all mutable scan state. Ingestion
// is commutative, so workers may submit results in any order and the
// final snapshot is independent of scheduling. Once Snapshot has been
// called the aggregator is sealed and accepts no further ingestion.
type Aggregator struct {
	mu     sync.Mutex
	sealed bool

	window      types.ScanWindow
	txsExamined uint64
	rejected    map[types.RejectionReason]uint64
	skipped     []uint64
	fps         map[string]*fpAccum
	versions    map[uint8]*versionAccum
	stakes      []types.StakeRecord
}

type fpAccum struct {
	count       uint64
	totalAmount uint64
	firstTime   int64
	lastTime    int64
	stakers     map[string]struct{}
	blocks      map[uint64]struct{}
	versions    map[uint8]struct{}
}

type versionAccum struct {
	count       uint64
	totalAmount uint64
	firstTime   int64
	lastTime    int64
	stakers     map[string]struct{}
	fps         map[string]struct{}
	blocks      map[uint64]struct{}
}

func NewAggregator(window types.ScanWindow) *Aggregator {
	return &Aggregator{
		window:   window,
		rejected: make(map[types.RejectionReason]uint64),
		fps:      make(map[string]*fpAccum),
		versions: make(map[uint8]*versionAccum),
	}
}

// AddExamined records n examined transactions.
func (a *Aggregator) AddExamined(n uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkNotSealed()

	a.txsExamined += n
}

// AddRejected records a payload rejected for the given reason.
func (a *Aggregator) AddRejected(reason types.RejectionReason) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkNotSealed()

	a.rejected[reason]++
}

// AddSkippedBlock records a block that could not be fetched after
// retries were exhausted.
func (a *Aggregator) AddSkippedBlock(height uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkNotSealed()

	a.skipped = append(a.skipped, height)
}

// Ingest folds one decoded stake into the per-provider, per-version and
// run-wide totals.
func (a *Aggregator) Ingest(record types.StakeRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkNotSealed()

	fpKey := strings.ToLower(record.FinalityProviderPkHex)
	stakerKey := strings.ToLower(record.StakerPkHex)

	fp, ok := a.fps[fpKey]
	if !ok {
		fp = &fpAccum{
			stakers:  make(map[string]struct{}),
			blocks:   make(map[uint64]struct{}),
			versions: make(map[uint8]struct{}),
		}
		a.fps[fpKey] = fp
	}
	fp.count++
	fp.totalAmount += record.StakingAmount
	if fp.count == 1 || record.BlockTimeUnix < fp.firstTime {
		fp.firstTime = record.BlockTimeUnix
	}
	if fp.count == 1 || record.BlockTimeUnix > fp.lastTime {
		fp.lastTime = record.BlockTimeUnix
	}
	fp.stakers[stakerKey] = struct{}{}
	fp.blocks[record.BlockHeight] = struct{}{}
	fp.versions[record.Version] = struct{}{}

	ver, ok := a.versions[record.Version]
	if !ok {
		ver = &versionAccum{
			stakers: make(map[string]struct{}),
			fps:     make(map[string]struct{}),
			blocks:  make(map[uint64]struct{}),
		}
		a.versions[record.Version] = ver
	}
	ver.count++
	ver.totalAmount += record.StakingAmount
	if ver.count == 1 || record.BlockTimeUnix < ver.firstTime {
		ver.firstTime = record.BlockTimeUnix
	}
	if ver.count == 1 || record.BlockTimeUnix > ver.lastTime {
		ver.lastTime = record.BlockTimeUnix
	}
	ver.stakers[stakerKey] = struct{}{}
	ver.fps[fpKey] = struct{}{}
	ver.blocks[record.BlockHeight] = struct{}{}

	a.stakes = append(a.stakes, record)
}

// Snapshot seals the aggregator and materializes the final report.
// Map keys and slices are sorted so that the report serializes
// identically regardless of ingestion order.
func (a *Aggregator) Snapshot() *ScanReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sealed = true

	report := &ScanReport{
		ScanWindow:                a.window,
		TotalTransactionsExamined: a.txsExamined,
		TotalStakesFound:          uint64(len(a.stakes)),
		TotalBlocksSkipped:        uint64(len(a.skipped)),
		FinalityProviders:         make(map[string]FinalityProviderStats, len(a.fps)),
		Versions:                  make(map[string]VersionStats, len(a.versions)),
	}

	for _, count := range a.rejected {
		report.TotalPayloadsRejected += count
	}
	if len(a.rejected) > 0 {
		report.RejectionBreakdown = make(map[string]uint64, len(a.rejected))
		for reason, count := range a.rejected {
			report.RejectionBreakdown[reason.String()] = count
		}
	}

	if len(a.skipped) > 0 {
		report.SkippedBlocks = slices.Clone(a.skipped)
		slices.Sort(report.SkippedBlocks)
	}

	for fpKey, fp := range a.fps {
		report.FinalityProviders[fpKey] = FinalityProviderStats{
			StakeCount:          fp.count,
			TotalStakedAmount:   fp.totalAmount,
			AverageStake:        float64(fp.totalAmount) / float64(fp.count),
			DistinctStakerCount: uint64(len(fp.stakers)),
			TimeRange:           TimeRange{FirstBlockTime: fp.firstTime, LastBlockTime: fp.lastTime},
			Blocks:              sortedKeys(fp.blocks),
			VersionsUsed:        sortedKeys(fp.versions),
		}
	}

	for version, ver := range a.versions {
		report.Versions[strconv.Itoa(int(version))] = VersionStats{
			StakeCount:                    ver.count,
			TotalStakedAmount:             ver.totalAmount,
			AverageStake:                  float64(ver.totalAmount) / float64(ver.count),
			DistinctStakerCount:           uint64(len(ver.stakers)),
			DistinctFinalityProviderCount: uint64(len(ver.fps)),
			TimeRange:                     TimeRange{FirstBlockTime: ver.firstTime, LastBlockTime: ver.lastTime},
			Blocks:                        sortedKeys(ver.blocks),
		}
	}

	// an empty run still reports an empty list, not null
	report.Transactions = make([]types.StakeRecord, 0, len(a.stakes))
	report.Transactions = append(report.Transactions, a.stakes...)
	sort.Slice(report.Transactions, func(i, j int) bool {
		ti, tj := report.Transactions[i], report.Transactions[j]
		if ti.BlockHeight != tj.BlockHeight {
			return ti.BlockHeight < tj.BlockHeight
		}
		return ti.TxHashHex < tj.TxHashHex
	})

	return report
}

func (a *Aggregator) checkNotSealed() {
	if a.sealed {
		panic("stats: aggregator ingestion after snapshot")
	}
}

func sortedKeys[T uint8 | uint64](set map[T]struct{}) []T {
	keys := make([]T, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}
