package staking

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
)

// VersionedParams are the staking bounds of one protocol version,
// applicable between its activation height and its cap height.
type VersionedParams struct {
	Version          uint8  `json:"version"`
	ActivationHeight uint64 `json:"activation_height"`
	// CapHeight is the last height the version applies to; zero means
	// the version has no cap.
	CapHeight        uint64 `json:"cap_height,omitempty"`
	MinStakingAmount uint64 `json:"min_staking_amount"`
	MaxStakingAmount uint64 `json:"max_staking_amount"`
	MinStakingTime   uint16 `json:"min_staking_time"`
	MaxStakingTime   uint16 `json:"max_staking_time"`
}

// GlobalParams is the published set of versioned staking parameters.
type GlobalParams struct {
	Versions []*VersionedParams `json:"versions"`
}

func LoadGlobalParams(path string) (*GlobalParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read global params file %s: %w", path, err)
	}

	var params GlobalParams
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal global params: %w", err)
	}

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid global params: %w", err)
	}

	return &params, nil
}

func (g *GlobalParams) Validate() error {
	if len(g.Versions) == 0 {
		return fmt.Errorf("global params must define at least one version")
	}

	for _, v := range g.Versions {
		if v.Version > MaxSupportedVersion {
			return fmt.Errorf("params version %d is not supported", v.Version)
		}
		if v.CapHeight != 0 && v.CapHeight < v.ActivationHeight {
			return fmt.Errorf("params version %d: cap height %d below activation height %d",
				v.Version, v.CapHeight, v.ActivationHeight)
		}
		if v.MaxStakingAmount != 0 && v.MinStakingAmount > v.MaxStakingAmount {
			return fmt.Errorf("params version %d: min staking amount above max", v.Version)
		}
		if v.MaxStakingTime != 0 && v.MinStakingTime > v.MaxStakingTime {
			return fmt.Errorf("params version %d: min staking time above max", v.Version)
		}
	}

	return nil
}

// ParamsForHeight returns the parameter set of the given payload
// version if that version is active at the height, or nil. A stake
// whose version has no active params at its block height is not a
// valid stake.
func (g *GlobalParams) ParamsForHeight(height uint64, version uint8) *VersionedParams {
	for _, v := range g.Versions {
		if v.Version == version && v.activeAt(height) {
			return v
		}
	}

	return nil
}

func (p *VersionedParams) activeAt(height uint64) bool {
	if height < p.ActivationHeight {
		return false
	}
	if p.CapHeight != 0 && height > p.CapHeight {
		return false
	}

	return true
}

// ValidateStake checks a decoded stake against the version bounds.
// Zero-valued bounds are treated as unset.
func (p *VersionedParams) ValidateStake(amount uint64, stakingTime uint16) types.RejectionReason {
	if amount < p.MinStakingAmount {
		return types.RejectionAmountOutOfRange
	}
	if p.MaxStakingAmount != 0 && amount > p.MaxStakingAmount {
		return types.RejectionAmountOutOfRange
	}

	if stakingTime < p.MinStakingTime {
		return types.RejectionStakingTimeOutOfRange
	}
	if p.MaxStakingTime != 0 && stakingTime > p.MaxStakingTime {
		return types.RejectionStakingTimeOutOfRange
	}

	return types.RejectionNone
}
