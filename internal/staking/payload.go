package staking

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
)

const (
	// MagicTagLen is the length of the protocol marker opening every
	// staking payload.
	MagicTagLen = 4
	versionLen  = 1
	// PkLen is the length of a BIP-340 x-only public key.
	PkLen          = 32
	stakingTimeLen = 2

	// PayloadSize is the full size of a phase-1 staking payload:
	// tag || version || staker pk || finality provider pk || staking time.
	PayloadSize = MagicTagLen + versionLen + 2*PkLen + stakingTimeLen

	// MaxSupportedVersion is the highest payload version this decoder
	// understands. Later versions are rejected rather than guessed at.
	MaxSupportedVersion = 2
)

// PayloadData holds the fields decoded from a staking OP_RETURN
// payload. The staked amount is not part of the payload; it lives on
// the transaction's staking output.
type PayloadData struct {
	Version            uint8
	StakerPk           []byte
	FinalityProviderPk []byte
	StakingTime        uint16
}

func (d *PayloadData) StakerPkHex() string {
	return hex.EncodeToString(d.StakerPk)
}

func (d *PayloadData) FinalityProviderPkHex() string {
	return hex.EncodeToString(d.FinalityProviderPk)
}

// ParsePayload decodes a staking payload against the expected magic
// tag. Decoding is all-or-nothing and deterministic: it either returns
// the decoded fields with types.RejectionNone, or nil with the reason
// the payload was rejected. Field boundaries are fixed offsets, there
// is no delimiter scanning.
func ParsePayload(tag, payload []byte) (*PayloadData, types.RejectionReason) {
	if len(payload) < PayloadSize {
		return nil, types.RejectionTooShort
	}

	if !bytes.Equal(payload[:MagicTagLen], tag) {
		return nil, types.RejectionBadMagic
	}

	version := payload[MagicTagLen]
	if version > MaxSupportedVersion {
		return nil, types.RejectionUnsupportedVersion
	}

	const (
		stakerPkStart    = MagicTagLen + versionLen
		fpPkStart        = stakerPkStart + PkLen
		stakingTimeStart = fpPkStart + PkLen
	)

	stakerPk := payload[stakerPkStart:fpPkStart]
	fpPk := payload[fpPkStart:stakingTimeStart]
	if isZeroKey(stakerPk) || isZeroKey(fpPk) {
		return nil, types.RejectionMalformedKey
	}

	stakingTime := binary.BigEndian.Uint16(payload[stakingTimeStart : stakingTimeStart+stakingTimeLen])

	return &PayloadData{
		Version:            version,
		StakerPk:           bytes.Clone(stakerPk),
		FinalityProviderPk: bytes.Clone(fpPk),
		StakingTime:        stakingTime,
	}, types.RejectionNone
}

// Encode serializes the payload with the given tag. It is the exact
// inverse of ParsePayload for well-formed data.
func (d *PayloadData) Encode(tag []byte) ([]byte, error) {
	if len(tag) != MagicTagLen {
		return nil, fmt.Errorf("magic tag must be %d bytes, got %d", MagicTagLen, len(tag))
	}
	if d.Version > MaxSupportedVersion {
		return nil, fmt.Errorf("unsupported payload version %d", d.Version)
	}
	if len(d.StakerPk) != PkLen || isZeroKey(d.StakerPk) {
		return nil, fmt.Errorf("staker public key must be a non-zero %d-byte key", PkLen)
	}
	if len(d.FinalityProviderPk) != PkLen || isZeroKey(d.FinalityProviderPk) {
		return nil, fmt.Errorf("finality provider public key must be a non-zero %d-byte key", PkLen)
	}

	payload := make([]byte, 0, PayloadSize)
	payload = append(payload, tag...)
	payload = append(payload, d.Version)
	payload = append(payload, d.StakerPk...)
	payload = append(payload, d.FinalityProviderPk...)
	payload = binary.BigEndian.AppendUint16(payload, d.StakingTime)

	return payload, nil
}

func isZeroKey(pk []byte) bool {
	for _, b := range pk {
		if b != 0 {
			return false
		}
	}
	return true
}
