package staking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/staking"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
	"github.com/babylonlabs-io/babylon-staking-scanner/testutil"
)

var testTag = []byte("bbn1")

func TestPayloadRoundTrip(t *testing.T) {
	for range 20 {
		data := testutil.RandomPayloadData(t)

		payload, err := data.Encode(testTag)
		require.NoError(t, err)
		require.Len(t, payload, staking.PayloadSize)

		decoded, reason := staking.ParsePayload(testTag, payload)
		require.Equal(t, types.RejectionNone, reason)
		assert.Equal(t, data, decoded)

		reencoded, err := decoded.Encode(testTag)
		require.NoError(t, err)
		assert.Equal(t, payload, reencoded)
	}
}

func TestParsePayloadTooShort(t *testing.T) {
	data := testutil.RandomPayloadData(t)
	payload, err := data.Encode(testTag)
	require.NoError(t, err)

	// every strict prefix is rejected as too short, including the
	// empty payload of a bare OP_RETURN
	for size := 0; size < staking.PayloadSize; size++ {
		decoded, reason := staking.ParsePayload(testTag, payload[:size])
		assert.Nil(t, decoded)
		assert.Equal(t, types.RejectionTooShort, reason)
	}
}

func TestParsePayloadBadMagic(t *testing.T) {
	data := testutil.RandomPayloadData(t)
	payload, err := data.Encode(testTag)
	require.NoError(t, err)

	for _, wrongTag := range [][]byte{
		[]byte("bbt2"),
		[]byte("xxxx"),
		{0x00, 0x00, 0x00, 0x00},
	} {
		mutated := append([]byte{}, payload...)
		copy(mutated, wrongTag)

		decoded, reason := staking.ParsePayload(testTag, mutated)
		assert.Nil(t, decoded)
		assert.Equal(t, types.RejectionBadMagic, reason)
	}
}

func TestParsePayloadUnsupportedVersion(t *testing.T) {
	data := testutil.RandomPayloadData(t)
	payload, err := data.Encode(testTag)
	require.NoError(t, err)

	for _, version := range []byte{staking.MaxSupportedVersion + 1, 0x7f, 0xff} {
		mutated := append([]byte{}, payload...)
		mutated[staking.MagicTagLen] = version

		decoded, reason := staking.ParsePayload(testTag, mutated)
		assert.Nil(t, decoded)
		assert.Equal(t, types.RejectionUnsupportedVersion, reason)
	}
}

func TestParsePayloadMalformedKey(t *testing.T) {
	zeroKey := make([]byte, staking.PkLen)

	t.Run("zero staker key", func(t *testing.T) {
		data := testutil.RandomPayloadData(t)
		payload, err := data.Encode(testTag)
		require.NoError(t, err)
		copy(payload[staking.MagicTagLen+1:], zeroKey)

		decoded, reason := staking.ParsePayload(testTag, payload)
		assert.Nil(t, decoded)
		assert.Equal(t, types.RejectionMalformedKey, reason)
	})

	t.Run("zero finality provider key", func(t *testing.T) {
		data := testutil.RandomPayloadData(t)
		payload, err := data.Encode(testTag)
		require.NoError(t, err)
		copy(payload[staking.MagicTagLen+1+staking.PkLen:], zeroKey)

		decoded, reason := staking.ParsePayload(testTag, payload)
		assert.Nil(t, decoded)
		assert.Equal(t, types.RejectionMalformedKey, reason)
	})
}

func TestParsePayloadDeterministic(t *testing.T) {
	data := testutil.RandomPayloadData(t)
	payload, err := data.Encode(testTag)
	require.NoError(t, err)

	first, firstReason := staking.ParsePayload(testTag, payload)
	second, secondReason := staking.ParsePayload(testTag, payload)
	assert.Equal(t, first, second)
	assert.Equal(t, firstReason, secondReason)
}

func TestEncodeRejectsMalformedData(t *testing.T) {
	valid := testutil.RandomPayloadData(t)

	testCases := []struct {
		name   string
		mutate func(d *staking.PayloadData)
	}{
		{
			name:   "unsupported version",
			mutate: func(d *staking.PayloadData) { d.Version = staking.MaxSupportedVersion + 1 },
		},
		{
			name:   "short staker key",
			mutate: func(d *staking.PayloadData) { d.StakerPk = d.StakerPk[:16] },
		},
		{
			name:   "zero finality provider key",
			mutate: func(d *staking.PayloadData) { d.FinalityProviderPk = make([]byte, staking.PkLen) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := *valid
			data.StakerPk = append([]byte{}, valid.StakerPk...)
			data.FinalityProviderPk = append([]byte{}, valid.FinalityProviderPk...)
			tc.mutate(&data)

			_, err := data.Encode(testTag)
			require.Error(t, err)
		})
	}
}
