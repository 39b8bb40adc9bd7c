package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/staking"
)

// RandomPk generates a random non-zero 32-byte x-only public key.
func RandomPk(t *testing.T) []byte {
	t.Helper()

	pk := make([]byte, staking.PkLen)
	_, err := rand.Read(pk)
	require.NoError(t, err)
	// the decoder rejects all-zero keys
	pk[0] |= 0x01

	return pk
}

func RandomPkHex(t *testing.T) string {
	t.Helper()

	return hex.EncodeToString(RandomPk(t))
}

// RandomPayloadData generates a well-formed staking payload with random
// keys and staking time.
func RandomPayloadData(t *testing.T) *staking.PayloadData {
	t.Helper()

	return &staking.PayloadData{
		Version:            uint8(gofakeit.IntRange(0, staking.MaxSupportedVersion)),
		StakerPk:           RandomPk(t),
		FinalityProviderPk: RandomPk(t),
		StakingTime:        gofakeit.Uint16(),
	}
}
