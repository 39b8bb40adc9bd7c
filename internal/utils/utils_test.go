package utils

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBTCParams(t *testing.T) {
	testCases := []struct {
		net      string
		expected *chaincfg.Params
	}{
		{net: "mainnet", expected: &chaincfg.MainNetParams},
		{net: "testnet", expected: &chaincfg.TestNet3Params},
		{net: "simnet", expected: &chaincfg.SimNetParams},
		{net: "regtest", expected: &chaincfg.RegressionNetParams},
		{net: "signet", expected: &chaincfg.SigNetParams},
	}

	for _, tc := range testCases {
		t.Run(tc.net, func(t *testing.T) {
			params, err := GetBTCParams(tc.net)
			require.NoError(t, err)
			assert.Same(t, tc.expected, params)
		})
	}
}

func TestGetBTCParamsUnknownNetwork(t *testing.T) {
	_, err := GetBTCParams("betanet")
	require.Error(t, err)
}

func TestGetValidNetParamsMatchesGetBTCParams(t *testing.T) {
	for net := range GetValidNetParams() {
		_, err := GetBTCParams(net)
		require.NoError(t, err)
	}
}
