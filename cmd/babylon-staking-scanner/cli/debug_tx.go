package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/babylonlabs-io/babylon-staking-scanner/internal/clients/btcclient"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/config"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/observability/tracing"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/staking"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/types"
	"github.com/babylonlabs-io/babylon-staking-scanner/internal/utils"
)

func DebugTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug-tx [txid]",
		Short: "Fetches a single transaction and explains how the scanner would classify it",
		Args:  cobra.ExactArgs(1),
		RunE:  runDebugTx,
	}

	return cmd
}

type txOutputInfo struct {
	Index      int      `json:"index"`
	ValueSats  int64    `json:"value_sats"`
	PkScript   string   `json:"pk_script"`
	Addresses  []string `json:"addresses,omitempty"`
	IsOpReturn bool     `json:"is_op_return"`
	IsTaproot  bool     `json:"is_taproot"`
}

type txPayloadInfo struct {
	Version               uint8  `json:"version"`
	StakerPkHex           string `json:"staker_pk_hex"`
	FinalityProviderPkHex string `json:"finality_provider_pk_hex"`
	StakingTime           uint16 `json:"staking_time"`
}

type txDebugInfo struct {
	TxID            string         `json:"txid"`
	OutputCount     int            `json:"output_count"`
	Outputs         []txOutputInfo `json:"outputs"`
	OpReturnFound   bool           `json:"op_return_found"`
	PayloadHex      string         `json:"payload_hex,omitempty"`
	Payload         *txPayloadInfo `json:"payload,omitempty"`
	StakingAmount   uint64         `json:"staking_amount,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
}

// buildTxDebugInfo runs one transaction through the same
// extract-decode-classify steps as the scanner and records the verdict
// of every step. Output addresses are rendered for the configured
// network.
func buildTxDebugInfo(txID string, msgTx *wire.MsgTx, magicTag []byte, netParams *chaincfg.Params) *txDebugInfo {
	info := &txDebugInfo{
		TxID:        txID,
		OutputCount: len(msgTx.TxOut),
	}
	for i, out := range msgTx.TxOut {
		outputInfo := txOutputInfo{
			Index:      i,
			ValueSats:  out.Value,
			PkScript:   hex.EncodeToString(out.PkScript),
			IsOpReturn: len(out.PkScript) > 0 && out.PkScript[0] == txscript.OP_RETURN,
			IsTaproot:  txscript.IsPayToTaproot(out.PkScript),
		}
		if _, addrs, _, err := txscript.ExtractPkScriptAddrs(out.PkScript, netParams); err == nil {
			for _, addr := range addrs {
				outputInfo.Addresses = append(outputInfo.Addresses, addr.EncodeAddress())
			}
		}
		info.Outputs = append(info.Outputs, outputInfo)
	}

	payload, found := staking.ExtractOpReturnData(msgTx)
	info.OpReturnFound = found
	if !found {
		return info
	}
	info.PayloadHex = hex.EncodeToString(payload)

	data, reason := staking.ParsePayload(magicTag, payload)
	if reason != types.RejectionNone {
		info.RejectionReason = reason.String()
		return info
	}

	amount, reason := staking.StakingOutputValue(msgTx)
	if reason != types.RejectionNone {
		info.RejectionReason = reason.String()
		return info
	}

	info.Payload = &txPayloadInfo{
		Version:               data.Version,
		StakerPkHex:           data.StakerPkHex(),
		FinalityProviderPkHex: data.FinalityProviderPkHex(),
		StakingTime:           data.StakingTime,
	}
	info.StakingAmount = amount

	return info
}

func runDebugTx(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("error while loading config file: %s", cfgPath)
	}

	txHash, err := chainhash.NewHashFromStr(args[0])
	if err != nil {
		return fmt.Errorf("invalid transaction id %s: %w", args[0], err)
	}

	magicTag, err := cfg.Scanner.MagicTag()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid magic tag in config")
	}

	netParams, err := utils.GetBTCParams(cfg.BTC.NetParams)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid network in config")
	}

	btcClient, err := btcclient.NewBTCClient(&cfg.BTC)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating btc client")
	}

	tx, err := btcClient.GetRawTransaction(ctx, txHash)
	if err != nil {
		log.Fatal().Err(err).Msg("error while fetching transaction")
	}

	info := buildTxDebugInfo(args[0], tx.MsgTx(), magicTag, netParams)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}
