package types

// RejectionReason tags why an OP_RETURN payload (or the transaction
// carrying it) was not accepted as a stake. Rejections are routine on a
// public chain and are only counted, never treated as errors.
type RejectionReason string

const (
	// RejectionNone is the zero value meaning the payload was accepted.
	RejectionNone RejectionReason = ""

	RejectionTooShort           RejectionReason = "too_short"
	RejectionBadMagic           RejectionReason = "bad_magic"
	RejectionUnsupportedVersion RejectionReason = "unsupported_version"
	RejectionMalformedKey       RejectionReason = "malformed_key"

	RejectionWrongOutputCount RejectionReason = "wrong_output_count"
	RejectionNoStakingOutput  RejectionReason = "no_staking_output"

	RejectionNoParamsForHeight     RejectionReason = "no_params_for_height"
	RejectionStakingTimeOutOfRange RejectionReason = "staking_time_out_of_range"
	RejectionAmountOutOfRange      RejectionReason = "amount_out_of_range"
)

func (r RejectionReason) String() string {
	return string(r)
}
