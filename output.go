package main

import (
	"encoding/json"
	"strconv"

	"github.com/Solana-ZH/whirlquote/pkg/pool/orca"
	"github.com/spf13/cobra"
)

// Amounts are rendered as strings so u64 and u128 values survive JSON
// consumers that parse numbers as float64.

type swapOutput struct {
	Pool                 string   `json:"pool"`
	Direction            string   `json:"direction"`
	AmountKind           string   `json:"amount_kind"`
	Amount               string   `json:"amount"`
	OtherAmountThreshold string   `json:"other_amount_threshold"`
	EstimatedAmountIn    string   `json:"estimated_amount_in"`
	EstimatedAmountOut   string   `json:"estimated_amount_out"`
	EstimatedFeeAmount   string   `json:"estimated_fee_amount"`
	EstimatedProtocolFee string   `json:"estimated_protocol_fee"`
	StartSqrtPrice       string   `json:"start_sqrt_price"`
	EndSqrtPrice         string   `json:"end_sqrt_price"`
	EndTickIndex         int32    `json:"end_tick_index"`
	EndLiquidity         string   `json:"end_liquidity"`
	RawPriceImpact       string   `json:"raw_price_impact"`
	SqrtPriceLimit       string   `json:"sqrt_price_limit"`
	TickArrays           []string `json:"tick_arrays"`

	// set when the mint decimals could be read
	StartPrice  string `json:"start_price,omitempty"`
	EndPrice    string `json:"end_price,omitempty"`
	UIAmountIn  string `json:"ui_amount_in,omitempty"`
	UIAmountOut string `json:"ui_amount_out,omitempty"`
}

// mintDecimals are the decimals of a pool's token A and token B.
type mintDecimals struct {
	a, b uint8
}

func newSwapOutput(pool *orca.WhirlpoolPool, quote orca.SwapQuote, decimals *mintDecimals) swapOutput {
	tickArrays := make([]string, len(quote.TickArrays))
	for i, addr := range quote.TickArrays {
		tickArrays[i] = addr.String()
	}

	// raw prices ignore mint decimals; the ratio between them does not need them
	start := orca.SqrtPriceX64ToPrice(pool.SqrtPrice, 0, 0)
	end := orca.SqrtPriceX64ToPrice(quote.EstimatedEndSqrtPrice, 0, 0)
	impact := end.Sub(start).Div(start).Abs()

	out := swapOutput{
		Pool:                 pool.PoolId.String(),
		Direction:            quote.Direction.String(),
		AmountKind:           quote.AmountKind.String(),
		Amount:               u64(quote.Amount),
		OtherAmountThreshold: u64(quote.OtherAmountThreshold),
		EstimatedAmountIn:    u64(quote.EstimatedAmountIn),
		EstimatedAmountOut:   u64(quote.EstimatedAmountOut),
		EstimatedFeeAmount:   u64(quote.EstimatedFeeAmount),
		EstimatedProtocolFee: u64(quote.EstimatedProtocolFee),
		StartSqrtPrice:       pool.SqrtPrice.String(),
		EndSqrtPrice:         quote.EstimatedEndSqrtPrice.String(),
		EndTickIndex:         quote.EstimatedEndTickIndex,
		EndLiquidity:         quote.EstimatedEndLiquidity.String(),
		RawPriceImpact:       impact.StringFixed(6),
		SqrtPriceLimit:       quote.SqrtPriceLimit.String(),
		TickArrays:           tickArrays,
	}
	if decimals == nil {
		return out
	}

	decimalsIn, decimalsOut := decimals.b, decimals.a
	if quote.Direction.IsAToB() {
		decimalsIn, decimalsOut = decimals.a, decimals.b
	}
	out.StartPrice = orca.SqrtPriceX64ToPrice(pool.SqrtPrice, decimals.a, decimals.b).String()
	out.EndPrice = orca.SqrtPriceX64ToPrice(quote.EstimatedEndSqrtPrice, decimals.a, decimals.b).String()
	out.UIAmountIn = orca.DecimalUtil.FromU64(quote.EstimatedAmountIn, decimalsIn).String()
	out.UIAmountOut = orca.DecimalUtil.FromU64(quote.EstimatedAmountOut, decimalsOut).String()
	return out
}

type liquidityOutput struct {
	Pool      string `json:"pool"`
	Position  string `json:"position,omitempty"`
	Liquidity string `json:"liquidity"`
	TokenEstA string `json:"token_est_a"`
	TokenEstB string `json:"token_est_b"`
	TokenMaxA string `json:"token_max_a,omitempty"`
	TokenMaxB string `json:"token_max_b,omitempty"`
	TokenMinA string `json:"token_min_a,omitempty"`
	TokenMinB string `json:"token_min_b,omitempty"`
}

type feesOutput struct {
	Position string `json:"position"`
	Status   string `json:"status"`
	FeeOwedA string `json:"fee_owed_a"`
	FeeOwedB string `json:"fee_owed_b"`
}

type rewardOutput struct {
	Index  int    `json:"index"`
	Mint   string `json:"mint"`
	Amount string `json:"amount"`
}

type rewardsOutput struct {
	Position  string         `json:"position"`
	Status    string         `json:"status"`
	Timestamp int64          `json:"timestamp"`
	Rewards   []rewardOutput `json:"rewards"`
}

func u64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
