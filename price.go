package main

import (
	"errors"
	"fmt"

	"github.com/Solana-ZH/whirlquote/pkg/pool/orca"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"lukechampine.com/uint128"
)

func newPriceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Convert between prices, sqrt prices and tick indexes offline",
		RunE:  runPrice,
	}
	cmd.Flags().String("price", "", "decimal price of token A in token B")
	cmd.Flags().String("sqrt-price", "", "Q64.64 sqrt price")
	cmd.Flags().Int32("tick", 0, "tick index")
	cmd.Flags().Uint8("decimals-a", 0, "decimals of token A")
	cmd.Flags().Uint8("decimals-b", 0, "decimals of token B")
	cmd.Flags().Uint16("tick-spacing", 0, "also report the nearest initializable tick")
	cmd.MarkFlagsOneRequired("price", "sqrt-price", "tick")
	cmd.MarkFlagsMutuallyExclusive("price", "sqrt-price", "tick")
	return cmd
}

type priceOutput struct {
	Price              string `json:"price"`
	InvertedPrice      string `json:"inverted_price"`
	SqrtPrice          string `json:"sqrt_price"`
	TickIndex          int32  `json:"tick_index"`
	InitializableTick  *int32 `json:"initializable_tick,omitempty"`
	TickArrayStartTick *int32 `json:"tick_array_start_index,omitempty"`
}

func runPrice(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	var in priceInput
	in.price, _ = flags.GetString("price")
	in.sqrtPrice, _ = flags.GetString("sqrt-price")
	in.tick, _ = flags.GetInt32("tick")
	in.decimalsA, _ = flags.GetUint8("decimals-a")
	in.decimalsB, _ = flags.GetUint8("decimals-b")
	in.tickSpacing, _ = flags.GetUint16("tick-spacing")

	out, err := convertPrice(in)
	if err != nil {
		return err
	}
	return writeJSON(cmd, out)
}

// priceInput holds one of price, sqrtPrice or tick; the first set one wins.
type priceInput struct {
	price       string
	sqrtPrice   string
	tick        int32
	decimalsA   uint8
	decimalsB   uint8
	tickSpacing uint16
}

func convertPrice(in priceInput) (priceOutput, error) {
	var sqrtPrice uint128.Uint128
	switch {
	case in.price != "":
		price, err := decimal.NewFromString(in.price)
		if err != nil {
			return priceOutput{}, fmt.Errorf("invalid --price: %w", err)
		}
		sqrtPrice, err = orca.PriceToSqrtPriceX64(price, in.decimalsA, in.decimalsB)
		if err != nil {
			return priceOutput{}, err
		}
	case in.sqrtPrice != "":
		var err error
		sqrtPrice, err = uint128.FromString(in.sqrtPrice)
		if err != nil {
			return priceOutput{}, fmt.Errorf("invalid --sqrt-price: %w", err)
		}
		if !orca.IsSqrtPriceInBounds(sqrtPrice) {
			return priceOutput{}, fmt.Errorf("sqrt price %s: %w", sqrtPrice, orca.ErrSqrtPriceOutOfBounds)
		}
	default:
		var err error
		sqrtPrice, err = orca.TickIndexToSqrtPriceX64(in.tick)
		if err != nil {
			return priceOutput{}, err
		}
	}

	tickIndex, err := orca.SqrtPriceX64ToTickIndex(sqrtPrice)
	if err != nil {
		return priceOutput{}, err
	}
	price := orca.SqrtPriceX64ToPrice(sqrtPrice, in.decimalsA, in.decimalsB)
	if price.IsZero() {
		return priceOutput{}, errors.New("price rounds to zero")
	}
	inverted, err := orca.InvertPrice(price, in.decimalsA, in.decimalsB)
	if err != nil {
		return priceOutput{}, err
	}
	out := priceOutput{
		Price:         price.String(),
		InvertedPrice: inverted.String(),
		SqrtPrice:     sqrtPrice.String(),
		TickIndex:     tickIndex,
	}

	if in.tickSpacing > 0 {
		tick := orca.GetInitializableTickIndex(tickIndex, in.tickSpacing)
		start, err := orca.GetStartTickIndex(tickIndex, in.tickSpacing, 0)
		if err != nil {
			return priceOutput{}, err
		}
		out.InitializableTick = &tick
		out.TickArrayStartTick = &start
	}
	return out, nil
}
