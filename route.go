package main

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/Solana-ZH/whirlquote/pkg"
	"github.com/Solana-ZH/whirlquote/pkg/router"
	"github.com/Solana-ZH/whirlquote/pkg/sol"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRouteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Find the best whirlpool for an exact input swap",
		RunE:  runRoute,
	}
	cmd.Flags().String("in", "", "input mint (address or symbol)")
	cmd.Flags().String("out", "", "output mint (address or symbol)")
	cmd.Flags().String("via", "", "intermediate mint for a two hop route")
	cmd.Flags().String("amount", "", "input amount in base units")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

type routeHop struct {
	Pool      string `json:"pool"`
	InputMint string `json:"input_mint"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
}

type routeOutput struct {
	AmountIn  string     `json:"amount_in"`
	AmountOut string     `json:"amount_out"`
	Hops      []routeHop `json:"hops"`
}

func runRoute(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	in, err := mintFlag(cmd, "in")
	if err != nil {
		return err
	}
	out, err := mintFlag(cmd, "out")
	if err != nil {
		return err
	}
	amountFlag, _ := cmd.Flags().GetString("amount")
	amount, ok := math.NewIntFromString(amountFlag)
	if !ok || !amount.IsPositive() {
		return fmt.Errorf("invalid --amount %q", amountFlag)
	}

	r := router.NewSimpleRouter([]pkg.Protocol{e.orca}, router.WithLogger(e.logger))

	if via, _ := cmd.Flags().GetString("via"); via != "" {
		mid, err := sol.ResolveMint(via)
		if err != nil {
			return err
		}
		quote, err := r.QuoteTwoHop(cmd.Context(), in, mid.String(), out, amount)
		if err != nil {
			return err
		}
		return writeJSON(cmd, routeOutput{
			AmountIn:  amount.String(),
			AmountOut: quote.AmountOut().String(),
			Hops:      []routeHop{newRouteHop(quote.First), newRouteHop(quote.Second)},
		})
	}

	pools, err := r.QueryAllPools(cmd.Context(), in, out)
	if err != nil {
		return err
	}
	e.logger.Info("pools loaded", zap.Int("pools", len(pools)))

	best, amountOut, err := r.GetBestPool(in, out, amount)
	if err != nil {
		return err
	}
	return writeJSON(cmd, routeOutput{
		AmountIn:  amount.String(),
		AmountOut: amountOut.String(),
		Hops: []routeHop{{
			Pool:      best.GetID(),
			InputMint: in,
			AmountIn:  amount.String(),
			AmountOut: amountOut.String(),
		}},
	})
}

func newRouteHop(h router.Hop) routeHop {
	return routeHop{
		Pool:      h.Pool.GetID(),
		InputMint: h.InputMint,
		AmountIn:  h.AmountIn.String(),
		AmountOut: h.AmountOut.String(),
	}
}

func mintFlag(cmd *cobra.Command, name string) (string, error) {
	s, _ := cmd.Flags().GetString(name)
	mint, err := sol.ResolveMint(s)
	if err != nil {
		return "", fmt.Errorf("--%s: %w", name, err)
	}
	return mint.String(), nil
}
