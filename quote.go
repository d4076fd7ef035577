package main

import (
	"fmt"
	"time"

	"github.com/Solana-ZH/whirlquote/pkg/pool/orca"
	"github.com/Solana-ZH/whirlquote/pkg/protocol"
	"github.com/Solana-ZH/whirlquote/pkg/sol"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"lukechampine.com/uint128"
)

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Quote a swap against one whirlpool",
		RunE:  runSwap,
	}
	cmd.Flags().String("pool", "", "whirlpool address")
	cmd.Flags().String("mint", "", "input mint, or output mint with --exact-out (address or symbol)")
	cmd.Flags().Uint64("amount", 0, "token amount in base units")
	cmd.Flags().Bool("exact-out", false, "treat --amount as the exact output")
	_ = cmd.MarkFlagRequired("pool")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runSwap(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	poolKey, err := pubkeyFlag(cmd, "pool")
	if err != nil {
		return err
	}
	mintFlag, _ := cmd.Flags().GetString("mint")
	mint, err := sol.ResolveMint(mintFlag)
	if err != nil {
		return err
	}
	amount, _ := cmd.Flags().GetUint64("amount")
	exactOut, _ := cmd.Flags().GetBool("exact-out")

	ctx := cmd.Context()
	pool, err := e.orca.FetchWhirlpool(ctx, poolKey, e.refresh)
	if err != nil {
		return err
	}
	direction, err := pool.Direction(mint)
	if err != nil {
		return err
	}
	if exactOut {
		direction = orca.SwapDirectionFromAToB(!direction.IsAToB())
	}
	tickArrays, err := e.orca.FetchTickArrays(ctx, pool, direction, e.refresh)
	if err != nil {
		return err
	}

	slippage := orca.PercentageFromBps(e.cfg.SlippageBps)
	var quote orca.SwapQuote
	if exactOut {
		quote, err = orca.SwapQuoteByOutputToken(pool, mint, amount, slippage, tickArrays)
	} else {
		quote, err = orca.SwapQuoteByInputToken(pool, mint, amount, slippage, tickArrays)
	}
	if err != nil {
		return err
	}

	e.logger.Info("swap quoted",
		zap.String("pool", poolKey.String()),
		zap.Stringer("direction", quote.Direction),
		zap.Stringer("kind", quote.AmountKind),
		zap.Uint64("amount", amount),
	)

	var decimals *mintDecimals
	if d, err := e.client.GetMintDecimals(ctx, pool.TokenMintA, pool.TokenMintB); err != nil {
		e.logger.Warn("mint decimals unavailable, reporting raw amounts only", zap.Error(err))
	} else {
		decimals = &mintDecimals{a: d[pool.TokenMintA], b: d[pool.TokenMintB]}
	}
	return writeJSON(cmd, newSwapOutput(pool, quote, decimals))
}

func newIncreaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "increase",
		Short: "Quote depositing one token into a tick range",
		RunE:  runIncrease,
	}
	cmd.Flags().String("pool", "", "whirlpool address")
	cmd.Flags().String("mint", "", "deposited mint (address or symbol)")
	cmd.Flags().Uint64("amount", 0, "deposited amount in base units")
	cmd.Flags().Int32("lower", 0, "lower tick index")
	cmd.Flags().Int32("upper", 0, "upper tick index")
	_ = cmd.MarkFlagRequired("pool")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runIncrease(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	poolKey, err := pubkeyFlag(cmd, "pool")
	if err != nil {
		return err
	}
	mintFlag, _ := cmd.Flags().GetString("mint")
	mint, err := sol.ResolveMint(mintFlag)
	if err != nil {
		return err
	}
	amount, _ := cmd.Flags().GetUint64("amount")
	lower, _ := cmd.Flags().GetInt32("lower")
	upper, _ := cmd.Flags().GetInt32("upper")

	pool, err := e.orca.FetchWhirlpool(cmd.Context(), poolKey, e.refresh)
	if err != nil {
		return err
	}
	quote, err := orca.IncreaseLiquidityQuoteByInputTokenWithPool(pool, mint, amount, lower, upper, orca.PercentageFromBps(e.cfg.SlippageBps))
	if err != nil {
		return err
	}
	return writeJSON(cmd, liquidityOutput{
		Pool:      poolKey.String(),
		Liquidity: quote.LiquidityAmount.String(),
		TokenEstA: u64(quote.TokenEstA),
		TokenEstB: u64(quote.TokenEstB),
		TokenMaxA: u64(quote.TokenMaxA),
		TokenMaxB: u64(quote.TokenMaxB),
	})
}

func newDecreaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrease",
		Short: "Quote withdrawing liquidity from a position",
		RunE:  runDecrease,
	}
	addPositionFlags(cmd)
	cmd.Flags().String("liquidity", "", "liquidity to withdraw (defaults to all of it)")
	return cmd
}

func runDecrease(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	snapshot, err := fetchPosition(cmd, e)
	if err != nil {
		return err
	}
	liquidity := snapshot.Position.Liquidity
	if s, _ := cmd.Flags().GetString("liquidity"); s != "" {
		liquidity, err = uint128.FromString(s)
		if err != nil {
			return fmt.Errorf("invalid liquidity %q: %w", s, err)
		}
	}

	quote, err := orca.DecreaseLiquidityQuoteByLiquidityWithPool(snapshot.Pool, snapshot.Position, liquidity, orca.PercentageFromBps(e.cfg.SlippageBps))
	if err != nil {
		return err
	}
	return writeJSON(cmd, liquidityOutput{
		Pool:      snapshot.Pool.PoolId.String(),
		Position:  snapshot.Position.Address.String(),
		Liquidity: quote.LiquidityAmount.String(),
		TokenEstA: u64(quote.TokenEstA),
		TokenEstB: u64(quote.TokenEstB),
		TokenMinA: u64(quote.TokenMinA),
		TokenMinB: u64(quote.TokenMinB),
	})
}

func newFeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Quote the fees a position can collect",
		RunE:  runFees,
	}
	addPositionFlags(cmd)
	return cmd
}

func runFees(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	snapshot, err := fetchPosition(cmd, e)
	if err != nil {
		return err
	}
	quote, err := snapshot.FeesQuote()
	if err != nil {
		return err
	}
	return writeJSON(cmd, feesOutput{
		Position: snapshot.Position.Address.String(),
		Status:   positionStatus(snapshot),
		FeeOwedA: u64(quote.FeeOwedA),
		FeeOwedB: u64(quote.FeeOwedB),
	})
}

func newRewardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Quote the rewards a position can collect",
		RunE:  runRewards,
	}
	addPositionFlags(cmd)
	cmd.Flags().Int64("timestamp", 0, "unix time to extrapolate emissions to (defaults to now)")
	return cmd
}

func runRewards(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	snapshot, err := fetchPosition(cmd, e)
	if err != nil {
		return err
	}
	ts, _ := cmd.Flags().GetInt64("timestamp")
	if ts <= 0 {
		ts = time.Now().Unix()
	}
	quote, err := snapshot.RewardsQuote(uint64(ts))
	if err != nil {
		return err
	}

	out := rewardsOutput{
		Position:  snapshot.Position.Address.String(),
		Status:    positionStatus(snapshot),
		Timestamp: ts,
	}
	for i, reward := range quote {
		if !reward.Initialized {
			continue
		}
		out.Rewards = append(out.Rewards, rewardOutput{
			Index:  i,
			Mint:   snapshot.Pool.RewardInfos[i].Mint.String(),
			Amount: u64(reward.Amount),
		})
	}
	return writeJSON(cmd, out)
}

func addPositionFlags(cmd *cobra.Command) {
	cmd.Flags().String("position", "", "position address")
	cmd.Flags().String("position-mint", "", "position NFT mint, instead of --position")
	cmd.MarkFlagsOneRequired("position", "position-mint")
	cmd.MarkFlagsMutuallyExclusive("position", "position-mint")
}

func fetchPosition(cmd *cobra.Command, e *env) (*protocol.PositionSnapshot, error) {
	if s, _ := cmd.Flags().GetString("position-mint"); s != "" {
		mint, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			return nil, fmt.Errorf("invalid position mint: %w", err)
		}
		return e.orca.FetchPositionByMint(cmd.Context(), mint, e.refresh)
	}
	address, err := pubkeyFlag(cmd, "position")
	if err != nil {
		return nil, err
	}
	return e.orca.FetchPosition(cmd.Context(), address, e.refresh)
}

func positionStatus(s *protocol.PositionSnapshot) string {
	return orca.GetPositionStatus(s.Pool.TickCurrentIndex, s.Position.TickLowerIndex, s.Position.TickUpperIndex).String()
}

func pubkeyFlag(cmd *cobra.Command, name string) (solana.PublicKey, error) {
	s, _ := cmd.Flags().GetString(name)
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid --%s %q: %w", name, s, err)
	}
	return key, nil
}
