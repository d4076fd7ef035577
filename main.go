package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Solana-ZH/whirlquote/internal/config"
	"github.com/Solana-ZH/whirlquote/pkg/protocol"
	"github.com/Solana-ZH/whirlquote/pkg/sol"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "whirlquote",
		Short:        "Off-chain quotes for Orca Whirlpools",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("rpc-url", config.DefaultRPCURL, "Solana RPC URL")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Int("slippage-bps", 100, "slippage tolerance in basis points")
	root.PersistentFlags().Int("rpc-retries", 3, "maximum retry attempts for transient RPC failures")
	root.PersistentFlags().Duration("retry-backoff", 250*time.Millisecond, "initial retry backoff")
	root.PersistentFlags().String("commitment", "confirmed", "commitment (processed, confirmed, finalized)")
	root.PersistentFlags().Bool("refresh", false, "bypass the account snapshot cache")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote swaps, liquidity changes and position earnings",
	}
	quoteCmd.AddCommand(newSwapCmd(), newIncreaseCmd(), newDecreaseCmd(), newFeesCmd(), newRewardsCmd())

	root.AddCommand(quoteCmd, newRouteCmd(), newPriceCmd())
	return root
}

// env is what every online command needs: configuration, a logger and an
// RPC-backed whirlpool protocol.
type env struct {
	cfg     config.Config
	logger  *zap.Logger
	client  *sol.Client
	orca    *protocol.OrcaWhirlpoolProtocol
	refresh bool
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	client := sol.NewClient(cfg.RPCURL,
		sol.WithCommitment(cfg.Commitment),
		sol.WithRetry(cfg.MaxRetries, cfg.RetryBackoff),
		sol.WithLogger(logger),
	)
	refresh, _ := cmd.Flags().GetBool("refresh")

	logger.Debug("rpc client ready",
		zap.String("rpc", cfg.RPCURL),
		zap.String("commitment", string(cfg.Commitment)),
		zap.Int("max_retries", cfg.MaxRetries),
	)
	return &env{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		orca:    protocol.NewOrcaWhirlpool(client, protocol.WithLogger(logger)),
		refresh: refresh,
	}, nil
}

func (e *env) close() {
	if err := e.client.Close(); err != nil {
		e.logger.Debug("close rpc client", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
