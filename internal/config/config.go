package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const DefaultRPCURL = "https://api.mainnet-beta.solana.com"

var (
	ErrMissingRPCEndpoint = errors.New("rpc url is required")
	ErrInvalidSlippage    = errors.New("slippage must be between 0 and 10000 bps")
	ErrInvalidCommitment  = errors.New("commitment must be processed, confirmed or finalized")
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL       string
	LogLevel     string
	SlippageBps  uint16
	MaxRetries   int
	RetryBackoff time.Duration
	Commitment   rpc.CommitmentType
}

// Load merges config file, environment variables (WHIRLQUOTE_*), and flags
// into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WHIRLQUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc-url", DefaultRPCURL)
	v.SetDefault("log-level", "info")
	v.SetDefault("slippage-bps", 100)
	v.SetDefault("rpc-retries", 3)
	v.SetDefault("retry-backoff", 250*time.Millisecond)
	v.SetDefault("commitment", string(rpc.CommitmentConfirmed))

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	slippage := v.GetInt("slippage-bps")
	if slippage < 0 || slippage > 10_000 {
		return Config{}, fmt.Errorf("slippage-bps %d: %w", slippage, ErrInvalidSlippage)
	}

	cfg := Config{
		RPCURL:       strings.TrimSpace(v.GetString("rpc-url")),
		LogLevel:     v.GetString("log-level"),
		SlippageBps:  uint16(slippage),
		MaxRetries:   v.GetInt("rpc-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		Commitment:   rpc.CommitmentType(strings.ToLower(v.GetString("commitment"))),
	}
	if cfg.RPCURL == "" {
		return Config{}, ErrMissingRPCEndpoint
	}
	switch cfg.Commitment {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return Config{}, fmt.Errorf("commitment %q: %w", cfg.Commitment, ErrInvalidCommitment)
	}

	return cfg, nil
}
