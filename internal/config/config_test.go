package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("rpc-url", DefaultRPCURL, "")
	flags.String("log-level", "info", "")
	flags.Int("slippage-bps", 100, "")
	flags.String("commitment", "confirmed", "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(100), cfg.SlippageBps)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, rpc.CommitmentConfirmed, cfg.Commitment)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "whirlquote.yaml")
	file, err := yaml.Marshal(map[string]any{
		"rpc-url":      "http://file:8899",
		"slippage-bps": 30,
		"rpc-retries":  7,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgFile, file, 0o600))

	cfg, err := Load(cfgFile, newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "http://file:8899", cfg.RPCURL)
	assert.Equal(t, uint16(30), cfg.SlippageBps)
	assert.Equal(t, 7, cfg.MaxRetries)

	t.Setenv("WHIRLQUOTE_RPC_RETRIES", "9")
	t.Setenv("WHIRLQUOTE_COMMITMENT", "Finalized")
	cfg, err = Load(cfgFile, newFlags(t, "--slippage-bps=50"))
	require.NoError(t, err)
	assert.Equal(t, uint16(50), cfg.SlippageBps, "flag beats file")
	assert.Equal(t, 9, cfg.MaxRetries, "env beats file")
	assert.Equal(t, rpc.CommitmentFinalized, cfg.Commitment)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"empty rpc", []string{"--rpc-url= "}, ErrMissingRPCEndpoint},
		{"slippage too high", []string{"--slippage-bps=10001"}, ErrInvalidSlippage},
		{"negative slippage", []string{"--slippage-bps=-1"}, ErrInvalidSlippage},
		{"bad commitment", []string{"--commitment=recent"}, ErrInvalidCommitment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("", newFlags(t, tt.args...))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}
