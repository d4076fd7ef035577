package pkg

import (
	"context"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
)

// ProtocolName represents the string name of AMM protocol
type ProtocolName string

const (
	ProtocolNameOrcaWhirlpool ProtocolName = "orca_whirlpool"
)

// ProtocolType represents the numeric type of AMM protocol
type ProtocolType uint8

const (
	ProtocolTypeOrcaWhirlpool ProtocolType = 5
)

// Pool is a quotable pool snapshot. Quote is pure: everything it needs must
// already be loaded into the snapshot.
type Pool interface {
	ProtocolName() ProtocolName
	ProtocolType() ProtocolType
	GetProgramID() solana.PublicKey
	GetID() string
	GetTokens() (baseMint, quoteMint string)
	Quote(inputMint string, inputAmount math.Int) (math.Int, error)
}

// Protocol loads pool snapshots from the chain.
type Protocol interface {
	FetchPoolsByPair(ctx context.Context, baseMint, quoteMint string) ([]Pool, error)
	FetchPoolByID(ctx context.Context, poolID string) (Pool, error)
}
