package sol

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

var (
	WSOL = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	USDC = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	USDT = solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
)

var knownMints = map[string]solana.PublicKey{
	"SOL":  WSOL,
	"WSOL": WSOL,
	"USDC": USDC,
	"USDT": USDT,
}

// ResolveMint accepts a base58 mint address or a well-known symbol.
func ResolveMint(s string) (solana.PublicKey, error) {
	if mint, ok := knownMints[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return mint, nil
	}
	mint, err := solana.PublicKeyFromBase58(strings.TrimSpace(s))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid mint %q: %w", s, err)
	}
	return mint, nil
}
