package sol

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// ErrMintNotFound is returned when a mint account does not exist.
var ErrMintNotFound = errors.New("mint not found")

// DecodeMint parses the base SPL mint layout. Token-2022 mints share it as a
// prefix, so their extensions are ignored.
func DecodeMint(data []byte) (token.Mint, error) {
	var mint token.Mint
	if len(data) < token.MINT_SIZE {
		return mint, fmt.Errorf("mint data is %d bytes, want at least %d", len(data), token.MINT_SIZE)
	}
	if err := mint.UnmarshalWithDecoder(bin.NewBinDecoder(data[:token.MINT_SIZE])); err != nil {
		return mint, fmt.Errorf("failed to decode mint: %w", err)
	}
	if !mint.IsInitialized {
		return mint, errors.New("mint is not initialized")
	}
	return mint, nil
}

// GetMintDecimals reads the decimals of each mint in one batched request.
func (c *Client) GetMintDecimals(ctx context.Context, mints ...solana.PublicKey) (map[solana.PublicKey]uint8, error) {
	data, err := c.GetMultipleAccountsData(ctx, mints)
	if err != nil {
		return nil, err
	}
	decimals := make(map[solana.PublicKey]uint8, len(mints))
	for i, mint := range mints {
		if data[i] == nil {
			return nil, fmt.Errorf("%s: %w", mint, ErrMintNotFound)
		}
		decoded, err := DecodeMint(data[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", mint, err)
		}
		decimals[mint] = decoded.Decimals
	}
	return decimals, nil
}
