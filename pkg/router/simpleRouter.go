package router

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/math"
	"github.com/Solana-ZH/whirlquote/pkg"
	"go.uber.org/zap"
)

// ErrNoRoute is returned when no pool can quote the requested swap.
var ErrNoRoute = errors.New("no route found")

type SimpleRouter struct {
	protocols []pkg.Protocol
	pools     []pkg.Pool
	logger    *zap.Logger
}

type Option func(*SimpleRouter)

func WithLogger(logger *zap.Logger) Option {
	return func(r *SimpleRouter) { r.logger = logger }
}

func NewSimpleRouter(protocols []pkg.Protocol, opts ...Option) *SimpleRouter {
	r := &SimpleRouter{
		protocols: protocols,
		pools:     []pkg.Pool{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// QueryAllPools replaces the router's pool set with every pool the protocols
// return for the pair. A protocol that fails is logged and skipped.
func (r *SimpleRouter) QueryAllPools(ctx context.Context, baseMint, quoteMint string) ([]pkg.Pool, error) {
	pools, err := r.fetchPools(ctx, baseMint, quoteMint)
	if err != nil {
		return nil, err
	}
	r.pools = pools
	return r.pools, nil
}

func (r *SimpleRouter) fetchPools(ctx context.Context, baseMint, quoteMint string) ([]pkg.Pool, error) {
	seen := make(map[string]bool)
	var pools []pkg.Pool
	for _, proto := range r.protocols {
		fetched, err := proto.FetchPoolsByPair(ctx, baseMint, quoteMint)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("protocol failed to fetch pools", zap.String("base", baseMint), zap.String("quote", quoteMint), zap.Error(err))
			continue
		}
		for _, pool := range fetched {
			if seen[pool.GetID()] {
				continue
			}
			seen[pool.GetID()] = true
			pools = append(pools, pool)
		}
	}
	return pools, nil
}

// GetBestPool quotes amountIn against every loaded pool trading tokenIn for
// tokenOut and returns the one with the largest output.
func (r *SimpleRouter) GetBestPool(tokenIn, tokenOut string, amountIn math.Int) (pkg.Pool, math.Int, error) {
	return r.bestPool(r.pools, tokenIn, tokenOut, amountIn)
}

func (r *SimpleRouter) bestPool(pools []pkg.Pool, tokenIn, tokenOut string, amountIn math.Int) (pkg.Pool, math.Int, error) {
	var best pkg.Pool
	maxOut := math.ZeroInt()
	for _, pool := range pools {
		if !trades(pool, tokenIn, tokenOut) {
			continue
		}
		outAmount, err := pool.Quote(tokenIn, amountIn)
		if err != nil {
			r.logger.Debug("error quoting", zap.String("pool", pool.GetID()), zap.Error(err))
			continue
		}
		if best == nil || outAmount.GT(maxOut) {
			maxOut = outAmount
			best = pool
		}
	}
	if best == nil {
		return nil, math.ZeroInt(), fmt.Errorf("%s -> %s: %w", tokenIn, tokenOut, ErrNoRoute)
	}
	return best, maxOut, nil
}

func trades(pool pkg.Pool, tokenIn, tokenOut string) bool {
	a, b := pool.GetTokens()
	return (a == tokenIn && b == tokenOut) || (a == tokenOut && b == tokenIn)
}

// Hop is one leg of a routed quote.
type Hop struct {
	Pool      pkg.Pool
	InputMint string
	AmountIn  math.Int
	AmountOut math.Int
}

// TwoHopQuote routes tokenIn through an intermediate mint.
type TwoHopQuote struct {
	First  Hop
	Second Hop
}

func (q TwoHopQuote) AmountOut() math.Int {
	return q.Second.AmountOut
}

// QuoteTwoHop quotes tokenIn -> mid -> tokenOut, feeding the best first hop's
// output into the second hop. It does not touch the router's loaded pools.
func (r *SimpleRouter) QuoteTwoHop(ctx context.Context, tokenIn, mid, tokenOut string, amountIn math.Int) (TwoHopQuote, error) {
	firstPools, err := r.fetchPools(ctx, tokenIn, mid)
	if err != nil {
		return TwoHopQuote{}, err
	}
	firstPool, midAmount, err := r.bestPool(firstPools, tokenIn, mid, amountIn)
	if err != nil {
		return TwoHopQuote{}, fmt.Errorf("first hop: %w", err)
	}

	secondPools, err := r.fetchPools(ctx, mid, tokenOut)
	if err != nil {
		return TwoHopQuote{}, err
	}
	secondPool, amountOut, err := r.bestPool(secondPools, mid, tokenOut, midAmount)
	if err != nil {
		return TwoHopQuote{}, fmt.Errorf("second hop: %w", err)
	}

	return TwoHopQuote{
		First:  Hop{Pool: firstPool, InputMint: tokenIn, AmountIn: amountIn, AmountOut: midAmount},
		Second: Hop{Pool: secondPool, InputMint: mid, AmountIn: midAmount, AmountOut: amountOut},
	}, nil
}
