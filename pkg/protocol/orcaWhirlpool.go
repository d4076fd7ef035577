package protocol

import (
	"context"
	"errors"
	"fmt"

	"github.com/Solana-ZH/whirlquote/pkg"
	"github.com/Solana-ZH/whirlquote/pkg/pool/orca"
	"github.com/Solana-ZH/whirlquote/pkg/sol"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrAccountNotFound is returned when a required account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// AccountReader is the subset of *sol.Client the protocol reads through.
type AccountReader interface {
	GetMultipleAccountsData(ctx context.Context, accounts []solana.PublicKey) ([][]byte, error)
	GetProgramAccountsData(ctx context.Context, program solana.PublicKey, filters []rpc.RPCFilter) ([]sol.AccountData, error)
}

// OrcaWhirlpoolProtocol implements pkg.Protocol for Orca Whirlpools.
//
// Every fetched account goes through a SnapshotCache so repeated quotes
// against the same pool cost no RPC round trips. Methods taking a refresh
// flag bypass the cache and overwrite it with what the node returns.
type OrcaWhirlpoolProtocol struct {
	reader AccountReader
	cache  *SnapshotCache
	logger *zap.Logger
}

// ProtocolOption configures an OrcaWhirlpoolProtocol.
type ProtocolOption func(*OrcaWhirlpoolProtocol)

// WithCache shares a snapshot cache between protocol instances.
func WithCache(cache *SnapshotCache) ProtocolOption {
	return func(p *OrcaWhirlpoolProtocol) { p.cache = cache }
}

func WithLogger(logger *zap.Logger) ProtocolOption {
	return func(p *OrcaWhirlpoolProtocol) { p.logger = logger }
}

// NewOrcaWhirlpool creates a new Orca Whirlpool protocol instance
func NewOrcaWhirlpool(reader AccountReader, opts ...ProtocolOption) *OrcaWhirlpoolProtocol {
	p := &OrcaWhirlpoolProtocol{
		reader: reader,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = NewSnapshotCache()
	}
	return p
}

// Cache returns the snapshot cache backing this protocol.
func (p *OrcaWhirlpoolProtocol) Cache() *SnapshotCache {
	return p.cache
}

// FetchPoolsByPair returns every whirlpool trading the two mints, in either
// order, with the tick arrays for both swap directions loaded. Pools that fail
// to decode or validate are skipped.
func (p *OrcaWhirlpoolProtocol) FetchPoolsByPair(ctx context.Context, baseMint string, quoteMint string) ([]pkg.Pool, error) {
	baseKey, err := solana.PublicKeyFromBase58(baseMint)
	if err != nil {
		return nil, fmt.Errorf("invalid base mint address: %w", err)
	}
	quoteKey, err := solana.PublicKeyFromBase58(quoteMint)
	if err != nil {
		return nil, fmt.Errorf("invalid quote mint address: %w", err)
	}

	var forward, backward []sol.AccountData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		forward, err = p.reader.GetProgramAccountsData(gctx, orca.ORCA_WHIRLPOOL_PROGRAM_ID, whirlpoolPairFilters(baseKey, quoteKey))
		if err != nil {
			return fmt.Errorf("failed to fetch pools with token A %s: %w", baseMint, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		backward, err = p.reader.GetProgramAccountsData(gctx, orca.ORCA_WHIRLPOOL_PROGRAM_ID, whirlpoolPairFilters(quoteKey, baseKey))
		if err != nil {
			return fmt.Errorf("failed to fetch pools with token A %s: %w", quoteMint, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make([]pkg.Pool, 0, len(forward)+len(backward))
	for _, account := range append(forward, backward...) {
		pool, err := decodeWhirlpool(account.Address, account.Data)
		if err != nil {
			p.logger.Warn("skipping whirlpool", zap.String("pool", account.Address.String()), zap.Error(err))
			continue
		}
		p.cache.Put(account.Address, account.Data)

		if err := p.LoadTickArrays(ctx, pool, false); err != nil {
			p.logger.Warn("skipping whirlpool without tick arrays", zap.String("pool", account.Address.String()), zap.Error(err))
			continue
		}
		res = append(res, pool)
	}
	p.logger.Debug("fetched whirlpools", zap.String("base", baseMint), zap.String("quote", quoteMint), zap.Int("pools", len(res)))
	return res, nil
}

func whirlpoolPairFilters(mintA, mintB solana.PublicKey) []rpc.RPCFilter {
	var layout orca.WhirlpoolPool
	return []rpc.RPCFilter{
		{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: orca.WhirlpoolDiscriminator[:]}},
		{DataSize: layout.Span()},
		{Memcmp: &rpc.RPCFilterMemcmp{Offset: layout.Offset("TokenMintA"), Bytes: mintA.Bytes()}},
		{Memcmp: &rpc.RPCFilterMemcmp{Offset: layout.Offset("TokenMintB"), Bytes: mintB.Bytes()}},
	}
}

// FetchPoolByID loads a whirlpool and its tick arrays, serving both from the
// cache when possible.
func (p *OrcaWhirlpoolProtocol) FetchPoolByID(ctx context.Context, poolId string) (pkg.Pool, error) {
	poolIdKey, err := solana.PublicKeyFromBase58(poolId)
	if err != nil {
		return nil, fmt.Errorf("invalid pool id: %w", err)
	}
	pool, err := p.FetchWhirlpool(ctx, poolIdKey, false)
	if err != nil {
		return nil, err
	}
	if err := p.LoadTickArrays(ctx, pool, false); err != nil {
		return nil, err
	}
	return pool, nil
}

// FetchWhirlpool loads and validates a single whirlpool account. The returned
// pool has an empty tick array cache.
func (p *OrcaWhirlpoolProtocol) FetchWhirlpool(ctx context.Context, address solana.PublicKey, refresh bool) (*orca.WhirlpoolPool, error) {
	data, err := p.fetchAccounts(ctx, []solana.PublicKey{address}, refresh)
	if err != nil {
		return nil, err
	}
	if data[0] == nil {
		return nil, fmt.Errorf("whirlpool %s: %w", address, ErrAccountNotFound)
	}
	return decodeWhirlpool(address, data[0])
}

func decodeWhirlpool(address solana.PublicKey, data []byte) (*orca.WhirlpoolPool, error) {
	pool := &orca.WhirlpoolPool{}
	if err := pool.Decode(data); err != nil {
		return nil, fmt.Errorf("failed to decode pool data for %s: %w", address, err)
	}
	pool.PoolId = address
	pool.TickArrayCache = make(map[int32]*orca.WhirlpoolTickArray)
	if err := validateWhirlpool(pool); err != nil {
		return nil, fmt.Errorf("pool %s: %w", address, err)
	}
	return pool, nil
}

// validateWhirlpool rejects pool states the swap loop cannot start from.
func validateWhirlpool(pool *orca.WhirlpoolPool) error {
	if pool.TickSpacing == 0 {
		return fmt.Errorf("zero tick spacing: %w", orca.ErrInvalidAccountData)
	}
	if !orca.IsSqrtPriceInBounds(pool.SqrtPrice) {
		return fmt.Errorf("sqrt price %s: %w", pool.SqrtPrice, orca.ErrSqrtPriceOutOfBounds)
	}
	tick, err := orca.SqrtPriceX64ToTickIndex(pool.SqrtPrice)
	if err != nil {
		return err
	}
	// tick_current_index sits one below the price tick right after crossing down
	if pool.TickCurrentIndex != tick && pool.TickCurrentIndex != tick-1 {
		return fmt.Errorf("tick %d does not match sqrt price tick %d: %w", pool.TickCurrentIndex, tick, orca.ErrInvalidAccountData)
	}
	return nil
}

// LoadTickArrays fills the pool's tick array cache with the windows for both
// swap directions in one batched read.
func (p *OrcaWhirlpoolProtocol) LoadTickArrays(ctx context.Context, pool *orca.WhirlpoolPool, refresh bool) error {
	seen := make(map[int32]bool)
	var addresses []orca.TickArrayAddress
	for _, direction := range []orca.SwapDirection{orca.SwapDirectionAToB, orca.SwapDirectionBToA} {
		window, err := orca.DeriveMultipleWhirlpoolTickArrayPDAs(pool.PoolId, pool.TickCurrentIndex, pool.TickSpacing, direction)
		if err != nil {
			return fmt.Errorf("failed to derive tick array PDAs: %w", err)
		}
		for _, addr := range window {
			if !seen[addr.StartTickIndex] {
				seen[addr.StartTickIndex] = true
				addresses = append(addresses, addr)
			}
		}
	}
	return p.loadTickArrays(ctx, pool, addresses, refresh)
}

// FetchTickArrays loads the tick array window for one swap direction and
// returns it in traversal order. Arrays that do not exist are nil.
func (p *OrcaWhirlpoolProtocol) FetchTickArrays(ctx context.Context, pool *orca.WhirlpoolPool, direction orca.SwapDirection, refresh bool) ([]*orca.WhirlpoolTickArray, error) {
	addresses, err := orca.DeriveMultipleWhirlpoolTickArrayPDAs(pool.PoolId, pool.TickCurrentIndex, pool.TickSpacing, direction)
	if err != nil {
		return nil, fmt.Errorf("failed to derive tick array PDAs: %w", err)
	}
	if err := p.loadTickArrays(ctx, pool, addresses, refresh); err != nil {
		return nil, err
	}
	return pool.CachedTickArrays(direction), nil
}

func (p *OrcaWhirlpoolProtocol) loadTickArrays(ctx context.Context, pool *orca.WhirlpoolPool, addresses []orca.TickArrayAddress, refresh bool) error {
	keys := make([]solana.PublicKey, len(addresses))
	for i, addr := range addresses {
		keys[i] = addr.Address
	}
	data, err := p.fetchAccounts(ctx, keys, refresh)
	if err != nil {
		return fmt.Errorf("failed to fetch tick arrays of %s: %w", pool.PoolId, err)
	}

	if pool.TickArrayCache == nil {
		pool.TickArrayCache = make(map[int32]*orca.WhirlpoolTickArray)
	}
	for i, addr := range addresses {
		if data[i] == nil {
			delete(pool.TickArrayCache, addr.StartTickIndex)
			continue
		}
		tickArray, err := decodeTickArray(addr.Address, data[i])
		if err != nil {
			return err
		}
		if tickArray.StartTickIndex != addr.StartTickIndex || !tickArray.Whirlpool.Equals(pool.PoolId) {
			return fmt.Errorf("tick array %s does not belong to %s at %d: %w", addr.Address, pool.PoolId, addr.StartTickIndex, orca.ErrInvalidAccountData)
		}
		pool.TickArrayCache[addr.StartTickIndex] = tickArray
	}
	return nil
}

func decodeTickArray(address solana.PublicKey, data []byte) (*orca.WhirlpoolTickArray, error) {
	tickArray := &orca.WhirlpoolTickArray{Address: address}
	if err := tickArray.Decode(data); err != nil {
		return nil, err
	}
	return tickArray, nil
}

// PositionSnapshot is everything the fee and reward quotes read for one
// position.
type PositionSnapshot struct {
	Pool      *orca.WhirlpoolPool
	Position  *orca.WhirlpoolPosition
	TickLower orca.WhirlpoolTick
	TickUpper orca.WhirlpoolTick
}

func (s *PositionSnapshot) FeesQuote() (orca.CollectFeesQuote, error) {
	return orca.GetCollectFeesQuote(s.Pool, s.Position, s.TickLower, s.TickUpper)
}

func (s *PositionSnapshot) RewardsQuote(timestamp uint64) (orca.CollectRewardsQuote, error) {
	return orca.GetCollectRewardsQuote(s.Pool, s.Position, s.TickLower, s.TickUpper, timestamp)
}

// FetchPositionByMint derives the position address from its NFT mint.
func (p *OrcaWhirlpoolProtocol) FetchPositionByMint(ctx context.Context, positionMint solana.PublicKey, refresh bool) (*PositionSnapshot, error) {
	address, err := orca.DeriveWhirlpoolPositionPDA(positionMint)
	if err != nil {
		return nil, err
	}
	return p.FetchPosition(ctx, address, refresh)
}

// FetchPosition loads a position, its whirlpool and the ticks at both ends of
// its range.
func (p *OrcaWhirlpoolProtocol) FetchPosition(ctx context.Context, address solana.PublicKey, refresh bool) (*PositionSnapshot, error) {
	data, err := p.fetchAccounts(ctx, []solana.PublicKey{address}, refresh)
	if err != nil {
		return nil, err
	}
	if data[0] == nil {
		return nil, fmt.Errorf("position %s: %w", address, ErrAccountNotFound)
	}
	position := &orca.WhirlpoolPosition{Address: address}
	if err := position.Decode(data[0]); err != nil {
		return nil, fmt.Errorf("failed to decode position %s: %w", address, err)
	}

	pool, err := p.FetchWhirlpool(ctx, position.Whirlpool, refresh)
	if err != nil {
		return nil, err
	}

	lower, err := p.fetchTick(ctx, pool, position.TickLowerIndex, refresh)
	if err != nil {
		return nil, err
	}
	upper, err := p.fetchTick(ctx, pool, position.TickUpperIndex, refresh)
	if err != nil {
		return nil, err
	}
	return &PositionSnapshot{Pool: pool, Position: position, TickLower: lower, TickUpper: upper}, nil
}

func (p *OrcaWhirlpoolProtocol) fetchTick(ctx context.Context, pool *orca.WhirlpoolPool, tickIndex int32, refresh bool) (orca.WhirlpoolTick, error) {
	start, err := orca.GetStartTickIndex(tickIndex, pool.TickSpacing, 0)
	if err != nil {
		return orca.WhirlpoolTick{}, err
	}
	address, err := orca.DeriveWhirlpoolTickArrayPDA(pool.PoolId, start)
	if err != nil {
		return orca.WhirlpoolTick{}, err
	}
	if err := p.loadTickArrays(ctx, pool, []orca.TickArrayAddress{{Address: address, StartTickIndex: start}}, refresh); err != nil {
		return orca.WhirlpoolTick{}, err
	}

	tickArray := pool.TickArrayCache[start]
	if tickArray == nil {
		return orca.WhirlpoolTick{}, fmt.Errorf("tick array %s for tick %d: %w", address, tickIndex, ErrAccountNotFound)
	}
	offset := tickArray.TickOffset(tickIndex, pool.TickSpacing)
	if offset < 0 {
		return orca.WhirlpoolTick{}, fmt.Errorf("tick %d not initializable with spacing %d: %w", tickIndex, pool.TickSpacing, orca.ErrInvalidTickRange)
	}
	return tickArray.Ticks[offset], nil
}

// fetchAccounts returns the data of each key, reading only the keys the cache
// does not hold unless refresh is set.
func (p *OrcaWhirlpoolProtocol) fetchAccounts(ctx context.Context, keys []solana.PublicKey, refresh bool) ([][]byte, error) {
	out := make([][]byte, len(keys))
	var missing []solana.PublicKey
	var missingIdx []int
	for i, key := range keys {
		if !refresh {
			if data, ok := p.cache.Get(key); ok {
				out[i] = data
				continue
			}
		}
		missing = append(missing, key)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	data, err := p.reader.GetMultipleAccountsData(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(data) != len(missing) {
		return nil, fmt.Errorf("requested %d accounts, got %d", len(missing), len(data))
	}
	for j, i := range missingIdx {
		out[i] = data[j]
		p.cache.Put(missing[j], data[j])
	}
	return out, nil
}
