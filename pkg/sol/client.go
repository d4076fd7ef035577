package sol

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

// maxAccountsPerRequest is the getMultipleAccounts limit of public RPC nodes.
const maxAccountsPerRequest = 100

// Client wraps the RPC client with commitment and retry settings.
type Client struct {
	RpcClient *rpc.Client

	commitment rpc.CommitmentType
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCommitment sets the commitment used for every read.
func WithCommitment(commitment rpc.CommitmentType) Option {
	return func(c *Client) { c.commitment = commitment }
}

// WithRetry retries transport failures up to maxRetries times, doubling the
// delay from backoff.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// WithLogger sets the logger for retry diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the RPC endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		RpcClient:  rpc.New(endpoint),
		commitment: rpc.CommitmentConfirmed,
		maxRetries: 3,
		backoff:    250 * time.Millisecond,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close terminates the client connection
func (c *Client) Close() error {
	return c.RpcClient.Close()
}

// AccountData is the raw data of a program account.
type AccountData struct {
	Address solana.PublicKey
	Data    []byte
}

// GetMultipleAccountsData returns the data of each account in order. Accounts
// that do not exist are nil.
func (c *Client) GetMultipleAccountsData(ctx context.Context, accounts []solana.PublicKey) ([][]byte, error) {
	out := make([][]byte, 0, len(accounts))
	for start := 0; start < len(accounts); start += maxAccountsPerRequest {
		end := start + maxAccountsPerRequest
		if end > len(accounts) {
			end = len(accounts)
		}
		chunk := accounts[start:end]

		var res *rpc.GetMultipleAccountsResult
		err := c.withRetry(ctx, "getMultipleAccounts", func(ctx context.Context) error {
			var err error
			res, err = c.RpcClient.GetMultipleAccountsWithOpts(ctx, chunk, &rpc.GetMultipleAccountsOpts{
				Encoding:   solana.EncodingBase64,
				Commitment: c.commitment,
			})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get %d accounts: %w", len(chunk), err)
		}
		if len(res.Value) != len(chunk) {
			return nil, fmt.Errorf("getMultipleAccounts returned %d accounts for %d keys", len(res.Value), len(chunk))
		}
		for _, account := range res.Value {
			if account == nil || account.Data == nil {
				out = append(out, nil)
				continue
			}
			out = append(out, account.Data.GetBinary())
		}
	}
	return out, nil
}

// GetProgramAccountsData returns the accounts of program matching filters.
func (c *Client) GetProgramAccountsData(ctx context.Context, program solana.PublicKey, filters []rpc.RPCFilter) ([]AccountData, error) {
	var res rpc.GetProgramAccountsResult
	err := c.withRetry(ctx, "getProgramAccounts", func(ctx context.Context) error {
		var err error
		res, err = c.RpcClient.GetProgramAccountsWithOpts(ctx, program, &rpc.GetProgramAccountsOpts{
			Commitment: c.commitment,
			Encoding:   solana.EncodingBase64,
			Filters:    filters,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get program accounts of %s: %w", program, err)
	}

	out := make([]AccountData, 0, len(res))
	for _, keyed := range res {
		if keyed == nil || keyed.Account == nil || keyed.Account.Data == nil {
			continue
		}
		out = append(out, AccountData{Address: keyed.Pubkey, Data: keyed.Account.Data.GetBinary()})
	}
	return out, nil
}

func (c *Client) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	return withRetry(ctx, c.maxRetries, c.backoff, func(ctx context.Context, attempt int) error {
		err := fn(ctx)
		if err != nil && attempt > 0 {
			c.logger.Debug("rpc retry", zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	})
}

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(ctx context.Context, attempt int) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries || !isRetryable(err) {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}

// isRetryable reports whether err is a transport failure. Answers from the
// node, including "not found", are final.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, rpc.ErrNotFound) {
		return false
	}
	var rpcErr *jsonrpc.RPCError
	return !errors.As(err, &rpcErr)
}
