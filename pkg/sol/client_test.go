package sol

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode answers getMultipleAccounts from data when set, otherwise with the
// first byte of each key as account data. Keys whose first byte is zero do not
// exist.
type fakeNode struct {
	calls    atomic.Int32
	failures int32
	rpcError bool
	data     map[solana.PublicKey][]byte
}

func (n *fakeNode) account(key solana.PublicKey) []byte {
	if n.data != nil {
		return n.data[key]
	}
	if key[0] == 0 {
		return nil
	}
	return []byte{key[0]}
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := n.calls.Add(1)
	if call <= n.failures {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}

	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if n.rpcError {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid params"}}`)
		return
	}

	var keys []solana.PublicKey
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params[0], &keys); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	value := make([]any, 0, len(keys))
	for _, key := range keys {
		data := n.account(key)
		if data == nil {
			value = append(value, nil)
			continue
		}
		value = append(value, map[string]any{
			"lamports":   1,
			"owner":      solana.SystemProgramID.String(),
			"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
			"executable": false,
			"rentEpoch":  0,
		})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"result": map[string]any{
			"context": map[string]any{"slot": 1},
			"value":   value,
		},
	})
}

func testKey(b byte, i int) solana.PublicKey {
	var key solana.PublicKey
	key[0] = b
	key[1] = byte(i)
	key[2] = byte(i >> 8)
	return key
}

func newTestClient(t *testing.T, node *fakeNode) *Client {
	t.Helper()
	server := httptest.NewServer(node)
	t.Cleanup(server.Close)
	return NewClient(server.URL, WithRetry(2, time.Millisecond))
}

func TestGetMultipleAccountsData(t *testing.T) {
	node := &fakeNode{}
	client := newTestClient(t, node)

	keys := []solana.PublicKey{testKey(7, 0), testKey(0, 1), testKey(9, 2)}
	data, err := client.GetMultipleAccountsData(context.Background(), keys)
	require.NoError(t, err)
	require.Len(t, data, 3)
	assert.Equal(t, []byte{7}, data[0])
	assert.Nil(t, data[1])
	assert.Equal(t, []byte{9}, data[2])
	assert.Equal(t, int32(1), node.calls.Load())
}

func TestGetMultipleAccountsDataChunks(t *testing.T) {
	node := &fakeNode{}
	client := newTestClient(t, node)

	keys := make([]solana.PublicKey, 0, 250)
	for i := 0; i < 250; i++ {
		keys = append(keys, testKey(byte(i%5), i))
	}
	data, err := client.GetMultipleAccountsData(context.Background(), keys)
	require.NoError(t, err)
	require.Len(t, data, len(keys))
	assert.Equal(t, int32(3), node.calls.Load())

	for i, d := range data {
		if i%5 == 0 {
			assert.Nil(t, d, "key %d", i)
		} else {
			assert.Equal(t, []byte{byte(i % 5)}, d, "key %d", i)
		}
	}
}

func TestGetMultipleAccountsDataRetries(t *testing.T) {
	node := &fakeNode{failures: 2}
	client := newTestClient(t, node)

	data, err := client.GetMultipleAccountsData(context.Background(), []solana.PublicKey{testKey(3, 0)})
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, data[0])
	assert.Equal(t, int32(3), node.calls.Load())

	node = &fakeNode{failures: 5}
	client = newTestClient(t, node)
	_, err = client.GetMultipleAccountsData(context.Background(), []solana.PublicKey{testKey(3, 0)})
	require.Error(t, err)
	assert.Equal(t, int32(3), node.calls.Load())
}

func TestGetMultipleAccountsDataRPCErrorIsFinal(t *testing.T) {
	node := &fakeNode{rpcError: true}
	client := newTestClient(t, node)

	_, err := client.GetMultipleAccountsData(context.Background(), []solana.PublicKey{testKey(3, 0)})
	var rpcErr *jsonrpc.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32602, rpcErr.Code)
	assert.Equal(t, int32(1), node.calls.Load())
}

func TestWithRetry(t *testing.T) {
	t.Run("stops on success", func(t *testing.T) {
		attempts := 0
		err := withRetry(context.Background(), 5, time.Millisecond, func(ctx context.Context, attempt int) error {
			attempts++
			if attempt < 2 {
				return errors.New("connection reset")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("not found is final", func(t *testing.T) {
		attempts := 0
		err := withRetry(context.Background(), 5, time.Millisecond, func(ctx context.Context, attempt int) error {
			attempts++
			return fmt.Errorf("account: %w", rpc.ErrNotFound)
		})
		assert.ErrorIs(t, err, rpc.ErrNotFound)
		assert.Equal(t, 1, attempts)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		err := withRetry(ctx, 5, time.Hour, func(ctx context.Context, attempt int) error {
			attempts++
			cancel()
			return errors.New("timeout")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})
}

func TestResolveMint(t *testing.T) {
	tests := []struct {
		in      string
		want    solana.PublicKey
		wantErr bool
	}{
		{"SOL", WSOL, false},
		{"usdc", USDC, false},
		{" USDT ", USDT, false},
		{"So11111111111111111111111111111111111111112", WSOL, false},
		{"not-a-mint", solana.PublicKey{}, true},
	}
	for _, tt := range tests {
		got, err := ResolveMint(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
