package protocol

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// SnapshotCache maps account addresses to raw account data. A nil entry
// records an account known not to exist. The cache is owned by the caller and
// never expires on its own; pass refresh to the fetch methods to bypass it.
type SnapshotCache struct {
	mu       sync.RWMutex
	accounts map[solana.PublicKey][]byte
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{accounts: make(map[solana.PublicKey][]byte)}
}

// Get returns the cached data and whether the address has been seen.
func (c *SnapshotCache) Get(key solana.PublicKey) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.accounts[key]
	return data, ok
}

func (c *SnapshotCache) Put(key solana.PublicKey, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts[key] = data
}

// Invalidate drops the given addresses, or everything when none are given.
func (c *SnapshotCache) Invalidate(keys ...solana.PublicKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.accounts = make(map[solana.PublicKey][]byte)
		return
	}
	for _, key := range keys {
		delete(c.accounts, key)
	}
}

func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.accounts)
}
