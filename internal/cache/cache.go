package cache

import (
	"context"
	"sync"

	"fuelpay-terminal/internal/models"
)

// TransactionKey is the fixed key the workflow writes a completed payment
// under and the confirmation/receipt path reads it back from.
const TransactionKey = "trxn"

// TransactionCache is the transient payment-record cache shared between the
// workflow and the confirmation path. Entries are short-lived: written on a
// successful buy/dispense, read once, evicted when the attendant goes home.
type TransactionCache interface {
	Put(ctx context.Context, key string, p *models.Payment) error
	Get(ctx context.Context, key string) (*models.Payment, bool, error)
	Evict(ctx context.Context, key string) error
}

// MemoryCache is the in-process implementation used when no redis is
// configured
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*models.Payment
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*models.Payment)}
}

func (c *MemoryCache) Put(_ context.Context, key string, p *models.Payment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = p
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string) (*models.Payment, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[key]
	return p, ok, nil
}

func (c *MemoryCache) Evict(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
