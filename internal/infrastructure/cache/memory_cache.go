package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain/entity"
)

var _ inventory.StockSummaryCache = (*MemorySummaryCache)(nil)

type entry struct {
	positions []entity.StockPosition
	expires   time.Time
}

// MemorySummaryCache caché en proceso (una sola instancia, sin Redis).
type MemorySummaryCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]entry
	gens map[string]int64
	now  func() time.Time
}

// NewMemorySummaryCache construye la caché con el TTL indicado.
func NewMemorySummaryCache(ttl time.Duration) *MemorySummaryCache {
	return &MemorySummaryCache{
		ttl:  ttl,
		data: make(map[string]entry),
		gens: make(map[string]int64),
		now:  time.Now,
	}
}

func (c *MemorySummaryCache) Get(_ context.Context, companyID string) ([]entity.StockPosition, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[companyID]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expires) {
		delete(c.data, companyID)
		return nil, false, nil
	}
	return e.positions, true, nil
}

func (c *MemorySummaryCache) Generation(_ context.Context, companyID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[companyID], nil
}

// Set ignora el resumen si hubo una invalidación después de leer gen.
func (c *MemorySummaryCache) Set(_ context.Context, companyID string, gen int64, positions []entity.StockPosition) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[companyID] != gen {
		return nil
	}
	c.data[companyID] = entry{positions: positions, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *MemorySummaryCache) Invalidate(_ context.Context, companyID string) error {
	c.mu.Lock()
	c.gens[companyID]++
	delete(c.data, companyID)
	c.mu.Unlock()
	return nil
}
