package survey

import (
	"context"
	"sync"
)

// DetailsSource loads the question catalog
type DetailsSource interface {
	FetchDetails(ctx context.Context) (*Details, error)
}

// CatalogCache fetches the catalog lazily and keeps it after the first success.
// A failed fetch is not cached, so the next call tries again.
type CatalogCache struct {
	source DetailsSource

	mu      sync.Mutex
	details *Details
}

func NewCatalogCache(source DetailsSource) *CatalogCache {
	return &CatalogCache{source: source}
}

func (c *CatalogCache) Get(ctx context.Context) (*Details, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.details != nil {
		return c.details, nil
	}
	details, err := c.source.FetchDetails(ctx)
	if err != nil {
		return nil, err
	}
	c.details = details
	return details, nil
}
