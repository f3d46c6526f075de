package mcpo

import (
	"context"
	"sync"

	"github.com/ahmedsami/octochat/internal/models"
)

// Catalog is a lazily-initialized cache of the proxy's tool descriptors.
// Discovery is expensive and the tool surface is static for the life of
// the proxy, so the first successful fetch is reused until Refresh is
// called. A failed fetch caches nothing; the next caller retries.
type Catalog struct {
	client *Client

	mu     sync.Mutex
	tools  []models.Tool
	loaded bool
}

// NewCatalog wraps a proxy client in a descriptor cache.
func NewCatalog(client *Client) *Catalog {
	return &Catalog{client: client}
}

// Tools returns the cached descriptor list, fetching it on first use.
func (c *Catalog) Tools(ctx context.Context) ([]models.Tool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.tools, nil
	}
	return c.fetchLocked(ctx)
}

// Refresh discards the cache and refetches descriptors from the proxy.
func (c *Catalog) Refresh(ctx context.Context) ([]models.Tool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.tools = nil
	return c.fetchLocked(ctx)
}

func (c *Catalog) fetchLocked(ctx context.Context) ([]models.Tool, error) {
	tools, err := c.client.FetchTools(ctx)
	if err != nil {
		return nil, err
	}
	c.tools = tools
	c.loaded = true
	return tools, nil
}
