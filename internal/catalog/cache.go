package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abhinimbalkar96-spec/blak-website/internal/domain"
)

// Cache is a TTL'd read-through view of the product catalog. Pricing a cart
// needs the whole catalog, so the cache holds the full product list rather
// than individual entries.
type Cache struct {
	client *Client
	ttl    time.Duration
	logger *slog.Logger

	mu        sync.Mutex
	products  []domain.Product
	fetchedAt time.Time
}

func NewCache(client *Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Products returns the catalog, fetching from the product service when the
// cached copy is missing or expired. On a fetch failure a stale copy is
// served if one exists.
func (c *Cache) Products(ctx context.Context) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Freshness rides on fetchedAt, not on the slice: an empty catalog is
	// still a catalog and must cache like any other.
	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl {
		return c.products, nil
	}

	products, err := c.client.ListProducts(ctx)
	if err != nil {
		if !c.fetchedAt.IsZero() {
			c.logger.Warn("catalog refresh failed, serving stale copy", "error", err, "age", time.Since(c.fetchedAt).String())
			return c.products, nil
		}
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	c.products = products
	c.fetchedAt = time.Now()
	return c.products, nil
}

// Index returns the catalog keyed by product ID.
func (c *Cache) Index(ctx context.Context) (map[string]domain.Product, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ProductIndex(products), nil
}

// Invalidate drops the cached copy. Called after catalog mutations so the
// next read sees the change.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = nil
	c.fetchedAt = time.Time{}
}
