package services

import (
	"context"
	"strings"
	"time"

	"menuhub/internal/caching"
	"menuhub/internal/logging"
	"menuhub/internal/repositories"
)

// CatalogLookup answers whether a product belongs to a tenant's catalog.
type CatalogLookup interface {
	Lookup(ctx context.Context, products repositories.ProductRepository, tenantID, productID string) CatalogResult
}

type catalogLookup struct {
	cache caching.CacheService
	ttl   time.Duration
}

// NewCatalogLookup caches answers for ttl. A nil cache or a zero ttl reads
// the datastore every time.
func NewCatalogLookup(cache caching.CacheService, ttl time.Duration) CatalogLookup {
	return &catalogLookup{cache: cache, ttl: ttl}
}

func (c *catalogLookup) Lookup(ctx context.Context, products repositories.ProductRepository, tenantID, productID string) CatalogResult {
	if strings.TrimSpace(productID) == "" {
		return CatalogResult{Found: false}
	}

	if c.cacheEnabled() {
		exists, found, err := c.cache.GetProductExists(ctx, tenantID, productID)
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("product_id", productID).Msg("catalog cache read failed")
		} else if found {
			return CatalogResult{Found: exists}
		}
	}

	exists, err := products.Exists(ctx, tenantID, productID)
	if err != nil {
		return CatalogResult{Err: err}
	}

	if c.cacheEnabled() {
		if err := c.cache.SetProductExists(ctx, tenantID, productID, exists, c.ttl); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("product_id", productID).Msg("catalog cache write failed")
		}
	}
	return CatalogResult{Found: exists}
}

func (c *catalogLookup) cacheEnabled() bool {
	return c.cache != nil && c.ttl > 0
}
