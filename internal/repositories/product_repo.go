package repositories

import (
	"context"
	"strings"
)

// ProductRepository is the read-only view of the catalog used during
// ingestion. Catalog writes happen outside this service.
type ProductRepository interface {
	Exists(ctx context.Context, tenantID, productID string) (bool, error)
}

type productRepo struct {
	db Querier
}

func NewProductRepo(db Querier) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Exists(ctx context.Context, tenantID, productID string) (bool, error) {
	if strings.TrimSpace(productID) == "" {
		return false, nil
	}
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE tenant_id = $1 AND id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, tenantID, productID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
