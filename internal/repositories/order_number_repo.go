package repositories

import (
	"context"
)

// OrderNumberRepository hands out human facing order numbers.
type OrderNumberRepository interface {
	Next(ctx context.Context, tenantID string) (int64, error)
}

type orderNumberRepo struct {
	db Querier
}

func NewOrderNumberRepo(db Querier) OrderNumberRepository {
	return &orderNumberRepo{db: db}
}

// Next increments the tenant's counter in a single statement, so concurrent
// checkouts for the same tenant never share a number. The first call for a
// tenant continues from the highest number already present in orders.
func (r *orderNumberRepo) Next(ctx context.Context, tenantID string) (int64, error) {
	query := `
		INSERT INTO tenant_order_sequences (tenant_id, last_number, updated_at)
		VALUES ($1, COALESCE((SELECT MAX(order_number) FROM orders WHERE tenant_id = $1), 0) + 1, NOW())
		ON CONFLICT (tenant_id) DO UPDATE
		SET last_number = tenant_order_sequences.last_number + 1, updated_at = NOW()
		RETURNING last_number
	`
	var next int64
	if err := r.db.QueryRow(ctx, query, tenantID).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}
