package repositories

import (
	"context"
	"time"

	"menuhub/internal/models"

	"github.com/google/uuid"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item *models.OrderItem) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	CountUnlinkedSince(ctx context.Context, since time.Time) ([]models.TenantUnlinkedCount, error)
}

type orderItemRepo struct {
	db Querier
}

func NewOrderItemRepo(db Querier) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, line_total, observations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		item.ID, item.OrderID, item.ProductID, item.ProductName, item.Quantity,
		item.UnitPrice, item.LineTotal, item.Observations,
	).Scan(&item.CreatedAt)
}

// ListByOrderID returns items in the order they were persisted, which is the
// cart submission order.
func (r *orderItemRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, line_total, observations, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.OrderItem, 0)
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.LineTotal, &item.Observations, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountUnlinkedSince counts fallback items per tenant. It spans tenants and is
// meant for background reporting only.
func (r *orderItemRepo) CountUnlinkedSince(ctx context.Context, since time.Time) ([]models.TenantUnlinkedCount, error) {
	query := `
		SELECT o.tenant_id, COUNT(*)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE i.product_id IS NULL AND i.created_at >= $1
		GROUP BY o.tenant_id
		ORDER BY o.tenant_id
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.TenantUnlinkedCount
	for rows.Next() {
		var c models.TenantUnlinkedCount
		if err := rows.Scan(&c.TenantID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
