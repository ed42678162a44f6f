package repositories

import (
	"context"
	"fmt"

	"menuhub/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, tenantID string, filter *models.OrderSearchFilter) ([]*models.Order, error)
}

type orderRepo struct {
	db Querier
	sb sq.StatementBuilderType
}

func NewOrderRepo(db Querier) OrderRepository {
	return &orderRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var orderColumns = []string{
	"id", "tenant_id", "order_number", "customer_name", "customer_phone", "delivery_address",
	"status", "total", "payment_method", "delivery_method", "observations", "source", "created_at",
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, tenant_id, order_number, customer_name, customer_phone, delivery_address, status, total, payment_method, delivery_method, observations, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		order.ID, order.TenantID, order.OrderNumber, order.CustomerName, order.CustomerPhone,
		order.DeliveryAddress, order.Status, order.Total, order.PaymentMethod, order.DeliveryMethod,
		order.Observations, order.Source,
	).Scan(&order.CreatedAt)
}

func (r *orderRepo) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT id, tenant_id, order_number, customer_name, customer_phone, delivery_address, status, total, payment_method, delivery_method, observations, source, created_at
		FROM orders
		WHERE tenant_id = $1 AND id = $2
	`
	order := &models.Order{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(orderScanTargets(order)...)
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}

// List returns order headers for a tenant, newest first.
func (r *orderRepo) List(ctx context.Context, tenantID string, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	if filter == nil {
		filter = &models.OrderSearchFilter{}
	}
	limit := filter.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := r.sb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"tenant_id": tenantID})
	if filter.Status != nil {
		query = query.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.Source != nil {
		query = query.Where(sq.Eq{"source": *filter.Source})
	}
	if filter.CreatedAfter != nil {
		query = query.Where(sq.GtOrEq{"created_at": *filter.CreatedAfter})
	}
	if filter.CreatedBefore != nil {
		query = query.Where(sq.LtOrEq{"created_at": *filter.CreatedBefore})
	}
	query = query.OrderBy("created_at DESC", "order_number DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build order list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(orderScanTargets(order)...); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func orderScanTargets(o *models.Order) []any {
	return []any{
		&o.ID, &o.TenantID, &o.OrderNumber, &o.CustomerName, &o.CustomerPhone, &o.DeliveryAddress,
		&o.Status, &o.Total, &o.PaymentMethod, &o.DeliveryMethod, &o.Observations, &o.Source, &o.CreatedAt,
	}
}
