package repositories

import (
	"context"
	"fmt"

	"menuhub/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type OrderItemAddonRepository interface {
	Create(ctx context.Context, addon *models.OrderItemAddon) error
	ListByItemIDs(ctx context.Context, itemIDs []uuid.UUID) ([]*models.OrderItemAddon, error)
}

type orderItemAddonRepo struct {
	db Querier
	sb sq.StatementBuilderType
}

func NewOrderItemAddonRepo(db Querier) OrderItemAddonRepository {
	return &orderItemAddonRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *orderItemAddonRepo) Create(ctx context.Context, addon *models.OrderItemAddon) error {
	query := `
		INSERT INTO order_item_addons (id, order_item_id, category_name, addon_name, quantity, unit_price, line_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		addon.ID, addon.OrderItemID, addon.CategoryName, addon.AddonName,
		addon.Quantity, addon.UnitPrice, addon.LineTotal,
	).Scan(&addon.CreatedAt)
}

func (r *orderItemAddonRepo) ListByItemIDs(ctx context.Context, itemIDs []uuid.UUID) ([]*models.OrderItemAddon, error) {
	addons := make([]*models.OrderItemAddon, 0)
	if len(itemIDs) == 0 {
		return addons, nil
	}

	sql, args, err := r.sb.
		Select("id", "order_item_id", "category_name", "addon_name", "quantity", "unit_price", "line_total", "created_at").
		From("order_item_addons").
		Where(sq.Eq{"order_item_id": itemIDs}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build addon query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		a := &models.OrderItemAddon{}
		if err := rows.Scan(&a.ID, &a.OrderItemID, &a.CategoryName, &a.AddonName, &a.Quantity, &a.UnitPrice, &a.LineTotal, &a.CreatedAt); err != nil {
			return nil, err
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}
