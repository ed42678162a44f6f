package services

import (
	"context"
	"errors"
	"fmt"

	"menuhub/internal/common"
	"menuhub/internal/models"
	"menuhub/internal/repositories"

	"github.com/google/uuid"
)

// OrderQueryService reads back persisted orders for the owning tenant.
type OrderQueryService interface {
	GetOrderDetail(ctx context.Context, tenantID string, orderID uuid.UUID) (*models.OrderDetail, error)
	ListOrders(ctx context.Context, tenantID string, filter *models.OrderSearchFilter) ([]*models.Order, error)
}

type orderQueryService struct {
	stores repositories.StoreFactory
}

func NewOrderQueryService(stores repositories.StoreFactory) OrderQueryService {
	return &orderQueryService{stores: stores}
}

func (s *orderQueryService) GetOrderDetail(ctx context.Context, tenantID string, orderID uuid.UUID) (*models.OrderDetail, error) {
	if tenantID == "" {
		return nil, common.ErrUnauthorizedTenant
	}

	store, err := s.stores.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire datastore: %w", err)
	}
	defer store.Release()

	order, err := store.Orders().GetByID(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.ErrOrderNotFound
		}
		return nil, common.SecureErrorMessage("get order", err)
	}

	items, err := store.Items().ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, common.SecureErrorMessage("list order items", err)
	}

	itemIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}
	addons, err := store.Addons().ListByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, common.SecureErrorMessage("list order item add-ons", err)
	}

	byItem := make(map[uuid.UUID][]*models.OrderItemAddon, len(items))
	for _, addon := range addons {
		byItem[addon.OrderItemID] = append(byItem[addon.OrderItemID], addon)
	}

	detail := &models.OrderDetail{Order: *order, Items: make([]*models.OrderItemDetail, 0, len(items))}
	for _, item := range items {
		itemAddons := byItem[item.ID]
		if itemAddons == nil {
			itemAddons = []*models.OrderItemAddon{}
		}
		detail.Items = append(detail.Items, &models.OrderItemDetail{OrderItem: *item, Addons: itemAddons})
	}
	return detail, nil
}

func (s *orderQueryService) ListOrders(ctx context.Context, tenantID string, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	if tenantID == "" {
		return nil, common.ErrUnauthorizedTenant
	}

	store, err := s.stores.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire datastore: %w", err)
	}
	defer store.Release()

	orders, err := store.Orders().List(ctx, tenantID, filter)
	if err != nil {
		return nil, common.SecureErrorMessage("list orders", err)
	}
	return orders, nil
}
