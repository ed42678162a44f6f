package services

import (
	"context"
	"time"

	"menuhub/internal/models"
	"menuhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, tenantID string, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) Create(ctx context.Context, item *models.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderItemRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) CountUnlinkedSince(ctx context.Context, since time.Time) ([]models.TenantUnlinkedCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TenantUnlinkedCount), args.Error(1)
}

type MockOrderItemAddonRepository struct {
	mock.Mock
}

func (m *MockOrderItemAddonRepository) Create(ctx context.Context, addon *models.OrderItemAddon) error {
	args := m.Called(ctx, addon)
	return args.Error(0)
}

func (m *MockOrderItemAddonRepository) ListByItemIDs(ctx context.Context, itemIDs []uuid.UUID) ([]*models.OrderItemAddon, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OrderItemAddon), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Exists(ctx context.Context, tenantID, productID string) (bool, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Bool(0), args.Error(1)
}

type MockOrderNumberRepository struct {
	mock.Mock
}

func (m *MockOrderNumberRepository) Next(ctx context.Context, tenantID string) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockStore hands out the mock repositories and records Release calls.
type MockStore struct {
	mock.Mock
	orders       *MockOrderRepository
	items        *MockOrderItemRepository
	addons       *MockOrderItemAddonRepository
	products     *MockProductRepository
	orderNumbers *MockOrderNumberRepository
}

func NewMockStore() *MockStore {
	return &MockStore{
		orders:       new(MockOrderRepository),
		items:        new(MockOrderItemRepository),
		addons:       new(MockOrderItemAddonRepository),
		products:     new(MockProductRepository),
		orderNumbers: new(MockOrderNumberRepository),
	}
}

func (m *MockStore) Orders() repositories.OrderRepository             { return m.orders }
func (m *MockStore) Items() repositories.OrderItemRepository          { return m.items }
func (m *MockStore) Addons() repositories.OrderItemAddonRepository    { return m.addons }
func (m *MockStore) Products() repositories.ProductRepository         { return m.products }
func (m *MockStore) OrderNumbers() repositories.OrderNumberRepository { return m.orderNumbers }

func (m *MockStore) Release() {
	m.Called()
}

type MockStoreFactory struct {
	mock.Mock
}

func (m *MockStoreFactory) Acquire(ctx context.Context) (repositories.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repositories.Store), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProductExists(ctx context.Context, tenantID, productID string) (bool, bool, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *MockCacheService) SetProductExists(ctx context.Context, tenantID, productID string, exists bool, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, productID, exists, ttl)
	return args.Error(0)
}

func (m *MockCacheService) IdempotencyKey(scope, key string) string {
	args := m.Called(scope, key)
	return args.String(0)
}

func (m *MockCacheService) GetIdempotencyRecord(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) ReserveIdempotencyKey(ctx context.Context, key, record string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, record, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) PutIdempotencyRecord(ctx context.Context, key, record string, ttl time.Duration) error {
	args := m.Called(ctx, key, record, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteIdempotencyRecord(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
