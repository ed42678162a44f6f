package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store groups the repositories one request needs. All of them share a single
// connection taken from the pool; Release hands it back and is safe to call
// more than once.
type Store interface {
	Orders() OrderRepository
	Items() OrderItemRepository
	Addons() OrderItemAddonRepository
	Products() ProductRepository
	OrderNumbers() OrderNumberRepository
	Release()
}

// StoreFactory acquires a Store per request.
type StoreFactory interface {
	Acquire(ctx context.Context) (Store, error)
}

// ScopedConn is a connection that must be released after use.
type ScopedConn interface {
	Querier
	Release()
}

type poolStoreFactory struct {
	pool *pgxpool.Pool
}

// NewStoreFactory returns a factory that checks one connection out of pool
// for every Acquire call.
func NewStoreFactory(pool *pgxpool.Pool) StoreFactory {
	return &poolStoreFactory{pool: pool}
}

func (f *poolStoreFactory) Acquire(ctx context.Context) (Store, error) {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return NewStore(conn), nil
}

type connStore struct {
	conn        ScopedConn
	releaseOnce sync.Once

	orders       OrderRepository
	items        OrderItemRepository
	addons       OrderItemAddonRepository
	products     ProductRepository
	orderNumbers OrderNumberRepository
}

// NewStore binds every repository to conn.
func NewStore(conn ScopedConn) Store {
	return &connStore{
		conn:         conn,
		orders:       NewOrderRepo(conn),
		items:        NewOrderItemRepo(conn),
		addons:       NewOrderItemAddonRepo(conn),
		products:     NewProductRepo(conn),
		orderNumbers: NewOrderNumberRepo(conn),
	}
}

func (s *connStore) Orders() OrderRepository             { return s.orders }
func (s *connStore) Items() OrderItemRepository          { return s.items }
func (s *connStore) Addons() OrderItemAddonRepository    { return s.addons }
func (s *connStore) Products() ProductRepository         { return s.products }
func (s *connStore) OrderNumbers() OrderNumberRepository { return s.orderNumbers }

func (s *connStore) Release() {
	s.releaseOnce.Do(s.conn.Release)
}
