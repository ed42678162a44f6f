package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one persisted cart line. ProductID is nil when the line was
// stored through the fallback insert because the catalog did not know it.
type OrderItem struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	OrderID      uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID    *string         `json:"product_id" db:"product_id"`
	ProductName  string          `json:"product_name" db:"product_name"`
	Quantity     int             `json:"quantity" db:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total" db:"line_total"`
	Observations *string         `json:"observations" db:"observations"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Linked reports whether the item references a catalog product.
func (i *OrderItem) Linked() bool {
	return i.ProductID != nil
}

// OrderItemDetail is an item with its add-ons, as returned by read endpoints.
type OrderItemDetail struct {
	OrderItem
	Addons []*OrderItemAddon `json:"addons"`
}

// TenantUnlinkedCount is the number of fallback items one tenant received
// during a reporting window.
type TenantUnlinkedCount struct {
	TenantID string `json:"tenant_id"`
	Count    int    `json:"count"`
}
