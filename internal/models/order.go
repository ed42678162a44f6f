package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses set at ingestion time. Later transitions belong to the
// status workflow, not to this service.
const (
	OrderStatusInReview = "in_review"
	OrderStatusPending  = "pending"
)

// OrderSearchFilter holds filter criteria for listing order headers
type OrderSearchFilter struct {
	Status        *string    `json:"status,omitempty"`
	Source        *string    `json:"source,omitempty"`         // Ingestion path that created the order
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
	Limit         int        `json:"limit,omitempty"`          // Page size (default: 20, max: 100)
	Offset        int        `json:"offset,omitempty"`
}

// Order is the header row of one checkout. Total is the caller-supplied
// amount and is never recomputed from the lines.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	TenantID        string          `json:"tenant_id" db:"tenant_id"`
	OrderNumber     int64           `json:"order_number" db:"order_number"`
	CustomerName    string          `json:"customer_name" db:"customer_name"`
	CustomerPhone   *string         `json:"customer_phone" db:"customer_phone"`
	DeliveryAddress *string         `json:"delivery_address" db:"delivery_address"`
	Status          string          `json:"status" db:"status"`
	Total           decimal.Decimal `json:"total" db:"total"`
	PaymentMethod   *string         `json:"payment_method" db:"payment_method"`
	DeliveryMethod  *string         `json:"delivery_method" db:"delivery_method"`
	Observations    *string         `json:"observations" db:"observations"`
	Source          string          `json:"source" db:"source"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// OrderDetail is an order header together with its persisted lines.
type OrderDetail struct {
	Order
	Items []*OrderItemDetail `json:"items"`
}
