package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemAddon struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	OrderItemID  uuid.UUID       `json:"order_item_id" db:"order_item_id"`
	CategoryName *string         `json:"category_name" db:"category_name"`
	AddonName    string          `json:"addon_name" db:"addon_name"`
	Quantity     int             `json:"quantity" db:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total" db:"line_total"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
