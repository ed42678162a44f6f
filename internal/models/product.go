package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog row as seen by order ingestion. The catalog itself
// is maintained elsewhere; ingestion only reads it.
type Product struct {
	ID        string          `json:"id" db:"id"`
	TenantID  string          `json:"tenant_id" db:"tenant_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Active    bool            `json:"active" db:"active"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
