package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching what storefront clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// IngestionPath identifies which entry point submitted an order and the
// status that entry point starts orders in.
type IngestionPath struct {
	Tag           string
	InitialStatus string
}

var (
	PathBackoffice = IngestionPath{Tag: "backoffice", InitialStatus: OrderStatusPending}
	PathStorefront = IngestionPath{Tag: "storefront", InitialStatus: OrderStatusInReview}
	PathChatbot    = IngestionPath{Tag: "chatbot", InitialStatus: OrderStatusInReview}
)

// CreateOrderRequest is the transport independent cart submission.
type CreateOrderRequest struct {
	TenantID        string          `json:"tenant_id" validate:"required"`
	Customer        CustomerInput   `json:"customer"`
	Items           []CartLine      `json:"items" validate:"required,min=1"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   *string         `json:"payment_method"`
	DeliveryMethod  *string         `json:"delivery_method"`
	Observations    *string         `json:"observations"`
	DeliveryAddress *string         `json:"delivery_address"`
}

type CustomerInput struct {
	Name  string  `json:"name" validate:"required"`
	Phone *string `json:"phone"`
}

// CartLine is one submitted line. ProductID is whatever the client holds;
// it is only trusted after the catalog confirms it for the tenant.
type CartLine struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name" validate:"required"`
	Quantity     int             `json:"quantity" validate:"gt=0"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Observations *string         `json:"observations"`
	Addons       []AddonLine     `json:"addons"`
}

type AddonLine struct {
	Category  *string         `json:"category"`
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Quantity  int             `json:"quantity" validate:"gte=0"`
}

// OrderSummary is the slice of the header echoed back to the caller.
type OrderSummary struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber int64           `json:"order_number"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
}

// CreateOrderResponse is returned on success, including partial success.
// Callers compare ItemsSaved with ItemsSubmitted and read Warnings to detect
// degraded outcomes.
type CreateOrderResponse struct {
	Success             bool         `json:"success"`
	Order               OrderSummary `json:"order"`
	ItemsSaved          int          `json:"items_saved"`
	ItemsSubmitted      int          `json:"items_submitted"`
	ItemsWithProduct    int          `json:"items_with_product"`
	ItemsWithoutProduct int          `json:"items_without_product"`
	Warnings            []string     `json:"warnings"`
	IngestionPath       string       `json:"ingestion_path"`
}

// FailureResponse is the body of every non-2xx answer.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
