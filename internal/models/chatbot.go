package models

import (
	"github.com/shopspring/decimal"
)

// ChatbotOrderPayload is the cart shape posted by the messaging assistant.
type ChatbotOrderPayload struct {
	CompanyID string          `json:"company_id"`
	Client    ChatbotClient   `json:"client"`
	Cart      []ChatbotLine   `json:"cart"`
	Total     decimal.Decimal `json:"total"`
	Payment   *string         `json:"payment"`
	Delivery  *string         `json:"delivery"`
	Notes     *string         `json:"notes"`
}

type ChatbotClient struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type ChatbotLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
	Notes       *string         `json:"notes"`
	Extras      []ChatbotExtra  `json:"extras"`
}

type ChatbotExtra struct {
	Group *string         `json:"group"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
}

// ToCreateOrderRequest maps the payload field by field. It does not validate.
func (p *ChatbotOrderPayload) ToCreateOrderRequest() *CreateOrderRequest {
	req := &CreateOrderRequest{
		TenantID:        p.CompanyID,
		Customer:        CustomerInput{Name: p.Client.Name, Phone: p.Client.Phone},
		Total:           p.Total,
		PaymentMethod:   p.Payment,
		DeliveryMethod:  p.Delivery,
		Observations:    p.Notes,
		DeliveryAddress: p.Client.Address,
	}
	if p.Cart == nil {
		return req
	}

	req.Items = make([]CartLine, 0, len(p.Cart))
	for _, line := range p.Cart {
		item := CartLine{
			ProductID:    line.ProductID,
			Name:         line.ProductName,
			Quantity:     line.Qty,
			UnitPrice:    line.Price,
			Observations: line.Notes,
		}
		for _, extra := range line.Extras {
			item.Addons = append(item.Addons, AddonLine{
				Category:  extra.Group,
				Name:      extra.Name,
				UnitPrice: extra.Price,
				Quantity:  extra.Qty,
			})
		}
		req.Items = append(req.Items, item)
	}
	return req
}
