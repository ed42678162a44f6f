package services

import (
	"fmt"

	"menuhub/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogResult is what the catalog said about one cart line's product.
// Err is set when the lookup itself failed and the answer is unknown.
type CatalogResult struct {
	Found bool
	Err   error
}

// ReconciliationOutcome is the item row to insert for a cart line plus the
// warning the caller should see if that row ends up persisted.
type ReconciliationOutcome struct {
	Item    *models.OrderItem
	Linked  bool
	Warning string
}

// LineTotal is quantity × unit price with no rounding.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ReconcileLine decides how a cart line is persisted. The returned item has
// no ID or OrderID yet.
func ReconcileLine(line models.CartLine, result CatalogResult) ReconciliationOutcome {
	item := &models.OrderItem{
		ProductName:  line.Name,
		Quantity:     line.Quantity,
		UnitPrice:    line.UnitPrice,
		LineTotal:    LineTotal(line.Quantity, line.UnitPrice),
		Observations: line.Observations,
	}

	if result.Err == nil && result.Found {
		productID := line.ProductID
		item.ProductID = &productID
		return ReconciliationOutcome{Item: item, Linked: true}
	}

	return ReconciliationOutcome{Item: item, Warning: fallbackWarning(line, result)}
}

func fallbackWarning(line models.CartLine, result CatalogResult) string {
	switch {
	case result.Err != nil:
		return fmt.Sprintf("Product %q could not be verified against the catalog; saved without a product link", line.Name)
	case line.ProductID == "":
		return fmt.Sprintf("Product %q has no product id; saved without a product link", line.Name)
	default:
		return fmt.Sprintf("Product %q (id %s) was not found in the catalog; saved without a product link", line.Name, line.ProductID)
	}
}

// ReconcileAddon builds the add-on row for a persisted item.
func ReconcileAddon(itemID uuid.UUID, addon models.AddonLine) *models.OrderItemAddon {
	return &models.OrderItemAddon{
		OrderItemID:  itemID,
		CategoryName: addon.Category,
		AddonName:    addon.Name,
		Quantity:     addon.Quantity,
		UnitPrice:    addon.UnitPrice,
		LineTotal:    LineTotal(addon.Quantity, addon.UnitPrice),
	}
}
