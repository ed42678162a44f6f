package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"menuhub/internal/common"
	"menuhub/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the fixed-point scale of every stored amount.
const MoneyPlaces = 2

// OrderValidator checks and normalizes cart submissions before anything is
// written.
type OrderValidator struct {
	validate *validator.Validate
}

func NewOrderValidator() *OrderValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})
	return &OrderValidator{validate: v}
}

// Validate applies the order level checks and returns a normalized copy of
// req or a *common.ValidationError. Individual lines are checked later with
// ValidateLine so one bad line cannot reject the whole cart.
func (v *OrderValidator) Validate(req *models.CreateOrderRequest) (*models.CreateOrderRequest, error) {
	if req == nil {
		return nil, common.NewValidationError("", "request body is required")
	}
	normalized := normalizeRequest(req)

	if normalized.TenantID == "" {
		return nil, common.NewValidationError("tenant_id", "is required")
	}
	if normalized.Customer.Name == "" {
		return nil, common.NewValidationError("customer.name", "is required")
	}
	if len(normalized.Items) == 0 {
		return nil, common.NewValidationError("items", "must contain at least one item")
	}

	if err := v.validate.Struct(normalized); err != nil {
		return nil, toValidationError(err, "")
	}
	return normalized, nil
}

// ValidateLine checks one normalized cart line. The field in the returned
// error is prefixed with the line's position, e.g. items[1].quantity.
func (v *OrderValidator) ValidateLine(index int, line models.CartLine) error {
	if err := v.validate.Struct(line); err != nil {
		return toValidationError(err, fmt.Sprintf("items[%d].", index))
	}
	return nil
}

// ValidateAddon checks one normalized add-on of the line at itemIndex.
func (v *OrderValidator) ValidateAddon(itemIndex, index int, addon models.AddonLine) error {
	if err := v.validate.Struct(addon); err != nil {
		return toValidationError(err, fmt.Sprintf("items[%d].addons[%d].", itemIndex, index))
	}
	return nil
}

// normalizeRequest trims text fields, drops blank optionals, defaults add-on
// quantities to one and rounds amounts to MoneyPlaces so that computed line
// totals match what the NUMERIC columns store.
func normalizeRequest(req *models.CreateOrderRequest) *models.CreateOrderRequest {
	out := *req
	out.TenantID = strings.TrimSpace(req.TenantID)
	out.Customer = models.CustomerInput{
		Name:  strings.TrimSpace(req.Customer.Name),
		Phone: common.TrimmedOrNil(req.Customer.Phone),
	}
	out.PaymentMethod = common.TrimmedOrNil(req.PaymentMethod)
	out.DeliveryMethod = common.TrimmedOrNil(req.DeliveryMethod)
	out.Observations = common.TrimmedOrNil(req.Observations)
	out.DeliveryAddress = common.TrimmedOrNil(req.DeliveryAddress)
	out.Total = req.Total.Round(MoneyPlaces)

	if req.Items != nil {
		out.Items = make([]models.CartLine, len(req.Items))
	}
	for i, line := range req.Items {
		nl := line
		nl.ProductID = strings.TrimSpace(line.ProductID)
		nl.Name = strings.TrimSpace(line.Name)
		nl.Observations = common.TrimmedOrNil(line.Observations)
		nl.UnitPrice = line.UnitPrice.Round(MoneyPlaces)
		if line.Addons != nil {
			nl.Addons = make([]models.AddonLine, len(line.Addons))
		}
		for j, addon := range line.Addons {
			na := addon
			na.Name = strings.TrimSpace(addon.Name)
			na.Category = common.TrimmedOrNil(addon.Category)
			na.UnitPrice = addon.UnitPrice.Round(MoneyPlaces)
			if na.Quantity == 0 {
				na.Quantity = 1
			}
			nl.Addons[j] = na
		}
		out.Items[i] = nl
	}
	return &out
}

func toValidationError(err error, prefix string) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return common.NewValidationError(strings.TrimSuffix(prefix, "."), err.Error())
	}
	fe := errs[0]
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	return common.NewValidationError(prefix+field, validationMessage(fe))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s entries", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	}
	return "is invalid"
}
