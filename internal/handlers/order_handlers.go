package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"menuhub/internal/common"
	"menuhub/internal/models"
	"menuhub/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	ingestion services.OrderIngestionService
	queries   services.OrderQueryService
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(ingestion services.OrderIngestionService, queries services.OrderQueryService) *OrderHandlers {
	return &OrderHandlers{
		ingestion: ingestion,
		queries:   queries,
	}
}

// CreateBackofficeOrder handles POST /v1/orders. The tenant comes from the
// token and overrides whatever the body says.
func (h *OrderHandlers) CreateBackofficeOrder(c echo.Context) error {
	return h.createForContextTenant(c, models.PathBackoffice)
}

// CreateStorefrontOrder handles POST /v1/storefront/:tenant/orders
func (h *OrderHandlers) CreateStorefrontOrder(c echo.Context) error {
	return h.createForContextTenant(c, models.PathStorefront)
}

func (h *OrderHandlers) createForContextTenant(c echo.Context, path models.IngestionPath) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	req.TenantID = tenantID

	return h.create(c, path, &req)
}

func (h *OrderHandlers) create(c echo.Context, path models.IngestionPath, req *models.CreateOrderRequest) error {
	resp, err := h.ingestion.CreateOrder(c.Request().Context(), path, req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	detail, err := h.queries.GetOrderDetail(ctx, tenantID, orderID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// ListOrders handles GET /v1/orders
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filter := &models.OrderSearchFilter{}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		filter.Status = &status
	}
	if source := strings.TrimSpace(c.QueryParam("source")); source != "" {
		filter.Source = &source
	}
	if after := c.QueryParam("created_after"); after != "" {
		t, err := time.Parse(time.RFC3339, after)
		if err != nil {
			return common.SendValidationError(c, "created_after", "must be an RFC3339 timestamp")
		}
		filter.CreatedAfter = &t
	}
	if before := c.QueryParam("created_before"); before != "" {
		t, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return common.SendValidationError(c, "created_before", "must be an RFC3339 timestamp")
		}
		filter.CreatedBefore = &t
	}

	limit, err := intQueryParam(c, "limit")
	if err != nil {
		return common.SendValidationError(c, "limit", "must be an integer")
	}
	offset, err := intQueryParam(c, "offset")
	if err != nil {
		return common.SendValidationError(c, "offset", "must be an integer")
	}
	filter.Limit, filter.Offset, err = common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendValidationError(c, "offset", err.Error())
	}

	orders, err := h.queries.ListOrders(ctx, tenantID, filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func intQueryParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
