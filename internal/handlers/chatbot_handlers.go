package handlers

import (
	"menuhub/internal/common"
	"menuhub/internal/logging"
	"menuhub/internal/models"

	"github.com/labstack/echo/v4"
)

// CreateChatbotOrder handles POST /v1/chatbot/orders. The assistant names
// the tenant in the payload; the route itself is guarded by a shared secret.
func (h *OrderHandlers) CreateChatbotOrder(c echo.Context) error {
	var payload models.ChatbotOrderPayload
	if err := c.Bind(&payload); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req := payload.ToCreateOrderRequest()
	if req.TenantID != "" {
		ctx := common.WithTenantID(c.Request().Context(), req.TenantID)
		c.SetRequest(c.Request().WithContext(logging.WithTenantID(ctx, req.TenantID)))
	}
	return h.create(c, models.PathChatbot, req)
}
