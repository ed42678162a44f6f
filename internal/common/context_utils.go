package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"menuhub/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	TenantIDKey  contextKey = "tenant_id"
	RequestIDKey contextKey = "request_id"
)

// SendFailure writes the failure envelope shared by every order route.
func SendFailure(c echo.Context, status int, message, details string) error {
	return c.JSON(status, models.FailureResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := message
	if field != "" {
		details = fmt.Sprintf("%s: %s", field, message)
	}
	return SendFailure(c, http.StatusBadRequest, "Validation failed", details)
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return SendFailure(c, http.StatusBadRequest, message, "")
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return SendFailure(c, http.StatusInternalServerError, message, "")
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return SendFailure(c, http.StatusNotFound, fmt.Sprintf("%s not found", resource), "")
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return SendFailure(c, http.StatusUnauthorized, "Unauthorized access", "")
}

// SendError maps service errors onto HTTP statuses.
func SendError(c echo.Context, err error) error {
	var ve *ValidationError
	var we *OrderWriteError
	switch {
	case errors.As(err, &ve):
		return SendValidationError(c, ve.Field, ve.Message)
	case errors.As(err, &we):
		return SendServerError(c, "Failed to create order")
	case errors.Is(err, ErrOrderNotFound):
		return SendNotFoundError(c, "Order")
	case errors.Is(err, ErrUnauthorizedTenant):
		return SendUnauthorizedError(c)
	default:
		return SendServerError(c, "Internal server error")
	}
}

// HTTPErrorHandler renders errors that escape handlers, including recovered
// panics, in the failure envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		_ = SendFailure(c, he.Code, message, "")
		return
	}

	zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("unhandled request error")
	_ = SendServerError(c, "Internal server error")
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", fieldName)
	}
	return id, nil
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		return 0, 0, fmt.Errorf("offset cannot be negative")
	}
	if offset > 1000000 {
		return 0, 0, fmt.Errorf("offset cannot exceed 1,000,000")
	}
	return limit, offset, nil
}

// TrimmedOrNil trims s and returns nil when nothing is left.
func TrimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// SecureErrorMessage creates standardized error messages to prevent information leakage
func SecureErrorMessage(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: operation could not be completed", operation)
}

// WithTenantID stores the resolved tenant on ctx.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

// GetTenantIDFromContext extracts the tenant ID from the request context
func GetTenantIDFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(string)
	return tenantID, ok && tenantID != ""
}

// WithRequestID stores the request id on ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestIDFromContext extracts the request ID from the request context
func GetRequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}
