package handlers

import (
	"time"

	"menuhub/internal/caching"
	"menuhub/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const ChatbotSecretHeader = "X-Chatbot-Secret"

// RouteConfig carries what route registration needs beyond the handlers.
type RouteConfig struct {
	Version        string
	JWTSecret      string
	TenantClaim    string
	ChatbotSecret  string
	Idempotency    caching.CacheService
	IdempotencyTTL time.Duration
	Gatherer       prometheus.Gatherer
}

// RegisterRoutes mounts health, metrics and the versioned order API on e.
// The chatbot route is only mounted when a shared secret is configured.
func RegisterRoutes(e *echo.Echo, cfg RouteConfig, orders *OrderHandlers, health *HealthHandlers) {
	e.GET("/health", health.LivenessCheck)
	e.GET("/health/ready", health.ReadinessCheck)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := middleware.VersionRoute(e, cfg.Version)
	idempotent := middleware.Idempotency(cfg.Idempotency, cfg.IdempotencyTTL)

	backoffice := v1.Group("/orders", middleware.JWTMiddleware(cfg.JWTSecret, cfg.TenantClaim))
	backoffice.POST("", orders.CreateBackofficeOrder, idempotent)
	backoffice.GET("", orders.ListOrders)
	backoffice.GET("/:id", orders.GetOrder)

	v1.POST("/storefront/:tenant/orders", orders.CreateStorefrontOrder,
		middleware.TenantFromParam("tenant"), idempotent)

	if cfg.ChatbotSecret != "" {
		v1.POST("/chatbot/orders", orders.CreateChatbotOrder,
			middleware.SharedSecret(ChatbotSecretHeader, cfg.ChatbotSecret), idempotent)
	}
}
