package services

import (
	"context"
	"fmt"

	"menuhub/internal/common"
	"menuhub/internal/logging"
	"menuhub/internal/metrics"
	"menuhub/internal/models"
	"menuhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderIngestionService turns a submitted cart into a persisted order. Every
// transport adapter calls CreateOrder with its own IngestionPath.
type OrderIngestionService interface {
	CreateOrder(ctx context.Context, path models.IngestionPath, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error)
}

type orderIngestionService struct {
	stores    repositories.StoreFactory
	validator *OrderValidator
	catalog   CatalogLookup
	metrics   *metrics.IngestionMetrics
}

func NewOrderIngestionService(stores repositories.StoreFactory, catalog CatalogLookup, m *metrics.IngestionMetrics) OrderIngestionService {
	return &orderIngestionService{
		stores:    stores,
		validator: NewOrderValidator(),
		catalog:   catalog,
		metrics:   m,
	}
}

// ingestionTally accumulates per-line results while items are written.
type ingestionTally struct {
	saved          int
	withProduct    int
	withoutProduct int
	warnings       []string
	computedTotal  decimal.Decimal
}

// CreateOrder validates req, writes the order header and then each item and
// add-on one at a time. Only the order level validation and the header write
// can fail the call. Invalid or failed items and add-ons are logged and
// skipped.
func (s *orderIngestionService) CreateOrder(ctx context.Context, path models.IngestionPath, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	normalized, err := s.validator.Validate(req)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithFields(ctx, map[string]any{
		"tenant_id":      normalized.TenantID,
		"ingestion_path": path.Tag,
	})
	logger := logging.FromContext(ctx)

	store, err := s.stores.Acquire(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("datastore unavailable")
		return nil, fmt.Errorf("acquire datastore: %w", err)
	}
	defer store.Release()

	order, err := s.writeOrder(ctx, store, path, normalized)
	if err != nil {
		s.metrics.IncOrderWriteFailure(path.Tag)
		logger.Error().Err(err).Msg("order write failed")
		return nil, &common.OrderWriteError{Cause: err}
	}
	s.metrics.IncOrderCreated(path.Tag)

	ctx = logging.WithField(ctx, "order_id", order.ID.String())
	logger = logging.FromContext(ctx)

	tally := &ingestionTally{warnings: []string{}, computedTotal: decimal.Zero}
	for i, line := range normalized.Items {
		s.writeLine(ctx, store, path, order, i, line, tally)
	}

	if !tally.computedTotal.Equal(order.Total) {
		logger.Debug().
			Str("submitted_total", order.Total.String()).
			Str("computed_total", tally.computedTotal.String()).
			Msg("submitted total differs from saved lines")
	}

	logger.Info().
		Int64("order_number", order.OrderNumber).
		Int("items_submitted", len(normalized.Items)).
		Int("items_saved", tally.saved).
		Int("items_without_product", tally.withoutProduct).
		Msg("order ingested")

	return &models.CreateOrderResponse{
		Success: true,
		Order: models.OrderSummary{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			Total:       order.Total,
		},
		ItemsSaved:          tally.saved,
		ItemsSubmitted:      len(normalized.Items),
		ItemsWithProduct:    tally.withProduct,
		ItemsWithoutProduct: tally.withoutProduct,
		Warnings:            tally.warnings,
		IngestionPath:       path.Tag,
	}, nil
}

func (s *orderIngestionService) writeOrder(ctx context.Context, store repositories.Store, path models.IngestionPath, req *models.CreateOrderRequest) (*models.Order, error) {
	number, err := store.OrderNumbers().Next(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("next order number: %w", err)
	}

	order := &models.Order{
		ID:              uuid.New(),
		TenantID:        req.TenantID,
		OrderNumber:     number,
		CustomerName:    req.Customer.Name,
		CustomerPhone:   req.Customer.Phone,
		DeliveryAddress: req.DeliveryAddress,
		Status:          path.InitialStatus,
		Total:           req.Total,
		PaymentMethod:   req.PaymentMethod,
		DeliveryMethod:  req.DeliveryMethod,
		Observations:    req.Observations,
		Source:          path.Tag,
	}
	if err := store.Orders().Create(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

func (s *orderIngestionService) writeLine(ctx context.Context, store repositories.Store, path models.IngestionPath, order *models.Order, index int, line models.CartLine, tally *ingestionTally) {
	if err := s.validator.ValidateLine(index, line); err != nil {
		s.metrics.IncLineRejected(path.Tag, "item")
		logging.FromContext(ctx).Warn().Err(err).
			Str("event", "order_item_rejected").
			Int("line", index).
			Str("product_name", line.Name).
			Msg("order item skipped")
		return
	}

	result := s.catalog.Lookup(ctx, store.Products(), order.TenantID, line.ProductID)
	if result.Err != nil {
		logging.FromContext(ctx).Warn().Err(result.Err).
			Str("product_id", line.ProductID).
			Msg("catalog lookup failed, saving item without product link")
	}

	outcome := ReconcileLine(line, result)
	item := outcome.Item
	item.ID = uuid.New()
	item.OrderID = order.ID

	if err := store.Items().Create(ctx, item); err != nil {
		s.metrics.IncItemWriteFailure(path.Tag)
		logging.FromContext(ctx).Warn().Err(err).
			Str("event", "order_item_write_failed").
			Int("line", index).
			Str("product_name", line.Name).
			Msg("order item skipped")
		return
	}

	tally.saved++
	tally.computedTotal = tally.computedTotal.Add(item.LineTotal)
	if outcome.Linked {
		tally.withProduct++
	} else {
		tally.withoutProduct++
		tally.warnings = append(tally.warnings, outcome.Warning)
	}
	s.metrics.IncItemSaved(path.Tag, outcome.Linked)

	for j, addonLine := range line.Addons {
		if err := s.validator.ValidateAddon(index, j, addonLine); err != nil {
			s.metrics.IncLineRejected(path.Tag, "addon")
			logging.FromContext(ctx).Warn().Err(err).
				Str("event", "order_item_addon_rejected").
				Str("order_item_id", item.ID.String()).
				Int("addon", j).
				Msg("order item add-on skipped")
			continue
		}
		addon := ReconcileAddon(item.ID, addonLine)
		addon.ID = uuid.New()
		if err := store.Addons().Create(ctx, addon); err != nil {
			s.metrics.IncAddonWriteFailure(path.Tag)
			logging.FromContext(ctx).Warn().Err(err).
				Str("event", "order_item_addon_write_failed").
				Str("order_item_id", item.ID.String()).
				Int("addon", j).
				Str("addon_name", addonLine.Name).
				Msg("order item add-on skipped")
			continue
		}
		tally.computedTotal = tally.computedTotal.Add(addon.LineTotal)
	}
}
