package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// IngestionMetrics counts what the order pipeline persisted and skipped.
type IngestionMetrics struct {
	orders            *prometheus.CounterVec
	orderWriteFailure *prometheus.CounterVec
	items             *prometheus.CounterVec
	itemWriteFailure  *prometheus.CounterVec
	addonWriteFailure *prometheus.CounterVec
	linesRejected     *prometheus.CounterVec
}

// NewIngestionMetrics registers the pipeline metrics on reg. A nil reg
// yields a no-op collector.
func NewIngestionMetrics(reg prometheus.Registerer) *IngestionMetrics {
	if reg == nil {
		return &IngestionMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "menuhub_orders_created_total",
		Help: "Orders persisted, by ingestion path.",
	}, []string{"path"})
	orderWriteFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "menuhub_order_write_failures_total",
		Help: "Order header inserts that failed.",
	}, []string{"path"})
	items := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "menuhub_order_items_saved_total",
		Help: "Order items persisted, split by whether a catalog product was linked.",
	}, []string{"path", "linked"})
	itemWriteFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "menuhub_order_item_write_failures_total",
		Help: "Order item inserts that failed and were skipped.",
	}, []string{"path"})
	addonWriteFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "menuhub_order_item_addon_write_failures_total",
		Help: "Order item add-on inserts that failed and were skipped.",
	}, []string{"path"})
	linesRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "menuhub_order_lines_rejected_total",
		Help: "Cart lines and add-ons skipped because they failed validation.",
	}, []string{"path", "kind"})
	reg.MustRegister(orders, orderWriteFailure, items, itemWriteFailure, addonWriteFailure, linesRejected)
	return &IngestionMetrics{
		orders:            orders,
		orderWriteFailure: orderWriteFailure,
		items:             items,
		itemWriteFailure:  itemWriteFailure,
		addonWriteFailure: addonWriteFailure,
		linesRejected:     linesRejected,
	}
}

func (m *IngestionMetrics) IncOrderCreated(path string) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(normalizeLabel(path)).Inc()
}

func (m *IngestionMetrics) IncOrderWriteFailure(path string) {
	if m == nil || m.orderWriteFailure == nil {
		return
	}
	m.orderWriteFailure.WithLabelValues(normalizeLabel(path)).Inc()
}

func (m *IngestionMetrics) IncItemSaved(path string, linked bool) {
	if m == nil || m.items == nil {
		return
	}
	label := "false"
	if linked {
		label = "true"
	}
	m.items.WithLabelValues(normalizeLabel(path), label).Inc()
}

func (m *IngestionMetrics) IncItemWriteFailure(path string) {
	if m == nil || m.itemWriteFailure == nil {
		return
	}
	m.itemWriteFailure.WithLabelValues(normalizeLabel(path)).Inc()
}

func (m *IngestionMetrics) IncAddonWriteFailure(path string) {
	if m == nil || m.addonWriteFailure == nil {
		return
	}
	m.addonWriteFailure.WithLabelValues(normalizeLabel(path)).Inc()
}

// IncLineRejected counts a skipped line; kind is "item" or "addon".
func (m *IngestionMetrics) IncLineRejected(path, kind string) {
	if m == nil || m.linesRejected == nil {
		return
	}
	m.linesRejected.WithLabelValues(normalizeLabel(path), normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
