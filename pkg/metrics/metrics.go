// Package metrics provides Prometheus instrumentation for the stock and
// order services.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wyfcoding/stockkeeper/pkg/logger"
)

// Metrics bundles the service counters and histograms.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration prometheus.Histogram

	StockMovementsTotal *prometheus.CounterVec
	ProductsTracked     prometheus.Gauge

	OrderItemsTotal   prometheus.Counter
	CatalogLookups    *prometheus.CounterVec
	CatalogLookupTime prometheus.Histogram

	registry *prometheus.Registry
}

// New creates and registers the metric set.
func New(serviceName string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockkeeper",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stockkeeper",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		StockMovementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockkeeper",
			Subsystem: serviceName,
			Name:      "stock_movements_total",
			Help:      "Stock movements recorded, by type",
		}, []string{"type"}),
		ProductsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stockkeeper",
			Subsystem: serviceName,
			Name:      "products_tracked",
			Help:      "Number of products currently tracked",
		}),
		OrderItemsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stockkeeper",
			Subsystem: serviceName,
			Name:      "order_items_total",
			Help:      "Manual order items created",
		}),
		CatalogLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockkeeper",
			Subsystem: serviceName,
			Name:      "catalog_lookups_total",
			Help:      "Catalog lookups, by outcome",
		}, []string{"outcome"}),
		CatalogLookupTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stockkeeper",
			Subsystem: serviceName,
			Name:      "catalog_lookup_duration_seconds",
			Help:      "Catalog lookup duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StockMovementsTotal,
		m.ProductsTracked,
		m.OrderItemsTotal,
		m.CatalogLookups,
		m.CatalogLookupTime,
	)

	return m
}

// ExposeHTTP serves the metric registry on its own port. Blocks.
func (m *Metrics) ExposeHTTP(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Metrics server starting", "addr", addr, "path", path)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error(context.Background(), "Metrics server failed", "error", err)
	}
}
