package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels for Checkouts.
const (
	ResultOK           = "ok"
	ResultEmpty        = "empty_cart"
	ResultInsufficient = "insufficient_stock"
	ResultError        = "error"
)

type ShopMetrics struct {
	Checkouts *prometheus.CounterVec
	UnitsSold prometheus.Counter
	CartOps   *prometheus.CounterVec
	Requests  *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the shop collectors on reg. Tests pass a fresh registry.
func New(reg *prometheus.Registry) *ShopMetrics {
	m := &ShopMetrics{
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by result.",
		}, []string{"result"}),
		UnitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "units_sold_total",
			Help:      "Stock units decremented by committed checkouts.",
		}),
		CartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "cart_operations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "status"}),
		gatherer: reg,
	}
	reg.MustRegister(m.Checkouts, m.UnitsSold, m.CartOps, m.Requests)
	return m
}

// Checkout records one attempt. A nil receiver is a no-op.
func (m *ShopMetrics) Checkout(result string, units int) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(result).Inc()
	if units > 0 {
		m.UnitsSold.Add(float64(units))
	}
}

func (m *ShopMetrics) CartOp(op string) {
	if m == nil {
		return
	}
	m.CartOps.WithLabelValues(op).Inc()
}

func (m *ShopMetrics) Request(method, status string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, status).Inc()
}

func (m *ShopMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
