package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Transfer metrics
	TransfersExecuted *prometheus.CounterVec
	TransferVolume    *prometheus.CounterVec
	TransferErrors    prometheus.Counter

	// Market metrics
	OrdersPlaced    prometheus.Counter
	OrdersCancelled prometheus.Counter
	FillsSettled    *prometheus.CounterVec
	SettledVolume   *prometheus.CounterVec
	LastTradePrice  *prometheus.GaugeVec

	// Banking metrics
	ReserveTopUps  *prometheus.CounterVec
	ReserveCreated *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransfersExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clearing_transfers_executed_total",
			Help: "Total number of executed transfers",
		}, []string{"currency"}),
		TransferVolume: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clearing_transfer_volume_total",
			Help: "Total transferred volume per currency",
		}, []string{"currency"}),
		TransferErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clearing_transfer_errors_total",
			Help: "Total number of rejected transfers",
		}),
		OrdersPlaced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clearing_orders_placed_total",
			Help: "Total number of standing orders placed",
		}),
		OrdersCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clearing_orders_cancelled_total",
			Help: "Total number of standing orders cancelled",
		}),
		FillsSettled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clearing_fills_settled_total",
			Help: "Total number of settled fills per commodity kind",
		}, []string{"kind"}),
		SettledVolume: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clearing_settled_volume_total",
			Help: "Total settled amount per commodity",
		}, []string{"commodity", "currency"}),
		LastTradePrice: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "clearing_last_trade_price",
			Help: "Unit price of the most recent fill per commodity",
		}, []string{"commodity", "currency"}),
		ReserveTopUps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clearing_reserve_topups_total",
			Help: "Total number of reserve shortfall top-ups per currency",
		}, []string{"currency"}),
		ReserveCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clearing_reserve_created_total",
			Help: "Total reserve money created per currency",
		}, []string{"currency"}),
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clearing_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clearing_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}
