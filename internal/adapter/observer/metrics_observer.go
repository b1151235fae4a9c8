package observer

import (
	"context"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/infrastructure/metrics"
	"github.com/econsim/clearing/internal/usecase"
)

// MetricsObserver exports engine events as Prometheus metrics.
type MetricsObserver struct {
	metrics *metrics.Metrics
}

// NewMetricsObserver creates a new MetricsObserver.
func NewMetricsObserver(m *metrics.Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) OnTransfer(ctx context.Context, event domain.TransferEvent) {
	currency := event.Transfer.Currency
	o.metrics.TransfersExecuted.WithLabelValues(currency).Inc()
	amount, _ := event.Transfer.Amount.Abs().Float64()
	o.metrics.TransferVolume.WithLabelValues(currency).Add(amount)
}

func (o *MetricsObserver) OnPriceTick(ctx context.Context, tick domain.PriceTick) {
	commodity := tick.Commodity.String()
	o.metrics.FillsSettled.WithLabelValues(string(tick.Commodity.Kind)).Inc()
	amount, _ := tick.Amount.Float64()
	o.metrics.SettledVolume.WithLabelValues(commodity, tick.Currency).Add(amount)
	price, _ := tick.Price.Float64()
	o.metrics.LastTradePrice.WithLabelValues(commodity, tick.Currency).Set(price)
}

func (o *MetricsObserver) OnBalanceSheet(ctx context.Context, sheet domain.BalanceSheet) {}

func (o *MetricsObserver) OnReserveTopUp(ctx context.Context, topUp domain.ReserveTopUp) {
	o.metrics.ReserveTopUps.WithLabelValues(topUp.Currency).Inc()
	face, _ := topUp.FaceValue.Float64()
	o.metrics.ReserveCreated.WithLabelValues(topUp.Currency).Add(face)
}

var _ usecase.Observer = (*MetricsObserver)(nil)
