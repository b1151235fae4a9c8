package observer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// LoggingObserver writes engine events to the structured log.
type LoggingObserver struct {
	logger zerolog.Logger
}

// NewLoggingObserver creates a new LoggingObserver.
func NewLoggingObserver(logger zerolog.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) OnTransfer(ctx context.Context, event domain.TransferEvent) {
	o.logger.Info().
		Str("transfer_id", event.Transfer.ID).
		Str("from", event.Transfer.FromAccountID).
		Str("to", event.Transfer.ToAccountID).
		Str("currency", event.Transfer.Currency).
		Str("amount", event.Transfer.Amount.String()).
		Str("subject", event.Transfer.Subject).
		Msg("transfer")
}

func (o *LoggingObserver) OnPriceTick(ctx context.Context, tick domain.PriceTick) {
	o.logger.Info().
		Str("commodity", tick.Commodity.String()).
		Str("currency", tick.Currency).
		Str("amount", tick.Amount.String()).
		Str("price", tick.Price.String()).
		Msg("fill")
}

func (o *LoggingObserver) OnBalanceSheet(ctx context.Context, sheet domain.BalanceSheet) {
	o.logger.Info().
		Str("bank_id", sheet.BankID).
		Int("currencies", len(sheet.Assets)).
		Msg("balance sheet")
}

func (o *LoggingObserver) OnReserveTopUp(ctx context.Context, topUp domain.ReserveTopUp) {
	o.logger.Info().
		Str("bank_id", topUp.BankID).
		Str("currency", topUp.Currency).
		Str("face_value", topUp.FaceValue.String()).
		Str("instrument_id", topUp.InstrumentID).
		Msg("reserve top-up")
}

var _ usecase.Observer = (*LoggingObserver)(nil)
