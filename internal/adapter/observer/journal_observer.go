package observer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// JournalObserver archives every transfer write-behind. The in-process
// ledger is authoritative; a failed archive write is logged, never
// propagated into settlement.
type JournalObserver struct {
	journal usecase.JournalRepository
	logger  zerolog.Logger
}

// NewJournalObserver creates a new JournalObserver.
func NewJournalObserver(journal usecase.JournalRepository, logger zerolog.Logger) *JournalObserver {
	return &JournalObserver{journal: journal, logger: logger}
}

func (o *JournalObserver) OnTransfer(ctx context.Context, event domain.TransferEvent) {
	if err := o.journal.CreateTransfer(ctx, event.Transfer, event.Legs); err != nil {
		o.logger.Error().
			Err(err).
			Str("transfer_id", event.Transfer.ID).
			Msg("journal archive failed")
	}
}

func (o *JournalObserver) OnPriceTick(ctx context.Context, tick domain.PriceTick)        {}
func (o *JournalObserver) OnBalanceSheet(ctx context.Context, sheet domain.BalanceSheet) {}
func (o *JournalObserver) OnReserveTopUp(ctx context.Context, topUp domain.ReserveTopUp) {}

var _ usecase.Observer = (*JournalObserver)(nil)
