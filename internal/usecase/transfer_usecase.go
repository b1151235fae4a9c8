package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
)

// TransferUseCase is the single mutation path for balances. Every balance
// change in the system is a transfer, which is what makes conservation
// provable: each executed leg debits one account and credits another by the
// same amount.
type TransferUseCase struct {
	accountRepo AccountRepository
	bankRepo    BankRepository
	idGen       IDGenerator
	observer    Observer
	logger      zerolog.Logger
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	accountRepo AccountRepository,
	bankRepo BankRepository,
	idGen IDGenerator,
	observer Observer,
	logger zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		accountRepo: accountRepo,
		bankRepo:    bankRepo,
		idGen:       idGen,
		observer:    observer,
		logger:      logger,
	}
}

// TransferInput represents one requested money movement.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Subject       string
	// AllowNegative permits a negative amount, which moves money in the
	// opposite direction. Used by interest accrual on overdrawn accounts.
	AllowNegative bool
}

// Execute validates and executes a transfer. Accounts at the same bank are
// settled directly; accounts at different banks are settled through the
// payer bank's transit account at the currency's central bank. All
// preconditions are checked before any mutation, so the multi-account relay
// is all-or-nothing.
func (uc *TransferUseCase) Execute(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}
	if !input.AllowNegative && input.Amount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	if input.Amount.Abs().GreaterThan(domain.MaxTransferAmount) {
		return nil, domain.ErrAmountTooLarge
	}

	from, err := uc.accountRepo.Get(ctx, input.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := uc.accountRepo.Get(ctx, input.ToAccountID)
	if err != nil {
		return nil, err
	}

	if err := from.Compatible(to); err != nil {
		return nil, err
	}
	if err := from.ValidateWithdraw(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var legs []*domain.JournalEntry
	fromPrev, toPrev := from.Balance, to.Balance

	if from.BankID == to.BankID {
		legs, err = uc.move(ctx, from, to, input.Amount, now)
		if err != nil {
			return nil, err
		}
	} else {
		legs, err = uc.relay(ctx, from, to, input.Amount, now)
		if err != nil {
			return nil, err
		}
	}

	transfer := &domain.Transfer{
		ID:            uc.idGen.Generate(),
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Currency:      from.Currency,
		Amount:        input.Amount,
		Subject:       input.Subject,
		CreatedAt:     now,
	}

	for _, leg := range legs {
		leg.TransferID = transfer.ID
	}

	uc.logger.Debug().
		Str("transfer_id", transfer.ID).
		Str("from", from.ID).
		Str("to", to.ID).
		Str("currency", transfer.Currency).
		Str("amount", input.Amount.String()).
		Str("subject", input.Subject).
		Msg("transfer executed")

	uc.observer.OnTransfer(ctx, domain.TransferEvent{
		Transfer:     transfer,
		Legs:         legs,
		FromPrevious: fromPrev,
		FromCurrent:  from.Balance,
		ToPrevious:   toPrev,
		ToCurrent:    to.Balance,
	})

	return transfer, nil
}

// relay settles a transfer whose endpoints are managed by different banks.
// When either endpoint sits at the central bank itself a single leg
// suffices; bank-to-bank settlement takes two legs through the payer bank's
// transit account, which must read zero immediately before and after.
func (uc *TransferUseCase) relay(ctx context.Context, from, to *domain.Account, amount decimal.Decimal, now time.Time) ([]*domain.JournalEntry, error) {
	cb, err := uc.bankRepo.CentralBank(ctx, from.Currency)
	if err != nil {
		return nil, err
	}
	fromBank, err := uc.bankRepo.Get(ctx, from.BankID)
	if err != nil {
		return nil, err
	}
	toBank, err := uc.bankRepo.Get(ctx, to.BankID)
	if err != nil {
		return nil, err
	}

	// Capability checks: every credit-bank leg through the central bank
	// requires an authenticated customer relationship on both sides.
	if fromBank.Kind == domain.BankKindCredit {
		if !cb.IsCustomer(fromBank.ID) {
			return nil, domain.ErrNotBankCustomer
		}
	}
	if toBank.Kind == domain.BankKindCredit {
		if !toBank.IsCustomer(cb.ID) {
			return nil, domain.ErrNotBankCustomer
		}
	}

	// One endpoint at the central bank: a single central-bank leg settles it.
	if fromBank.ID == cb.ID || toBank.ID == cb.ID {
		return uc.move(ctx, from, to, amount, now)
	}

	transitID, ok := fromBank.TransitAccount(from.Currency)
	if !ok {
		return nil, domain.ErrNotBankCustomer
	}
	transit, err := uc.accountRepo.Get(ctx, transitID)
	if err != nil {
		return nil, err
	}

	if !transit.Balance.IsZero() {
		// A transit account holding value outside a relay means a previous
		// relay left the ledger inconsistent. Not recoverable.
		panic(fmt.Sprintf("transit account %s non-zero before relay: %s", transit.ID, transit.Balance))
	}
	if err := from.Compatible(transit); err != nil {
		return nil, err
	}
	if err := transit.Compatible(to); err != nil {
		return nil, err
	}

	legs, err := uc.move(ctx, from, transit, amount, now)
	if err != nil {
		return nil, err
	}
	second, err := uc.move(ctx, transit, to, amount, now)
	if err != nil {
		return nil, fmt.Errorf("relay second leg: %w", err)
	}
	legs = append(legs, second...)

	if !transit.Balance.IsZero() {
		panic(fmt.Sprintf("transit account %s non-zero after relay: %s", transit.ID, transit.Balance))
	}

	return legs, nil
}

// move debits from and credits to by amount. Preconditions are assumed
// checked; only repository failures can surface here.
func (uc *TransferUseCase) move(ctx context.Context, from, to *domain.Account, amount decimal.Decimal, now time.Time) ([]*domain.JournalEntry, error) {
	fromNew := from.ApplyWithdraw(amount)
	toNew := to.ApplyDeposit(amount)

	if err := uc.accountRepo.UpdateBalance(ctx, from.ID, fromNew, now); err != nil {
		return nil, fmt.Errorf("withdraw from %s: %w", from.ID, err)
	}
	if err := uc.accountRepo.UpdateBalance(ctx, to.ID, toNew, now); err != nil {
		return nil, fmt.Errorf("deposit to %s: %w", to.ID, err)
	}

	legs := []*domain.JournalEntry{
		{
			ID:              uc.idGen.Generate(),
			AccountID:       from.ID,
			Amount:          amount.Neg(),
			PreviousBalance: from.Balance,
			CurrentBalance:  fromNew,
			CreatedAt:       now,
		},
		{
			ID:              uc.idGen.Generate(),
			AccountID:       to.ID,
			Amount:          amount,
			PreviousBalance: to.Balance,
			CurrentBalance:  toNew,
			CreatedAt:       now,
		},
	}

	from.Balance = fromNew
	to.Balance = toNew

	return legs, nil
}
