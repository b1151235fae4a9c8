package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
)

// BankingUseCase manages banks, account lifecycle, and the periodic
// operations the external clock drives: interest accrual, the reserve
// check, and balance-sheet snapshots. None of these schedule themselves.
type BankingUseCase struct {
	bankRepo       BankRepository
	accountRepo    AccountRepository
	instrumentRepo InstrumentRepository
	transferUC     *TransferUseCase
	idGen          IDGenerator
	observer       Observer
	logger         zerolog.Logger
}

// NewBankingUseCase creates a new BankingUseCase.
func NewBankingUseCase(
	bankRepo BankRepository,
	accountRepo AccountRepository,
	instrumentRepo InstrumentRepository,
	transferUC *TransferUseCase,
	idGen IDGenerator,
	observer Observer,
	logger zerolog.Logger,
) *BankingUseCase {
	return &BankingUseCase{
		bankRepo:       bankRepo,
		accountRepo:    accountRepo,
		instrumentRepo: instrumentRepo,
		transferUC:     transferUC,
		idGen:          idGen,
		observer:       observer,
		logger:         logger,
	}
}

// RegisterCentralBank creates the clearing hub for one currency, with its
// issuance account. The issuance account is the only account that may run
// arbitrarily negative: crediting reserves out of it is the system's single
// money-creation path.
func (uc *BankingUseCase) RegisterCentralBank(ctx context.Context, name, currency string, reserveRatio decimal.Decimal) (*domain.Bank, error) {
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	if reserveRatio.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}

	now := time.Now().UTC()
	bank := &domain.Bank{
		ID:                uc.idGen.Generate(),
		Name:              name,
		Kind:              domain.BankKindCentral,
		Currency:          currency,
		ReserveRatio:      reserveRatio,
		TransitAccountIDs: map[string]string{},
		ReserveAccountIDs: map[string]string{},
		OwnAccountIDs:     map[string]string{},
		Customers:         map[string]bool{},
		CreatedAt:         now,
	}

	issuance := &domain.Account{
		ID:             uc.idGen.Generate(),
		OwnerID:        bank.ID,
		BankID:         bank.ID,
		Currency:       currency,
		MoneyType:      domain.MoneyTypeCentralBankMoney,
		TermType:       domain.TermLong,
		Balance:        decimal.Zero,
		AllowOverdraft: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.accountRepo.Create(ctx, issuance); err != nil {
		return nil, err
	}
	bank.IssuanceAccountID = issuance.ID

	if err := uc.bankRepo.Create(ctx, bank); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("bank_id", bank.ID).
		Str("currency", currency).
		Str("reserve_ratio", reserveRatio.String()).
		Msg("central bank registered")

	return bank, nil
}

// RegisterCreditBank creates a customer-facing bank. For each currency it
// trades in, the bank gets a transit and a reserve account at that
// currency's central bank plus an own transactions account at itself, and
// the customer relationship with the central bank is established both ways.
func (uc *BankingUseCase) RegisterCreditBank(ctx context.Context, name string, currencies []string) (*domain.Bank, error) {
	if len(currencies) == 0 {
		return nil, domain.ErrInvalidCurrency
	}

	now := time.Now().UTC()
	bank := &domain.Bank{
		ID:                uc.idGen.Generate(),
		Name:              name,
		Kind:              domain.BankKindCredit,
		Currency:          currencies[0],
		TransitAccountIDs: map[string]string{},
		ReserveAccountIDs: map[string]string{},
		OwnAccountIDs:     map[string]string{},
		Customers:         map[string]bool{},
		CreatedAt:         now,
	}

	for _, currency := range currencies {
		if err := domain.ValidateCurrency(currency); err != nil {
			return nil, err
		}
		cb, err := uc.bankRepo.CentralBank(ctx, currency)
		if err != nil {
			return nil, err
		}

		transit := &domain.Account{
			ID:        uc.idGen.Generate(),
			OwnerID:   bank.ID,
			BankID:    cb.ID,
			Currency:  currency,
			MoneyType: domain.MoneyTypeDeposits,
			TermType:  domain.TermShort,
			Balance:   decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.accountRepo.Create(ctx, transit); err != nil {
			return nil, err
		}
		bank.TransitAccountIDs[currency] = transit.ID

		reserve := &domain.Account{
			ID:        uc.idGen.Generate(),
			OwnerID:   bank.ID,
			BankID:    cb.ID,
			Currency:  currency,
			MoneyType: domain.MoneyTypeCentralBankMoney,
			TermType:  domain.TermLong,
			Balance:   decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.accountRepo.Create(ctx, reserve); err != nil {
			return nil, err
		}
		bank.ReserveAccountIDs[currency] = reserve.ID

		own := &domain.Account{
			ID:             uc.idGen.Generate(),
			OwnerID:        bank.ID,
			BankID:         bank.ID,
			Currency:       currency,
			MoneyType:      domain.MoneyTypeDeposits,
			TermType:       domain.TermShort,
			Balance:        decimal.Zero,
			AllowOverdraft: true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := uc.accountRepo.Create(ctx, own); err != nil {
			return nil, err
		}
		bank.OwnAccountIDs[currency] = own.ID

		cb.Customers[bank.ID] = true
		if err := uc.bankRepo.Update(ctx, cb); err != nil {
			return nil, err
		}
		bank.Customers[cb.ID] = true
	}

	if err := uc.bankRepo.Create(ctx, bank); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("bank_id", bank.ID).
		Strs("currencies", currencies).
		Msg("credit bank registered")

	return bank, nil
}

// OpenAccountInput describes a customer account to open.
type OpenAccountInput struct {
	OwnerID        string
	BankID         string
	Currency       string
	TermType       domain.TermType
	AllowOverdraft bool
}

// OpenAccount opens a deposits account for a customer and registers the
// customer relationship with the bank.
func (uc *BankingUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	if err := domain.ValidatePartyID(input.OwnerID); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}
	bank, err := uc.bankRepo.Get(ctx, input.BankID)
	if err != nil {
		return nil, err
	}

	termType := input.TermType
	if termType == "" {
		termType = domain.TermShort
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		BankID:         bank.ID,
		Currency:       input.Currency,
		MoneyType:      domain.MoneyTypeDeposits,
		TermType:       termType,
		Balance:        decimal.Zero,
		AllowOverdraft: input.AllowOverdraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if !bank.Customers[input.OwnerID] {
		bank.Customers[input.OwnerID] = true
		if err := uc.bankRepo.Update(ctx, bank); err != nil {
			return nil, err
		}
	}

	return account, nil
}

// CloseAccount destroys an account after evening its balance up to zero
// against the owner's transactions account: a positive remainder is paid
// out, a negative one collected.
func (uc *BankingUseCase) CloseAccount(ctx context.Context, accountID string) error {
	account, err := uc.accountRepo.Get(ctx, accountID)
	if err != nil {
		return err
	}

	if !account.Balance.IsZero() {
		target, err := uc.transactionsAccountOf(ctx, account)
		if err != nil {
			return err
		}
		if _, err := uc.transferUC.Execute(ctx, TransferInput{
			FromAccountID: account.ID,
			ToAccountID:   target.ID,
			Amount:        account.Balance,
			Subject:       fmt.Sprintf("close-out of account %s", account.ID),
			AllowNegative: true,
		}); err != nil {
			return err
		}
	}

	return uc.accountRepo.Delete(ctx, accountID)
}

// transactionsAccountOf finds the owner's short-term deposits account to
// even a closing balance against, preferring one at the same bank.
func (uc *BankingUseCase) transactionsAccountOf(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	others, err := uc.accountRepo.ListByOwner(ctx, account.OwnerID, account.Currency)
	if err != nil {
		return nil, err
	}

	var fallback *domain.Account
	for _, candidate := range others {
		if candidate.ID == account.ID || candidate.MoneyType != account.MoneyType || candidate.TermType != domain.TermShort {
			continue
		}
		if candidate.BankID == account.BankID {
			return candidate, nil
		}
		if fallback == nil {
			fallback = candidate
		}
	}
	if fallback != nil {
		return fallback, nil
	}

	return nil, domain.ErrNoTransactionsAccount
}

// CheckReserves runs the fractional-reserve check for one credit bank, per
// currency. A shortfall is not an error: the bank issues a debt instrument
// to the central bank whose face value exactly equals the gap, and the
// reserve account is credited by the gap out of the central bank's issuance
// account. Still-insufficient reserves simply surface again next cycle.
func (uc *BankingUseCase) CheckReserves(ctx context.Context, bankID string) ([]domain.ReserveTopUp, error) {
	bank, err := uc.bankRepo.Get(ctx, bankID)
	if err != nil {
		return nil, err
	}
	if bank.Kind != domain.BankKindCredit {
		return nil, domain.ErrNotCreditBank
	}

	managed, err := uc.accountRepo.ListByBank(ctx, bank.ID)
	if err != nil {
		return nil, err
	}

	var topUps []domain.ReserveTopUp
	now := time.Now().UTC()

	for currency, reserveID := range bank.ReserveAccountIDs {
		cb, err := uc.bankRepo.CentralBank(ctx, currency)
		if err != nil {
			return nil, err
		}
		reserve, err := uc.accountRepo.Get(ctx, reserveID)
		if err != nil {
			return nil, err
		}

		liabilities := decimal.Zero
		for _, acc := range managed {
			if acc.OwnerID == bank.ID || acc.Currency != currency || acc.MoneyType != domain.MoneyTypeDeposits {
				continue
			}
			if acc.Balance.IsPositive() {
				liabilities = liabilities.Add(acc.Balance)
			}
		}

		required := cb.ReserveRatio.Mul(liabilities)
		gap := required.Sub(reserve.Balance)
		if !gap.IsPositive() {
			continue
		}

		instrument := &domain.DebtInstrument{
			ID:        uc.idGen.Generate(),
			Class:     "reserve-bond",
			IssuerID:  bank.ID,
			HolderID:  cb.ID,
			Currency:  currency,
			FaceValue: gap,
			IssuedAt:  now,
		}
		if err := uc.instrumentRepo.Create(ctx, instrument); err != nil {
			return nil, err
		}

		if _, err := uc.transferUC.Execute(ctx, TransferInput{
			FromAccountID: cb.IssuanceAccountID,
			ToAccountID:   reserve.ID,
			Amount:        gap,
			Subject:       fmt.Sprintf("reserve top-up against bond %s", instrument.ID),
		}); err != nil {
			return nil, err
		}

		topUp := domain.ReserveTopUp{
			BankID:       bank.ID,
			Currency:     currency,
			Required:     required,
			Held:         reserve.Balance,
			InstrumentID: instrument.ID,
			FaceValue:    gap,
			At:           now,
		}
		topUps = append(topUps, topUp)
		uc.observer.OnReserveTopUp(ctx, topUp)

		uc.logger.Info().
			Str("bank_id", bank.ID).
			Str("currency", currency).
			Str("gap", gap.String()).
			Str("instrument_id", instrument.ID).
			Msg("reserve shortfall covered by bond issuance")
	}

	return topUps, nil
}

// AccrueInterest applies one period of interest to every customer deposits
// account the bank manages, per currency, through the transfer primitive:
// positive balances earn from the bank's own transactions account, negative
// balances pay into it.
func (uc *BankingUseCase) AccrueInterest(ctx context.Context, bankID string, rate decimal.Decimal) error {
	bank, err := uc.bankRepo.Get(ctx, bankID)
	if err != nil {
		return err
	}
	if bank.Kind != domain.BankKindCredit {
		return domain.ErrNotCreditBank
	}

	managed, err := uc.accountRepo.ListByBank(ctx, bank.ID)
	if err != nil {
		return err
	}

	for _, acc := range managed {
		if acc.OwnerID == bank.ID || acc.MoneyType != domain.MoneyTypeDeposits {
			continue
		}
		ownID, ok := bank.OwnAccountIDs[acc.Currency]
		if !ok {
			continue
		}

		interest := acc.Balance.Mul(rate)
		if interest.IsZero() {
			continue
		}

		// A negative balance yields negative interest, which moves money
		// from the customer to the bank through the same primitive.
		if _, err := uc.transferUC.Execute(ctx, TransferInput{
			FromAccountID: ownID,
			ToAccountID:   acc.ID,
			Amount:        interest,
			Subject:       fmt.Sprintf("interest at %s on account %s", rate, acc.ID),
			AllowNegative: true,
		}); err != nil {
			return err
		}
	}

	return nil
}

// BalanceSheet aggregates a bank's managed and held positions per currency
// and emits the snapshot to the observer.
func (uc *BankingUseCase) BalanceSheet(ctx context.Context, bankID string) (*domain.BalanceSheet, error) {
	bank, err := uc.bankRepo.Get(ctx, bankID)
	if err != nil {
		return nil, err
	}

	sheet := &domain.BalanceSheet{
		BankID:      bank.ID,
		Assets:      map[string]decimal.Decimal{},
		Liabilities: map[string]decimal.Decimal{},
		TakenAt:     time.Now().UTC(),
	}

	add := func(m map[string]decimal.Decimal, currency string, amount decimal.Decimal) {
		if cur, ok := m[currency]; ok {
			m[currency] = cur.Add(amount)
		} else {
			m[currency] = amount
		}
	}

	// Managed customer accounts: positive balances are owed to customers,
	// negative balances are claims on them.
	managed, err := uc.accountRepo.ListByBank(ctx, bank.ID)
	if err != nil {
		return nil, err
	}
	for _, acc := range managed {
		if acc.OwnerID == bank.ID {
			continue
		}
		if acc.Balance.IsPositive() {
			add(sheet.Liabilities, acc.Currency, acc.Balance)
		} else if acc.Balance.IsNegative() {
			add(sheet.Assets, acc.Currency, acc.Balance.Neg())
		}
	}

	// The bank's own holdings elsewhere (transit, reserve, own accounts).
	held, err := uc.accountRepo.ListByOwner(ctx, bank.ID, "")
	if err != nil {
		return nil, err
	}
	for _, acc := range held {
		if acc.Balance.IsPositive() {
			add(sheet.Assets, acc.Currency, acc.Balance)
		} else if acc.Balance.IsNegative() {
			add(sheet.Liabilities, acc.Currency, acc.Balance.Neg())
		}
	}

	// Instruments held are claims at face value.
	instruments, err := uc.instrumentRepo.ListByHolder(ctx, bank.ID)
	if err != nil {
		return nil, err
	}
	for _, inst := range instruments {
		add(sheet.Assets, inst.Currency, inst.FaceValue)
	}

	uc.observer.OnBalanceSheet(ctx, *sheet)

	return sheet, nil
}
