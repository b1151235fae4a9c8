package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
	"github.com/econsim/clearing/internal/usecase/mocks"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

// economy is an in-memory banking system for tests: one central bank per
// registered currency, credit banks with their transit/reserve/own accounts,
// all wired through the real use cases over mocks.
type economy struct {
	accounts    *mocks.MockAccountRepository
	banks       *mocks.MockBankRepository
	orders      *mocks.MockOrderRepository
	instruments *mocks.MockInstrumentRepository
	inventory   *mocks.MockInventoryRepository
	registry    *mocks.MockParticipantRegistry
	observer    *mocks.MockObserver

	transfers  *usecase.TransferUseCase
	banking    *usecase.BankingUseCase
	orderBook  *usecase.OrderBookUseCase
	pricing    *usecase.PricingUseCase
	matching   *usecase.MatchingUseCase
	settlement *usecase.SettlementUseCase
	audit      *usecase.AuditUseCase
}

func newEconomy(t *testing.T) *economy {
	t.Helper()

	e := &economy{
		accounts:    mocks.NewMockAccountRepository(),
		banks:       mocks.NewMockBankRepository(),
		orders:      mocks.NewMockOrderRepository(),
		instruments: mocks.NewMockInstrumentRepository(),
		inventory:   mocks.NewMockInventoryRepository(),
		registry:    mocks.NewMockParticipantRegistry(),
		observer:    mocks.NewMockObserver(),
	}

	idGen := mocks.NewMockIDGenerator()
	logger := zerolog.Nop()

	e.transfers = usecase.NewTransferUseCase(e.accounts, e.banks, idGen, e.observer, logger)
	e.banking = usecase.NewBankingUseCase(e.banks, e.accounts, e.instruments, e.transfers, idGen, e.observer, logger)
	e.orderBook = usecase.NewOrderBookUseCase(e.orders, e.accounts, idGen, logger)
	e.pricing = usecase.NewPricingUseCase(e.orders)
	e.matching = usecase.NewMatchingUseCase(e.orders)
	e.settlement = usecase.NewSettlementUseCase(
		e.matching, e.transfers, e.orders, e.accounts, e.instruments,
		e.inventory, e.registry, e.observer, logger,
	)
	e.audit = usecase.NewAuditUseCase(e.accounts, e.banks)

	return e
}

func (e *economy) centralBank(t *testing.T, currency string) *domain.Bank {
	t.Helper()
	cb, err := e.banking.RegisterCentralBank(context.Background(), "central-"+currency, currency, dec("0.10"))
	if err != nil {
		t.Fatalf("register central bank: %v", err)
	}
	return cb
}

func (e *economy) creditBank(t *testing.T, name string, currencies ...string) *domain.Bank {
	t.Helper()
	bank, err := e.banking.RegisterCreditBank(context.Background(), name, currencies)
	if err != nil {
		t.Fatalf("register credit bank %s: %v", name, err)
	}
	return bank
}

// customer opens a deposits account and funds it by bank credit out of the
// bank's own transactions account, so money is created, not conjured.
func (e *economy) customer(t *testing.T, bank *domain.Bank, ownerID, currency, funding string) *domain.Account {
	t.Helper()
	acc, err := e.banking.OpenAccount(context.Background(), usecase.OpenAccountInput{
		OwnerID:  ownerID,
		BankID:   bank.ID,
		Currency: currency,
	})
	if err != nil {
		t.Fatalf("open account for %s: %v", ownerID, err)
	}

	amount := dec(funding)
	if !amount.IsZero() {
		ownID, ok := bank.OwnAccountIDs[currency]
		if !ok {
			t.Fatalf("bank %s has no own account in %s", bank.ID, currency)
		}
		if _, err := e.transfers.Execute(context.Background(), usecase.TransferInput{
			FromAccountID: ownID,
			ToAccountID:   acc.ID,
			Amount:        amount,
			Subject:       "initial credit",
		}); err != nil {
			t.Fatalf("fund account for %s: %v", ownerID, err)
		}
		acc.Balance = amount
	}
	return acc
}

func (e *economy) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	acc, err := e.accounts.Get(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get account %s: %v", accountID, err)
	}
	return acc.Balance
}

func (e *economy) mustAccount(t *testing.T, accountID string) *domain.Account {
	t.Helper()
	acc, err := e.accounts.Get(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get account %s: %v", accountID, err)
	}
	return acc
}

// setReserve credits a bank's reserve account out of the central bank's
// issuance account, the same path the reserve check uses.
func (e *economy) setReserve(t *testing.T, bank *domain.Bank, currency, amount string) {
	t.Helper()
	cb, err := e.banks.CentralBank(context.Background(), currency)
	if err != nil {
		t.Fatalf("central bank for %s: %v", currency, err)
	}
	reserveID, ok := bank.ReserveAccount(currency)
	if !ok {
		t.Fatalf("bank %s has no %s reserve account", bank.ID, currency)
	}
	if _, err := e.transfers.Execute(context.Background(), usecase.TransferInput{
		FromAccountID: cb.IssuanceAccountID,
		ToAccountID:   reserveID,
		Amount:        dec(amount),
		Subject:       "reserve funding",
	}); err != nil {
		t.Fatalf("fund reserve: %v", err)
	}
}

// requireConserved fails the test when any (currency, money type) stock does
// not sum to zero across all accounts.
func (e *economy) requireConserved(t *testing.T) {
	t.Helper()
	report, err := e.audit.CheckConservation(context.Background())
	if err != nil {
		t.Fatalf("conservation audit: %v", err)
	}
	if !report.Balanced {
		for _, s := range report.Stocks {
			t.Logf("stock %s/%s total=%s", s.Currency, s.MoneyType, s.Total)
		}
		t.Fatal("money not conserved")
	}
}
