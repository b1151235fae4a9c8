package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
)

// AccountRepository defines data access for ledger accounts. The repository
// is the arena of accounts: every reference elsewhere is an ID resolved here.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Get(ctx context.Context, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Account, error)
	ListByBank(ctx context.Context, bankID string) ([]*domain.Account, error)
	// ListByOwner lists accounts of one owner; currency "" matches all.
	ListByOwner(ctx context.Context, ownerID, currency string) ([]*domain.Account, error)
}

// BankRepository defines data access for banks.
type BankRepository interface {
	Create(ctx context.Context, bank *domain.Bank) error
	Get(ctx context.Context, id string) (*domain.Bank, error)
	Update(ctx context.Context, bank *domain.Bank) error
	// CentralBank returns the unique central bank for a currency.
	CentralBank(ctx context.Context, currency string) (*domain.Bank, error)
	List(ctx context.Context) ([]*domain.Bank, error)
}

// OrderRepository defines data access for standing orders. Implementations
// keep each (currency, commodity) book totally ordered by (price, seq).
type OrderRepository interface {
	// Insert assigns the order's Seq and adds it to its book.
	Insert(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	UpdateAmount(ctx context.Context, id string, amount decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	// AscendPrice visits live orders of one book ascending by (price, seq)
	// until fn returns false.
	AscendPrice(ctx context.Context, currency string, commodity domain.Commodity, fn func(*domain.Order) bool) error
	// DeleteByOfferor removes all orders of one offeror, optionally narrowed
	// to a currency and/or commodity. Returns the number removed.
	DeleteByOfferor(ctx context.Context, offerorID string, currency string, commodity *domain.Commodity) (int, error)
	AmountSum(ctx context.Context, currency string, commodity domain.Commodity) (decimal.Decimal, error)
}

// InstrumentRepository defines data access for debt instruments.
type InstrumentRepository interface {
	Create(ctx context.Context, instrument *domain.DebtInstrument) error
	Get(ctx context.Context, id string) (*domain.DebtInstrument, error)
	ReassignHolder(ctx context.Context, id, holderID string) error
	ListByHolder(ctx context.Context, holderID string) ([]*domain.DebtInstrument, error)
}

// InventoryRepository tracks physical good holdings per party.
type InventoryRepository interface {
	Balance(ctx context.Context, partyID, goodType string) (decimal.Decimal, error)
	Add(ctx context.Context, partyID, goodType string, amount decimal.Decimal) error
	// Move transfers goods between parties; fails if the source holds less
	// than amount.
	Move(ctx context.Context, fromPartyID, toPartyID, goodType string, amount decimal.Decimal) error
}

// ParticipantRegistry notifies offerors about settlements against their
// standing orders. Failures are logged by the caller and never abort
// settlement.
type ParticipantRegistry interface {
	OnMarketSettlement(ctx context.Context, partyID string, commodity domain.Commodity, amount, price decimal.Decimal, currency string) error
}

// Observer receives engine events. Purely observational: implementations
// must not block or veto the operation that emitted the event.
type Observer interface {
	OnTransfer(ctx context.Context, event domain.TransferEvent)
	OnPriceTick(ctx context.Context, tick domain.PriceTick)
	OnBalanceSheet(ctx context.Context, sheet domain.BalanceSheet)
	OnReserveTopUp(ctx context.Context, topUp domain.ReserveTopUp)
}

// JournalRepository archives completed transfers with their endpoint legs.
type JournalRepository interface {
	CreateTransfer(ctx context.Context, transfer *domain.Transfer, legs []*domain.JournalEntry) error
	GetTransfer(ctx context.Context, id string) (*domain.Transfer, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error)
	ListEntriesByTransfer(ctx context.Context, transferID string) ([]*domain.JournalEntry, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for read-side snapshots.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
