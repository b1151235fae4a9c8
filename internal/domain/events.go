package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferEvent is emitted to the observer after every successful transfer.
type TransferEvent struct {
	Transfer *Transfer
	// Legs are all executed ledger legs, transit hops included.
	Legs []*JournalEntry
	// FromPrevious/ToPrevious are the endpoint balances before the transfer.
	FromPrevious decimal.Decimal
	FromCurrent  decimal.Decimal
	ToPrevious   decimal.Decimal
	ToCurrent    decimal.Decimal
}

// PriceTick is emitted to the observer after every settled fill.
type PriceTick struct {
	Commodity Commodity
	Currency  string
	Amount    decimal.Decimal
	Price     decimal.Decimal
	At        time.Time
}

// BalanceSheet is a per-bank aggregate snapshot of managed accounts.
type BalanceSheet struct {
	BankID string
	// Assets is the sum of negative customer balances (claims on customers),
	// per currency, as a positive number, plus the bank's own holdings.
	Assets map[string]decimal.Decimal
	// Liabilities is the sum of positive customer balances per currency.
	Liabilities map[string]decimal.Decimal
	TakenAt     time.Time
}

// ReserveTopUp records one self-healing reserve creation: the issued
// instrument's face value equals the gap between required and held reserves.
type ReserveTopUp struct {
	BankID       string
	Currency     string
	Required     decimal.Decimal
	Held         decimal.Decimal
	InstrumentID string
	FaceValue    decimal.Decimal
	At           time.Time
}
