package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankKind is the closed set of bank variants.
type BankKind string

const (
	// BankKindCredit is a customer-facing bank. It holds a transactions
	// (transit) account and a reserve account at the central bank of each
	// currency it trades in.
	BankKindCredit BankKind = "credit"
	// BankKindCentral is the unique clearing hub and reserve-ratio authority
	// for one currency.
	BankKindCentral BankKind = "central"
)

// Bank is a party that manages accounts in custody. Balances belong to the
// account owners; the bank only manages them. Account and counter-bank
// references are IDs resolved through repositories, never owning pointers.
type Bank struct {
	ID       string
	Name     string
	Kind     BankKind
	// Currency is the currency a central bank issues, or a credit bank's
	// primary currency.
	Currency string

	// TransitAccountIDs maps currency to the bank's transactions account at
	// that currency's central bank. Transit accounts are pure pass-throughs
	// with a zero-balance invariant outside a running relay.
	TransitAccountIDs map[string]string
	// ReserveAccountIDs maps currency to the bank's reserve account at that
	// currency's central bank. Credit banks only.
	ReserveAccountIDs map[string]string
	// IssuanceAccountID is the central bank's own account that funds reserve
	// creation. It may run arbitrarily negative. Central banks only.
	IssuanceAccountID string
	// OwnAccountIDs maps currency to the bank's own transactions account at
	// itself. Interest and account close-outs settle against it.
	OwnAccountIDs map[string]string

	// ReserveRatio is the fraction of customer deposit liabilities that must
	// be held as central-bank reserves. Set on central banks.
	ReserveRatio decimal.Decimal

	// Customers is the set of party IDs (including other banks) that hold an
	// authenticated relationship with this bank. Cross-bank transfer legs
	// require the calling bank to be present here.
	Customers map[string]bool

	CreatedAt time.Time
}

// IsCustomer reports whether partyID holds an authenticated relationship
// with the bank.
func (b *Bank) IsCustomer(partyID string) bool {
	return b.Customers[partyID]
}

// TransitAccount returns the bank's transit account for a currency.
func (b *Bank) TransitAccount(currency string) (string, bool) {
	id, ok := b.TransitAccountIDs[currency]
	return id, ok
}

// ReserveAccount returns the bank's reserve account for a currency.
func (b *Bank) ReserveAccount(currency string) (string, bool) {
	id, ok := b.ReserveAccountIDs[currency]
	return id, ok
}
