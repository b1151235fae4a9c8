package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer records one completed money movement between two accounts. Routed
// (inter-bank) transfers record the customer endpoints, not the transit legs;
// transit accounts net to zero and never appear as endpoints.
type Transfer struct {
	ID            string
	FromAccountID string
	ToAccountID   string
	Currency      string
	Amount        decimal.Decimal
	Subject       string
	CreatedAt     time.Time
}

// JournalEntry is one leg of a transfer as archived in the journal, with the
// account balance before and after the leg.
type JournalEntry struct {
	ID              string
	TransferID      string
	AccountID       string
	Amount          decimal.Decimal
	PreviousBalance decimal.Decimal
	CurrentBalance  decimal.Decimal
	CreatedAt       time.Time
}
