package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtInstrument is a claim with a fixed face value. Credit banks issue them
// to the central bank to cover reserve shortfalls; they also trade on the
// order book as whole units.
type DebtInstrument struct {
	ID        string
	Class     string
	IssuerID  string
	HolderID  string
	Currency  string
	FaceValue decimal.Decimal
	IssuedAt  time.Time
}
