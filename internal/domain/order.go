package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a standing sell order. Orders in one book are totally ordered by
// (Price, Seq) so equal prices match in insertion order.
type Order struct {
	ID        string
	OfferorID string
	// Currency is the denomination currency the order is paid in.
	Currency  string
	Commodity Commodity
	// Amount is the remaining amount on offer. It strictly decreases on
	// partial fill; the order is removed at zero.
	Amount decimal.Decimal
	// Price is the unit price in the denomination currency.
	Price decimal.Decimal
	// SettlementAccountID receives the money leg.
	SettlementAccountID string
	// CommodityAccountID funds the commodity leg of FX orders.
	CommodityAccountID string
	// InstrumentID is the concrete instrument sold by instrument orders.
	InstrumentID string
	// Seq is assigned by the order repository on insert.
	Seq       uint64
	CreatedAt time.Time
}

// Validate validates a new order before it enters the book.
func (o *Order) Validate() error {
	if err := o.Commodity.Validate(); err != nil {
		return err
	}
	if !o.Amount.IsPositive() || o.Price.IsNegative() {
		return ErrInvalidOrder
	}
	if o.Currency == "" || o.SettlementAccountID == "" {
		return ErrInvalidOrder
	}
	if o.Commodity.Kind == CommodityCurrency && o.CommodityAccountID == "" {
		return ErrInvalidOrder
	}
	if o.Commodity.Kind == CommodityInstrument {
		if o.InstrumentID == "" {
			return ErrInvalidOrder
		}
		// Instruments deliver all-or-nothing; a fractional amount could
		// never fill.
		if !o.Amount.IsInteger() {
			return ErrOrderNotSplittable
		}
	}
	return nil
}
