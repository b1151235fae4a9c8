package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
)

// MatchingUseCase selects which standing orders a constrained buy consumes.
// Selection is pure: no order, account, or inventory is touched.
type MatchingUseCase struct {
	orderRepo OrderRepository
}

// NewMatchingUseCase creates a new MatchingUseCase.
func NewMatchingUseCase(orderRepo OrderRepository) *MatchingUseCase {
	return &MatchingUseCase{orderRepo: orderRepo}
}

// MatchRequest constrains a buy. Each bound is optional; an invalid
// NullDecimal means unbounded.
type MatchRequest struct {
	Currency      string
	Commodity     domain.Commodity
	MaxAmount     decimal.NullDecimal
	MaxTotalPrice decimal.NullDecimal
	MaxUnitPrice  decimal.NullDecimal
	// WholeUnits floors every take to an integer amount.
	WholeUnits bool
}

// Fill is the amount to take from one order. Fills are returned in
// ascending price order, ties in insertion order, and must be consumed in
// that order.
type Fill struct {
	Order  *domain.Order
	Amount decimal.Decimal
}

// Match walks the book cheapest-first and computes the amount takable from
// each order under the request's bounds. It stops at the first order priced
// over MaxUnitPrice, at the first zero take, or when the book is exhausted.
func (uc *MatchingUseCase) Match(ctx context.Context, req MatchRequest) ([]Fill, error) {
	if err := req.Commodity.Validate(); err != nil {
		return nil, err
	}

	var fills []Fill

	amountLeft := decimal.NullDecimal{}
	if req.MaxAmount.Valid {
		amountLeft = req.MaxAmount
	}
	budgetLeft := decimal.NullDecimal{}
	if req.MaxTotalPrice.Valid {
		budgetLeft = req.MaxTotalPrice
	}

	err := uc.orderRepo.AscendPrice(ctx, req.Currency, req.Commodity, func(o *domain.Order) bool {
		if req.MaxUnitPrice.Valid && o.Price.GreaterThan(req.MaxUnitPrice.Decimal) {
			return false
		}

		take := o.Amount
		if amountLeft.Valid && amountLeft.Decimal.LessThan(take) {
			take = amountLeft.Decimal
		}
		// A zero price cannot consume budget, so the budget bound is
		// skipped for free orders.
		if budgetLeft.Valid && !o.Price.IsZero() {
			affordable := budgetLeft.Decimal.Div(o.Price)
			if affordable.LessThan(take) {
				take = affordable
			}
		}
		if req.WholeUnits {
			take = take.Floor()
		}

		if !take.IsPositive() {
			return false
		}

		fills = append(fills, Fill{Order: o, Amount: take})

		if amountLeft.Valid {
			amountLeft.Decimal = amountLeft.Decimal.Sub(take)
		}
		if budgetLeft.Valid {
			budgetLeft.Decimal = budgetLeft.Decimal.Sub(take.Mul(o.Price))
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	return fills, nil
}
