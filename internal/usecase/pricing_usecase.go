package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
)

// PricingUseCase derives price functions from an order book. The book,
// walked ascending by price, yields a piecewise-rational average-price
// function: on the interval covered by order k with unit price p_k, the
// average price to buy x units is p_k + (S_{k-1} - p_k*A_{k-1})/x where
// A and S are cumulative amount and cumulative spend at the interval start.
type PricingUseCase struct {
	orderRepo OrderRepository
}

// NewPricingUseCase creates a new PricingUseCase.
func NewPricingUseCase(orderRepo OrderRepository) *PricingUseCase {
	return &PricingUseCase{orderRepo: orderRepo}
}

// PriceSegment describes the average-price function on [FromAmount,
// ToAmount): avg(x) = Price + Constant/x. Evaluating a segment is O(1), so
// external budget optimizers never re-sum the book.
type PriceSegment struct {
	FromAmount decimal.Decimal
	ToAmount   decimal.Decimal
	Price      decimal.Decimal
	Constant   decimal.Decimal
}

// Average evaluates the segment's average price at x. x must lie inside the
// segment; x zero is the caller's business (marginal price).
func (s PriceSegment) Average(x decimal.Decimal) decimal.Decimal {
	return s.Price.Add(s.Constant.Div(x))
}

// Segments returns the piecewise price function of one book, cheapest
// first. With maxSpend bounded, the walk stops after the segment in which
// cumulative spend first exceeds the budget.
func (uc *PricingUseCase) Segments(ctx context.Context, currency string, commodity domain.Commodity, maxSpend decimal.NullDecimal) ([]PriceSegment, error) {
	var segments []PriceSegment

	cumAmount := decimal.Zero
	cumSpend := decimal.Zero

	err := uc.orderRepo.AscendPrice(ctx, currency, commodity, func(o *domain.Order) bool {
		segments = append(segments, PriceSegment{
			FromAmount: cumAmount,
			ToAmount:   cumAmount.Add(o.Amount),
			Price:      o.Price,
			Constant:   cumSpend.Sub(o.Price.Mul(cumAmount)),
		})

		cumAmount = cumAmount.Add(o.Amount)
		cumSpend = cumSpend.Add(o.Price.Mul(o.Amount))

		if maxSpend.Valid && cumSpend.GreaterThan(maxSpend.Decimal) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	return segments, nil
}

// MarginalPrice returns the unit price of the order whose cumulative-amount
// interval contains x. x zero is the top of book. x beyond total depth
// cannot be filled and yields ErrInsufficientDepth.
func (uc *PricingUseCase) MarginalPrice(ctx context.Context, currency string, commodity domain.Commodity, x decimal.Decimal) (decimal.Decimal, error) {
	if x.IsNegative() {
		return decimal.Zero, domain.ErrInsufficientDepth
	}

	segment, err := uc.segmentAt(ctx, currency, commodity, x)
	if err != nil {
		return decimal.Zero, err
	}

	return segment.Price, nil
}

// AveragePrice returns the average unit price of buying x units, matching
// direct summation over the cheapest orders covering x.
func (uc *PricingUseCase) AveragePrice(ctx context.Context, currency string, commodity domain.Commodity, x decimal.Decimal) (decimal.Decimal, error) {
	if x.IsNegative() {
		return decimal.Zero, domain.ErrInsufficientDepth
	}
	if x.IsZero() {
		return uc.MarginalPrice(ctx, currency, commodity, x)
	}

	segment, err := uc.segmentAt(ctx, currency, commodity, x)
	if err != nil {
		return decimal.Zero, err
	}

	return segment.Average(x), nil
}

// segmentAt locates the segment covering position x. Intervals are
// half-open; buying the full book depth resolves to the last segment.
func (uc *PricingUseCase) segmentAt(ctx context.Context, currency string, commodity domain.Commodity, x decimal.Decimal) (PriceSegment, error) {
	segments, err := uc.Segments(ctx, currency, commodity, decimal.NullDecimal{})
	if err != nil {
		return PriceSegment{}, err
	}
	if len(segments) == 0 {
		return PriceSegment{}, domain.ErrInsufficientDepth
	}

	for _, s := range segments {
		if x.LessThan(s.ToAmount) {
			return s, nil
		}
	}

	last := segments[len(segments)-1]
	if x.Equal(last.ToAmount) {
		return last, nil
	}

	return PriceSegment{}, domain.ErrInsufficientDepth
}
