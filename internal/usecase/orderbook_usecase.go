package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
)

// OrderBookUseCase manages standing sell orders.
type OrderBookUseCase struct {
	orderRepo   OrderRepository
	accountRepo AccountRepository
	idGen       IDGenerator
	logger      zerolog.Logger
}

// NewOrderBookUseCase creates a new OrderBookUseCase.
func NewOrderBookUseCase(
	orderRepo OrderRepository,
	accountRepo AccountRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *OrderBookUseCase {
	return &OrderBookUseCase{
		orderRepo:   orderRepo,
		accountRepo: accountRepo,
		idGen:       idGen,
		logger:      logger,
	}
}

// PlaceOrderInput represents a new standing sell order.
type PlaceOrderInput struct {
	OfferorID           string
	Currency            string
	Commodity           domain.Commodity
	Amount              decimal.Decimal
	Price               decimal.Decimal
	SettlementAccountID string
	CommodityAccountID  string
	InstrumentID        string
}

// Place validates and inserts a standing order into its book.
func (uc *OrderBookUseCase) Place(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	if err := domain.ValidatePartyID(input.OfferorID); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:                  uc.idGen.Generate(),
		OfferorID:           input.OfferorID,
		Currency:            input.Currency,
		Commodity:           input.Commodity,
		Amount:              input.Amount,
		Price:               input.Price,
		SettlementAccountID: input.SettlementAccountID,
		CommodityAccountID:  input.CommodityAccountID,
		InstrumentID:        input.InstrumentID,
		CreatedAt:           time.Now().UTC(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}

	// The money leg must be payable into the order's denomination currency.
	settle, err := uc.accountRepo.Get(ctx, input.SettlementAccountID)
	if err != nil {
		return nil, err
	}
	if settle.Currency != input.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	// FX orders deliver out of the commodity account, which must be
	// denominated in the offered currency.
	if input.Commodity.Kind == domain.CommodityCurrency {
		commodityAcc, err := uc.accountRepo.Get(ctx, input.CommodityAccountID)
		if err != nil {
			return nil, err
		}
		if commodityAcc.Currency != input.Commodity.Key {
			return nil, domain.ErrCurrencyMismatch
		}
	}

	if err := uc.orderRepo.Insert(ctx, order); err != nil {
		return nil, err
	}

	uc.logger.Debug().
		Str("order_id", order.ID).
		Str("offeror", order.OfferorID).
		Str("commodity", order.Commodity.String()).
		Str("amount", order.Amount.String()).
		Str("price", order.Price.String()).
		Msg("order placed")

	return order, nil
}

// CancelInput narrows a cancellation. Currency "" and a nil commodity match
// all books.
type CancelInput struct {
	OfferorID string
	Currency  string
	Commodity *domain.Commodity
}

// Cancel removes all matching standing orders of one offeror. Cancellation
// is unconditional and idempotent: cancelling an offeror without live
// orders removes nothing.
func (uc *OrderBookUseCase) Cancel(ctx context.Context, input CancelInput) (int, error) {
	if err := domain.ValidatePartyID(input.OfferorID); err != nil {
		return 0, err
	}

	removed, err := uc.orderRepo.DeleteByOfferor(ctx, input.OfferorID, input.Currency, input.Commodity)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		uc.logger.Debug().
			Str("offeror", input.OfferorID).
			Int("removed", removed).
			Msg("orders cancelled")
	}

	return removed, nil
}

// Depth returns the total amount on offer in one book.
func (uc *OrderBookUseCase) Depth(ctx context.Context, currency string, commodity domain.Commodity) (decimal.Decimal, error) {
	return uc.orderRepo.AmountSum(ctx, currency, commodity)
}

// BookLevel is one live order as exposed to read-side consumers.
type BookLevel struct {
	OrderID   string
	OfferorID string
	Amount    decimal.Decimal
	Price     decimal.Decimal
}

// Snapshot returns up to limit cheapest levels of one book.
func (uc *OrderBookUseCase) Snapshot(ctx context.Context, currency string, commodity domain.Commodity, limit int) ([]BookLevel, error) {
	if limit <= 0 {
		limit = 50
	}

	levels := make([]BookLevel, 0, limit)
	err := uc.orderRepo.AscendPrice(ctx, currency, commodity, func(o *domain.Order) bool {
		levels = append(levels, BookLevel{
			OrderID:   o.ID,
			OfferorID: o.OfferorID,
			Amount:    o.Amount,
			Price:     o.Price,
		})
		return len(levels) < limit
	})
	if err != nil {
		return nil, err
	}

	return levels, nil
}
