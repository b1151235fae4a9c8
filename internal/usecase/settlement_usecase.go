package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
)

// SettlementUseCase executes a constrained buy against the book: for each
// matched fill it couples the money leg (transfer protocol) with the
// commodity leg, pairwise atomic, cheapest order first. There is no
// rollback across pairs; a buy that runs out of matches returns a smaller
// amount than requested, which is success.
type SettlementUseCase struct {
	matcher        *MatchingUseCase
	transferUC     *TransferUseCase
	orderRepo      OrderRepository
	accountRepo    AccountRepository
	instrumentRepo InstrumentRepository
	inventoryRepo  InventoryRepository
	participants   ParticipantRegistry
	observer       Observer
	logger         zerolog.Logger
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	matcher *MatchingUseCase,
	transferUC *TransferUseCase,
	orderRepo OrderRepository,
	accountRepo AccountRepository,
	instrumentRepo InstrumentRepository,
	inventoryRepo InventoryRepository,
	participants ParticipantRegistry,
	observer Observer,
	logger zerolog.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		matcher:        matcher,
		transferUC:     transferUC,
		orderRepo:      orderRepo,
		accountRepo:    accountRepo,
		instrumentRepo: instrumentRepo,
		inventoryRepo:  inventoryRepo,
		participants:   participants,
		observer:       observer,
		logger:         logger,
	}
}

// BuyRequest is a constrained buy against one book.
type BuyRequest struct {
	BuyerID string
	// PaymentAccountID funds the money leg.
	PaymentAccountID string
	// CommodityAccountID receives the commodity leg of FX buys.
	CommodityAccountID string
	Currency           string
	Commodity          domain.Commodity
	MaxAmount          decimal.NullDecimal
	MaxTotalPrice      decimal.NullDecimal
	MaxUnitPrice       decimal.NullDecimal
	WholeUnits         bool
}

// BuyResult aggregates the executed fills.
type BuyResult struct {
	TotalSpent  decimal.Decimal
	TotalBought decimal.Decimal
	Fills       int
}

// Buy matches and settles. An empty or fully-priced-out book returns a zero
// result with no error. A contract violation mid-way (for example the buyer
// running out of funds without an overdraft) stops execution and returns
// the partial result together with the error; completed pairs stay settled.
func (uc *SettlementUseCase) Buy(ctx context.Context, req BuyRequest) (BuyResult, error) {
	result := BuyResult{TotalSpent: decimal.Zero, TotalBought: decimal.Zero}

	if err := domain.ValidatePartyID(req.BuyerID); err != nil {
		return result, err
	}
	if req.Commodity.Kind == domain.CommodityCurrency && req.CommodityAccountID == "" {
		return result, domain.ErrInvalidOrder
	}

	fills, err := uc.matcher.Match(ctx, MatchRequest{
		Currency:      req.Currency,
		Commodity:     req.Commodity,
		MaxAmount:     req.MaxAmount,
		MaxTotalPrice: req.MaxTotalPrice,
		MaxUnitPrice:  req.MaxUnitPrice,
		WholeUnits:    req.WholeUnits,
	})
	if err != nil {
		return result, err
	}

	for _, fill := range fills {
		order := fill.Order

		// Self-trade prevention: a party never buys from its own order.
		// A no-op, not an error.
		if order.OfferorID == req.BuyerID || order.SettlementAccountID == req.PaymentAccountID {
			continue
		}

		amount := fill.Amount
		if order.Commodity.Kind == domain.CommodityInstrument {
			// Instruments fill as whole units. A partial take cannot
			// consume the order.
			if amount.LessThan(order.Amount) {
				continue
			}
			amount = order.Amount
		}

		if err := uc.settlePair(ctx, req, order, amount); err != nil {
			return result, err
		}

		result.TotalSpent = result.TotalSpent.Add(amount.Mul(order.Price))
		result.TotalBought = result.TotalBought.Add(amount)
		result.Fills++
	}

	return result, nil
}

// settlePair executes one (order, amount) pair: money leg, commodity leg,
// order decrement, offeror notification, price tick.
func (uc *SettlementUseCase) settlePair(ctx context.Context, req BuyRequest, order *domain.Order, amount decimal.Decimal) error {
	// Validate the commodity leg before the money leg moves, so the pair is
	// all-or-nothing.
	switch order.Commodity.Kind {
	case domain.CommodityGood:
		held, err := uc.inventoryRepo.Balance(ctx, order.OfferorID, order.Commodity.Key)
		if err != nil {
			return err
		}
		if held.LessThan(amount) {
			return domain.ErrInsufficientInventory
		}

	case domain.CommodityCurrency:
		source, err := uc.accountRepo.Get(ctx, order.CommodityAccountID)
		if err != nil {
			return fmt.Errorf("fx leg: %w", err)
		}
		target, err := uc.accountRepo.Get(ctx, req.CommodityAccountID)
		if err != nil {
			return fmt.Errorf("fx leg: %w", err)
		}
		if err := source.Compatible(target); err != nil {
			return fmt.Errorf("fx leg: %w", err)
		}
		if err := source.ValidateWithdraw(amount); err != nil {
			return fmt.Errorf("fx leg: %w", err)
		}

	case domain.CommodityInstrument:
		if _, err := uc.instrumentRepo.Get(ctx, order.InstrumentID); err != nil {
			return fmt.Errorf("instrument leg: %w", err)
		}
	}

	subject := fmt.Sprintf("purchase of %s %s @ %s %s", amount, order.Commodity, order.Price, order.Currency)

	if _, err := uc.transferUC.Execute(ctx, TransferInput{
		FromAccountID: req.PaymentAccountID,
		ToAccountID:   order.SettlementAccountID,
		Amount:        amount.Mul(order.Price),
		Subject:       subject,
	}); err != nil {
		return fmt.Errorf("money leg: %w", err)
	}

	switch order.Commodity.Kind {
	case domain.CommodityGood:
		if err := uc.inventoryRepo.Move(ctx, order.OfferorID, req.BuyerID, order.Commodity.Key, amount); err != nil {
			return fmt.Errorf("goods leg: %w", err)
		}

	case domain.CommodityCurrency:
		if _, err := uc.transferUC.Execute(ctx, TransferInput{
			FromAccountID: order.CommodityAccountID,
			ToAccountID:   req.CommodityAccountID,
			Amount:        amount,
			Subject:       subject,
		}); err != nil {
			return fmt.Errorf("fx leg: %w", err)
		}

	case domain.CommodityInstrument:
		if err := uc.instrumentRepo.ReassignHolder(ctx, order.InstrumentID, req.BuyerID); err != nil {
			return fmt.Errorf("instrument leg: %w", err)
		}
	}

	remaining := order.Amount.Sub(amount)
	if remaining.IsPositive() && order.Commodity.Kind != domain.CommodityInstrument {
		if err := uc.orderRepo.UpdateAmount(ctx, order.ID, remaining); err != nil {
			return err
		}
	} else {
		if err := uc.orderRepo.Delete(ctx, order.ID); err != nil {
			return err
		}
	}

	// Fire-and-forget: the offeror's own pricing logic must not be able to
	// abort settlement.
	if err := uc.participants.OnMarketSettlement(ctx, order.OfferorID, order.Commodity, amount, order.Price, order.Currency); err != nil {
		uc.logger.Warn().
			Err(err).
			Str("offeror", order.OfferorID).
			Str("order_id", order.ID).
			Msg("offeror settlement notification failed")
	}

	uc.observer.OnPriceTick(ctx, domain.PriceTick{
		Commodity: order.Commodity,
		Currency:  order.Currency,
		Amount:    amount,
		Price:     order.Price,
		At:        time.Now().UTC(),
	})

	return nil
}
