package usecase_test

import (
	"context"
	"testing"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

func TestSettlementUseCase_BuyGoods(t *testing.T) {
	ctx := context.Background()
	e := newEconomy(t)
	e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")

	buyerAcc := e.customer(t, bank, "mill-1", "USD", "100")
	farmer1 := e.customer(t, bank, "farmer-1", "USD", "0")
	farmer2 := e.customer(t, bank, "farmer-2", "USD", "0")

	if err := e.inventory.Add(ctx, "farmer-1", "grain", dec("10")); err != nil {
		t.Fatal(err)
	}
	if err := e.inventory.Add(ctx, "farmer-2", "grain", dec("5")); err != nil {
		t.Fatal(err)
	}

	grain := domain.GoodCommodity("grain")
	if _, err := e.orderBook.Place(ctx, usecase.PlaceOrderInput{
		OfferorID: "farmer-1", Currency: "USD", Commodity: grain,
		Amount: dec("10"), Price: dec("1.00"), SettlementAccountID: farmer1.ID,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.orderBook.Place(ctx, usecase.PlaceOrderInput{
		OfferorID: "farmer-2", Currency: "USD", Commodity: grain,
		Amount: dec("5"), Price: dec("1.20"), SettlementAccountID: farmer2.ID,
	}); err != nil {
		t.Fatal(err)
	}

	result, err := e.settlement.Buy(ctx, usecase.BuyRequest{
		BuyerID:          "mill-1",
		PaymentAccountID: buyerAcc.ID,
		Currency:         "USD",
		Commodity:        grain,
		MaxAmount:        nd("12"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.TotalBought.Equal(dec("12")) {
		t.Errorf("bought = %s, want 12", result.TotalBought)
	}
	if !result.TotalSpent.Equal(dec("12.40")) {
		t.Errorf("spent = %s, want 12.40", result.TotalSpent)
	}
	if result.Fills != 2 {
		t.Errorf("fills = %d, want 2", result.Fills)
	}

	// Money legs.
	if got := e.balance(t, buyerAcc.ID); !got.Equal(dec("87.60")) {
		t.Errorf("buyer balance = %s, want 87.60", got)
	}
	if got := e.balance(t, farmer1.ID); !got.Equal(dec("10")) {
		t.Errorf("farmer-1 balance = %s, want 10", got)
	}
	if got := e.balance(t, farmer2.ID); !got.Equal(dec("2.40")) {
		t.Errorf("farmer-2 balance = %s, want 2.40", got)
	}

	// Goods legs.
	if held, _ := e.inventory.Balance(ctx, "mill-1", "grain"); !held.Equal(dec("12")) {
		t.Errorf("buyer grain = %s, want 12", held)
	}
	if held, _ := e.inventory.Balance(ctx, "farmer-2", "grain"); !held.Equal(dec("3")) {
		t.Errorf("farmer-2 grain = %s, want 3", held)
	}

	// The book keeps the partially filled order at its reduced amount.
	levels, err := e.orderBook.Snapshot(ctx, "USD", grain, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(levels) != 1 {
		t.Fatalf("expected 1 remaining level, got %d", len(levels))
	}
	if !levels[0].Amount.Equal(dec("3")) || !levels[0].Price.Equal(dec("1.20")) {
		t.Errorf("remaining level = %s @ %s, want 3 @ 1.20", levels[0].Amount, levels[0].Price)
	}

	// Offerors were notified once per settled pair.
	if len(e.registry.Notifications) != 2 {
		t.Errorf("notifications = %d, want 2", len(e.registry.Notifications))
	}
	if len(e.observer.PriceTicks) != 2 {
		t.Errorf("price ticks = %d, want 2", len(e.observer.PriceTicks))
	}

	e.requireConserved(t)
}

func TestSettlementUseCase_EmptyBookIsZeroResult(t *testing.T) {
	e := newEconomy(t)
	e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")
	buyerAcc := e.customer(t, bank, "mill-1", "USD", "100")

	result, err := e.settlement.Buy(context.Background(), usecase.BuyRequest{
		BuyerID:          "mill-1",
		PaymentAccountID: buyerAcc.ID,
		Currency:         "USD",
		Commodity:        domain.GoodCommodity("grain"),
		MaxAmount:        nd("10"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.TotalBought.IsZero() || !result.TotalSpent.IsZero() || result.Fills != 0 {
		t.Errorf("expected zero result, got %+v", result)
	}
}

func TestSettlementUseCase_SelfTradeSkipped(t *testing.T) {
	ctx := context.Background()
	e := newEconomy(t)
	e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")

	acc := e.customer(t, bank, "trader-1", "USD", "100")
	if err := e.inventory.Add(ctx, "trader-1", "grain", dec("10")); err != nil {
		t.Fatal(err)
	}

	grain := domain.GoodCommodity("grain")
	if _, err := e.orderBook.Place(ctx, usecase.PlaceOrderInput{
		OfferorID: "trader-1", Currency: "USD", Commodity: grain,
		Amount: dec("10"), Price: dec("1.00"), SettlementAccountID: acc.ID,
	}); err != nil {
		t.Fatal(err)
	}

	result, err := e.settlement.Buy(ctx, usecase.BuyRequest{
		BuyerID:          "trader-1",
		PaymentAccountID: acc.ID,
		Currency:         "USD",
		Commodity:        grain,
		MaxAmount:        nd("10"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Fills != 0 {
		t.Errorf("expected no fills against own order, got %d", result.Fills)
	}
	if got := e.balance(t, acc.ID); !got.Equal(dec("100")) {
		t.Errorf("balance = %s, want unchanged 100", got)
	}
}

func TestSettlementUseCase_FXBuy(t *testing.T) {
	ctx := context.Background()
	e := newEconomy(t)
	e.centralBank(t, "USD")
	e.centralBank(t, "EUR")
	bank := e.creditBank(t, "alpha", "USD", "EUR")

	// The dealer sells EUR against USD.
	dealerUSD := e.customer(t, bank, "dealer-1", "USD", "0")
	dealerEUR := e.customer(t, bank, "dealer-1", "EUR", "200")
	buyerUSD := e.customer(t, bank, "firm-1", "USD", "300")
	buyerEUR := e.customer(t, bank, "firm-1", "EUR", "0")

	fx := domain.CurrencyCommodity("EUR")
	if _, err := e.orderBook.Place(ctx, usecase.PlaceOrderInput{
		OfferorID: "dealer-1", Currency: "USD", Commodity: fx,
		Amount: dec("200"), Price: dec("1.10"),
		SettlementAccountID: dealerUSD.ID, CommodityAccountID: dealerEUR.ID,
	}); err != nil {
		t.Fatal(err)
	}

	result, err := e.settlement.Buy(ctx, usecase.BuyRequest{
		BuyerID:            "firm-1",
		PaymentAccountID:   buyerUSD.ID,
		CommodityAccountID: buyerEUR.ID,
		Currency:           "USD",
		Commodity:          fx,
		MaxAmount:          nd("100"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.TotalBought.Equal(dec("100")) {
		t.Errorf("bought = %s, want 100", result.TotalBought)
	}
	if !result.TotalSpent.Equal(dec("110")) {
		t.Errorf("spent = %s, want 110", result.TotalSpent)
	}

	if got := e.balance(t, buyerUSD.ID); !got.Equal(dec("190")) {
		t.Errorf("buyer USD = %s, want 190", got)
	}
	if got := e.balance(t, buyerEUR.ID); !got.Equal(dec("100")) {
		t.Errorf("buyer EUR = %s, want 100", got)
	}
	if got := e.balance(t, dealerUSD.ID); !got.Equal(dec("110")) {
		t.Errorf("dealer USD = %s, want 110", got)
	}
	if got := e.balance(t, dealerEUR.ID); !got.Equal(dec("100")) {
		t.Errorf("dealer EUR = %s, want 100", got)
	}
	e.requireConserved(t)
}

func TestSettlementUseCase_FXShortDeliveryStopsPair(t *testing.T) {
	ctx := context.Background()
	e := newEconomy(t)
	e.centralBank(t, "USD")
	e.centralBank(t, "EUR")
	bank := e.creditBank(t, "alpha", "USD", "EUR")

	// The dealer offers more EUR than the commodity account holds.
	dealerUSD := e.customer(t, bank, "dealer-1", "USD", "0")
	dealerEUR := e.customer(t, bank, "dealer-1", "EUR", "50")
	buyerUSD := e.customer(t, bank, "firm-1", "USD", "300")
	buyerEUR := e.customer(t, bank, "firm-1", "EUR", "0")

	fx := domain.CurrencyCommodity("EUR")
	if _, err := e.orderBook.Place(ctx, usecase.PlaceOrderInput{
		OfferorID: "dealer-1", Currency: "USD", Commodity: fx,
		Amount: dec("100"), Price: dec("1.10"),
		SettlementAccountID: dealerUSD.ID, CommodityAccountID: dealerEUR.ID,
	}); err != nil {
		t.Fatal(err)
	}

	result, err := e.settlement.Buy(ctx, usecase.BuyRequest{
		BuyerID:            "firm-1",
		PaymentAccountID:   buyerUSD.ID,
		CommodityAccountID: buyerEUR.ID,
		Currency:           "USD",
		Commodity:          fx,
		MaxAmount:          nd("100"),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if result.Fills != 0 {
		t.Errorf("expected no completed fills, got %d", result.Fills)
	}

	// The delivery check runs before the money leg, so the buyer never pays
	// for currency that was not delivered.
	if got := e.balance(t, buyerUSD.ID); !got.Equal(dec("300")) {
		t.Errorf("buyer USD = %s, want unchanged 300", got)
	}
	if got := e.balance(t, buyerEUR.ID); !got.IsZero() {
		t.Errorf("buyer EUR = %s, want 0", got)
	}
	if got := e.balance(t, dealerUSD.ID); !got.IsZero() {
		t.Errorf("dealer USD = %s, want 0", got)
	}
	if got := e.balance(t, dealerEUR.ID); !got.Equal(dec("50")) {
		t.Errorf("dealer EUR = %s, want unchanged 50", got)
	}
	e.requireConserved(t)
}

func TestSettlementUseCase_FXRequiresCommodityAccount(t *testing.T) {
	e := newEconomy(t)
	e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")
	acc := e.customer(t, bank, "firm-1", "USD", "100")

	_, err := e.settlement.Buy(context.Background(), usecase.BuyRequest{
		BuyerID:          "firm-1",
		PaymentAccountID: acc.ID,
		Currency:         "USD",
		Commodity:        domain.CurrencyCommodity("EUR"),
		MaxAmount:        nd("10"),
	})
	if err != domain.ErrInvalidOrder {
		t.Errorf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestSettlementUseCase_InstrumentNeverSplits(t *testing.T) {
	ctx := context.Background()
	e := newEconomy(t)
	e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")

	holderAcc := e.customer(t, bank, "fund-1", "USD", "0")
	buyerAcc := e.customer(t, bank, "fund-2", "USD", "100")

	instrument := &domain.DebtInstrument{
		ID: "bond-1", Class: "corp-bond", IssuerID: "firm-9",
		HolderID: "fund-1", Currency: "USD", FaceValue: dec("50"),
	}
	if err := e.instruments.Create(ctx, instrument); err != nil {
		t.Fatal(err)
	}

	bonds := domain.InstrumentCommodity("corp-bond")
	if _, err := e.orderBook.Place(ctx, usecase.PlaceOrderInput{
		OfferorID: "fund-1", Currency: "USD", Commodity: bonds,
		Amount: dec("1"), Price: dec("45"),
		SettlementAccountID: holderAcc.ID, InstrumentID: "bond-1",
	}); err != nil {
		t.Fatal(err)
	}

	// A fractional bid cannot touch the instrument order.
	result, err := e.settlement.Buy(ctx, usecase.BuyRequest{
		BuyerID:          "fund-2",
		PaymentAccountID: buyerAcc.ID,
		Currency:         "USD",
		Commodity:        bonds,
		MaxAmount:        nd("0.5"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Fills != 0 {
		t.Fatalf("partial instrument take executed: %+v", result)
	}

	// A whole-unit bid takes the instrument and reassigns the holder.
	result, err = e.settlement.Buy(ctx, usecase.BuyRequest{
		BuyerID:          "fund-2",
		PaymentAccountID: buyerAcc.ID,
		Currency:         "USD",
		Commodity:        bonds,
		MaxAmount:        nd("1"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Fills != 1 || !result.TotalSpent.Equal(dec("45")) {
		t.Fatalf("unexpected result: %+v", result)
	}

	inst, err := e.instruments.Get(ctx, "bond-1")
	if err != nil {
		t.Fatal(err)
	}
	if inst.HolderID != "fund-2" {
		t.Errorf("holder = %s, want fund-2", inst.HolderID)
	}

	// The consumed order is gone.
	levels, _ := e.orderBook.Snapshot(ctx, "USD", bonds, 10)
	if len(levels) != 0 {
		t.Errorf("expected empty book, got %d levels", len(levels))
	}
}

func TestSettlementUseCase_MissingInstrumentStopsPair(t *testing.T) {
	ctx := context.Background()
	e := newEconomy(t)
	e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")

	holderAcc := e.customer(t, bank, "fund-1", "USD", "0")
	buyerAcc := e.customer(t, bank, "fund-2", "USD", "100")

	// The order references an instrument that was never created.
	bonds := domain.InstrumentCommodity("corp-bond")
	if _, err := e.orderBook.Place(ctx, usecase.PlaceOrderInput{
		OfferorID: "fund-1", Currency: "USD", Commodity: bonds,
		Amount: dec("1"), Price: dec("45"),
		SettlementAccountID: holderAcc.ID, InstrumentID: "bond-404",
	}); err != nil {
		t.Fatal(err)
	}

	result, err := e.settlement.Buy(ctx, usecase.BuyRequest{
		BuyerID:          "fund-2",
		PaymentAccountID: buyerAcc.ID,
		Currency:         "USD",
		Commodity:        bonds,
		MaxAmount:        nd("1"),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if result.Fills != 0 {
		t.Errorf("expected no completed fills, got %d", result.Fills)
	}
	if got := e.balance(t, buyerAcc.ID); !got.Equal(dec("100")) {
		t.Errorf("buyer balance = %s, want unchanged 100", got)
	}
	e.requireConserved(t)
}

func TestSettlementUseCase_InsufficientInventoryStopsPair(t *testing.T) {
	ctx := context.Background()
	e := newEconomy(t)
	e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")

	buyerAcc := e.customer(t, bank, "mill-1", "USD", "100")
	farmerAcc := e.customer(t, bank, "farmer-1", "USD", "0")

	// The farmer offers more grain than held.
	if err := e.inventory.Add(ctx, "farmer-1", "grain", dec("2")); err != nil {
		t.Fatal(err)
	}
	grain := domain.GoodCommodity("grain")
	if _, err := e.orderBook.Place(ctx, usecase.PlaceOrderInput{
		OfferorID: "farmer-1", Currency: "USD", Commodity: grain,
		Amount: dec("10"), Price: dec("1.00"), SettlementAccountID: farmerAcc.ID,
	}); err != nil {
		t.Fatal(err)
	}

	result, err := e.settlement.Buy(ctx, usecase.BuyRequest{
		BuyerID:          "mill-1",
		PaymentAccountID: buyerAcc.ID,
		Currency:         "USD",
		Commodity:        grain,
		MaxAmount:        nd("5"),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if result.Fills != 0 {
		t.Errorf("expected no completed fills, got %d", result.Fills)
	}
	// The inventory check runs before the money leg, so nothing moved.
	if got := e.balance(t, buyerAcc.ID); !got.Equal(dec("100")) {
		t.Errorf("buyer balance = %s, want 100", got)
	}
	e.requireConserved(t)
}
