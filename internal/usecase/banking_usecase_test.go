package usecase_test

import (
	"context"
	"testing"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

func TestBankingUseCase_RegisterCreditBank(t *testing.T) {
	e := newEconomy(t)
	cb := e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")

	if bank.Kind != domain.BankKindCredit {
		t.Errorf("kind = %s, want credit", bank.Kind)
	}
	for _, accounts := range []map[string]string{bank.TransitAccountIDs, bank.ReserveAccountIDs, bank.OwnAccountIDs} {
		if _, ok := accounts["USD"]; !ok {
			t.Error("missing USD account")
		}
	}

	// The transit account lives at the central bank as deposits money; the
	// reserve account as central bank money.
	transit := e.mustAccount(t, bank.TransitAccountIDs["USD"])
	if transit.BankID != cb.ID || transit.MoneyType != domain.MoneyTypeDeposits {
		t.Errorf("transit account misplaced: bank=%s type=%s", transit.BankID, transit.MoneyType)
	}
	reserve := e.mustAccount(t, bank.ReserveAccountIDs["USD"])
	if reserve.BankID != cb.ID || reserve.MoneyType != domain.MoneyTypeCentralBankMoney {
		t.Errorf("reserve account misplaced: bank=%s type=%s", reserve.BankID, reserve.MoneyType)
	}

	// Mutual customer relationship with the central bank.
	updatedCB, err := e.banks.Get(context.Background(), cb.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !updatedCB.IsCustomer(bank.ID) || !bank.IsCustomer(cb.ID) {
		t.Error("customer relationship not established both ways")
	}
}

func TestBankingUseCase_RegisterCreditBankNeedsCentralBank(t *testing.T) {
	e := newEconomy(t)

	if _, err := e.banking.RegisterCreditBank(context.Background(), "orphan", []string{"USD"}); err != domain.ErrCentralBankNotFound {
		t.Errorf("expected ErrCentralBankNotFound, got %v", err)
	}
}

func TestBankingUseCase_CheckReserves(t *testing.T) {
	ctx := context.Background()
	e := newEconomy(t)
	e.centralBank(t, "USD") // ratio 0.10
	bank := e.creditBank(t, "alpha", "USD")

	// Customer deposits of 1000 require reserves of 100; the bank holds 50.
	e.customer(t, bank, "firm-1", "USD", "1000")
	reserveID := bank.ReserveAccountIDs["USD"]
	e.setReserve(t, bank, "USD", "50")

	topUps, err := e.banking.CheckReserves(ctx, bank.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topUps) != 1 {
		t.Fatalf("expected 1 top-up, got %d", len(topUps))
	}

	topUp := topUps[0]
	if !topUp.Required.Equal(dec("100")) {
		t.Errorf("required = %s, want 100", topUp.Required)
	}
	if !topUp.Held.Equal(dec("50")) {
		t.Errorf("held = %s, want 50", topUp.Held)
	}
	if !topUp.FaceValue.Equal(dec("50")) {
		t.Errorf("bond face value = %s, want 50", topUp.FaceValue)
	}

	// The bond exists, held by the central bank, face value equal to the gap.
	inst, err := e.instruments.Get(ctx, topUp.InstrumentID)
	if err != nil {
		t.Fatal(err)
	}
	if inst.IssuerID != bank.ID || !inst.FaceValue.Equal(dec("50")) {
		t.Errorf("bond issuer=%s face=%s", inst.IssuerID, inst.FaceValue)
	}

	// The reserve account now meets the requirement exactly.
	if got := e.balance(t, reserveID); !got.Equal(dec("100")) {
		t.Errorf("reserve balance = %s, want 100", got)
	}

	// A second check finds no shortfall.
	topUps, err = e.banking.CheckReserves(ctx, bank.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(topUps) != 0 {
		t.Errorf("expected no further top-ups, got %d", len(topUps))
	}

	if len(e.observer.ReserveTopUps) != 1 {
		t.Errorf("observer saw %d top-ups, want 1", len(e.observer.ReserveTopUps))
	}
}

func TestBankingUseCase_CheckReservesRejectsCentralBank(t *testing.T) {
	e := newEconomy(t)
	cb := e.centralBank(t, "USD")

	if _, err := e.banking.CheckReserves(context.Background(), cb.ID); err != domain.ErrNotCreditBank {
		t.Errorf("expected ErrNotCreditBank, got %v", err)
	}
}

func TestBankingUseCase_AccrueInterest(t *testing.T) {
	ctx := context.Background()
	e := newEconomy(t)
	e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")

	saver := e.customer(t, bank, "household-1", "USD", "1000")
	debtor := e.customer(t, bank, "household-2", "USD", "0")

	// Push the debtor negative through an overdraft-allowed account.
	debtorAcc, err := e.banking.OpenAccount(ctx, usecase.OpenAccountInput{
		OwnerID: "household-2", BankID: bank.ID, Currency: "USD", AllowOverdraft: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.transfers.Execute(ctx, usecase.TransferInput{
		FromAccountID: debtorAcc.ID, ToAccountID: debtor.ID, Amount: dec("200"),
	}); err != nil {
		t.Fatal(err)
	}

	if err := e.banking.AccrueInterest(ctx, bank.ID, dec("0.005")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 1000 * 0.005 = 5 earned; -200 * 0.005 = -1 charged.
	if got := e.balance(t, saver.ID); !got.Equal(dec("1005")) {
		t.Errorf("saver balance = %s, want 1005", got)
	}
	if got := e.balance(t, debtorAcc.ID); !got.Equal(dec("-201")) {
		t.Errorf("debtor overdraft balance = %s, want -201", got)
	}
	e.requireConserved(t)
}

func TestBankingUseCase_CloseAccountEvensUp(t *testing.T) {
	ctx := context.Background()
	e := newEconomy(t)
	e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")

	main := e.customer(t, bank, "firm-1", "USD", "100")
	side := e.customer(t, bank, "firm-1", "USD", "40")

	if err := e.banking.CloseAccount(ctx, side.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The remainder moved to the other transactions account of the owner.
	if got := e.balance(t, main.ID); !got.Equal(dec("140")) {
		t.Errorf("main balance = %s, want 140", got)
	}
	if _, err := e.accounts.Get(ctx, side.ID); err != domain.ErrAccountNotFound {
		t.Errorf("expected account gone, got %v", err)
	}
	e.requireConserved(t)
}

func TestBankingUseCase_CloseAccountWithoutTarget(t *testing.T) {
	e := newEconomy(t)
	e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")

	only := e.customer(t, bank, "firm-1", "USD", "100")

	if err := e.banking.CloseAccount(context.Background(), only.ID); err != domain.ErrNoTransactionsAccount {
		t.Errorf("expected ErrNoTransactionsAccount, got %v", err)
	}
}

func TestBankingUseCase_BalanceSheet(t *testing.T) {
	ctx := context.Background()
	e := newEconomy(t)
	e.centralBank(t, "USD")
	bank := e.creditBank(t, "alpha", "USD")

	e.customer(t, bank, "firm-1", "USD", "300")
	e.setReserve(t, bank, "USD", "30")

	sheet, err := e.banking.BalanceSheet(ctx, bank.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Customer deposits of 300 are liabilities; the bank's own account ran
	// 300 negative funding them, also a liability; reserves of 30 are assets.
	if got := sheet.Liabilities["USD"]; !got.Equal(dec("600")) {
		t.Errorf("liabilities = %s, want 600", got)
	}
	if got := sheet.Assets["USD"]; !got.Equal(dec("30")) {
		t.Errorf("assets = %s, want 30", got)
	}
	if len(e.observer.BalanceSheets) != 1 {
		t.Errorf("observer saw %d sheets, want 1", len(e.observer.BalanceSheets))
	}
}
