package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyType distinguishes ordinary bank deposits from central-bank-issued
// reserve money. Transfers require both ends to match.
type MoneyType string

const (
	MoneyTypeDeposits         MoneyType = "deposits"
	MoneyTypeCentralBankMoney MoneyType = "central_bank_money"
)

// TermType classifies an account by maturity.
type TermType string

const (
	TermShort TermType = "short_term"
	TermLong  TermType = "long_term"
)

// Account is a balance record owned by one party, managed by one bank,
// denominated in one currency. Balances mutate only through the transfer
// protocol's withdraw/deposit primitives.
type Account struct {
	ID             string
	OwnerID        string
	BankID         string
	Currency       string
	MoneyType      MoneyType
	TermType       TermType
	Balance        decimal.Decimal
	AllowOverdraft bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateWithdraw checks if the account can be debited by amount.
func (a *Account) ValidateWithdraw(amount decimal.Decimal) error {
	newBalance := a.Balance.Sub(amount)
	if !a.AllowOverdraft && newBalance.IsNegative() {
		return ErrOverdraftNotAllowed
	}
	return nil
}

// ApplyWithdraw returns the balance after a debit.
func (a *Account) ApplyWithdraw(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyDeposit returns the balance after a credit.
func (a *Account) ApplyDeposit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// Compatible reports whether a transfer between the two accounts is
// representable at all: same currency, same money type.
func (a *Account) Compatible(b *Account) error {
	if a.Currency != b.Currency {
		return ErrCurrencyMismatch
	}
	if a.MoneyType != b.MoneyType {
		return ErrMoneyTypeMismatch
	}
	return nil
}
