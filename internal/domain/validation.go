package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidPartyID  = errors.New("invalid party ID")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
)

// MaxTransferAmount bounds a single transfer. Large enough for any simulated
// economy, small enough to catch runaway arithmetic.
var MaxTransferAmount = decimal.RequireFromString("1000000000000")

// ValidateCurrency validates a currency code: three upper-case letters,
// ISO 4217 style. Simulated currencies follow the same shape.
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCurrency
		}
	}
	return nil
}

// ValidatePartyID validates a party identifier.
func ValidatePartyID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidPartyID
	}
	return nil
}

// ValidateAmount bounds a transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if amount.GreaterThan(MaxTransferAmount) {
		return ErrAmountTooLarge
	}
	return nil
}
