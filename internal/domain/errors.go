package domain

import "errors"

var (
	// Account errors
	ErrOverdraftNotAllowed = errors.New("account does not allow overdraft")
	ErrAccountNotFound     = errors.New("account not found")

	// Transfer errors
	ErrSameAccount       = errors.New("cannot transfer to same account")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrCurrencyMismatch  = errors.New("cannot transfer between different currencies")
	ErrMoneyTypeMismatch = errors.New("cannot transfer between different money types")
	ErrNotBankCustomer   = errors.New("bank is not an authenticated customer of the counter-bank")
	ErrTransferNotFound  = errors.New("transfer not found")

	// Bank errors
	ErrBankNotFound          = errors.New("bank not found")
	ErrCentralBankNotFound   = errors.New("no central bank registered for currency")
	ErrNotCreditBank         = errors.New("operation requires a credit bank")
	ErrNoTransactionsAccount = errors.New("owner has no transactions account to even up against")

	// Order errors
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrder       = errors.New("order amount and price must be valid")
	ErrAmbiguousOrder     = errors.New("order must carry exactly one commodity selector")
	ErrOrderNotSplittable = errors.New("instrument orders fill as a whole unit")

	// Pricing errors
	ErrInsufficientDepth = errors.New("book depth insufficient for requested amount")

	// Instrument errors
	ErrInstrumentNotFound = errors.New("instrument not found")

	// Inventory errors
	ErrInsufficientInventory = errors.New("offeror holds less of the good than ordered")
)
