package dto

import (
	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// RegisterCentralBankRequest registers the clearing hub for one currency.
type RegisterCentralBankRequest struct {
	Name         string `json:"name"`
	Currency     string `json:"currency"`
	ReserveRatio string `json:"reserve_ratio"`
}

// RegisterCreditBankRequest registers a customer-facing bank.
type RegisterCreditBankRequest struct {
	Name       string   `json:"name"`
	Currencies []string `json:"currencies"`
}

// OpenAccountRequest opens a customer account.
type OpenAccountRequest struct {
	OwnerID        string `json:"owner_id"`
	BankID         string `json:"bank_id"`
	Currency       string `json:"currency"`
	TermType       string `json:"term_type,omitempty"`
	AllowOverdraft bool   `json:"allow_overdraft,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r OpenAccountRequest) ToUseCaseInput() usecase.OpenAccountInput {
	return usecase.OpenAccountInput{
		OwnerID:        r.OwnerID,
		BankID:         r.BankID,
		Currency:       r.Currency,
		TermType:       domain.TermType(r.TermType),
		AllowOverdraft: r.AllowOverdraft,
	}
}

// CreateTransferRequest moves money between two accounts.
type CreateTransferRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	Subject       string `json:"subject,omitempty"`
	AllowNegative bool   `json:"allow_negative,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r CreateTransferRequest) ToUseCaseInput() (usecase.TransferInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.TransferInput{}, err
	}
	return usecase.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        amount,
		Subject:       r.Subject,
		AllowNegative: r.AllowNegative,
	}, nil
}

// AccrueInterestRequest applies one interest period.
type AccrueInterestRequest struct {
	Rate string `json:"rate"`
}

// PlaceOrderRequest puts a standing sell order into a book.
type PlaceOrderRequest struct {
	OfferorID           string `json:"offeror_id"`
	Currency            string `json:"currency"`
	Commodity           string `json:"commodity"`
	Amount              string `json:"amount"`
	Price               string `json:"price"`
	SettlementAccountID string `json:"settlement_account_id"`
	CommodityAccountID  string `json:"commodity_account_id,omitempty"`
	InstrumentID        string `json:"instrument_id,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r PlaceOrderRequest) ToUseCaseInput() (usecase.PlaceOrderInput, error) {
	commodity, err := domain.ParseCommodity(r.Commodity)
	if err != nil {
		return usecase.PlaceOrderInput{}, err
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.PlaceOrderInput{}, err
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return usecase.PlaceOrderInput{}, err
	}
	return usecase.PlaceOrderInput{
		OfferorID:           r.OfferorID,
		Currency:            r.Currency,
		Commodity:           commodity,
		Amount:              amount,
		Price:               price,
		SettlementAccountID: r.SettlementAccountID,
		CommodityAccountID:  r.CommodityAccountID,
		InstrumentID:        r.InstrumentID,
	}, nil
}

// CancelOrdersRequest withdraws an offeror's standing orders. An empty
// commodity cancels across every book of the currency.
type CancelOrdersRequest struct {
	OfferorID string `json:"offeror_id"`
	Currency  string `json:"currency"`
	Commodity string `json:"commodity,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r CancelOrdersRequest) ToUseCaseInput() (usecase.CancelInput, error) {
	input := usecase.CancelInput{OfferorID: r.OfferorID, Currency: r.Currency}
	if r.Commodity != "" {
		commodity, err := domain.ParseCommodity(r.Commodity)
		if err != nil {
			return usecase.CancelInput{}, err
		}
		input.Commodity = &commodity
	}
	return input, nil
}

// BuyRequest buys from a book under optional bounds. Bounds are decimal
// strings; an empty string leaves the bound open.
type BuyRequest struct {
	BuyerID            string `json:"buyer_id"`
	PaymentAccountID   string `json:"payment_account_id"`
	CommodityAccountID string `json:"commodity_account_id,omitempty"`
	Currency           string `json:"currency"`
	Commodity          string `json:"commodity"`
	MaxAmount          string `json:"max_amount,omitempty"`
	MaxTotalPrice      string `json:"max_total_price,omitempty"`
	MaxUnitPrice       string `json:"max_unit_price,omitempty"`
	WholeUnits         bool   `json:"whole_units,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r BuyRequest) ToUseCaseInput() (usecase.BuyRequest, error) {
	commodity, err := domain.ParseCommodity(r.Commodity)
	if err != nil {
		return usecase.BuyRequest{}, err
	}
	req := usecase.BuyRequest{
		BuyerID:            r.BuyerID,
		PaymentAccountID:   r.PaymentAccountID,
		CommodityAccountID: r.CommodityAccountID,
		Currency:           r.Currency,
		Commodity:          commodity,
		WholeUnits:         r.WholeUnits,
	}
	if req.MaxAmount, err = parseNullDecimal(r.MaxAmount); err != nil {
		return usecase.BuyRequest{}, err
	}
	if req.MaxTotalPrice, err = parseNullDecimal(r.MaxTotalPrice); err != nil {
		return usecase.BuyRequest{}, err
	}
	if req.MaxUnitPrice, err = parseNullDecimal(r.MaxUnitPrice); err != nil {
		return usecase.BuyRequest{}, err
	}
	return req, nil
}

func parseNullDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
