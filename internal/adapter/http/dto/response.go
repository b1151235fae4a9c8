package dto

import (
	"time"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse is the wire form of an account.
type AccountResponse struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	BankID         string    `json:"bank_id"`
	Currency       string    `json:"currency"`
	MoneyType      string    `json:"money_type"`
	TermType       string    `json:"term_type"`
	Balance        string    `json:"balance"`
	AllowOverdraft bool      `json:"allow_overdraft"`
	CreatedAt      time.Time `json:"created_at"`
}

// AccountFromDomain converts a domain account.
func AccountFromDomain(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		OwnerID:        a.OwnerID,
		BankID:         a.BankID,
		Currency:       a.Currency,
		MoneyType:      string(a.MoneyType),
		TermType:       string(a.TermType),
		Balance:        a.Balance.String(),
		AllowOverdraft: a.AllowOverdraft,
		CreatedAt:      a.CreatedAt,
	}
}

// AccountsFromDomain converts a slice of domain accounts.
func AccountsFromDomain(accounts []*domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountFromDomain(a))
	}
	return out
}

// BankResponse is the wire form of a bank.
type BankResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Kind         string            `json:"kind"`
	Currency     string            `json:"currency"`
	ReserveRatio string            `json:"reserve_ratio,omitempty"`
	Transit      map[string]string `json:"transit_accounts,omitempty"`
	Reserves     map[string]string `json:"reserve_accounts,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// BankFromDomain converts a domain bank.
func BankFromDomain(b *domain.Bank) BankResponse {
	resp := BankResponse{
		ID:        b.ID,
		Name:      b.Name,
		Kind:      string(b.Kind),
		Currency:  b.Currency,
		Transit:   b.TransitAccountIDs,
		Reserves:  b.ReserveAccountIDs,
		CreatedAt: b.CreatedAt,
	}
	if b.Kind == domain.BankKindCentral {
		resp.ReserveRatio = b.ReserveRatio.String()
	}
	return resp
}

// TransferResponse is the wire form of a transfer.
type TransferResponse struct {
	ID            string    `json:"id"`
	FromAccountID string    `json:"from_account_id"`
	ToAccountID   string    `json:"to_account_id"`
	Currency      string    `json:"currency"`
	Amount        string    `json:"amount"`
	Subject       string    `json:"subject,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransferFromDomain converts a domain transfer.
func TransferFromDomain(t *domain.Transfer) TransferResponse {
	return TransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Currency:      t.Currency,
		Amount:        t.Amount.String(),
		Subject:       t.Subject,
		CreatedAt:     t.CreatedAt,
	}
}

// BookLevelResponse is one live order level.
type BookLevelResponse struct {
	OrderID   string `json:"order_id"`
	OfferorID string `json:"offeror_id"`
	Amount    string `json:"amount"`
	Price     string `json:"price"`
}

// BookResponse is a book snapshot with total depth.
type BookResponse struct {
	Currency  string              `json:"currency"`
	Commodity string              `json:"commodity"`
	Depth     string              `json:"depth"`
	Levels    []BookLevelResponse `json:"levels"`
}

// BookFromLevels converts use case book levels.
func BookFromLevels(currency, commodity, depth string, levels []usecase.BookLevel) BookResponse {
	out := BookResponse{
		Currency:  currency,
		Commodity: commodity,
		Depth:     depth,
		Levels:    make([]BookLevelResponse, 0, len(levels)),
	}
	for _, l := range levels {
		out.Levels = append(out.Levels, BookLevelResponse{
			OrderID:   l.OrderID,
			OfferorID: l.OfferorID,
			Amount:    l.Amount.String(),
			Price:     l.Price.String(),
		})
	}
	return out
}

// PriceSegmentResponse is one interval of the piecewise price function.
type PriceSegmentResponse struct {
	FromAmount string `json:"from_amount"`
	ToAmount   string `json:"to_amount"`
	Price      string `json:"price"`
	Constant   string `json:"constant"`
}

// PriceResponse answers a point price query.
type PriceResponse struct {
	Amount string `json:"amount"`
	Price  string `json:"price"`
}

// ReserveTopUpResponse is one executed reserve top-up.
type ReserveTopUpResponse struct {
	BankID       string `json:"bank_id"`
	Currency     string `json:"currency"`
	Required     string `json:"required"`
	Held         string `json:"held"`
	InstrumentID string `json:"instrument_id"`
	FaceValue    string `json:"face_value"`
}

// ReserveTopUpsFromDomain converts executed top-ups.
func ReserveTopUpsFromDomain(topUps []domain.ReserveTopUp) []ReserveTopUpResponse {
	out := make([]ReserveTopUpResponse, 0, len(topUps))
	for _, t := range topUps {
		out = append(out, ReserveTopUpResponse{
			BankID:       t.BankID,
			Currency:     t.Currency,
			Required:     t.Required.String(),
			Held:         t.Held.String(),
			InstrumentID: t.InstrumentID,
			FaceValue:    t.FaceValue.String(),
		})
	}
	return out
}

// MoneyStockResponse is one (currency, money type) conservation aggregate.
type MoneyStockResponse struct {
	Currency  string `json:"currency"`
	MoneyType string `json:"money_type"`
	Total     string `json:"total"`
	Positive  string `json:"positive"`
	Accounts  int    `json:"accounts"`
}

// ConservationResponse is the outcome of a conservation audit.
type ConservationResponse struct {
	Balanced bool                 `json:"balanced"`
	Stocks   []MoneyStockResponse `json:"stocks"`
}

// OrderResponse is a placed standing order.
type OrderResponse struct {
	ID                  string    `json:"id"`
	OfferorID           string    `json:"offeror_id"`
	Currency            string    `json:"currency"`
	Commodity           string    `json:"commodity"`
	Amount              string    `json:"amount"`
	Price               string    `json:"price"`
	SettlementAccountID string    `json:"settlement_account_id"`
	CommodityAccountID  string    `json:"commodity_account_id,omitempty"`
	InstrumentID        string    `json:"instrument_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// OrderFromDomain converts a domain order to a response.
func OrderFromDomain(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:                  o.ID,
		OfferorID:           o.OfferorID,
		Currency:            o.Currency,
		Commodity:           o.Commodity.String(),
		Amount:              o.Amount.String(),
		Price:               o.Price.String(),
		SettlementAccountID: o.SettlementAccountID,
		CommodityAccountID:  o.CommodityAccountID,
		InstrumentID:        o.InstrumentID,
		CreatedAt:           o.CreatedAt,
	}
}

// CancelResponse reports how many orders a cancellation removed.
type CancelResponse struct {
	Cancelled int `json:"cancelled"`
}

// BuyResultResponse aggregates one buy execution.
type BuyResultResponse struct {
	TotalSpent  string `json:"total_spent"`
	TotalBought string `json:"total_bought"`
	Fills       int    `json:"fills"`
}

// BuyResultFromUseCase converts a use case buy result.
func BuyResultFromUseCase(res usecase.BuyResult) BuyResultResponse {
	return BuyResultResponse{
		TotalSpent:  res.TotalSpent.String(),
		TotalBought: res.TotalBought.String(),
		Fills:       res.Fills,
	}
}

// SegmentsResponse lists the analytical segments of a book's price curve.
type SegmentsResponse struct {
	Currency  string                 `json:"currency"`
	Commodity string                 `json:"commodity"`
	Segments  []PriceSegmentResponse `json:"segments"`
}

// SegmentsFromUseCase converts use case price segments.
func SegmentsFromUseCase(currency string, commodity domain.Commodity, segments []usecase.PriceSegment) SegmentsResponse {
	out := SegmentsResponse{
		Currency:  currency,
		Commodity: commodity.String(),
		Segments:  make([]PriceSegmentResponse, 0, len(segments)),
	}
	for _, s := range segments {
		out.Segments = append(out.Segments, PriceSegmentResponse{
			FromAmount: s.FromAmount.String(),
			ToAmount:   s.ToAmount.String(),
			Price:      s.Price.String(),
			Constant:   s.Constant.String(),
		})
	}
	return out
}

// ConservationFromUseCase converts an audit report.
func ConservationFromUseCase(report *usecase.ConservationReport) ConservationResponse {
	out := ConservationResponse{Balanced: report.Balanced, Stocks: make([]MoneyStockResponse, 0, len(report.Stocks))}
	for _, s := range report.Stocks {
		out.Stocks = append(out.Stocks, MoneyStockResponse{
			Currency:  s.Currency,
			MoneyType: string(s.MoneyType),
			Total:     s.Total.String(),
			Positive:  s.Positive.String(),
			Accounts:  s.Accounts,
		})
	}
	return out
}
