package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/adapter/http/dto"
	"github.com/econsim/clearing/internal/domain"
)

// BankService defines the behavior needed by BankHandler.
type BankService interface {
	RegisterCentralBank(ctx context.Context, name, currency string, reserveRatio decimal.Decimal) (*domain.Bank, error)
	RegisterCreditBank(ctx context.Context, name string, currencies []string) (*domain.Bank, error)
	CheckReserves(ctx context.Context, bankID string) ([]domain.ReserveTopUp, error)
	AccrueInterest(ctx context.Context, bankID string, rate decimal.Decimal) error
	BalanceSheet(ctx context.Context, bankID string) (*domain.BalanceSheet, error)
}

// BankRegistry reads registered banks.
type BankRegistry interface {
	Get(ctx context.Context, id string) (*domain.Bank, error)
	List(ctx context.Context) ([]*domain.Bank, error)
}

// BankHandler handles bank registration and the clock-driven periodic
// operations, exposed as plain endpoints for the external scheduler.
type BankHandler struct {
	banking  BankService
	bankRepo BankRegistry
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(banking BankService, bankRepo BankRegistry) *BankHandler {
	return &BankHandler{banking: banking, bankRepo: bankRepo}
}

// RegisterCentral registers the central bank for a currency.
func (h *BankHandler) RegisterCentral(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterCentralBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ratio, err := decimal.NewFromString(req.ReserveRatio)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reserve ratio", err.Error())
		return
	}

	bank, err := h.banking.RegisterCentralBank(r.Context(), req.Name, req.Currency, ratio)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register central bank", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BankFromDomain(bank))
}

// RegisterCredit registers a credit bank.
func (h *BankHandler) RegisterCredit(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterCreditBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	bank, err := h.banking.RegisterCreditBank(r.Context(), req.Name, req.Currencies)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register credit bank", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BankFromDomain(bank))
}

// Get retrieves a bank by ID.
func (h *BankHandler) Get(w http.ResponseWriter, r *http.Request) {
	bank, err := h.bankRepo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get bank", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BankFromDomain(bank))
}

// List lists all banks.
func (h *BankHandler) List(w http.ResponseWriter, r *http.Request) {
	banks, err := h.bankRepo.List(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list banks", err.Error())
		return
	}

	out := make([]dto.BankResponse, 0, len(banks))
	for _, b := range banks {
		out = append(out, dto.BankFromDomain(b))
	}
	writeJSON(w, http.StatusOK, out)
}

// CheckReserves runs the reserve check for a credit bank.
func (h *BankHandler) CheckReserves(w http.ResponseWriter, r *http.Request) {
	topUps, err := h.banking.CheckReserves(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "reserve check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReserveTopUpsFromDomain(topUps))
}

// AccrueInterest applies one interest period for a credit bank.
func (h *BankHandler) AccrueInterest(w http.ResponseWriter, r *http.Request) {
	var req dto.AccrueInterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rate", err.Error())
		return
	}

	if err := h.banking.AccrueInterest(r.Context(), chi.URLParam(r, "id"), rate); err != nil {
		writeError(w, mapDomainError(err), "interest accrual failed", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BalanceSheet snapshots a bank's aggregate position.
func (h *BankHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.banking.BalanceSheet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "balance sheet failed", err.Error())
		return
	}

	type side map[string]string
	resp := struct {
		BankID      string `json:"bank_id"`
		Assets      side   `json:"assets"`
		Liabilities side   `json:"liabilities"`
	}{BankID: sheet.BankID, Assets: side{}, Liabilities: side{}}
	for currency, amount := range sheet.Assets {
		resp.Assets[currency] = amount.String()
	}
	for currency, amount := range sheet.Liabilities {
		resp.Liabilities[currency] = amount.String()
	}

	writeJSON(w, http.StatusOK, resp)
}
