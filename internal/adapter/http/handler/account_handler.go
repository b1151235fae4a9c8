package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/econsim/clearing/internal/adapter/http/dto"
	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
	CloseAccount(ctx context.Context, accountID string) error
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	banking     AccountService
	accountRepo usecase.AccountRepository
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(banking AccountService, accountRepo usecase.AccountRepository) *AccountHandler {
	return &AccountHandler{banking: banking, accountRepo: accountRepo}
}

// Open opens a new customer account.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.banking.OpenAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountRepo.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// ListByOwner lists an owner's accounts.
func (h *AccountHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	currency := r.URL.Query().Get("currency")

	accounts, err := h.accountRepo.ListByOwner(r.Context(), ownerID, currency)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Close evens the account up to zero and destroys it.
func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	if err := h.banking.CloseAccount(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to close account", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
