package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/econsim/clearing/internal/adapter/http/dto"
	"github.com/econsim/clearing/internal/usecase"
)

// TransferHandler handles direct transfers and journal lookups.
type TransferHandler struct {
	transfers *usecase.TransferUseCase
	journal   usecase.JournalRepository
}

// NewTransferHandler creates a new TransferHandler. journal may be nil when
// no durable journal is configured; lookups then answer 404.
func NewTransferHandler(transfers *usecase.TransferUseCase, journal usecase.JournalRepository) *TransferHandler {
	return &TransferHandler{transfers: transfers, journal: journal}
}

// Create executes a transfer between two accounts.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	transfer, err := h.transfers.Execute(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "transfer failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

// Get retrieves a journaled transfer with its entries.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeError(w, http.StatusNotFound, "journal not configured", "")
		return
	}

	id := chi.URLParam(r, "id")
	transfer, err := h.journal.GetTransfer(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transfer", err.Error())
		return
	}
	legs, err := h.journal.ListEntriesByTransfer(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list journal entries", err.Error())
		return
	}

	type entry struct {
		ID              string    `json:"id"`
		AccountID       string    `json:"account_id"`
		Amount          string    `json:"amount"`
		PreviousBalance string    `json:"previous_balance"`
		CurrentBalance  string    `json:"current_balance"`
		CreatedAt       time.Time `json:"created_at"`
	}
	resp := struct {
		dto.TransferResponse
		Entries []entry `json:"entries"`
	}{TransferResponse: dto.TransferFromDomain(transfer), Entries: make([]entry, 0, len(legs))}
	for _, leg := range legs {
		resp.Entries = append(resp.Entries, entry{
			ID:              leg.ID,
			AccountID:       leg.AccountID,
			Amount:          leg.Amount.String(),
			PreviousBalance: leg.PreviousBalance.String(),
			CurrentBalance:  leg.CurrentBalance.String(),
			CreatedAt:       leg.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListByAccount lists journaled transfers touching one account.
func (h *TransferHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeError(w, http.StatusNotFound, "journal not configured", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	transfers, err := h.journal.ListByAccount(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transfers", err.Error())
		return
	}

	out := make([]dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, dto.TransferFromDomain(t))
	}
	writeJSON(w, http.StatusOK, out)
}
