package handler

import (
	"net/http"

	"github.com/econsim/clearing/internal/adapter/http/dto"
	"github.com/econsim/clearing/internal/usecase"
)

// LedgerHandler exposes the conservation and transit audits.
type LedgerHandler struct {
	audit *usecase.AuditUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(audit *usecase.AuditUseCase) *LedgerHandler {
	return &LedgerHandler{audit: audit}
}

// Conservation sums every account per currency and money type.
func (h *LedgerHandler) Conservation(w http.ResponseWriter, r *http.Request) {
	report, err := h.audit.CheckConservation(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "conservation audit failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConservationFromUseCase(report))
}

// Transits verifies every relay transit account rests at zero.
func (h *LedgerHandler) Transits(w http.ResponseWriter, r *http.Request) {
	if err := h.audit.CheckTransits(r.Context()); err != nil {
		writeError(w, http.StatusConflict, "transit audit failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"clean": true})
}
