package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitledger/splitledger/internal/api/middleware"
	"github.com/splitledger/splitledger/internal/apperr"
	"github.com/splitledger/splitledger/internal/service"
)

// BalanceHandler serves derived balance reports.
type BalanceHandler struct {
	balances *service.BalanceService
}

// NewBalanceHandler creates a new balance handler.
func NewBalanceHandler(balances *service.BalanceService) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

// Group handles GET /api/v1/groups/{groupID}/balances.
func (h *BalanceHandler) Group(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	report, err := h.balances.ForGroup(r.Context(), userID, chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Member handles GET /api/v1/groups/{groupID}/balances/{memberID}.
func (h *BalanceHandler) Member(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	balance, err := h.balances.ForMember(r.Context(), userID, chi.URLParam(r, "groupID"), chi.URLParam(r, "memberID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balance)
}
