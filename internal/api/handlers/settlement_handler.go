package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/api/middleware"
	"github.com/splitledger/splitledger/internal/apperr"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/service"
)

// SettlementHandler serves settlement endpoints within a group.
type SettlementHandler struct {
	settlements *service.SettlementService
}

// NewSettlementHandler creates a new settlement handler.
func NewSettlementHandler(settlements *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlements: settlements}
}

type createSettlementRequest struct {
	PayerID string `json:"payer_id"`
	PayeeID string `json:"payee_id"`
	Amount  string `json:"amount"`
	Note    string `json:"note"`
}

type settlementResponse struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	PayerID   string          `json:"payer_id"`
	PayeeID   string          `json:"payee_id"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt int64           `json:"created_at"`
}

type createSettlementResponse struct {
	Settlement settlementResponse `json:"settlement"`
	Warnings   []apperr.Warning   `json:"warnings,omitempty"`
}

func toSettlementResponse(st *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:        st.ID,
		GroupID:   st.GroupID,
		PayerID:   st.PayerID,
		PayeeID:   st.PayeeID,
		Amount:    st.Amount,
		Note:      st.Note,
		CreatedAt: st.CreatedAt,
	}
}

// Create handles POST /api/v1/groups/{groupID}/settlements.
func (h *SettlementHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	var req createSettlementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	amount, err := parseAmount(req.Amount, "amount")
	if err != nil {
		respondError(w, err)
		return
	}

	settlement, warnings, err := h.settlements.Create(r.Context(), userID, chi.URLParam(r, "groupID"), service.CreateSettlementInput{
		PayerID: req.PayerID,
		PayeeID: req.PayeeID,
		Amount:  amount,
		Note:    req.Note,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, createSettlementResponse{
		Settlement: toSettlementResponse(settlement),
		Warnings:   warnings,
	})
}

// List handles GET /api/v1/groups/{groupID}/settlements.
func (h *SettlementHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	settlements, err := h.settlements.List(r.Context(), userID, chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]settlementResponse, 0, len(settlements))
	for i := range settlements {
		out = append(out, toSettlementResponse(&settlements[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"settlements": out})
}
