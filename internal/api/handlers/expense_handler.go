package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/api/middleware"
	"github.com/splitledger/splitledger/internal/apperr"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/service"
)

const maxDescriptionLen = 255

// ExpenseHandler serves expense endpoints within a group.
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

type splitRequest struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

type createExpenseRequest struct {
	PayerID     string         `json:"payer_id"`
	Description string         `json:"description"`
	Amount      string         `json:"amount"`
	SplitMode   string         `json:"split_mode"`
	Category    string         `json:"category"`
	Splits      []splitRequest `json:"splits"`
}

type editExpenseRequest struct {
	PayerID     *string        `json:"payer_id"`
	Description *string        `json:"description"`
	Amount      *string        `json:"amount"`
	Category    *string        `json:"category"`
	Splits      []splitRequest `json:"splits"`
}

type splitResponse struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

type expenseResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	PayerID     string          `json:"payer_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	SplitMode   string          `json:"split_mode"`
	Category    string          `json:"category,omitempty"`
	Splits      []splitResponse `json:"splits"`
	CreatedAt   int64           `json:"created_at"`
	UpdatedAt   int64           `json:"updated_at,omitempty"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	splits := make([]splitResponse, 0, len(e.Splits))
	for _, sp := range e.Splits {
		splits = append(splits, splitResponse{UserID: sp.UserID, Amount: sp.Amount})
	}
	return expenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Description: e.Description,
		Amount:      e.Amount,
		SplitMode:   string(e.SplitMode),
		Category:    e.Category,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func validDescription(desc string) (string, error) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "", apperr.BadRequest(apperr.CodeValidation, "description is required")
	}
	if len(desc) > maxDescriptionLen {
		return "", apperr.BadRequest(apperr.CodeValidation, "description must be 255 characters or fewer")
	}
	return desc, nil
}

func parseSplits(reqs []splitRequest) ([]service.SplitInput, error) {
	splits := make([]service.SplitInput, 0, len(reqs))
	for _, sr := range reqs {
		amount, err := parseAmount(sr.Amount, "splits.amount")
		if err != nil {
			return nil, err
		}
		splits = append(splits, service.SplitInput{UserID: sr.UserID, Amount: amount})
	}
	return splits, nil
}

// Create handles POST /api/v1/groups/{groupID}/expenses.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	desc, err := validDescription(req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount, "amount")
	if err != nil {
		respondError(w, err)
		return
	}
	splits, err := parseSplits(req.Splits)
	if err != nil {
		respondError(w, err)
		return
	}

	expense, err := h.expenses.Create(r.Context(), userID, chi.URLParam(r, "groupID"), service.CreateExpenseInput{
		PayerID:     req.PayerID,
		Description: desc,
		Amount:      amount,
		SplitMode:   models.SplitMode(req.SplitMode),
		Category:    req.Category,
		Splits:      splits,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

// List handles GET /api/v1/groups/{groupID}/expenses. An optional
// ?category= query narrows the result to one category.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	expenses, err := h.expenses.List(r.Context(), userID, chi.URLParam(r, "groupID"), r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, toExpenseResponse(&expenses[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"expenses": out})
}

// Get handles GET /api/v1/groups/{groupID}/expenses/{expenseID}.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	expense, err := h.expenses.Get(r.Context(), userID, chi.URLParam(r, "groupID"), chi.URLParam(r, "expenseID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toExpenseResponse(expense))
}

// Edit handles PATCH /api/v1/groups/{groupID}/expenses/{expenseID}.
func (h *ExpenseHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	var req editExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	input := service.EditExpenseInput{PayerID: req.PayerID, Category: req.Category}
	if req.Description != nil {
		desc, err := validDescription(*req.Description)
		if err != nil {
			respondError(w, err)
			return
		}
		input.Description = &desc
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount, "amount")
		if err != nil {
			respondError(w, err)
			return
		}
		input.Amount = &amount
	}
	if req.Splits != nil {
		splits, err := parseSplits(req.Splits)
		if err != nil {
			respondError(w, err)
			return
		}
		input.Splits = splits
	}

	expense, err := h.expenses.Edit(r.Context(), userID, chi.URLParam(r, "groupID"), chi.URLParam(r, "expenseID"), input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toExpenseResponse(expense))
}

// Delete handles DELETE /api/v1/groups/{groupID}/expenses/{expenseID}.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	if err := h.expenses.Delete(r.Context(), userID, chi.URLParam(r, "groupID"), chi.URLParam(r, "expenseID")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
