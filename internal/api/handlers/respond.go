package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/apperr"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// respondJSON writes data as a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError maps any error onto the stable error envelope. Unexpected
// errors become 500 INTERNAL_ERROR and only the application error surface
// reaches the client.
func respondError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	if appErr.Status >= http.StatusInternalServerError {
		slog.Error("request failed", "code", appErr.Code, "error", err)
	}
	respondJSON(w, appErr.Status, errorEnvelope{Error: errorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Field:   appErr.Field,
	}})
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.BadRequest(apperr.CodeValidation, "invalid JSON body: "+err.Error())
	}
	return nil
}

// parseAmount converts a request amount string to a positive decimal.
// Precision beyond two places passes through here; the business-rule
// validator rejects it with its own code.
func parseAmount(raw, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.BadRequest(apperr.CodeValidation, field+" must be a decimal number string")
	}
	if !d.IsPositive() {
		return decimal.Zero, apperr.BadRequest(apperr.CodeValidation, field+" must be greater than zero")
	}
	return d, nil
}
