// Package apperr defines the application error registry.
//
// Every error surfaced by the API uses a code defined here. Codes are a
// versioned contract and do not change once published; messages are
// human-readable prose and may be improved at any time. Warnings are
// distinct from errors: a warning rides alongside a successful response
// and never blocks a write.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodePrecision          = "INVALID_AMOUNT_PRECISION"
	CodePayerNotMember     = "PAYER_NOT_MEMBER"
	CodeSplitUserNotMember = "SPLIT_USER_NOT_MEMBER"
	CodeDuplicateSplitUser = "DUPLICATE_SPLIT_USER"
	CodeSplitSumMismatch   = "SPLIT_SUM_MISMATCH"
	CodeExpenseDeleted     = "EXPENSE_DELETED"
	CodeSelfSettlement     = "SELF_SETTLEMENT"
	CodeRecipientNotMember = "RECIPIENT_NOT_MEMBER"
	CodeSplitsForEqualMode = "SPLITS_SENT_FOR_EQUAL_MODE"
	CodeGroupNotFound      = "GROUP_NOT_FOUND"
	CodeExpenseNotFound    = "EXPENSE_NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInternal           = "INTERNAL_ERROR"
)

// Warning codes.
const (
	WarnOverpayment = "OVERPAYMENT"
)

// Error is an application error with a stable code, an HTTP status, and an
// optional offending request field.
type Error struct {
	Code    string
	Message string
	Status  int
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Warning is a non-fatal advisory attached to a successful response.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// New creates an Error with an explicit status.
func New(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// NotFound creates a 404 error with the given code.
func NotFound(code, message string) *Error {
	return New(code, message, http.StatusNotFound)
}

// Forbidden creates a 403 FORBIDDEN error.
func Forbidden(message string) *Error {
	return New(CodeForbidden, message, http.StatusForbidden)
}

// Unauthorized creates a 401 UNAUTHORIZED error.
func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

// Unprocessable creates a 422 business-rule error for a request field.
func Unprocessable(code, message, field string) *Error {
	return &Error{Code: code, Message: message, Status: http.StatusUnprocessableEntity, Field: field}
}

// BadRequest creates a 400 request-shape error.
func BadRequest(code, message string) *Error {
	return New(code, message, http.StatusBadRequest)
}

// Internal wraps an unexpected failure as a 500 error.
func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError, Err: err}
}

// From extracts an *Error from err, or wraps it as INTERNAL_ERROR.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}
