package models

import "github.com/shopspring/decimal"

// Split represents one member's share of an expense.
// A member appears at most once per expense.
type Split struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// ExpenseID is the expense this split belongs to.
	ExpenseID string

	// UserID is the member who owes this share.
	UserID string

	// Amount is the share, at most two fractional digits.
	Amount decimal.Decimal
}
