package models

import "github.com/shopspring/decimal"

// Settlement represents a direct payment between two group members to
// clear debt. Payer and payee must differ. Settlements are immutable and
// have no soft delete.
//
// Overpaying (settling more than is currently owed) is permitted; it is
// recorded and flagged with an advisory, never rejected.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// PayerID is the member who paid (debtor settling up).
	PayerID string

	// PayeeID is the member who received the payment.
	PayeeID string

	// Amount is the payment amount, at most two fractional digits.
	Amount decimal.Decimal

	// Note is an optional description.
	Note string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
