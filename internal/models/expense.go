package models

import "github.com/shopspring/decimal"

// SplitMode selects how an expense's splits are produced.
type SplitMode string

const (
	// SplitEqual divides the amount evenly across all current group
	// members; the server computes the splits.
	SplitEqual SplitMode = "equal"

	// SplitCustom uses client-provided shares, validated against the
	// expense amount.
	SplitCustom SplitMode = "custom"
)

// Expense represents money fronted by one member on behalf of the group.
//
// The split set must sum exactly to Amount; every balance the system
// reports depends on that holding for every active expense. An expense is
// never hard-deleted: DeletedAt marks a one-way soft delete that excludes
// the expense and its splits from all aggregation.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PayerID is the member who paid the full amount up front.
	PayerID string

	// Description is a short human-readable label.
	Description string

	// Amount is the full expense amount, at most two fractional digits.
	Amount decimal.Decimal

	// SplitMode records how the splits were produced.
	SplitMode SplitMode

	// Category is an informational tag (e.g., "food", "rent", "other").
	// It never affects balance computation.
	Category string

	// Splits are the per-member shares. Their sum equals Amount exactly.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last successful edit, or 0.
	UpdatedAt int64

	// DeletedAt is the Unix timestamp of the soft delete, or 0 if active.
	DeletedAt int64
}

// Deleted reports whether the expense has been soft-deleted.
func (e *Expense) Deleted() bool {
	return e.DeletedAt != 0
}
