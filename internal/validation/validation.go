// Package validation enforces the cross-entity business rules that gate
// every record entering a group's snapshot.
//
// All functions are pure: they operate only on the candidate and the
// caller-supplied membership set, report the first violation encountered,
// and never batch errors. Business-rule rejection is a tagged result, not a
// Go error in the usual sense; callers switch on the violation kind to map
// it to their own error surface.
package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/money"
)

// Kind identifies a business-rule violation. Kinds are a versioned
// contract: they do not change once published.
type Kind string

const (
	KindPrecision          Kind = "INVALID_AMOUNT_PRECISION"
	KindPayerNotMember     Kind = "PAYER_NOT_MEMBER"
	KindSplitUserNotMember Kind = "SPLIT_USER_NOT_MEMBER"
	KindDuplicateSplitUser Kind = "DUPLICATE_SPLIT_USER"
	KindSplitSumMismatch   Kind = "SPLIT_SUM_MISMATCH"
	KindExpenseDeleted     Kind = "EXPENSE_DELETED"
	KindSelfSettlement     Kind = "SELF_SETTLEMENT"
	KindRecipientNotMember Kind = "RECIPIENT_NOT_MEMBER"
)

// Violation is a single business-rule rejection. At most one violation is
// reported per call; callers wanting the next one must fix this one and
// validate again.
type Violation struct {
	Kind    Kind
	Field   string
	Message string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}

// AdvisoryOverpayment flags a settlement that exceeds the outstanding debt
// between the two parties. It never blocks the write.
const AdvisoryOverpayment = "OVERPAYMENT"

// Advisory is a non-fatal note attached to an otherwise accepted record.
type Advisory struct {
	Code    string
	Message string
}

// MemberSet is a group's current membership, keyed by user ID.
type MemberSet map[string]struct{}

// NewMemberSet builds a MemberSet from a list of member user IDs.
func NewMemberSet(ids []string) MemberSet {
	s := make(MemberSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether userID is in the set.
func (s MemberSet) Contains(userID string) bool {
	_, ok := s[userID]
	return ok
}

// SplitShare is one member's proposed share of a candidate expense.
type SplitShare struct {
	UserID string
	Amount decimal.Decimal
}

// ExpenseCandidate is an expense submitted for validation. For edits,
// Deleted carries the stored expense's soft-delete state; edits of deleted
// expenses are rejected unconditionally.
type ExpenseCandidate struct {
	PayerID string
	Amount  decimal.Decimal
	Splits  []SplitShare
	Deleted bool
}

// SettlementCandidate is a settlement submitted for validation.
// OutstandingDebt is the bilateral debt currently owed by PayerID to
// PayeeID, computed by the caller from the same snapshot; it is only used
// for the overpayment advisory.
type SettlementCandidate struct {
	PayerID         string
	PayeeID         string
	Amount          decimal.Decimal
	OutstandingDebt decimal.Decimal
}

// ValidateExpense checks a candidate expense against the group's
// membership set. A nil return means the candidate is accepted.
//
// Check order (first failure wins):
//
//	soft-delete guard, amount precision, payer membership,
//	split membership, duplicate split user, split-sum equality.
func ValidateExpense(c ExpenseCandidate, members MemberSet) *Violation {
	if c.Deleted {
		return &Violation{
			Kind:    KindExpenseDeleted,
			Message: "expense has been deleted and cannot be edited",
		}
	}

	if !money.HasCentPrecision(c.Amount) {
		return &Violation{
			Kind:    KindPrecision,
			Field:   "amount",
			Message: fmt.Sprintf("amount %s has more than two decimal places", c.Amount),
		}
	}
	for _, s := range c.Splits {
		if !money.HasCentPrecision(s.Amount) {
			return &Violation{
				Kind:    KindPrecision,
				Field:   "splits",
				Message: fmt.Sprintf("split amount %s has more than two decimal places", s.Amount),
			}
		}
	}

	if !members.Contains(c.PayerID) {
		return &Violation{
			Kind:    KindPayerNotMember,
			Field:   "payer_id",
			Message: fmt.Sprintf("user %s is not a group member", c.PayerID),
		}
	}

	for _, s := range c.Splits {
		if !members.Contains(s.UserID) {
			return &Violation{
				Kind:    KindSplitUserNotMember,
				Field:   "splits",
				Message: fmt.Sprintf("user %s is not a group member", s.UserID),
			}
		}
	}

	seen := make(map[string]struct{}, len(c.Splits))
	for _, s := range c.Splits {
		if _, dup := seen[s.UserID]; dup {
			return &Violation{
				Kind:    KindDuplicateSplitUser,
				Field:   "splits",
				Message: fmt.Sprintf("user %s appears more than once in splits", s.UserID),
			}
		}
		seen[s.UserID] = struct{}{}
	}

	total := decimal.Zero
	for _, s := range c.Splits {
		total = total.Add(s.Amount)
	}
	// Exact equality, no tolerance. Everything downstream depends on this.
	if !total.Equal(c.Amount) {
		return &Violation{
			Kind:    KindSplitSumMismatch,
			Field:   "splits",
			Message: fmt.Sprintf("split amounts (%s) do not equal expense amount (%s)", total, c.Amount),
		}
	}

	return nil
}

// ValidateSettlement checks a candidate settlement against the group's
// membership set. A nil violation means the settlement is accepted;
// advisories (overpayment) accompany acceptance and never block the write.
func ValidateSettlement(c SettlementCandidate, members MemberSet) ([]Advisory, *Violation) {
	if !money.HasCentPrecision(c.Amount) {
		return nil, &Violation{
			Kind:    KindPrecision,
			Field:   "amount",
			Message: fmt.Sprintf("amount %s has more than two decimal places", c.Amount),
		}
	}

	if !members.Contains(c.PayerID) {
		return nil, &Violation{
			Kind:    KindPayerNotMember,
			Field:   "payer_id",
			Message: fmt.Sprintf("user %s is not a group member", c.PayerID),
		}
	}

	if !members.Contains(c.PayeeID) {
		return nil, &Violation{
			Kind:    KindRecipientNotMember,
			Field:   "payee_id",
			Message: fmt.Sprintf("user %s is not a group member", c.PayeeID),
		}
	}

	if c.PayerID == c.PayeeID {
		return nil, &Violation{
			Kind:    KindSelfSettlement,
			Field:   "payee_id",
			Message: "a settlement cannot be made to yourself",
		}
	}

	var advisories []Advisory
	if c.Amount.GreaterThan(c.OutstandingDebt) {
		advisories = append(advisories, Advisory{
			Code: AdvisoryOverpayment,
			Message: fmt.Sprintf(
				"settlement of %s exceeds current outstanding debt of %s; recording anyway",
				c.Amount, c.OutstandingDebt),
		})
	}

	return advisories, nil
}
