package calculator

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrUnbalanced is returned by SimplifyDebts when the input balances do not
// sum to exactly zero. That indicates a bug in how the caller assembled the
// snapshot, not a user error, and should be treated as fatal upstream.
var ErrUnbalanced = errors.New("calculator: balances do not sum to zero")

// Transfer is a single suggested payment that moves the group toward
// all-zero balances.
type Transfer struct {
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

type party struct {
	userID string
	amount decimal.Decimal // positive magnitude for both sides
}

// SimplifyDebts reduces a zero-sum balance map to an ordered list of
// transfers that settles every balance. For K members with a nonzero
// balance it produces at most K-1 transfers; global minimality across all
// debt topologies is not attempted.
//
// Greedy minimum cash flow: repeatedly match the largest remaining creditor
// with the largest remaining debtor and transfer the smaller of the two
// magnitudes. Both sides are sorted by magnitude descending with ties
// broken by user ID ascending, so the output is deterministic for any
// input; equal balances otherwise have no inherent order in a map.
func SimplifyDebts(balances map[string]decimal.Decimal) ([]Transfer, error) {
	var creditors, debtors []party
	sum := decimal.Zero
	for uid, bal := range balances {
		sum = sum.Add(bal)
		switch {
		case bal.IsPositive():
			creditors = append(creditors, party{uid, bal})
		case bal.IsNegative():
			debtors = append(debtors, party{uid, bal.Neg()})
		}
	}
	if !sum.IsZero() {
		return nil, ErrUnbalanced
	}

	byMagnitudeDesc := func(ps []party) func(i, j int) bool {
		return func(i, j int) bool {
			if !ps[i].amount.Equal(ps[j].amount) {
				return ps[i].amount.GreaterThan(ps[j].amount)
			}
			return ps[i].userID < ps[j].userID
		}
	}
	sort.Slice(creditors, byMagnitudeDesc(creditors))
	sort.Slice(debtors, byMagnitudeDesc(debtors))

	var transfers []Transfer
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		amount := creditors[i].amount
		if debtors[j].amount.LessThan(amount) {
			amount = debtors[j].amount
		}

		transfers = append(transfers, Transfer{
			FromUserID: debtors[j].userID,
			ToUserID:   creditors[i].userID,
			Amount:     amount,
		})

		creditors[i].amount = creditors[i].amount.Sub(amount)
		debtors[j].amount = debtors[j].amount.Sub(amount)

		if creditors[i].amount.IsZero() {
			i++
		}
		if debtors[j].amount.IsZero() {
			j++
		}
	}

	return transfers, nil
}
