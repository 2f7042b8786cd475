// Package calculator derives balances and settlement suggestions from a
// group's activity records.
//
// Every function is a pure, single-pass computation over a caller-supplied
// snapshot: no I/O, no shared state, no caching. Balances are recomputed
// from source records on every call; nothing can drift because nothing is
// stored. All arithmetic is exact decimal; the functions are safe to call
// concurrently.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/models"
)

// ComputeBalances returns the net balance of every member given the group's
// expenses and settlements. Positive means the member is owed money,
// negative means they owe.
//
// Every ID in memberIDs is present in the result, seeded at exact zero, so
// the balance of a member with no activity is a defined zero rather than an
// absent key. Soft-deleted expenses and their splits are skipped entirely.
//
// For each active expense the payer is credited the full amount and each
// split participant is debited their share; for each settlement the payer
// is credited and the payee debited. When every contributing expense's
// splits sum exactly to its amount, the returned balances sum to exactly
// zero. That follows from the credit/debit symmetry and is asserted in
// tests rather than re-checked here.
func ComputeBalances(expenses []models.Expense, settlements []models.Settlement, memberIDs []string) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(memberIDs))
	for _, id := range memberIDs {
		balances[id] = decimal.Zero
	}

	for i := range expenses {
		e := &expenses[i]
		if e.Deleted() {
			continue
		}
		balances[e.PayerID] = balances[e.PayerID].Add(e.Amount)
		for _, s := range e.Splits {
			balances[s.UserID] = balances[s.UserID].Sub(s.Amount)
		}
	}

	for i := range settlements {
		st := &settlements[i]
		balances[st.PayerID] = balances[st.PayerID].Add(st.Amount)
		balances[st.PayeeID] = balances[st.PayeeID].Sub(st.Amount)
	}

	return balances
}
