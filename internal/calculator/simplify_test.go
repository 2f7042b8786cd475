package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSimplifyDebts(t *testing.T) {
	t.Run("two debtors one creditor", func(t *testing.T) {
		balances := map[string]decimal.Decimal{
			"alice": dec("30.00"),
			"bob":   dec("-20.00"),
			"carol": dec("-10.00"),
		}

		transfers, err := SimplifyDebts(balances)
		if err != nil {
			t.Fatalf("SimplifyDebts failed: %v", err)
		}

		if len(transfers) != 2 {
			t.Fatalf("got %d transfers, want 2", len(transfers))
		}
		assertTransfer(t, transfers[0], "bob", "alice", "20.00")
		assertTransfer(t, transfers[1], "carol", "alice", "10.00")
	})

	t.Run("all zero balances need no transfers", func(t *testing.T) {
		balances := map[string]decimal.Decimal{
			"alice": decimal.Zero,
			"bob":   decimal.Zero,
		}
		transfers, err := SimplifyDebts(balances)
		if err != nil {
			t.Fatalf("SimplifyDebts failed: %v", err)
		}
		if len(transfers) != 0 {
			t.Errorf("got %d transfers, want 0", len(transfers))
		}
	})

	t.Run("unbalanced input is rejected", func(t *testing.T) {
		balances := map[string]decimal.Decimal{
			"alice": dec("5.00"),
			"bob":   dec("-4.99"),
		}
		if _, err := SimplifyDebts(balances); !errors.Is(err, ErrUnbalanced) {
			t.Errorf("error = %v, want ErrUnbalanced", err)
		}
	})

	t.Run("at most one fewer transfer than nonzero balances", func(t *testing.T) {
		balances := map[string]decimal.Decimal{
			"a": dec("10.00"),
			"b": dec("7.50"),
			"c": dec("-4.00"),
			"d": dec("-6.00"),
			"e": dec("-7.50"),
			"f": decimal.Zero,
		}

		transfers, err := SimplifyDebts(balances)
		if err != nil {
			t.Fatalf("SimplifyDebts failed: %v", err)
		}
		if len(transfers) > 4 {
			t.Errorf("got %d transfers, want at most 4", len(transfers))
		}
	})

	t.Run("applying the transfers zeroes every balance", func(t *testing.T) {
		balances := map[string]decimal.Decimal{
			"a": dec("12.34"),
			"b": dec("-0.01"),
			"c": dec("-5.67"),
			"d": dec("-6.66"),
			"e": decimal.Zero,
		}

		transfers, err := SimplifyDebts(balances)
		if err != nil {
			t.Fatalf("SimplifyDebts failed: %v", err)
		}

		remaining := make(map[string]decimal.Decimal, len(balances))
		for id, bal := range balances {
			remaining[id] = bal
		}
		for _, tr := range transfers {
			if !tr.Amount.IsPositive() {
				t.Errorf("transfer amount %s is not positive", tr.Amount)
			}
			remaining[tr.FromUserID] = remaining[tr.FromUserID].Add(tr.Amount)
			remaining[tr.ToUserID] = remaining[tr.ToUserID].Sub(tr.Amount)
		}
		for id, bal := range remaining {
			if !bal.IsZero() {
				t.Errorf("%s balance after transfers = %s, want zero", id, bal)
			}
		}
	})

	t.Run("equal magnitudes break ties by user ID", func(t *testing.T) {
		balances := map[string]decimal.Decimal{
			"zed":   dec("5.00"),
			"amy":   dec("5.00"),
			"bob":   dec("-5.00"),
			"yani":  dec("-2.50"),
			"carol": dec("-2.50"),
		}

		transfers, err := SimplifyDebts(balances)
		if err != nil {
			t.Fatalf("SimplifyDebts failed: %v", err)
		}

		assertTransfer(t, transfers[0], "bob", "amy", "5.00")
		assertTransfer(t, transfers[1], "carol", "zed", "2.50")
		assertTransfer(t, transfers[2], "yani", "zed", "2.50")
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		balances := map[string]decimal.Decimal{
			"a": dec("3.00"), "b": dec("3.00"), "c": dec("3.00"),
			"d": dec("-3.00"), "e": dec("-3.00"), "f": dec("-3.00"),
		}

		first, err := SimplifyDebts(balances)
		if err != nil {
			t.Fatalf("SimplifyDebts failed: %v", err)
		}
		for i := 0; i < 50; i++ {
			again, err := SimplifyDebts(balances)
			if err != nil {
				t.Fatalf("SimplifyDebts failed: %v", err)
			}
			if len(again) != len(first) {
				t.Fatalf("run %d produced %d transfers, first run %d", i, len(again), len(first))
			}
			for j := range first {
				if again[j].FromUserID != first[j].FromUserID ||
					again[j].ToUserID != first[j].ToUserID ||
					!again[j].Amount.Equal(first[j].Amount) {
					t.Fatalf("run %d diverged at transfer %d: %v vs %v", i, j, again[j], first[j])
				}
			}
		}
	})
}

func assertTransfer(t *testing.T, tr Transfer, from, to, amount string) {
	t.Helper()
	if tr.FromUserID != from || tr.ToUserID != to || !tr.Amount.Equal(dec(amount)) {
		t.Errorf("transfer = %s->%s %s, want %s->%s %s",
			tr.FromUserID, tr.ToUserID, tr.Amount, from, to, amount)
	}
}
