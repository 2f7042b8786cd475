package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func members() MemberSet {
	return NewMemberSet([]string{"alice", "bob", "carol"})
}

func validCandidate() ExpenseCandidate {
	return ExpenseCandidate{
		PayerID: "alice",
		Amount:  dec("30.00"),
		Splits: []SplitShare{
			{UserID: "alice", Amount: dec("10.00")},
			{UserID: "bob", Amount: dec("10.00")},
			{UserID: "carol", Amount: dec("10.00")},
		},
	}
}

func TestValidateExpense(t *testing.T) {
	t.Run("accepts a well-formed expense", func(t *testing.T) {
		assert.Nil(t, ValidateExpense(validCandidate(), members()))
	})

	t.Run("rejects a deleted expense before anything else", func(t *testing.T) {
		c := validCandidate()
		c.Deleted = true
		c.Amount = dec("30.001") // would also fail precision
		v := ValidateExpense(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindExpenseDeleted, v.Kind)
	})

	t.Run("rejects sub-cent amount", func(t *testing.T) {
		c := validCandidate()
		c.Amount = dec("30.001")
		v := ValidateExpense(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindPrecision, v.Kind)
		assert.Equal(t, "amount", v.Field)
	})

	t.Run("rejects sub-cent split amount", func(t *testing.T) {
		c := validCandidate()
		c.Splits[1].Amount = dec("10.001")
		v := ValidateExpense(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindPrecision, v.Kind)
		assert.Equal(t, "splits", v.Field)
	})

	t.Run("rejects non-member payer", func(t *testing.T) {
		c := validCandidate()
		c.PayerID = "mallory"
		v := ValidateExpense(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindPayerNotMember, v.Kind)
	})

	t.Run("rejects non-member split user", func(t *testing.T) {
		c := validCandidate()
		c.Splits[2].UserID = "mallory"
		v := ValidateExpense(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindSplitUserNotMember, v.Kind)
	})

	t.Run("rejects duplicate split user", func(t *testing.T) {
		c := validCandidate()
		c.Splits[2].UserID = "bob"
		v := ValidateExpense(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindDuplicateSplitUser, v.Kind)
	})

	t.Run("rejects split sum off by one cent", func(t *testing.T) {
		c := validCandidate()
		c.Splits[0].Amount = dec("10.01")
		v := ValidateExpense(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindSplitSumMismatch, v.Kind)
	})

	t.Run("membership check precedes sum check", func(t *testing.T) {
		c := validCandidate()
		c.PayerID = "mallory"
		c.Splits[0].Amount = dec("99.99")
		v := ValidateExpense(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindPayerNotMember, v.Kind)
	})
}

func TestValidateSettlement(t *testing.T) {
	base := SettlementCandidate{
		PayerID:         "bob",
		PayeeID:         "alice",
		Amount:          dec("10.00"),
		OutstandingDebt: dec("10.00"),
	}

	t.Run("accepts a well-formed settlement", func(t *testing.T) {
		advisories, v := ValidateSettlement(base, members())
		assert.Nil(t, v)
		assert.Empty(t, advisories)
	})

	t.Run("rejects sub-cent amount", func(t *testing.T) {
		c := base
		c.Amount = dec("10.005")
		_, v := ValidateSettlement(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindPrecision, v.Kind)
	})

	t.Run("rejects non-member payer", func(t *testing.T) {
		c := base
		c.PayerID = "mallory"
		_, v := ValidateSettlement(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindPayerNotMember, v.Kind)
	})

	t.Run("rejects non-member recipient", func(t *testing.T) {
		c := base
		c.PayeeID = "mallory"
		_, v := ValidateSettlement(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindRecipientNotMember, v.Kind)
	})

	t.Run("rejects paying yourself", func(t *testing.T) {
		c := base
		c.PayeeID = "bob"
		_, v := ValidateSettlement(c, members())
		require.NotNil(t, v)
		assert.Equal(t, KindSelfSettlement, v.Kind)
	})

	t.Run("overpayment warns but passes", func(t *testing.T) {
		c := base
		c.Amount = dec("15.00")
		advisories, v := ValidateSettlement(c, members())
		assert.Nil(t, v)
		require.Len(t, advisories, 1)
		assert.Equal(t, AdvisoryOverpayment, advisories[0].Code)
	})

	t.Run("settling with no debt at all warns", func(t *testing.T) {
		c := base
		c.OutstandingDebt = decimal.Zero
		advisories, v := ValidateSettlement(c, members())
		assert.Nil(t, v)
		require.Len(t, advisories, 1)
		assert.Equal(t, AdvisoryOverpayment, advisories[0].Code)
	})

	t.Run("exact payoff does not warn", func(t *testing.T) {
		advisories, v := ValidateSettlement(base, members())
		assert.Nil(t, v)
		assert.Empty(t, advisories)
	})
}
