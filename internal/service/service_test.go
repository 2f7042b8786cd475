package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
)

type fixture struct {
	store       *sqlite.SQLiteStore
	groups      *GroupService
	expenses    *ExpenseService
	settlements *SettlementService
	balances    *BalanceService

	alice *models.User
	bob   *models.User
	carol *models.User
	group *models.Group
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	groups := NewGroupService(store, logger)

	f := &fixture{
		store:       store,
		groups:      groups,
		expenses:    NewExpenseService(store, groups, logger),
		settlements: NewSettlementService(store, groups, logger),
		balances:    NewBalanceService(store, groups, logger),
	}

	f.alice = models.NewUser("alice@example.com", "Alice", "hash")
	f.bob = models.NewUser("bob@example.com", "Bob", "hash")
	f.carol = models.NewUser("carol@example.com", "Carol", "hash")
	for _, u := range []*models.User{f.alice, f.bob, f.carol} {
		require.NoError(t, store.CreateUser(ctx, u))
	}

	group, err := groups.Create(ctx, f.alice.ID, "Ski Trip")
	require.NoError(t, err)
	for _, u := range []*models.User{f.bob, f.carol} {
		group, err = groups.AddMember(ctx, f.alice.ID, group.ID, u.Email)
		require.NoError(t, err)
	}
	f.group = group

	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// equalExpense records an equal-mode expense paid by payer.
func (f *fixture) equalExpense(t *testing.T, payerID, amount string) *models.Expense {
	t.Helper()
	expense, err := f.expenses.Create(context.Background(), payerID, f.group.ID, CreateExpenseInput{
		PayerID:     payerID,
		Description: "Dinner",
		Amount:      dec(amount),
		SplitMode:   models.SplitEqual,
	})
	require.NoError(t, err)
	return expense
}
