// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitledger/splitledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Snapshot is a consistent read of everything needed to derive a group's
// balances: active expenses with their splits, all settlements, and the
// current member IDs. Implementations must assemble it under a single
// transaction so an expense and its splits are never observed in lockstep
// violation of each other.
type Snapshot struct {
	Expenses    []models.Expense
	Settlements []models.Settlement
	MemberIDs   []string
}

// Store defines the interface for SplitLedger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Fails if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group and adds the owner as its first
	// member. The group.ID field will be populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its member IDs populated.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns the groups the user is a member of.
	ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error)

	// AddGroupMember adds a user to a group. Adding an existing member is
	// a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// RemoveGroupMember removes a user from a group. Returns ErrNotFound
	// if the user is not a member.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// GroupMembers returns full User records for all current members.
	GroupMembers(ctx context.Context, groupID string) ([]models.User, error)

	// CreateExpense persists an expense and its splits in one transaction.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits, whether active or
	// soft-deleted.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListActiveExpenses returns a group's non-deleted expenses with
	// splits, newest first.
	ListActiveExpenses(ctx context.Context, groupID string) ([]models.Expense, error)

	// ReplaceExpense updates an expense row and replaces its entire split
	// set in one transaction.
	ReplaceExpense(ctx context.Context, expense *models.Expense) error

	// SoftDeleteExpense marks an expense deleted. Already-deleted expenses
	// are left untouched.
	SoftDeleteExpense(ctx context.Context, expenseID string, deletedAt int64) error

	// CreateSettlement persists a settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlements returns a group's settlements, newest first.
	ListSettlements(ctx context.Context, groupID string) ([]models.Settlement, error)

	// GroupSnapshot reads a group's active expenses, settlements, and
	// member IDs under one transaction.
	GroupSnapshot(ctx context.Context, groupID string) (*Snapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
