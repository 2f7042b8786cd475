package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/apperr"
	"github.com/splitledger/splitledger/internal/calculator"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
	"github.com/splitledger/splitledger/internal/validation"
)

// SplitInput is one member's share in a custom-mode expense request.
type SplitInput struct {
	UserID string
	Amount decimal.Decimal
}

// CreateExpenseInput carries a new expense. For equal mode, Splits must be
// empty and the server computes them over the current membership; for
// custom mode, Splits must be present and sum exactly to Amount.
type CreateExpenseInput struct {
	PayerID     string
	Description string
	Amount      decimal.Decimal
	SplitMode   models.SplitMode
	Category    string
	Splits      []SplitInput
}

// EditExpenseInput carries a partial expense edit. Nil fields are left
// unchanged. For custom-mode expenses an amount change must carry the new
// splits; a nil Splits with a new Amount is rejected.
type EditExpenseInput struct {
	PayerID     *string
	Description *string
	Amount      *decimal.Decimal
	Category    *string
	Splits      []SplitInput
}

// ExpenseService handles expense lifecycle within a group.
type ExpenseService struct {
	store  storage.Store
	groups *GroupService
	logger *slog.Logger
}

// NewExpenseService creates a new expense service.
func NewExpenseService(store storage.Store, groups *GroupService, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, groups: groups, logger: logger}
}

// Create records a new expense in the group. The caller must be a member;
// any member may record an expense paid by any other member.
func (s *ExpenseService) Create(ctx context.Context, userID, groupID string, input CreateExpenseInput) (*models.Expense, error) {
	group, err := s.groups.requireMember(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	splits, err := s.buildSplits(group, input.SplitMode, input.Amount, input.PayerID, input.Splits)
	if err != nil {
		return nil, err
	}

	candidate := validation.ExpenseCandidate{
		PayerID: input.PayerID,
		Amount:  input.Amount,
		Splits:  toShares(splits),
	}
	if v := validation.ValidateExpense(candidate, validation.NewMemberSet(group.MemberIDs)); v != nil {
		return nil, violationError(v)
	}

	expense := &models.Expense{
		GroupID:     groupID,
		PayerID:     input.PayerID,
		Description: input.Description,
		Amount:      input.Amount,
		SplitMode:   input.SplitMode,
		Category:    input.Category,
		Splits:      splits,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, apperr.Internal("failed to create expense", err)
	}

	s.logger.Info("expense created",
		"expense_id", expense.ID, "group_id", groupID,
		"payer_id", expense.PayerID, "amount", expense.Amount)
	return expense, nil
}

// List returns the group's active expenses, newest first. A non-empty
// category narrows the result to expenses tagged with it.
func (s *ExpenseService) List(ctx context.Context, userID, groupID, category string) ([]models.Expense, error) {
	if _, err := s.groups.requireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListActiveExpenses(ctx, groupID)
	if err != nil {
		return nil, apperr.Internal("failed to list expenses", err)
	}
	if category == "" {
		return expenses, nil
	}
	filtered := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == category {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// Get returns a single active expense in the group.
func (s *ExpenseService) Get(ctx context.Context, userID, groupID, expenseID string) (*models.Expense, error) {
	if _, err := s.groups.requireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}
	expense, err := s.loadExpense(ctx, groupID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Deleted() {
		return nil, apperr.NotFound(apperr.CodeExpenseNotFound, "expense not found")
	}
	return expense, nil
}

// Edit applies a partial update to an expense. Only the payer of record or
// the group owner may edit. The merged result is re-validated in full, so
// an edit can never leave an expense the create path would have rejected.
func (s *ExpenseService) Edit(ctx context.Context, userID, groupID, expenseID string, input EditExpenseInput) (*models.Expense, error) {
	group, err := s.groups.requireMember(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	expense, err := s.loadExpense(ctx, groupID, expenseID)
	if err != nil {
		return nil, err
	}
	if userID != expense.PayerID && userID != group.OwnerUserID {
		return nil, apperr.Forbidden("only the payer or the group owner may edit this expense")
	}

	if input.PayerID != nil {
		expense.PayerID = *input.PayerID
	}
	if input.Description != nil {
		expense.Description = *input.Description
	}
	if input.Category != nil {
		expense.Category = *input.Category
	}

	switch expense.SplitMode {
	case models.SplitEqual:
		if input.Splits != nil {
			return nil, apperr.BadRequest(apperr.CodeSplitsForEqualMode,
				"splits must not be provided for equal split mode")
		}
		if input.Amount != nil {
			expense.Amount = *input.Amount
		}
		if input.Amount != nil || input.PayerID != nil {
			// Re-split so the rounding remainder follows the new payer.
			splits, err := s.buildSplits(group, models.SplitEqual, expense.Amount, expense.PayerID, nil)
			if err != nil {
				return nil, err
			}
			expense.Splits = splits
		}
	default:
		if input.Amount != nil && input.Splits == nil {
			return nil, apperr.BadRequest(apperr.CodeValidation,
				"splits must accompany an amount change for custom expenses")
		}
		if input.Amount != nil {
			expense.Amount = *input.Amount
		}
		if input.Splits != nil {
			expense.Splits = inputSplits(input.Splits)
		}
	}

	candidate := validation.ExpenseCandidate{
		PayerID: expense.PayerID,
		Amount:  expense.Amount,
		Splits:  toShares(expense.Splits),
		Deleted: expense.Deleted(),
	}
	if v := validation.ValidateExpense(candidate, validation.NewMemberSet(group.MemberIDs)); v != nil {
		return nil, violationError(v)
	}

	expense.UpdatedAt = time.Now().Unix()
	if err := s.store.ReplaceExpense(ctx, expense); err != nil {
		return nil, apperr.Internal("failed to update expense", err)
	}

	s.logger.Info("expense updated", "expense_id", expense.ID, "group_id", groupID, "editor_id", userID)
	return expense, nil
}

// Delete soft-deletes an expense. Only the payer of record or the group
// owner may delete. Deleting an already-deleted expense succeeds without
// effect.
func (s *ExpenseService) Delete(ctx context.Context, userID, groupID, expenseID string) error {
	group, err := s.groups.requireMember(ctx, userID, groupID)
	if err != nil {
		return err
	}
	expense, err := s.loadExpense(ctx, groupID, expenseID)
	if err != nil {
		return err
	}
	if userID != expense.PayerID && userID != group.OwnerUserID {
		return apperr.Forbidden("only the payer or the group owner may delete this expense")
	}
	if expense.Deleted() {
		return nil
	}

	if err := s.store.SoftDeleteExpense(ctx, expenseID, time.Now().Unix()); err != nil {
		return apperr.Internal("failed to delete expense", err)
	}

	s.logger.Info("expense deleted", "expense_id", expenseID, "group_id", groupID, "editor_id", userID)
	return nil
}

func (s *ExpenseService) loadExpense(ctx context.Context, groupID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound(apperr.CodeExpenseNotFound, "expense not found")
		}
		return nil, apperr.Internal("failed to load expense", err)
	}
	// Expenses are addressed under their group; a mismatched ID is a 404,
	// never a leak across groups.
	if expense.GroupID != groupID {
		return nil, apperr.NotFound(apperr.CodeExpenseNotFound, "expense not found")
	}
	return expense, nil
}

func (s *ExpenseService) buildSplits(group *models.Group, mode models.SplitMode, amount decimal.Decimal, payerID string, inputs []SplitInput) ([]models.Split, error) {
	switch mode {
	case models.SplitEqual:
		if len(inputs) > 0 {
			return nil, apperr.BadRequest(apperr.CodeSplitsForEqualMode,
				"splits must not be provided for equal split mode")
		}
		// The splitter refuses a payer outside the participant list, so a
		// non-member payer must be reported as the membership violation it is
		// before the splitter runs.
		if !group.HasMember(payerID) {
			return nil, apperr.Unprocessable(apperr.CodePayerNotMember,
				fmt.Sprintf("user %s is not a group member", payerID), "payer_id")
		}
		splits, err := calculator.EqualSplits(amount, group.MemberIDs, payerID)
		if err != nil {
			return nil, apperr.BadRequest(apperr.CodeValidation, err.Error())
		}
		return splits, nil
	case models.SplitCustom:
		if len(inputs) == 0 {
			return nil, apperr.BadRequest(apperr.CodeValidation,
				"splits are required for custom split mode")
		}
		return inputSplits(inputs), nil
	default:
		return nil, apperr.BadRequest(apperr.CodeValidation,
			"split_mode must be \"equal\" or \"custom\"")
	}
}

func inputSplits(inputs []SplitInput) []models.Split {
	splits := make([]models.Split, len(inputs))
	for i, in := range inputs {
		splits[i] = models.Split{UserID: in.UserID, Amount: in.Amount}
	}
	return splits
}

func toShares(splits []models.Split) []validation.SplitShare {
	shares := make([]validation.SplitShare, len(splits))
	for i, sp := range splits {
		shares[i] = validation.SplitShare{UserID: sp.UserID, Amount: sp.Amount}
	}
	return shares
}
