package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// CreateExpense persists an expense and its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, payer_id, description, amount, split_mode, category, created_at, updated_at, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PayerID, expense.Description,
		expense.Amount.String(), string(expense.SplitMode), expense.Category,
		expense.CreatedAt, expense.UpdatedAt, expense.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceExpense updates an expense row and replaces its entire split set
// in one transaction, so no reader ever observes a half-edited expense.
func (s *SQLiteStore) ReplaceExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses
		 SET payer_id = ?, description = ?, amount = ?, split_mode = ?, category = ?, updated_at = ?
		 WHERE id = ?`,
		expense.PayerID, expense.Description, expense.Amount.String(),
		string(expense.SplitMode), expense.Category, expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM splits WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete old splits: %w", err)
	}
	if err := insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i := range expense.Splits {
		split := &expense.Splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.ExpenseID = expense.ID

		_, err := tx.ExecContext(ctx,
			"INSERT INTO splits (id, expense_id, user_id, amount) VALUES (?, ?, ?, ?)",
			split.ID, split.ExpenseID, split.UserID, split.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense with its splits, active or soft-deleted.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var amount, splitMode string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, payer_id, description, amount, split_mode, category, created_at, updated_at, deleted_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(
		&expense.ID, &expense.GroupID, &expense.PayerID, &expense.Description,
		&amount, &splitMode, &expense.Category,
		&expense.CreatedAt, &expense.UpdatedAt, &expense.DeletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if expense.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	expense.SplitMode = models.SplitMode(splitMode)

	splits, err := s.splitsFor(ctx, s.db, expense.ID)
	if err != nil {
		return nil, err
	}
	expense.Splits = splits
	return expense, nil
}

// ListActiveExpenses returns a group's non-deleted expenses with splits,
// newest first. Soft-deleted rows are filtered at the query level; every
// aggregate read goes through this filter or GroupSnapshot's.
func (s *SQLiteStore) ListActiveExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	return s.activeExpenses(ctx, s.db, groupID)
}

func (s *SQLiteStore) activeExpenses(ctx context.Context, q querier, groupID string) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, group_id, payer_id, description, amount, split_mode, category, created_at, updated_at, deleted_at
		 FROM expenses
		 WHERE group_id = ? AND deleted_at = 0
		 ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var amount, splitMode string
		if err := rows.Scan(
			&e.ID, &e.GroupID, &e.PayerID, &e.Description,
			&amount, &splitMode, &e.Category,
			&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		e.SplitMode = models.SplitMode(splitMode)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range expenses {
		splits, err := s.splitsFor(ctx, q, expenses[i].ID)
		if err != nil {
			return nil, err
		}
		expenses[i].Splits = splits
	}
	return expenses, nil
}

func (s *SQLiteStore) splitsFor(ctx context.Context, q querier, expenseID string) ([]models.Split, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, expense_id, user_id, amount FROM splits WHERE expense_id = ? ORDER BY user_id",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var sp models.Split
		var amount string
		if err := rows.Scan(&sp.ID, &sp.ExpenseID, &sp.UserID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if sp.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		splits = append(splits, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}

// SoftDeleteExpense marks an expense deleted. Re-deleting is a no-op, so
// the transition stays one-way and idempotent.
func (s *SQLiteStore) SoftDeleteExpense(ctx context.Context, expenseID string, deletedAt int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET deleted_at = ? WHERE id = ? AND deleted_at = 0",
		deletedAt, expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to soft-delete expense: %w", err)
	}
	if _, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check soft delete: %w", err)
	}
	return nil
}
