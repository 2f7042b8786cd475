package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// CreateSettlement persists a settlement.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, payer_id, payee_id, amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.PayerID, settlement.PayeeID,
		settlement.Amount.String(), settlement.Note, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// ListSettlements returns a group's settlements, newest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID string) ([]models.Settlement, error) {
	return s.settlements(ctx, s.db, groupID)
}

func (s *SQLiteStore) settlements(ctx context.Context, q querier, groupID string) ([]models.Settlement, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, group_id, payer_id, payee_id, amount, note, created_at
		 FROM settlements
		 WHERE group_id = ?
		 ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var st models.Settlement
		var amount string
		if err := rows.Scan(&st.ID, &st.GroupID, &st.PayerID, &st.PayeeID, &amount, &st.Note, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if st.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// GroupSnapshot reads a group's active expenses, settlements, and member
// IDs under one read transaction, so an expense and its splits are always
// observed together and concurrent edits cannot surface a transient
// split-sum mismatch to the balance calculator.
func (s *SQLiteStore) GroupSnapshot(ctx context.Context, groupID string) (*storage.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	expenses, err := s.activeExpenses(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.settlements(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	memberIDs, err := s.memberIDs(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot transaction: %w", err)
	}

	return &storage.Snapshot{
		Expenses:    expenses,
		Settlements: settlements,
		MemberIDs:   memberIDs,
	}, nil
}
