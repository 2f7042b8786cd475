package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/apperr"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
	"github.com/splitledger/splitledger/internal/validation"
)

// CreateSettlementInput carries a new settlement: PayerID hands Amount to
// PayeeID outside the system, and the record offsets their balances.
type CreateSettlementInput struct {
	PayerID string
	PayeeID string
	Amount  decimal.Decimal
	Note    string
}

// SettlementService handles recording direct payments between members.
type SettlementService struct {
	store  storage.Store
	groups *GroupService
	logger *slog.Logger
}

// NewSettlementService creates a new settlement service.
func NewSettlementService(store storage.Store, groups *GroupService, logger *slog.Logger) *SettlementService {
	return &SettlementService{store: store, groups: groups, logger: logger}
}

// Create records a settlement. A payment larger than the current bilateral
// debt is accepted and returned with an OVERPAYMENT warning; the payer's
// balance simply goes positive.
func (s *SettlementService) Create(ctx context.Context, userID, groupID string, input CreateSettlementInput) (*models.Settlement, []apperr.Warning, error) {
	if _, err := s.groups.requireMember(ctx, userID, groupID); err != nil {
		return nil, nil, err
	}

	snapshot, err := s.store.GroupSnapshot(ctx, groupID)
	if err != nil {
		return nil, nil, apperr.Internal("failed to load group snapshot", err)
	}

	candidate := validation.SettlementCandidate{
		PayerID:         input.PayerID,
		PayeeID:         input.PayeeID,
		Amount:          input.Amount,
		OutstandingDebt: bilateralDebt(snapshot, input.PayerID, input.PayeeID),
	}
	advisories, v := validation.ValidateSettlement(candidate, validation.NewMemberSet(snapshot.MemberIDs))
	if v != nil {
		return nil, nil, violationError(v)
	}

	settlement := &models.Settlement{
		GroupID: groupID,
		PayerID: input.PayerID,
		PayeeID: input.PayeeID,
		Amount:  input.Amount,
		Note:    input.Note,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, nil, apperr.Internal("failed to create settlement", err)
	}

	warnings := make([]apperr.Warning, 0, len(advisories))
	for _, a := range advisories {
		warnings = append(warnings, apperr.Warning{Code: a.Code, Message: a.Message})
		s.logger.Warn("settlement advisory",
			"settlement_id", settlement.ID, "group_id", groupID,
			"code", a.Code, "message", a.Message)
	}

	s.logger.Info("settlement created",
		"settlement_id", settlement.ID, "group_id", groupID,
		"payer_id", settlement.PayerID, "payee_id", settlement.PayeeID,
		"amount", settlement.Amount)
	return settlement, warnings, nil
}

// List returns the group's settlements, newest first.
func (s *SettlementService) List(ctx context.Context, userID, groupID string) ([]models.Settlement, error) {
	if _, err := s.groups.requireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlements(ctx, groupID)
	if err != nil {
		return nil, apperr.Internal("failed to list settlements", err)
	}
	return settlements, nil
}

// bilateralDebt computes how much payer currently owes payee: payer's
// shares of payee-paid active expenses, minus the reverse, adjusted by
// settlements already made in either direction, clamped at zero.
func bilateralDebt(snapshot *storage.Snapshot, payerID, payeeID string) decimal.Decimal {
	debt := decimal.Zero
	for i := range snapshot.Expenses {
		e := &snapshot.Expenses[i]
		switch e.PayerID {
		case payeeID:
			for _, sp := range e.Splits {
				if sp.UserID == payerID {
					debt = debt.Add(sp.Amount)
				}
			}
		case payerID:
			for _, sp := range e.Splits {
				if sp.UserID == payeeID {
					debt = debt.Sub(sp.Amount)
				}
			}
		}
	}
	for i := range snapshot.Settlements {
		st := &snapshot.Settlements[i]
		switch {
		case st.PayerID == payerID && st.PayeeID == payeeID:
			debt = debt.Sub(st.Amount)
		case st.PayerID == payeeID && st.PayeeID == payerID:
			debt = debt.Add(st.Amount)
		}
	}
	if debt.IsNegative() {
		return decimal.Zero
	}
	return debt
}
