package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/apperr"
	"github.com/splitledger/splitledger/internal/calculator"
	"github.com/splitledger/splitledger/internal/storage"
)

// MemberBalance is one member's net position: positive means the group
// owes them, negative means they owe the group.
type MemberBalance struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Balance     decimal.Decimal `json:"balance"`
}

// DebtTransfer is one suggested repayment from the simplified plan.
type DebtTransfer struct {
	FromUserID      string          `json:"from_user_id"`
	FromDisplayName string          `json:"from_display_name"`
	ToUserID        string          `json:"to_user_id"`
	ToDisplayName   string          `json:"to_display_name"`
	Amount          decimal.Decimal `json:"amount"`
}

// GroupBalances is the full balance report for a group: every member's
// net balance plus the simplified repayment plan that settles them all.
type GroupBalances struct {
	Balances  []MemberBalance `json:"balances"`
	Transfers []DebtTransfer  `json:"suggested_transfers"`
}

// BalanceService derives balances and repayment plans on demand. Nothing
// is stored: every report is recomputed from a consistent snapshot of the
// group's active expenses and settlements.
type BalanceService struct {
	store  storage.Store
	groups *GroupService
	logger *slog.Logger
}

// NewBalanceService creates a new balance service.
func NewBalanceService(store storage.Store, groups *GroupService, logger *slog.Logger) *BalanceService {
	return &BalanceService{store: store, groups: groups, logger: logger}
}

// ForGroup computes the group's balance report.
func (s *BalanceService) ForGroup(ctx context.Context, userID, groupID string) (*GroupBalances, error) {
	if _, err := s.groups.requireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}

	snapshot, err := s.store.GroupSnapshot(ctx, groupID)
	if err != nil {
		return nil, apperr.Internal("failed to load group snapshot", err)
	}

	balances := calculator.ComputeBalances(snapshot.Expenses, snapshot.Settlements, snapshot.MemberIDs)
	transfers, err := calculator.SimplifyDebts(balances)
	if err != nil {
		// Balances from a consistent snapshot always sum to zero; reaching
		// this branch means stored data is corrupt.
		s.logger.Error("balance invariant broken", "group_id", groupID, "error", err)
		return nil, apperr.Internal("balances are inconsistent", err)
	}

	names, err := s.displayNames(ctx, groupID)
	if err != nil {
		return nil, err
	}

	report := &GroupBalances{
		Balances:  make([]MemberBalance, 0, len(balances)),
		Transfers: make([]DebtTransfer, 0, len(transfers)),
	}
	for uid, bal := range balances {
		report.Balances = append(report.Balances, MemberBalance{
			UserID:      uid,
			DisplayName: names[uid],
			Balance:     bal,
		})
	}
	sort.Slice(report.Balances, func(i, j int) bool {
		return report.Balances[i].UserID < report.Balances[j].UserID
	})

	for _, t := range transfers {
		report.Transfers = append(report.Transfers, DebtTransfer{
			FromUserID:      t.FromUserID,
			FromDisplayName: names[t.FromUserID],
			ToUserID:        t.ToUserID,
			ToDisplayName:   names[t.ToUserID],
			Amount:          t.Amount,
		})
	}
	return report, nil
}

// ForMember computes a single member's net balance in the group.
func (s *BalanceService) ForMember(ctx context.Context, userID, groupID, memberID string) (*MemberBalance, error) {
	group, err := s.groups.requireMember(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(memberID) {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, "user is not a member of this group")
	}

	snapshot, err := s.store.GroupSnapshot(ctx, groupID)
	if err != nil {
		return nil, apperr.Internal("failed to load group snapshot", err)
	}

	balances := calculator.ComputeBalances(snapshot.Expenses, snapshot.Settlements, snapshot.MemberIDs)
	names, err := s.displayNames(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &MemberBalance{
		UserID:      memberID,
		DisplayName: names[memberID],
		Balance:     balances[memberID],
	}, nil
}

func (s *BalanceService) displayNames(ctx context.Context, groupID string) (map[string]string, error) {
	members, err := s.store.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, apperr.Internal("failed to list group members", err)
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.DisplayName
	}
	return names, nil
}
