package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
)

// ErrInvalidInput is returned by EqualSplits for an empty participant list,
// an amount that is not a positive cent-precision value, or a payer that is
// not among the participants.
var ErrInvalidInput = errors.New("calculator: invalid equal-split input")

// EqualSplits divides amount evenly across the given participants.
//
// Each share is the amount divided by N, truncated toward zero at the cent
// boundary. The leftover remainder (at most N-1 cents) is added in full to
// the payer's share, so the shares always sum exactly to the amount. The
// remainder never lands on anyone but the payer; a payer outside the
// participant list is rejected outright.
//
// The result is deterministic: shares are returned in participant order and
// identical inputs always produce identical outputs.
func EqualSplits(amount decimal.Decimal, participantIDs []string, payerID string) ([]models.Split, error) {
	if len(participantIDs) == 0 {
		return nil, ErrInvalidInput
	}
	payerIdx := -1
	for i, uid := range participantIDs {
		if uid == payerID {
			payerIdx = i
			break
		}
	}
	if payerIdx == -1 {
		return nil, ErrInvalidInput
	}
	base, remainder, err := money.DivModCents(amount, int64(len(participantIDs)))
	if err != nil {
		return nil, ErrInvalidInput
	}

	splits := make([]models.Split, len(participantIDs))
	for i, uid := range participantIDs {
		splits[i] = models.Split{UserID: uid, Amount: base}
	}
	if remainder.IsPositive() {
		splits[payerIdx].Amount = splits[payerIdx].Amount.Add(remainder)
	}

	return splits, nil
}
