package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEqualSplits(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []string
		payer        string
		want         map[string]string
		wantErr      bool
	}{
		{
			name:         "even three-way split",
			amount:       "30.00",
			participants: []string{"alice", "bob", "carol"},
			payer:        "alice",
			want:         map[string]string{"alice": "10.00", "bob": "10.00", "carol": "10.00"},
		},
		{
			name:         "remainder goes to payer",
			amount:       "10.00",
			participants: []string{"alice", "bob", "carol"},
			payer:        "alice",
			want:         map[string]string{"alice": "3.34", "bob": "3.33", "carol": "3.33"},
		},
		{
			name:         "remainder follows payer in the middle",
			amount:       "10.00",
			participants: []string{"alice", "bob", "carol"},
			payer:        "bob",
			want:         map[string]string{"alice": "3.33", "bob": "3.34", "carol": "3.33"},
		},
		{
			name:         "two cent remainder in one lump",
			amount:       "0.05",
			participants: []string{"alice", "bob", "carol"},
			payer:        "carol",
			want:         map[string]string{"alice": "0.01", "bob": "0.01", "carol": "0.03"},
		},
		{
			name:         "payer outside participants is rejected",
			amount:       "10.00",
			participants: []string{"bob", "carol", "dave"},
			payer:        "alice",
			wantErr:      true,
		},
		{
			name:         "payer outside participants rejected even without remainder",
			amount:       "9.00",
			participants: []string{"bob", "carol", "dave"},
			payer:        "alice",
			wantErr:      true,
		},
		{
			name:         "single participant takes everything",
			amount:       "7.77",
			participants: []string{"alice"},
			payer:        "alice",
			want:         map[string]string{"alice": "7.77"},
		},
		{
			name:         "amount below one cent per head",
			amount:       "0.02",
			participants: []string{"alice", "bob", "carol"},
			payer:        "bob",
			want:         map[string]string{"alice": "0.00", "bob": "0.02", "carol": "0.00"},
		},
		{
			name:         "no participants",
			amount:       "10.00",
			participants: []string{},
			payer:        "alice",
			wantErr:      true,
		},
		{
			name:         "zero amount",
			amount:       "0.00",
			participants: []string{"alice", "bob"},
			payer:        "alice",
			wantErr:      true,
		},
		{
			name:         "sub-cent amount",
			amount:       "10.001",
			participants: []string{"alice", "bob"},
			payer:        "alice",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := EqualSplits(dec(tt.amount), tt.participants, tt.payer)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EqualSplits() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if len(splits) != len(tt.participants) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tt.participants))
			}
			total := decimal.Zero
			for i, sp := range splits {
				if sp.UserID != tt.participants[i] {
					t.Errorf("split %d user = %s, want %s (participant order)", i, sp.UserID, tt.participants[i])
				}
				want := dec(tt.want[sp.UserID])
				if !sp.Amount.Equal(want) {
					t.Errorf("%s share = %s, want %s", sp.UserID, sp.Amount, want)
				}
				total = total.Add(sp.Amount)
			}
			if !total.Equal(dec(tt.amount)) {
				t.Errorf("shares sum to %s, want exactly %s", total, tt.amount)
			}
		})
	}
}

func TestEqualSplitsDeterministic(t *testing.T) {
	first, err := EqualSplits(dec("100.01"), []string{"a", "b", "c", "d", "e", "f", "g"}, "d")
	if err != nil {
		t.Fatalf("EqualSplits failed: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := EqualSplits(dec("100.01"), []string{"a", "b", "c", "d", "e", "f", "g"}, "d")
		if err != nil {
			t.Fatalf("EqualSplits failed: %v", err)
		}
		for j := range first {
			if again[j].UserID != first[j].UserID || !again[j].Amount.Equal(first[j].Amount) {
				t.Fatalf("run %d diverged at split %d: %v vs %v", i, j, again[j], first[j])
			}
		}
	}
}

func expense(payer, amount string, splits []models.Split) models.Expense {
	return models.Expense{PayerID: payer, Amount: dec(amount), Splits: splits}
}
