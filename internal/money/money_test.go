package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestHasCentPrecision(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"whole number", "10", true},
		{"one decimal place", "10.1", true},
		{"two decimal places", "10.12", true},
		{"trailing zero beyond cents", "10.120", true},
		{"three decimal places", "10.123", false},
		{"sub-cent value", "0.001", false},
		{"zero", "0", true},
		{"negative two places", "-3.45", true},
		{"negative three places", "-3.456", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCentPrecision(dec(tt.input)); got != tt.want {
				t.Errorf("HasCentPrecision(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCentsRoundTrip(t *testing.T) {
	tests := []struct {
		input string
		cents int64
	}{
		{"0", 0},
		{"0.01", 1},
		{"10.00", 1000},
		{"3.33", 333},
		{"-2.50", -250},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Cents(dec(tt.input))
			if got != tt.cents {
				t.Errorf("Cents(%s) = %d, want %d", tt.input, got, tt.cents)
			}
			if back := FromCents(got); !back.Equal(dec(tt.input)) {
				t.Errorf("FromCents(%d) = %s, want %s", got, back, tt.input)
			}
		})
	}
}

func TestSum(t *testing.T) {
	got := Sum(dec("0.1"), dec("0.2"), dec("0.3"))
	if !got.Equal(dec("0.6")) {
		t.Errorf("Sum = %s, want 0.6", got)
	}
	if !Sum().Equal(decimal.Zero) {
		t.Error("empty Sum should be exactly zero")
	}
}

func TestDivModCents(t *testing.T) {
	tests := []struct {
		name      string
		total     string
		n         int64
		base      string
		remainder string
		wantErr   bool
	}{
		{"even split", "30.00", 3, "10.00", "0.00", false},
		{"one cent remainder", "10.00", 3, "3.33", "0.01", false},
		{"two cent remainder", "0.05", 3, "0.01", "0.02", false},
		{"single participant", "7.77", 1, "7.77", "0.00", false},
		{"share below a cent", "0.02", 3, "0.00", "0.02", false},
		{"zero divisor", "10.00", 0, "", "", true},
		{"negative divisor", "10.00", -1, "", "", true},
		{"zero total", "0.00", 2, "", "", true},
		{"negative total", "-5.00", 2, "", "", true},
		{"sub-cent total", "10.001", 2, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, remainder, err := DivModCents(dec(tt.total), tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DivModCents(%s, %d) error = %v, wantErr %v", tt.total, tt.n, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !base.Equal(dec(tt.base)) {
				t.Errorf("base = %s, want %s", base, tt.base)
			}
			if !remainder.Equal(dec(tt.remainder)) {
				t.Errorf("remainder = %s, want %s", remainder, tt.remainder)
			}
			// Reconstruction must be exact.
			total := base.Mul(decimal.NewFromInt(tt.n)).Add(remainder)
			if !total.Equal(dec(tt.total)) {
				t.Errorf("base*n + remainder = %s, want %s", total, tt.total)
			}
		})
	}
}
