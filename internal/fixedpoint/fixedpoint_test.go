package fixedpoint_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
)

func TestScaleUp(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals uint8
		want     string
	}{
		{"six_decimals", "1000000", 6, "1000000000000000000"},
		{"eighteen_decimals_identity", "42", 18, "42"},
		{"zero_decimals", "7", 0, "7000000000000000000"},
		{"zero_amount", "0", 6, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, _ := new(big.Int).SetString(tt.amount, 10)
			got, err := fixedpoint.ScaleUp(amount, tt.decimals)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.String())
			}
		})
	}
}

func TestScaleUp_UnsupportedDecimals(t *testing.T) {
	_, err := fixedpoint.ScaleUp(big.NewInt(1), 24)
	if !errors.Is(err, fixedpoint.ErrUnsupportedDecimals) {
		t.Errorf("expected ErrUnsupportedDecimals, got %v", err)
	}
}

func TestScaleDown_UnsupportedDecimals(t *testing.T) {
	_, err := fixedpoint.ScaleDown(big.NewInt(1), 19)
	if !errors.Is(err, fixedpoint.ErrUnsupportedDecimals) {
		t.Errorf("expected ErrUnsupportedDecimals, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	// Scaling native -> 18fp -> native must be exact for decimals in [0,18].
	amount, _ := new(big.Int).SetString("123456789123456789", 10)
	for d := uint8(0); d <= 18; d++ {
		up, err := fixedpoint.ScaleUp(amount, d)
		if err != nil {
			t.Fatalf("decimals %d: unexpected scale up error: %v", d, err)
		}
		down, err := fixedpoint.ScaleDown(up, d)
		if err != nil {
			t.Fatalf("decimals %d: unexpected scale down error: %v", d, err)
		}
		if down.Cmp(amount) != 0 {
			t.Errorf("decimals %d: round trip mismatch: %s != %s", d, down, amount)
		}
	}
}

func TestMul(t *testing.T) {
	// 0.5 * 2000 = 1000
	half, _ := fixedpoint.FromDecimalString("0.5")
	twoK, _ := fixedpoint.FromDecimalString("2000")
	got := fixedpoint.Mul(half, twoK)

	want, _ := fixedpoint.FromDecimalString("1000")
	if got.Cmp(want) != 0 {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestMul_TruncatesTowardZero(t *testing.T) {
	// (-1e-18) * 0.5 truncates to zero, not -1
	negOne := big.NewInt(-1)
	half, _ := fixedpoint.FromDecimalString("0.5")
	got := fixedpoint.Mul(negOne, half)
	if got.Sign() != 0 {
		t.Errorf("expected 0, got %s", got)
	}
}

func TestDiv(t *testing.T) {
	thousand, _ := fixedpoint.FromDecimalString("1000")
	four, _ := fixedpoint.FromDecimalString("4")
	got, err := fixedpoint.Div(thousand, four)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, _ := fixedpoint.FromDecimalString("250")
	if got.Cmp(want) != 0 {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestDiv_ByZero(t *testing.T) {
	_, err := fixedpoint.Div(fixedpoint.One(), big.NewInt(0))
	if !errors.Is(err, fixedpoint.ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestFromDecimalString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"0.5", "500000000000000000"},
		{"0.001", "1000000000000000"},
		{"0", "0"},
		{"1234.56", "1234560000000000000000"},
	}

	for _, tt := range tests {
		got, err := fixedpoint.FromDecimalString(tt.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.in, tt.want, got.String())
		}
	}
}

func TestFromDecimalString_Invalid(t *testing.T) {
	if _, err := fixedpoint.FromDecimalString("not-a-number"); err == nil {
		t.Error("expected error for invalid decimal string")
	}
}

func TestFormat(t *testing.T) {
	half, _ := fixedpoint.FromDecimalString("0.5")
	if s := fixedpoint.Format(half); s != "0.5" {
		t.Errorf("expected '0.5', got %q", s)
	}
}

func TestMaxUint256(t *testing.T) {
	max := fixedpoint.MaxUint256()
	if max.BitLen() != 256 {
		t.Errorf("expected 256-bit value, got bit length %d", max.BitLen())
	}
	plusOne := new(big.Int).Add(max, big.NewInt(1))
	if plusOne.BitLen() != 257 {
		t.Errorf("expected max+1 to be 257 bits, got %d", plusOne.BitLen())
	}
}

func TestMin(t *testing.T) {
	a := big.NewInt(5)
	b := big.NewInt(9)
	if got := fixedpoint.Min(a, b); got.Cmp(a) != 0 {
		t.Errorf("expected 5, got %s", got)
	}
	if got := fixedpoint.Min(b, a); got.Cmp(a) != 0 {
		t.Errorf("expected 5, got %s", got)
	}
	// result must be a copy
	got := fixedpoint.Min(a, b)
	got.SetInt64(100)
	if a.Int64() != 5 {
		t.Error("Min must return a defensive copy")
	}
}
