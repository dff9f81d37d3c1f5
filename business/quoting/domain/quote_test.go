package domain

import (
	"math/big"
	"testing"

	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
)

func TestNewQuote(t *testing.T) {
	quote, err := NewQuote(
		"1.052345",
		"1.041821",
		"1823.4",
		"31000000023",
		"0xdef1c0ded9bec7f1a1670819833240f027b25eff",
		"0xd9627aa4",
	)
	if err != nil {
		t.Fatalf("NewQuote: %v", err)
	}

	wantPrice, _ := fixedpoint.FromDecimalString("1.052345")
	if quote.Price.Cmp(wantPrice) != 0 {
		t.Errorf("price = %s, want %s", quote.Price, wantPrice)
	}
	wantGuaranteed, _ := fixedpoint.FromDecimalString("1.041821")
	if quote.GuaranteedPrice.Cmp(wantGuaranteed) != 0 {
		t.Errorf("guaranteed price = %s, want %s", quote.GuaranteedPrice, wantGuaranteed)
	}
	wantRate, _ := fixedpoint.FromDecimalString("1823.4")
	if quote.BuyTokenToEthRate.Cmp(wantRate) != 0 {
		t.Errorf("rate = %s, want %s", quote.BuyTokenToEthRate, wantRate)
	}
	if quote.GasPrice.Cmp(big.NewInt(31_000_000_023)) != 0 {
		t.Errorf("gas price = %s", quote.GasPrice)
	}
	if got := quote.AllowanceTarget.Hex(); got != "0xDef1C0ded9bec7F1a1670819833240f027b25EfF" {
		t.Errorf("allowance target = %s", got)
	}
	if len(quote.Data) != 4 {
		t.Errorf("data length = %d, want 4", len(quote.Data))
	}
}

func TestNewQuoteRejectsBadFields(t *testing.T) {
	valid := [6]string{
		"1.05", "1.04", "1800", "31000000023",
		"0xdef1c0ded9bec7f1a1670819833240f027b25eff", "0xd9627aa4",
	}

	tests := []struct {
		name  string
		field int
		value string
	}{
		{"bad_price", 0, "one point five"},
		{"bad_guaranteed_price", 1, ""},
		{"bad_rate", 2, "NaN%"},
		{"bad_gas_price", 3, "1.5"},
		{"bad_allowance_target", 4, "def1"},
		{"bad_data", 5, "not-hex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := valid
			args[tt.field] = tt.value
			if _, err := NewQuote(args[0], args[1], args[2], args[3], args[4], args[5]); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
