package app

import (
	"math/big"
	"testing"

	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
)

// fp parses a decimal string into 18-decimal fixed point.
func fp(t *testing.T, s string) *big.Int {
	t.Helper()
	v, err := fixedpoint.FromDecimalString(s)
	if err != nil {
		t.Fatalf("bad fixture %q: %v", s, err)
	}
	return v
}

func TestEstimateProfit(t *testing.T) {
	tests := []struct {
		name        string
		quotePrice  string
		orderRatio  string
		tradeSize   string
		gasPriceWei int64
		gasLimit    uint64
		ethRate     string
		gasCoverage string
		want        string
	}{
		{
			name:       "positive_spread_no_gas",
			quotePrice: "1.05",
			orderRatio: "1.00",
			tradeSize:  "100",
			// zero gas price means the coverage charge vanishes
			gasPriceWei: 0,
			gasLimit:    300_000,
			ethRate:     "0.5",
			gasCoverage: "0.1",
			want:        "5",
		},
		{
			name:        "gas_charge_reduces_income",
			quotePrice:  "2",
			orderRatio:  "1",
			tradeSize:   "10",
			gasPriceWei: 100_000_000, // 0.1 gwei
			gasLimit:    1_000_000,   // gas cost = 0.0001 ETH
			ethRate:     "2000",      // buy token per ETH
			gasCoverage: "1",         // full coverage
			// income 10, charge 2000*0.0001 = 0.2
			want: "9.8",
		},
		{
			name:        "partial_coverage",
			quotePrice:  "2",
			orderRatio:  "1",
			tradeSize:   "10",
			gasPriceWei: 100_000_000,
			gasLimit:    1_000_000,
			ethRate:     "2000",
			gasCoverage: "0.1",
			want:        "9.98",
		},
		{
			name:        "negative_profit",
			quotePrice:  "1.001",
			orderRatio:  "1",
			tradeSize:   "1",
			gasPriceWei: 100_000_000,
			gasLimit:    1_000_000,
			ethRate:     "2000",
			gasCoverage: "1",
			// income 0.001, charge 0.2
			want: "-0.199",
		},
		{
			name:        "heavy_gas_swamps_income",
			quotePrice:  "2",
			orderRatio:  "1",
			tradeSize:   "10",
			gasPriceWei: 100_000_000_000, // 100 gwei
			gasLimit:    1_000_000,       // gas cost = 0.1 ETH
			ethRate:     "2000",
			gasCoverage: "1",
			// income 10, charge 2000*0.1 = 200
			want: "-190",
		},
		{
			name:        "zero_spread_zero_gas",
			quotePrice:  "1",
			orderRatio:  "1",
			tradeSize:   "50",
			gasPriceWei: 0,
			gasLimit:    0,
			ethRate:     "1",
			gasCoverage: "1",
			want:        "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateProfit(ProfitEstimate{
				QuotePrice:        fp(t, tt.quotePrice),
				OrderRatio:        fp(t, tt.orderRatio),
				TradeSize:         fp(t, tt.tradeSize),
				GasPrice:          big.NewInt(tt.gasPriceWei),
				GasLimit:          tt.gasLimit,
				BuyTokenToEthRate: fp(t, tt.ethRate),
				GasCoverage:       fp(t, tt.gasCoverage),
			})

			want := fp(t, tt.want)
			if got.Cmp(want) != 0 {
				t.Errorf("EstimateProfit() = %s, want %s",
					fixedpoint.Format(got), fixedpoint.Format(want))
			}
		})
	}
}

func TestEstimateProfitDeterministic(t *testing.T) {
	in := ProfitEstimate{
		QuotePrice:        fp(t, "1.5"),
		OrderRatio:        fp(t, "1.2"),
		TradeSize:         fp(t, "33.33"),
		GasPrice:          big.NewInt(55_000_000_000),
		GasLimit:          450_000,
		BuyTokenToEthRate: fp(t, "1800"),
		GasCoverage:       fp(t, "0.1"),
	}

	first := EstimateProfit(in)
	for i := 0; i < 5; i++ {
		if got := EstimateProfit(in); got.Cmp(first) != 0 {
			t.Fatalf("run %d: got %s, want %s", i, got, first)
		}
	}
}

func TestEstimateProfitDoesNotMutateInputs(t *testing.T) {
	price := fp(t, "2")
	ratio := fp(t, "1")
	size := fp(t, "10")
	rate := fp(t, "2000")
	coverage := fp(t, "0.5")

	priceCopy := new(big.Int).Set(price)
	ratioCopy := new(big.Int).Set(ratio)
	sizeCopy := new(big.Int).Set(size)
	rateCopy := new(big.Int).Set(rate)
	coverageCopy := new(big.Int).Set(coverage)

	EstimateProfit(ProfitEstimate{
		QuotePrice:        price,
		OrderRatio:        ratio,
		TradeSize:         size,
		GasPrice:          big.NewInt(1_000_000_000),
		GasLimit:          21_000,
		BuyTokenToEthRate: rate,
		GasCoverage:       coverage,
	})

	for name, pair := range map[string][2]*big.Int{
		"quotePrice":  {price, priceCopy},
		"orderRatio":  {ratio, ratioCopy},
		"tradeSize":   {size, sizeCopy},
		"ethRate":     {rate, rateCopy},
		"gasCoverage": {coverage, coverageCopy},
	} {
		if pair[0].Cmp(pair[1]) != 0 {
			t.Errorf("input %s mutated: %s -> %s", name, pair[1], pair[0])
		}
	}
}
