package app

import (
	"math/big"

	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
)

// ProfitEstimate is the input set for a pre-submission profit estimate.
// All fixed-point fields use 18 decimals.
type ProfitEstimate struct {
	// QuotePrice is the external market's buy/sell price.
	QuotePrice *big.Int
	// OrderRatio is the order's minimum acceptable price.
	OrderRatio *big.Int
	// TradeSize is the sell amount being cleared, 18-decimal.
	TradeSize *big.Int
	// GasPrice is the quote's gas price in wei.
	GasPrice *big.Int
	// GasLimit is the dry-run gas estimate in units.
	GasLimit uint64
	// BuyTokenToEthRate converts buy-token amounts to native token.
	BuyTokenToEthRate *big.Int
	// GasCoverage is the fraction of gas cost charged against the
	// estimate, 18-decimal in [0, 1e18].
	GasCoverage *big.Int
}

// EstimateProfit computes the expected profit of a clearing in
// buy-token terms, 18-decimal fixed point. The spread income is the
// price edge over the order's ratio applied to the trade size; the gas
// charge converts the dry-run gas cost into buy tokens and scales it by
// the coverage fraction. The result may be negative.
func EstimateProfit(in ProfitEstimate) *big.Int {
	spread := new(big.Int).Sub(in.QuotePrice, in.OrderRatio)
	income := fixedpoint.Mul(spread, in.TradeSize)

	gasWei := new(big.Int).Mul(in.GasPrice, new(big.Int).SetUint64(in.GasLimit))
	gasInBuyToken := fixedpoint.Mul(in.BuyTokenToEthRate, gasWei)
	gasCharge := fixedpoint.Mul(gasInBuyToken, in.GasCoverage)

	return income.Sub(income, gasCharge)
}
