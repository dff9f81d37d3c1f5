package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Outcome is what receipt settlement recovers from a mined clearing
// transaction. Income and the prices derived from it are nil when the
// receipt carries no matching transfer events.
type Outcome struct {
	// Income is the buy-token amount received, in native decimals.
	Income *big.Int
	// ActualPrice is the realized buy/sell price in 18-decimal fixed
	// point, derived from the settlement transfer.
	ActualPrice *big.Int
	// GasCost is gasUsed times the effective gas price, in wei.
	GasCost *big.Int
	// NetProfit is Income minus the gas cost converted into the buy
	// token, in native buy-token decimals. Nil when Income is nil.
	NetProfit *big.Int
}

// ClearRecord is the final accounting line for one successfully mined
// clearing transaction.
type ClearRecord struct {
	TxHash common.Hash

	BuyToken          common.Address
	BuyTokenSymbol    string
	BuyTokenDecimals  uint8
	SellToken         common.Address
	SellTokenSymbol   string
	SellTokenDecimals uint8

	// ClearedAmount is the sell-token amount taken, native decimals.
	ClearedAmount *big.Int
	// QuotePrice and GuaranteedPrice echo the quote, 18-decimal.
	QuotePrice      *big.Int
	GuaranteedPrice *big.Int
	// OrderRatio is the order's minimum price, 18-decimal.
	OrderRatio *big.Int
	// EstimatedProfit is the pre-submission estimate, 18-decimal. It
	// may be negative when estimation is advisory.
	EstimatedProfit *big.Int

	GasUsed uint64
	Outcome Outcome
}

// Report collects the records of one clearing pass over an order list.
type Report struct {
	Records []ClearRecord
}

// Add appends a record to the report.
func (r *Report) Add(rec ClearRecord) {
	r.Records = append(r.Records, rec)
}

// TotalGasCost sums the wei spent across all mined transactions.
func (r *Report) TotalGasCost() *big.Int {
	total := new(big.Int)
	for _, rec := range r.Records {
		if rec.Outcome.GasCost != nil {
			total.Add(total, rec.Outcome.GasCost)
		}
	}
	return total
}
