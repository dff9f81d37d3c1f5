// Package app implements the clearing engine and its application ports.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fd1az/orderbook-clearer/business/clearing/domain"
	quoting "github.com/fd1az/orderbook-clearer/business/quoting/domain"
)

// VaultReader reads vault balances from the orderbook contract.
type VaultReader interface {
	// VaultBalance returns the balance in the token's native decimals.
	VaultBalance(ctx context.Context, owner, token common.Address, vaultID *big.Int) (*big.Int, error)
}

// OrderEvaluator runs an order's pricing expression against current
// vault balances without any state mutation. Balances are passed in the
// tokens' native decimals.
type OrderEvaluator interface {
	Eval(ctx context.Context, order *domain.Order, inputBalance, outputBalance *big.Int) (*domain.EvaluationResult, error)
}

// Submitter dry-runs and submits clearing transactions through the
// settlement contract.
type Submitter interface {
	// EstimateGas dry-runs the clearing call and returns a gas limit.
	// TradeSize is the sell amount in native decimals.
	EstimateGas(ctx context.Context, order *domain.Order, tradeSize *big.Int, quote *quoting.Quote) (uint64, error)
	// Submit signs and broadcasts the clearing transaction.
	Submit(ctx context.Context, order *domain.Order, tradeSize *big.Int, quote *quoting.Quote, gasLimit uint64) (*types.Transaction, error)
	// Wait blocks until the transaction is mined and its receipt
	// reports success.
	Wait(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Accountant settles a mined receipt into income, realized price and
// net profit.
type Accountant interface {
	// Settle inspects the receipt's transfer events. TradeSize is the
	// cleared sell amount in 18-decimal fixed point.
	Settle(ctx context.Context, receipt *types.Receipt, order *domain.Order, tradeSize *big.Int, quote *quoting.Quote) (*domain.Outcome, error)
}

// TokenInfo resolves token metadata for display.
type TokenInfo interface {
	Symbol(ctx context.Context, token common.Address) (string, error)
}

// Reporter narrates a clearing pass. Implementations must tolerate nil
// big.Int fields in records.
type Reporter interface {
	Start(ctx context.Context) error
	OrderStarted(index, total int, pair string)
	VaultBalance(balance *big.Int, decimals uint8, symbol string)
	Evaluated(result *domain.EvaluationResult)
	QuoteSize(amount *big.Int, decimals uint8, symbol string)
	Quoted(quote *quoting.Quote, ratio *big.Int)
	ProfitEstimated(profit *big.Int, symbol string)
	Submitted(txHash common.Hash, txPageURL string)
	Cleared(record *domain.ClearRecord)
	OrderSkipped(reason domain.SkipReason)
	OrderFailed(stage domain.Stage, err error)
	Stop() error
}
