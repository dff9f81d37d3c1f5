// Package app defines the application ports of the quoting context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/orderbook-clearer/business/quoting/domain"
)

// QuoteRequest describes a single firm-quote lookup. SellAmount is
// expressed in the sell token's native decimals, exactly as the API
// expects it.
type QuoteRequest struct {
	BuyToken   common.Address
	SellToken  common.Address
	SellAmount *big.Int
	// Slippage is a decimal fraction such as "0.001" for 0.1%.
	Slippage string
}

// Provider fetches firm swap quotes from an external liquidity source.
type Provider interface {
	GetQuote(ctx context.Context, req QuoteRequest) (*domain.Quote, error)
}
