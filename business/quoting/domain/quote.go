// Package domain contains the core domain types for the quoting context.
package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/fd1az/orderbook-clearer/internal/apperror"
	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
)

// Quote is a point-in-time swap quote from the external liquidity API.
// It is never reused across orders; every clearing attempt fetches a
// fresh one.
type Quote struct {
	// Price is the quoted buy/sell price in 18-decimal fixed point.
	Price *big.Int
	// GuaranteedPrice is the worst-case price after slippage, 18-decimal.
	GuaranteedPrice *big.Int
	// BuyTokenToEthRate converts the buy token to the chain's native
	// token, 18-decimal fixed point.
	BuyTokenToEthRate *big.Int
	// GasPrice is the gas price the quote was computed against, in wei.
	GasPrice *big.Int
	// AllowanceTarget is the contract that must be approved to spend the
	// sell token.
	AllowanceTarget common.Address
	// Data is the swap call data to forward to the settlement contract.
	Data []byte
}

// NewQuote parses the API's decimal-string fields into fixed-point values.
func NewQuote(price, guaranteedPrice, buyTokenToEthRate, gasPrice, allowanceTarget, data string) (*Quote, error) {
	p, err := fixedpoint.FromDecimalString(price)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext("price"), apperror.WithCause(err))
	}

	gp, err := fixedpoint.FromDecimalString(guaranteedPrice)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext("guaranteedPrice"), apperror.WithCause(err))
	}

	rate, err := fixedpoint.FromDecimalString(buyTokenToEthRate)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext("buyTokenToEthRate"), apperror.WithCause(err))
	}

	gas, ok := new(big.Int).SetString(gasPrice, 10)
	if !ok {
		return nil, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext("gasPrice: "+gasPrice))
	}

	if !common.IsHexAddress(allowanceTarget) {
		return nil, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext("allowanceTarget: "+allowanceTarget))
	}

	callData, err := hexutil.Decode(data)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext("data"), apperror.WithCause(err))
	}

	return &Quote{
		Price:             p,
		GuaranteedPrice:   gp,
		BuyTokenToEthRate: rate,
		GasPrice:          gas,
		AllowanceTarget:   common.HexToAddress(allowanceTarget),
		Data:              callData,
	}, nil
}
