package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fd1az/orderbook-clearer/business/clearing/domain"
	quoting "github.com/fd1az/orderbook-clearer/business/quoting/domain"
	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
	"github.com/fd1az/orderbook-clearer/internal/logger"
)

// Accountant reconstructs a clearing's economics from its receipt's
// ERC20 Transfer events.
type Accountant struct {
	orderbook common.Address
	arb       common.Address
	recipient common.Address
	log       logger.LoggerInterface
}

// NewAccountant builds an accountant. Recipient is the bot's signer
// address, where clearing income lands.
func NewAccountant(orderbook, arb, recipient common.Address, log logger.LoggerInterface) *Accountant {
	return &Accountant{
		orderbook: orderbook,
		arb:       arb,
		recipient: recipient,
		log:       log,
	}
}

// Settle derives income, realized price and net profit from the mined
// receipt. Missing transfer events leave the corresponding fields nil;
// that is a degraded but valid outcome, not an error. The returned
// outcome always carries the gas cost.
func (a *Accountant) Settle(ctx context.Context, receipt *types.Receipt, order *domain.Order, tradeSize *big.Int, quote *quoting.Quote) (*domain.Outcome, error) {
	outcome := &domain.Outcome{
		GasCost: new(big.Int).Mul(quote.GasPrice, new(big.Int).SetUint64(receipt.GasUsed)),
	}

	transfers := a.decodeTransfers(ctx, receipt.Logs)

	in := order.Input()
	for _, t := range transfers {
		if t.to == a.recipient && outcome.Income == nil {
			outcome.Income = t.value
		}
		if t.from != a.orderbook && t.to == a.arb && outcome.ActualPrice == nil {
			price, err := actualPrice(t.value, in.Decimals, tradeSize)
			if err == nil {
				outcome.ActualPrice = price
			}
		}
	}

	if outcome.Income != nil {
		outcome.NetProfit = netProfit(outcome.Income, quote.BuyTokenToEthRate, outcome.GasCost, in.Decimals)
	} else {
		a.log.Warn(ctx, "no income transfer found in receipt", "tx", receipt.TxHash.Hex())
	}
	return outcome, nil
}

type transfer struct {
	from  common.Address
	to    common.Address
	value *big.Int
}

// decodeTransfers collects every decodable Transfer event. An
// undecodable log is skipped, never fatal: a later valid transfer must
// still be attributed.
func (a *Accountant) decodeTransfers(ctx context.Context, logs []*types.Log) []transfer {
	transferID := erc20ABI.Events["Transfer"].ID
	var transfers []transfer
	for _, l := range logs {
		if len(l.Topics) != 3 || l.Topics[0] != transferID {
			continue
		}
		values, err := erc20ABI.Unpack("Transfer", l.Data)
		if err != nil {
			a.log.Debug(ctx, "skipping undecodable transfer log",
				"address", l.Address.Hex(), "error", err)
			continue
		}
		value, ok := values[0].(*big.Int)
		if !ok {
			continue
		}
		transfers = append(transfers, transfer{
			from:  common.BytesToAddress(l.Topics[1].Bytes()),
			to:    common.BytesToAddress(l.Topics[2].Bytes()),
			value: value,
		})
	}
	return transfers
}

// actualPrice converts the settlement transfer into a realized
// buy/sell price: buy value scaled to 18 decimals over the 18-decimal
// trade size.
func actualPrice(buyValue *big.Int, buyDecimals uint8, tradeSize *big.Int) (*big.Int, error) {
	value18, err := fixedpoint.ScaleUp(buyValue, buyDecimals)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Div(value18, tradeSize)
}

// netProfit charges the full gas cost, converted into the buy token at
// the quote's rate, against the raw income. Both sides are in native
// buy-token decimals.
func netProfit(income, buyTokenToEthRate, gasCost *big.Int, buyDecimals uint8) *big.Int {
	charge := new(big.Int).Mul(buyTokenToEthRate, gasCost)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(36-int(buyDecimals))), nil)
	charge.Quo(charge, scale)
	return new(big.Int).Sub(income, charge)
}
