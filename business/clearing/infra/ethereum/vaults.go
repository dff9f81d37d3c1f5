package ethereum

import (
	"context"
	"math/big"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/orderbook-clearer/internal/apperror"
	"github.com/fd1az/orderbook-clearer/internal/circuitbreaker"
	"github.com/fd1az/orderbook-clearer/internal/logger"
)

// OrderbookReader reads vault balances from the orderbook contract.
type OrderbookReader struct {
	client    *ethclient.Client
	orderbook common.Address
	breaker   *circuitbreaker.CircuitBreaker[[]byte]
	log       logger.LoggerInterface
}

// NewOrderbookReader builds a vault reader against the given orderbook.
func NewOrderbookReader(client *ethclient.Client, orderbook common.Address, log logger.LoggerInterface) *OrderbookReader {
	return &OrderbookReader{
		client:    client,
		orderbook: orderbook,
		breaker:   circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("orderbook-read")),
		log:       log,
	}
}

// VaultBalance returns the vault's balance in the token's native decimals.
func (r *OrderbookReader) VaultBalance(ctx context.Context, owner, token common.Address, vaultID *big.Int) (*big.Int, error) {
	data, err := orderbookABI.Pack("vaultBalance", owner, token, vaultID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeVaultBalanceFailed, "pack vaultBalance")
	}

	out, err := r.breaker.Execute(func() ([]byte, error) {
		return r.client.CallContract(ctx, geth.CallMsg{To: &r.orderbook, Data: data}, nil)
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeVaultBalanceFailed, "call vaultBalance")
	}

	results, err := orderbookABI.Unpack("vaultBalance", out)
	if err != nil || len(results) != 1 {
		return nil, apperror.Wrap(err, apperror.CodeVaultBalanceFailed, "unpack vaultBalance")
	}
	balance, ok := results[0].(*big.Int)
	if !ok {
		return nil, apperror.New(apperror.CodeVaultBalanceFailed,
			apperror.WithContext("unexpected return type"))
	}

	r.log.Debug(ctx, "vault balance read",
		"owner", owner.Hex(), "token", token.Hex(), "balance", balance.String())
	return balance, nil
}
