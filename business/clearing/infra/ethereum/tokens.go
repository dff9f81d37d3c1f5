package ethereum

import (
	"context"
	"time"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/orderbook-clearer/internal/apperror"
	"github.com/fd1az/orderbook-clearer/internal/cache"
)

const symbolCacheTTL = time.Hour

// TokenReader resolves ERC20 metadata, caching symbols since they
// never change within a run.
type TokenReader struct {
	client  *ethclient.Client
	symbols *cache.Cache[common.Address, string]
}

// NewTokenReader builds a token metadata reader.
func NewTokenReader(client *ethclient.Client) *TokenReader {
	return &TokenReader{
		client:  client,
		symbols: cache.New[common.Address, string](symbolCacheTTL),
	}
}

// Symbol returns the token's symbol.
func (r *TokenReader) Symbol(ctx context.Context, token common.Address) (string, error) {
	if sym, ok := r.symbols.Get(token); ok {
		return sym, nil
	}

	data, err := erc20ABI.Pack("symbol")
	if err != nil {
		return "", apperror.Wrap(err, apperror.CodeContractCallFailed, "pack symbol")
	}
	out, err := r.client.CallContract(ctx, geth.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return "", apperror.Wrap(err, apperror.CodeContractCallFailed, "call symbol")
	}
	results, err := erc20ABI.Unpack("symbol", out)
	if err != nil || len(results) != 1 {
		return "", apperror.Wrap(err, apperror.CodeContractCallFailed, "unpack symbol")
	}
	sym, ok := results[0].(string)
	if !ok {
		return "", apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext("unexpected symbol return type"))
	}

	r.symbols.Set(token, sym)
	return sym, nil
}
