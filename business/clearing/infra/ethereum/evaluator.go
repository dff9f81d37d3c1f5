package ethereum

import (
	"context"
	"math/big"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/orderbook-clearer/business/clearing/domain"
	"github.com/fd1az/orderbook-clearer/internal/apperror"
	"github.com/fd1az/orderbook-clearer/internal/circuitbreaker"
	"github.com/fd1az/orderbook-clearer/internal/logger"
)

// Interpreter expression dispatch layout: expression address shifted
// past a 16-bit source index and a 16-bit max-outputs field.
const (
	evalSourceIndex = 0
	evalMaxOutputs  = 2
)

// Evaluator runs order pricing expressions through the on-chain
// interpreter with eth_call, impersonating the orderbook as caller.
type Evaluator struct {
	client    *ethclient.Client
	orderbook common.Address
	arb       common.Address
	breaker   *circuitbreaker.CircuitBreaker[[]byte]
	log       logger.LoggerInterface
}

// NewEvaluator builds an order evaluator. The orderbook address becomes
// the eth_call sender so namespaced state reads resolve as they would
// during a real clearing.
func NewEvaluator(client *ethclient.Client, orderbook, arb common.Address, log logger.LoggerInterface) *Evaluator {
	return &Evaluator{
		client:    client,
		orderbook: orderbook,
		arb:       arb,
		breaker:   circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("interpreter-eval")),
		log:       log,
	}
}

// Eval executes the order's expression and returns its max output and
// ratio, both 18-decimal. Balances are in the tokens' native decimals
// and are placed in the context matrix unscaled.
func (e *Evaluator) Eval(ctx context.Context, order *domain.Order, inputBalance, outputBalance *big.Int) (*domain.EvaluationResult, error) {
	dispatch := encodeDispatch(order.Evaluable.Expression, evalSourceIndex, evalMaxOutputs)
	namespace := new(big.Int).SetBytes(order.Owner.Bytes())
	callContext := e.evalContext(order, inputBalance, outputBalance)

	data, err := interpreterABI.Pack("eval", order.Evaluable.Store, namespace, dispatch, callContext)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeEvalFailed, "pack eval")
	}

	out, err := e.breaker.Execute(func() ([]byte, error) {
		return e.client.CallContract(ctx, geth.CallMsg{
			From: e.orderbook,
			To:   &order.Evaluable.Interpreter,
			Data: data,
		}, nil)
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeEvalFailed, "call eval")
	}

	results, err := interpreterABI.Unpack("eval", out)
	if err != nil || len(results) < 1 {
		return nil, apperror.Wrap(err, apperror.CodeEvalFailed, "unpack eval")
	}
	stack, ok := results[0].([]*big.Int)
	if !ok || len(stack) < 2 {
		return nil, apperror.New(apperror.CodeMalformedEvalResult,
			apperror.WithContext("expression must leave maxOutput and ratio on the stack"))
	}

	result := &domain.EvaluationResult{
		MaxOutput: stack[0],
		Ratio:     stack[1],
	}
	e.log.Debug(ctx, "order evaluated",
		"max_output", result.MaxOutput.String(), "ratio", result.Ratio.String())
	return result, nil
}

// evalContext builds the context matrix the orderbook would pass during
// a take-order: base column, calling context, calculation placeholders,
// then the input and output vault columns.
func (e *Evaluator) evalContext(order *domain.Order, inputBalance, outputBalance *big.Int) [][]*big.Int {
	in, out := order.Input(), order.Output()
	return [][]*big.Int{
		{addressWord(e.arb), addressWord(e.orderbook)},
		{big.NewInt(0), addressWord(order.Owner), addressWord(e.arb)},
		{big.NewInt(0), big.NewInt(0)},
		{
			addressWord(in.Token),
			big.NewInt(int64(in.Decimals)),
			in.VaultID,
			inputBalance,
			big.NewInt(0),
		},
		{
			addressWord(out.Token),
			big.NewInt(int64(out.Decimals)),
			out.VaultID,
			outputBalance,
			big.NewInt(0),
		},
	}
}

func encodeDispatch(expression common.Address, sourceIndex, maxOutputs uint16) *big.Int {
	dispatch := new(big.Int).SetBytes(expression.Bytes())
	dispatch.Lsh(dispatch, 16)
	dispatch.Or(dispatch, big.NewInt(int64(sourceIndex)))
	dispatch.Lsh(dispatch, 16)
	dispatch.Or(dispatch, big.NewInt(int64(maxOutputs)))
	return dispatch
}

func addressWord(a common.Address) *big.Int {
	return new(big.Int).SetBytes(a.Bytes())
}
