package ethereum

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/orderbook-clearer/business/clearing/domain"
	quoting "github.com/fd1az/orderbook-clearer/business/quoting/domain"
	"github.com/fd1az/orderbook-clearer/internal/apm"
	"github.com/fd1az/orderbook-clearer/internal/apperror"
	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
	"github.com/fd1az/orderbook-clearer/internal/logger"
)

// ABI-shaped mirrors of the settlement call's tuple arguments. Field
// names follow the contract's component names so packing resolves them.

type evaluableArg struct {
	Interpreter common.Address
	Store       common.Address
	Expression  common.Address
}

type ioArg struct {
	Token    common.Address
	Decimals uint8
	VaultId  *big.Int
}

type orderArg struct {
	Owner        common.Address
	HandleIO     bool
	Evaluable    evaluableArg
	ValidInputs  []ioArg
	ValidOutputs []ioArg
}

type signedContextArg struct {
	Signer    common.Address
	Context   []*big.Int
	Signature []byte
}

type takeOrderArg struct {
	Order         orderArg
	InputIOIndex  *big.Int
	OutputIOIndex *big.Int
	SignedContext []signedContextArg
}

type takeOrdersArg struct {
	Output         common.Address
	Input          common.Address
	MinimumInput   *big.Int
	MaximumInput   *big.Int
	MaximumIORatio *big.Int
	Orders         []takeOrderArg
}

// Submitter signs and broadcasts clearing transactions through the
// flash-borrower settlement contract.
type Submitter struct {
	client  *ethclient.Client
	arb     common.Address
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
	log     logger.LoggerInterface
	tracer  apm.Tracer
}

// NewSubmitter builds a submitter signing with the given key.
func NewSubmitter(client *ethclient.Client, arb common.Address, key *ecdsa.PrivateKey, chainID *big.Int, log logger.LoggerInterface) *Submitter {
	return &Submitter{
		client:  client,
		arb:     arb,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
		log:     log,
		tracer:  apm.NewTracer("clearing.submitter"),
	}
}

// From is the transaction sender address.
func (s *Submitter) From() common.Address {
	return s.from
}

// EstimateGas dry-runs the clearing call at the quote's gas price. A
// revert here surfaces as an estimation error and the order is skipped
// before any funds move.
func (s *Submitter) EstimateGas(ctx context.Context, order *domain.Order, tradeSize *big.Int, quote *quoting.Quote) (uint64, error) {
	ctx, span := s.tracer.StartSpanFromContext(ctx, "submitter.estimate_gas")
	defer span.End()

	data, err := packArbCall(order, tradeSize, quote)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeGasEstimationFailed, "pack arb call")
	}

	gasLimit, err := s.client.EstimateGas(ctx, geth.CallMsg{
		From:     s.from,
		To:       &s.arb,
		GasPrice: quote.GasPrice,
		Data:     data,
	})
	if err != nil {
		span.NoticeError(err)
		return 0, apperror.Wrap(err, apperror.CodeGasEstimationFailed, "estimate arb gas")
	}
	span.SetAttributes(attribute.Int64("tx.gas_limit", int64(gasLimit)))
	return gasLimit, nil
}

// Submit signs and broadcasts the clearing transaction.
func (s *Submitter) Submit(ctx context.Context, order *domain.Order, tradeSize *big.Int, quote *quoting.Quote, gasLimit uint64) (*types.Transaction, error) {
	ctx, span := s.tracer.StartSpanFromContext(ctx, "submitter.submit")
	defer span.End()

	data, err := packArbCall(order, tradeSize, quote)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeSubmissionFailed, "pack arb call")
	}

	nonce, err := s.client.PendingNonceAt(ctx, s.from)
	if err != nil {
		span.NoticeError(err)
		return nil, apperror.Wrap(err, apperror.CodeSubmissionFailed, "pending nonce")
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &s.arb,
		Gas:      gasLimit,
		GasPrice: quote.GasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeSubmissionFailed, "sign tx")
	}

	if err := s.client.SendTransaction(ctx, signed); err != nil {
		span.NoticeError(err)
		return nil, apperror.Wrap(err, apperror.CodeSubmissionFailed, "send tx")
	}
	span.SetAttributes(attribute.String("tx.hash", signed.Hash().Hex()))
	s.log.Info(ctx, "clearing transaction submitted",
		"tx", signed.Hash().Hex(), "nonce", nonce, "gas_limit", gasLimit)
	return signed, nil
}

// Wait blocks until the transaction mines and checks its status.
func (s *Submitter) Wait(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	ctx, span := s.tracer.StartSpanFromContext(ctx, "submitter.wait_mined",
		trace.WithAttributes(attribute.String("tx.hash", tx.Hash().Hex())))
	defer span.End()

	receipt, err := bind.WaitMined(ctx, s.client, tx)
	if err != nil {
		span.NoticeError(err)
		return nil, apperror.Wrap(err, apperror.CodeTransactionFailed, "wait mined")
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		err := apperror.New(apperror.CodeTransactionFailed,
			apperror.WithContext("transaction reverted: "+tx.Hash().Hex()))
		span.NoticeError(err)
		return nil, err
	}
	return receipt, nil
}

// packArbCall encodes arb(takeOrders, minimumSenderOutput, proxy, data).
// Minimum and maximum input both equal the trade size so the on-chain
// fill matches the quoted sell amount exactly; minimumSenderOutput is
// zero because unprofitable fills are filtered before submission.
func packArbCall(order *domain.Order, tradeSize *big.Int, quote *quoting.Quote) ([]byte, error) {
	takeOrders := takeOrdersArg{
		Output:         order.Input().Token,
		Input:          order.Output().Token,
		MinimumInput:   tradeSize,
		MaximumInput:   tradeSize,
		MaximumIORatio: fixedpoint.MaxUint256(),
		Orders: []takeOrderArg{{
			Order:         toOrderArg(order),
			InputIOIndex:  big.NewInt(0),
			OutputIOIndex: big.NewInt(0),
			SignedContext: []signedContextArg{},
		}},
	}
	return arbABI.Pack("arb", takeOrders, big.NewInt(0), quote.AllowanceTarget, quote.Data)
}

func toOrderArg(order *domain.Order) orderArg {
	return orderArg{
		Owner:    order.Owner,
		HandleIO: order.HandleIO,
		Evaluable: evaluableArg{
			Interpreter: order.Evaluable.Interpreter,
			Store:       order.Evaluable.Store,
			Expression:  order.Evaluable.Expression,
		},
		ValidInputs:  toIOArgs(order.ValidInputs),
		ValidOutputs: toIOArgs(order.ValidOutputs),
	}
}

func toIOArgs(ios []domain.IO) []ioArg {
	args := make([]ioArg, 0, len(ios))
	for _, io := range ios {
		args = append(args, ioArg{Token: io.Token, Decimals: io.Decimals, VaultId: io.VaultID})
	}
	return args
}
