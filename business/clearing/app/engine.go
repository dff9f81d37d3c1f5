package app

import (
	"context"
	"math/big"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/orderbook-clearer/business/clearing/domain"
	quotingApp "github.com/fd1az/orderbook-clearer/business/quoting/app"
	quoting "github.com/fd1az/orderbook-clearer/business/quoting/domain"
	"github.com/fd1az/orderbook-clearer/internal/apperror"
	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
	"github.com/fd1az/orderbook-clearer/internal/logger"
)

// Config tunes one clearing pass.
type Config struct {
	// Slippage is the decimal fraction forwarded to the quote provider.
	Slippage string
	// GasCoverage is the fraction of gas cost charged against profit
	// estimates, 18-decimal fixed point.
	GasCoverage *big.Int
	// EnforceMinProfit turns the profit estimate from advisory into a
	// gate: negative estimates skip the order.
	EnforceMinProfit bool
	// CallTimeout bounds each external call (RPC, quote API). Zero
	// disables the per-call deadline.
	CallTimeout time.Duration
	// TxPageURL prefixes transaction hashes for explorer links.
	TxPageURL string
}

// Clearer runs orders through the clearing pipeline one at a time:
// read vaults, evaluate, quote, compare, estimate, submit, settle.
type Clearer struct {
	vaults     VaultReader
	evaluator  OrderEvaluator
	quoter     quotingApp.Provider
	submitter  Submitter
	accountant Accountant
	tokens     TokenInfo
	reporter   Reporter

	cfg     Config
	log     logger.LoggerInterface
	tracer  trace.Tracer
	metrics *engineMetrics
}

// NewClearer wires the clearing pipeline.
func NewClearer(
	vaults VaultReader,
	evaluator OrderEvaluator,
	quoter quotingApp.Provider,
	submitter Submitter,
	accountant Accountant,
	tokens TokenInfo,
	reporter Reporter,
	cfg Config,
	log logger.LoggerInterface,
) (*Clearer, error) {
	m, err := newEngineMetrics()
	if err != nil {
		return nil, err
	}
	return &Clearer{
		vaults:     vaults,
		evaluator:  evaluator,
		quoter:     quoter,
		submitter:  submitter,
		accountant: accountant,
		tokens:     tokens,
		reporter:   reporter,
		cfg:        cfg,
		log:        log,
		tracer:     otel.Tracer("clearing.engine"),
		metrics:    m,
	}, nil
}

// Clear processes the order list sequentially and returns the report of
// mined clearings. Per-order failures are recorded and the pass moves
// on; only fatal errors (lost RPC, bad credentials) abort the pass.
func (c *Clearer) Clear(ctx context.Context, orders []domain.Order) (*domain.Report, error) {
	ctx, span := c.tracer.Start(ctx, "clearing.pass",
		trace.WithAttributes(attribute.Int("orders.count", len(orders))))
	defer span.End()

	if err := c.reporter.Start(ctx); err != nil {
		return nil, err
	}
	defer c.reporter.Stop()

	report := &domain.Report{}
	for i := range orders {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		order := &orders[i]
		attempt := domain.NewAttempt(i, order.Pair())
		c.clearOne(ctx, order, attempt, i+1, len(orders), report)
		c.metrics.ordersProcessed.Add(ctx, 1)

		switch {
		case attempt.Skip != "":
			c.metrics.ordersSkipped.Add(ctx, 1,
				metric.WithAttributes(attribute.String("reason", string(attempt.Skip))))
			c.reporter.OrderSkipped(attempt.Skip)
		case attempt.Err != nil:
			c.metrics.ordersFailed.Add(ctx, 1,
				metric.WithAttributes(attribute.String("stage", string(attempt.Stage))))
			c.reporter.OrderFailed(attempt.Stage, attempt.Err)
			c.log.Error(ctx, "order clearing failed",
				"order", attempt.Index, "stage", attempt.Stage, "error", attempt.Err)
			if apperror.IsFatal(attempt.Err) {
				return report, attempt.Err
			}
		default:
			c.metrics.clearsMined.Add(ctx, 1)
		}
	}
	return report, nil
}

func (c *Clearer) clearOne(ctx context.Context, order *domain.Order, attempt *domain.Attempt, seq, total int, report *domain.Report) {
	in, out := order.Input(), order.Output()
	buySym := c.symbol(ctx, in.Token)
	sellSym := c.symbol(ctx, out.Token)
	c.reporter.OrderStarted(seq, total, sellSym+"/"+buySym)

	outputBalance, err := c.vaultBalance(ctx, order.Owner, out)
	if err != nil {
		attempt.FailWith(err)
		return
	}
	c.reporter.VaultBalance(outputBalance, out.Decimals, sellSym)
	if outputBalance.Sign() == 0 {
		attempt.SkipWith(domain.SkipEmptyVault)
		return
	}

	inputBalance, err := c.vaultBalance(ctx, order.Owner, in)
	if err != nil {
		attempt.FailWith(err)
		return
	}

	// The interpreter context carries vault balances in the tokens'
	// native decimals, exactly as the orderbook would during a take.
	result, err := c.eval(ctx, order, inputBalance, outputBalance)
	if err != nil {
		attempt.FailWith(err)
		return
	}
	attempt.Advance(domain.StageEvaluated)
	c.reporter.Evaluated(result)

	outputBalance18, err := fixedpoint.ScaleUp(outputBalance, out.Decimals)
	if err != nil {
		attempt.FailWith(err)
		return
	}

	// The clearable size is capped by both the vault and the
	// expression's max output.
	tradeSize18 := fixedpoint.Min(outputBalance18, result.MaxOutput)
	sellAmount, err := fixedpoint.ScaleDown(tradeSize18, out.Decimals)
	if err != nil {
		attempt.FailWith(err)
		return
	}
	if sellAmount.Sign() == 0 {
		attempt.SkipWith(domain.SkipZeroQuoteAmount)
		return
	}
	// Realign after native truncation so the on-chain fill matches the
	// quoted amount exactly.
	tradeSize18, err = fixedpoint.ScaleUp(sellAmount, out.Decimals)
	if err != nil {
		attempt.FailWith(err)
		return
	}
	c.reporter.QuoteSize(sellAmount, out.Decimals, sellSym)

	quote, err := c.getQuote(ctx, quotingApp.QuoteRequest{
		BuyToken:   in.Token,
		SellToken:  out.Token,
		SellAmount: sellAmount,
		Slippage:   c.cfg.Slippage,
	})
	if err != nil {
		attempt.FailWith(err)
		return
	}
	attempt.Advance(domain.StageQuoted)
	c.reporter.Quoted(quote, result.Ratio)

	if quote.Price.Cmp(result.Ratio) < 0 {
		attempt.SkipWith(domain.SkipUnfavorablePrice)
		return
	}
	attempt.Advance(domain.StagePriceFavorable)

	gasLimit, err := c.estimateGas(ctx, order, sellAmount, quote)
	if err != nil {
		attempt.FailWith(err)
		return
	}
	attempt.Advance(domain.StageGasEstimated)

	profit := EstimateProfit(ProfitEstimate{
		QuotePrice:        quote.Price,
		OrderRatio:        result.Ratio,
		TradeSize:         tradeSize18,
		GasPrice:          quote.GasPrice,
		GasLimit:          gasLimit,
		BuyTokenToEthRate: quote.BuyTokenToEthRate,
		GasCoverage:       c.cfg.GasCoverage,
	})
	c.reporter.ProfitEstimated(profit, buySym)
	if c.cfg.EnforceMinProfit && profit.Sign() < 0 {
		attempt.SkipWith(domain.SkipNegativeProfit)
		return
	}

	tx, err := c.submitter.Submit(ctx, order, sellAmount, quote, gasLimit)
	if err != nil {
		attempt.FailWith(err)
		return
	}
	attempt.Advance(domain.StageSubmitted)
	c.reporter.Submitted(tx.Hash(), c.cfg.TxPageURL+tx.Hash().Hex())

	// Mining is not bounded by the per-call timeout; the parent context
	// still applies.
	receipt, err := c.submitter.Wait(ctx, tx)
	if err != nil {
		attempt.FailWith(err)
		return
	}
	attempt.Advance(domain.StageMined)

	outcome, err := c.accountant.Settle(ctx, receipt, order, tradeSize18, quote)
	if err != nil {
		// The clearing already happened; degraded accounting is better
		// than reporting the transaction as failed.
		c.log.Warn(ctx, "receipt settlement incomplete",
			"tx", tx.Hash().Hex(), "error", err)
	}

	rec := domain.ClearRecord{
		TxHash:            tx.Hash(),
		BuyToken:          in.Token,
		BuyTokenSymbol:    buySym,
		BuyTokenDecimals:  in.Decimals,
		SellToken:         out.Token,
		SellTokenSymbol:   sellSym,
		SellTokenDecimals: out.Decimals,
		ClearedAmount:     sellAmount,
		QuotePrice:        quote.Price,
		GuaranteedPrice:   quote.GuaranteedPrice,
		OrderRatio:        result.Ratio,
		EstimatedProfit:   profit,
		GasUsed:           receipt.GasUsed,
	}
	if outcome != nil {
		rec.Outcome = *outcome
	}
	report.Add(rec)
	c.reporter.Cleared(&rec)
}

// callCtx bounds a single external call with the configured timeout.
func (c *Clearer) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.CallTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.cfg.CallTimeout)
}

func (c *Clearer) vaultBalance(ctx context.Context, owner common.Address, io domain.IO) (*big.Int, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.vaults.VaultBalance(ctx, owner, io.Token, io.VaultID)
}

func (c *Clearer) eval(ctx context.Context, order *domain.Order, inputBalance18, outputBalance18 *big.Int) (*domain.EvaluationResult, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.evaluator.Eval(ctx, order, inputBalance18, outputBalance18)
}

func (c *Clearer) getQuote(ctx context.Context, req quotingApp.QuoteRequest) (*quoting.Quote, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.quoter.GetQuote(ctx, req)
}

func (c *Clearer) estimateGas(ctx context.Context, order *domain.Order, sellAmount *big.Int, quote *quoting.Quote) (uint64, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.submitter.EstimateGas(ctx, order, sellAmount, quote)
}

// symbol is best effort; a lookup failure falls back to a shortened
// address so the narration never blocks on metadata.
func (c *Clearer) symbol(ctx context.Context, token common.Address) string {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	sym, err := c.tokens.Symbol(ctx, token)
	if err != nil {
		c.log.Debug(ctx, "symbol lookup failed", "token", token.Hex(), "error", err)
		return token.Hex()[:10]
	}
	return sym
}
