// Package console renders the clearing pass narration to a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/orderbook-clearer/business/clearing/domain"
	quoting "github.com/fd1az/orderbook-clearer/business/quoting/domain"
	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
	"github.com/fd1az/orderbook-clearer/pkg/ui"
)

// Reporter writes a human-readable account of each clearing attempt.
type Reporter struct {
	w io.Writer
}

// NewReporter builds a console reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.w, ui.TitleStyle.Render("Starting clearing pass"))
	fmt.Fprintln(r.w)
	return nil
}

func (r *Reporter) OrderStarted(index, total int, pair string) {
	fmt.Fprintf(r.w, "%s %s\n\n",
		ui.LabelStyle.Render(fmt.Sprintf("[%d/%d]", index, total)),
		ui.PairStyle.Render(pair))
}

func (r *Reporter) VaultBalance(balance *big.Int, decimals uint8, symbol string) {
	fmt.Fprintf(r.w, "%s %s %s\n",
		ui.LabelStyle.Render("Output vault balance:"),
		fixedpoint.FormatUnits(balance, decimals), symbol)
}

func (r *Reporter) Evaluated(result *domain.EvaluationResult) {
	fmt.Fprintf(r.w, "%s maxOutput=%s ratio=%s\n",
		ui.LabelStyle.Render("Order evaluated:"),
		fixedpoint.Format(result.MaxOutput),
		fixedpoint.Format(result.Ratio))
}

func (r *Reporter) QuoteSize(amount *big.Int, decimals uint8, symbol string) {
	fmt.Fprintf(r.w, "%s %s %s\n",
		ui.LabelStyle.Render("Quote amount:"),
		fixedpoint.FormatUnits(amount, decimals), symbol)
}

func (r *Reporter) Quoted(quote *quoting.Quote, ratio *big.Int) {
	fmt.Fprintf(r.w, "%s %s\n",
		ui.LabelStyle.Render("Market price:"), fixedpoint.Format(quote.Price))
	fmt.Fprintf(r.w, "%s %s\n",
		ui.LabelStyle.Render("Order ratio:"), fixedpoint.Format(ratio))
}

func (r *Reporter) ProfitEstimated(profit *big.Int, symbol string) {
	value := fixedpoint.Format(profit) + " " + symbol
	style := ui.PositiveValue
	if profit.Sign() < 0 {
		style = ui.NegativeValue
	}
	fmt.Fprintf(r.w, "%s %s\n",
		ui.LabelStyle.Render("Estimated profit:"), style.Render(value))
}

func (r *Reporter) Submitted(txHash common.Hash, txPageURL string) {
	fmt.Fprintf(r.w, "%s %s\n",
		ui.LabelStyle.Render("Transaction submitted:"),
		ui.LinkStyle.Render(txPageURL))
	fmt.Fprintln(r.w, ui.MutedValue.Render("Waiting for the transaction to mine..."))
}

func (r *Reporter) Cleared(record *domain.ClearRecord) {
	fmt.Fprintf(r.w, "%s %s\n",
		ui.LabelStyle.Render("Quote price:"), fixedpoint.Format(record.QuotePrice))
	if record.Outcome.ActualPrice != nil {
		fmt.Fprintf(r.w, "%s %s\n",
			ui.LabelStyle.Render("Actual price:"), fixedpoint.Format(record.Outcome.ActualPrice))
	}
	fmt.Fprintf(r.w, "%s %s %s\n",
		ui.LabelStyle.Render("Cleared amount:"),
		fixedpoint.FormatUnits(record.ClearedAmount, record.SellTokenDecimals),
		record.SellTokenSymbol)
	if record.Outcome.GasCost != nil {
		fmt.Fprintf(r.w, "%s %s ETH\n",
			ui.LabelStyle.Render("Consumed gas:"), fixedpoint.Format(record.Outcome.GasCost))
	}
	if record.Outcome.Income != nil {
		fmt.Fprintf(r.w, "%s %s %s\n",
			ui.LabelStyle.Render("Raw income:"),
			fixedpoint.FormatUnits(record.Outcome.Income, record.BuyTokenDecimals),
			record.BuyTokenSymbol)
	}
	if record.Outcome.NetProfit != nil {
		value := fixedpoint.FormatUnits(record.Outcome.NetProfit, record.BuyTokenDecimals) +
			" " + record.BuyTokenSymbol
		style := ui.PositiveValue
		if record.Outcome.NetProfit.Sign() < 0 {
			style = ui.NegativeValue
		}
		fmt.Fprintf(r.w, "%s %s\n", ui.LabelStyle.Render("Net profit:"), style.Render(value))
	}
	fmt.Fprintln(r.w, ui.PositiveValue.Render("Order cleared successfully"))
	fmt.Fprintln(r.w)
}

func (r *Reporter) OrderSkipped(reason domain.SkipReason) {
	messages := map[domain.SkipReason]string{
		domain.SkipEmptyVault:       "Output vault is empty, skipping...",
		domain.SkipZeroQuoteAmount:  "Quote amount is zero, skipping...",
		domain.SkipUnfavorablePrice: "Order ratio is above the market price, skipping...",
		domain.SkipNegativeProfit:   "Estimated profit is negative, skipping...",
	}
	msg, ok := messages[reason]
	if !ok {
		msg = "Order skipped: " + string(reason)
	}
	fmt.Fprintln(r.w, ui.WarnValue.Render(msg))
	fmt.Fprintln(r.w)
}

func (r *Reporter) OrderFailed(stage domain.Stage, err error) {
	fmt.Fprintln(r.w, ui.NegativeValue.Render(
		fmt.Sprintf("Order failed at %s: %v", stage, err)))
	fmt.Fprintln(r.w)
}

func (r *Reporter) Stop() error {
	fmt.Fprintln(r.w, ui.TitleStyle.Render("Clearing pass finished"))
	return nil
}
