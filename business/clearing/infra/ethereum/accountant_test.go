package ethereum

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fd1az/orderbook-clearer/business/clearing/domain"
	quoting "github.com/fd1az/orderbook-clearer/business/quoting/domain"
	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
	"github.com/fd1az/orderbook-clearer/internal/logger"
)

var (
	orderbookAddr = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	arbAddr       = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	botAddr       = common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	tokenAddr     = common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd")
	makerAddr     = common.HexToAddress("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
)

func transferLog(from, to common.Address, value *big.Int) *types.Log {
	return &types.Log{
		Address: tokenAddr,
		Topics: []common.Hash{
			erc20ABI.Events["Transfer"].ID,
			common.BytesToHash(common.LeftPadBytes(from.Bytes(), 32)),
			common.BytesToHash(common.LeftPadBytes(to.Bytes(), 32)),
		},
		Data: common.LeftPadBytes(value.Bytes(), 32),
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newTestAccountant() *Accountant {
	log := logger.New(discard{}, logger.LevelError, "test", nil)
	return NewAccountant(orderbookAddr, arbAddr, botAddr, log)
}

func testSettleOrder() *domain.Order {
	return &domain.Order{
		Owner:        makerAddr,
		ValidInputs:  []domain.IO{{Token: tokenAddr, Decimals: 6, VaultID: big.NewInt(1)}},
		ValidOutputs: []domain.IO{{Token: tokenAddr, Decimals: 18, VaultID: big.NewInt(2)}},
	}
}

func testSettleQuote(t *testing.T) *quoting.Quote {
	t.Helper()
	rate, err := fixedpoint.FromDecimalString("2000")
	if err != nil {
		t.Fatal(err)
	}
	return &quoting.Quote{
		BuyTokenToEthRate: rate,
		GasPrice:          big.NewInt(10_000_000), // 0.01 gwei
	}
}

func TestSettleComputesIncomeAndNetProfit(t *testing.T) {
	a := newTestAccountant()
	receipt := &types.Receipt{
		Status:  types.ReceiptStatusSuccessful,
		GasUsed: 500_000,
		Logs: []*types.Log{
			// settlement leg into the arb contract
			transferLog(makerAddr, arbAddr, big.NewInt(1_050_000)),
			// income leg to the bot
			transferLog(arbAddr, botAddr, big.NewInt(1_050_000)),
		},
	}

	tradeSize, _ := fixedpoint.FromDecimalString("1") // 1.0 sell token
	outcome, err := a.Settle(context.Background(), receipt, testSettleOrder(), tradeSize, testSettleQuote(t))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}

	if outcome.Income == nil || outcome.Income.Cmp(big.NewInt(1_050_000)) != 0 {
		t.Errorf("income = %v, want 1050000", outcome.Income)
	}

	// gasCost = 0.01 gwei * 500k = 5e12 wei
	wantGas := new(big.Int).Mul(big.NewInt(10_000_000), big.NewInt(500_000))
	if outcome.GasCost.Cmp(wantGas) != 0 {
		t.Errorf("gas cost = %s, want %s", outcome.GasCost, wantGas)
	}

	// actual price: 1.05 buy (6 dec) over 1.0 sell = 1.05
	wantPrice, _ := fixedpoint.FromDecimalString("1.05")
	if outcome.ActualPrice == nil || outcome.ActualPrice.Cmp(wantPrice) != 0 {
		t.Errorf("actual price = %v, want %s", outcome.ActualPrice, wantPrice)
	}

	// gas charge in buy token: 2000 per ETH * 0.000005 ETH = 0.01,
	// which is 10000 at 6 decimals
	wantNet := big.NewInt(1_040_000)
	if outcome.NetProfit == nil || outcome.NetProfit.Cmp(wantNet) != 0 {
		t.Errorf("net profit = %v, want %s", outcome.NetProfit, wantNet)
	}
}

func TestSettleWithoutIncomeTransfer(t *testing.T) {
	a := newTestAccountant()
	receipt := &types.Receipt{
		Status:  types.ReceiptStatusSuccessful,
		GasUsed: 300_000,
		// no transfers at all
		Logs: nil,
	}

	tradeSize, _ := fixedpoint.FromDecimalString("1")
	outcome, err := a.Settle(context.Background(), receipt, testSettleOrder(), tradeSize, testSettleQuote(t))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}

	if outcome.Income != nil {
		t.Errorf("income = %v, want nil", outcome.Income)
	}
	if outcome.NetProfit != nil {
		t.Errorf("net profit = %v, want nil", outcome.NetProfit)
	}
	if outcome.ActualPrice != nil {
		t.Errorf("actual price = %v, want nil", outcome.ActualPrice)
	}
	if outcome.GasCost == nil || outcome.GasCost.Sign() == 0 {
		t.Error("gas cost must be set even without transfers")
	}
}

func TestSettleIgnoresOrderbookSourcedTransfers(t *testing.T) {
	a := newTestAccountant()
	receipt := &types.Receipt{
		Status:  types.ReceiptStatusSuccessful,
		GasUsed: 100_000,
		Logs: []*types.Log{
			// transfer out of the orderbook must not set the actual price
			transferLog(orderbookAddr, arbAddr, big.NewInt(999)),
		},
	}

	tradeSize, _ := fixedpoint.FromDecimalString("1")
	outcome, err := a.Settle(context.Background(), receipt, testSettleOrder(), tradeSize, testSettleQuote(t))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if outcome.ActualPrice != nil {
		t.Errorf("actual price = %v, want nil for orderbook-sourced transfer", outcome.ActualPrice)
	}
}

func TestSettleSkipsUndecodableTransferLogs(t *testing.T) {
	a := newTestAccountant()
	// Transfer topic with empty data cannot be unpacked; the valid
	// income transfer after it must still be attributed.
	malformed := &types.Log{
		Address: tokenAddr,
		Topics: []common.Hash{
			erc20ABI.Events["Transfer"].ID,
			common.BytesToHash(common.LeftPadBytes(makerAddr.Bytes(), 32)),
			common.BytesToHash(common.LeftPadBytes(arbAddr.Bytes(), 32)),
		},
		Data: nil,
	}
	receipt := &types.Receipt{
		Status:  types.ReceiptStatusSuccessful,
		GasUsed: 100_000,
		Logs: []*types.Log{
			malformed,
			transferLog(arbAddr, botAddr, big.NewInt(42)),
		},
	}

	tradeSize, _ := fixedpoint.FromDecimalString("1")
	outcome, err := a.Settle(context.Background(), receipt, testSettleOrder(), tradeSize, testSettleQuote(t))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if outcome.Income == nil || outcome.Income.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("income = %v, want 42", outcome.Income)
	}
}

func TestSettleSkipsNonTransferLogs(t *testing.T) {
	a := newTestAccountant()
	bogus := &types.Log{
		Address: tokenAddr,
		Topics:  []common.Hash{common.HexToHash("0x01")},
	}
	receipt := &types.Receipt{
		Status:  types.ReceiptStatusSuccessful,
		GasUsed: 100_000,
		Logs: []*types.Log{
			bogus,
			transferLog(arbAddr, botAddr, big.NewInt(42)),
		},
	}

	tradeSize, _ := fixedpoint.FromDecimalString("1")
	outcome, err := a.Settle(context.Background(), receipt, testSettleOrder(), tradeSize, testSettleQuote(t))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if outcome.Income == nil || outcome.Income.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("income = %v, want 42", outcome.Income)
	}
}
