package ethereum

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/orderbook-clearer/business/clearing/domain"
)

func TestEncodeDispatch(t *testing.T) {
	expression := common.HexToAddress("0x0102030405060708090a0b0c0d0e0f1011121314")
	dispatch := encodeDispatch(expression, 0, 2)

	// low 16 bits: max outputs
	low := new(big.Int).And(dispatch, big.NewInt(0xFFFF))
	if low.Int64() != 2 {
		t.Errorf("maxOutputs bits = %d, want 2", low.Int64())
	}

	// next 16 bits: source index
	source := new(big.Int).Rsh(dispatch, 16)
	source.And(source, big.NewInt(0xFFFF))
	if source.Int64() != 0 {
		t.Errorf("sourceIndex bits = %d, want 0", source.Int64())
	}

	// remaining bits: the expression address
	addr := new(big.Int).Rsh(dispatch, 32)
	if want := new(big.Int).SetBytes(expression.Bytes()); addr.Cmp(want) != 0 {
		t.Errorf("expression bits = %x, want %x", addr, want)
	}
}

func TestEvalContextShape(t *testing.T) {
	e := &Evaluator{
		orderbook: orderbookAddr,
		arb:       arbAddr,
	}
	order := &domain.Order{
		Owner: makerAddr,
		ValidInputs: []domain.IO{
			{Token: tokenAddr, Decimals: 6, VaultID: big.NewInt(7)},
		},
		ValidOutputs: []domain.IO{
			{Token: tokenAddr, Decimals: 18, VaultID: big.NewInt(9)},
		},
	}

	inBal := big.NewInt(123)
	outBal := big.NewInt(456)
	ctx := e.evalContext(order, inBal, outBal)

	if len(ctx) != 5 {
		t.Fatalf("context columns = %d, want 5", len(ctx))
	}
	if got := ctx[0][0]; got.Cmp(addressWord(arbAddr)) != 0 {
		t.Errorf("base caller = %s, want arb address", got)
	}
	if got := ctx[0][1]; got.Cmp(addressWord(orderbookAddr)) != 0 {
		t.Errorf("base contract = %s, want orderbook address", got)
	}
	if got := ctx[1][1]; got.Cmp(addressWord(makerAddr)) != 0 {
		t.Errorf("calling context owner = %s, want maker address", got)
	}

	// input column carries: token, decimals, vault id, balance, diff
	inCol := ctx[3]
	if len(inCol) != 5 {
		t.Fatalf("input column size = %d, want 5", len(inCol))
	}
	if inCol[1].Int64() != 6 {
		t.Errorf("input decimals = %d, want 6", inCol[1].Int64())
	}
	if inCol[2].Cmp(big.NewInt(7)) != 0 {
		t.Errorf("input vault id = %s, want 7", inCol[2])
	}
	if inCol[3].Cmp(inBal) != 0 {
		t.Errorf("input balance = %s, want %s", inCol[3], inBal)
	}

	outCol := ctx[4]
	if outCol[2].Cmp(big.NewInt(9)) != 0 {
		t.Errorf("output vault id = %s, want 9", outCol[2])
	}
	if outCol[3].Cmp(outBal) != 0 {
		t.Errorf("output balance = %s, want %s", outCol[3], outBal)
	}
}
