package ethereum

import (
	"bytes"
	"math/big"
	"reflect"
	"testing"

	"github.com/fd1az/orderbook-clearer/business/clearing/domain"
	quoting "github.com/fd1az/orderbook-clearer/business/quoting/domain"
	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
)

// tupleField extracts a named field from a tuple the ABI decoder
// rebuilt as an anonymous struct.
func tupleField(t *testing.T, tuple interface{}, name string) *big.Int {
	t.Helper()
	field := reflect.ValueOf(tuple).FieldByName(name)
	if !field.IsValid() {
		t.Fatalf("tuple field %s missing", name)
	}
	value, ok := field.Interface().(*big.Int)
	if !ok {
		t.Fatalf("tuple field %s is %T, want *big.Int", name, field.Interface())
	}
	return value
}

func TestPackArbCall(t *testing.T) {
	order := &domain.Order{
		Owner:    makerAddr,
		HandleIO: true,
		Evaluable: domain.Evaluable{
			Interpreter: orderbookAddr,
			Store:       arbAddr,
			Expression:  botAddr,
		},
		ValidInputs: []domain.IO{
			{Token: tokenAddr, Decimals: 6, VaultID: big.NewInt(1)},
		},
		ValidOutputs: []domain.IO{
			{Token: tokenAddr, Decimals: 18, VaultID: big.NewInt(2)},
		},
	}
	quote := &quoting.Quote{
		GasPrice:        big.NewInt(1),
		AllowanceTarget: botAddr,
		Data:            []byte{0xd9, 0x62, 0x7a, 0xa4},
	}

	data, err := packArbCall(order, big.NewInt(500_000), quote)
	if err != nil {
		t.Fatalf("packArbCall: %v", err)
	}

	method, ok := arbABI.Methods["arb"]
	if !ok {
		t.Fatal("arb method missing from ABI")
	}
	if !bytes.Equal(data[:4], method.ID) {
		t.Errorf("selector = %x, want %x", data[:4], method.ID)
	}

	// Unpack the arguments back to verify the exact-fill fields.
	values, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		t.Fatalf("unpack packed call: %v", err)
	}
	if len(values) != 4 {
		t.Fatalf("got %d arguments, want 4", len(values))
	}

	minimumSenderOutput, ok := values[1].(*big.Int)
	if !ok || minimumSenderOutput.Sign() != 0 {
		t.Errorf("minimumSenderOutput = %v, want 0", values[1])
	}

	// Exact fill: minimum and maximum input both equal the trade size,
	// and the ratio cap is wide open.
	takeOrders := values[0]
	tradeSize := big.NewInt(500_000)
	if got := tupleField(t, takeOrders, "MinimumInput"); got.Cmp(tradeSize) != 0 {
		t.Errorf("minimumInput = %s, want %s", got, tradeSize)
	}
	if got := tupleField(t, takeOrders, "MaximumInput"); got.Cmp(tradeSize) != 0 {
		t.Errorf("maximumInput = %s, want %s", got, tradeSize)
	}
	if got := tupleField(t, takeOrders, "MaximumIORatio"); got.Cmp(fixedpoint.MaxUint256()) != 0 {
		t.Errorf("maximumIORatio = %s, want max uint256", got)
	}
}
