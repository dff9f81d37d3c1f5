// Package domain contains the core domain types for the clearing context.
package domain

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/orderbook-clearer/internal/apperror"
)

// Evaluable locates an order's on-chain pricing expression.
type Evaluable struct {
	Interpreter common.Address
	Store       common.Address
	Expression  common.Address
}

// IO describes one side of an order: a token, its decimals and the
// vault it settles against.
type IO struct {
	Token    common.Address
	Decimals uint8
	VaultID  *big.Int
}

// Order mirrors the on-chain order struct. Clearing always works the
// first valid input against the first valid output.
type Order struct {
	Owner        common.Address
	HandleIO     bool
	Evaluable    Evaluable
	ValidInputs  []IO
	ValidOutputs []IO
}

// Input is the order's buy side.
func (o *Order) Input() IO {
	return o.ValidInputs[0]
}

// Output is the order's sell side.
func (o *Order) Output() IO {
	return o.ValidOutputs[0]
}

// Pair renders the order's trading pair as "SELL/BUY" token addresses.
// The console reporter swaps these for symbols once it has them.
func (o *Order) Pair() string {
	return fmt.Sprintf("%s/%s", o.Output().Token.Hex(), o.Input().Token.Hex())
}

type ioJSON struct {
	Token    string `json:"token"`
	Decimals uint8  `json:"decimals"`
	VaultID  string `json:"vaultId"`
}

type orderJSON struct {
	Owner     string `json:"owner"`
	HandleIO  bool   `json:"handleIO"`
	Evaluable struct {
		Interpreter string `json:"interpreter"`
		Store       string `json:"store"`
		Expression  string `json:"expression"`
	} `json:"evaluable"`
	ValidInputs  []ioJSON `json:"validInputs"`
	ValidOutputs []ioJSON `json:"validOutputs"`
}

// ParseOrders decodes and validates an order list from its JSON form.
func ParseOrders(data []byte) ([]Order, error) {
	var raw []orderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperror.New(apperror.CodeInvalidOrderList, apperror.WithCause(err))
	}

	orders := make([]Order, 0, len(raw))
	for i, r := range raw {
		order, err := r.toDomain()
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInvalidOrderList,
				fmt.Sprintf("order %d", i))
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r orderJSON) toDomain() (Order, error) {
	if !common.IsHexAddress(r.Owner) {
		return Order{}, fmt.Errorf("invalid owner address %q", r.Owner)
	}
	for name, addr := range map[string]string{
		"interpreter": r.Evaluable.Interpreter,
		"store":       r.Evaluable.Store,
		"expression":  r.Evaluable.Expression,
	} {
		if !common.IsHexAddress(addr) {
			return Order{}, fmt.Errorf("invalid evaluable %s address %q", name, addr)
		}
	}
	if len(r.ValidInputs) == 0 || len(r.ValidOutputs) == 0 {
		return Order{}, fmt.Errorf("order must have at least one input and one output")
	}

	inputs, err := parseIOs(r.ValidInputs)
	if err != nil {
		return Order{}, fmt.Errorf("validInputs: %w", err)
	}
	outputs, err := parseIOs(r.ValidOutputs)
	if err != nil {
		return Order{}, fmt.Errorf("validOutputs: %w", err)
	}

	return Order{
		Owner:    common.HexToAddress(r.Owner),
		HandleIO: r.HandleIO,
		Evaluable: Evaluable{
			Interpreter: common.HexToAddress(r.Evaluable.Interpreter),
			Store:       common.HexToAddress(r.Evaluable.Store),
			Expression:  common.HexToAddress(r.Evaluable.Expression),
		},
		ValidInputs:  inputs,
		ValidOutputs: outputs,
	}, nil
}

func parseIOs(raw []ioJSON) ([]IO, error) {
	ios := make([]IO, 0, len(raw))
	for i, r := range raw {
		if !common.IsHexAddress(r.Token) {
			return nil, fmt.Errorf("io %d: invalid token address %q", i, r.Token)
		}
		if r.Decimals > 18 {
			return nil, fmt.Errorf("io %d: unsupported decimals %d", i, r.Decimals)
		}
		// Vault IDs appear both as hex (0x-prefixed) and plain decimal.
		vaultID, ok := new(big.Int).SetString(r.VaultID, 0)
		if !ok || vaultID.Sign() < 0 {
			return nil, fmt.Errorf("io %d: invalid vaultId %q", i, r.VaultID)
		}
		ios = append(ios, IO{
			Token:    common.HexToAddress(r.Token),
			Decimals: r.Decimals,
			VaultID:  vaultID,
		})
	}
	return ios, nil
}
