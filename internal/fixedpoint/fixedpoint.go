// Package fixedpoint provides 18-decimal fixed-point arithmetic on big.Int.
// The core never touches floating point; decimal.Decimal is only used at
// boundaries (parsing quote strings, display).
package fixedpoint

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals is the number of decimals of the internal fixed-point representation.
const Decimals = 18

// Common errors
var (
	ErrNilValue            = errors.New("fixedpoint: nil value")
	ErrUnsupportedDecimals = errors.New("fixedpoint: token decimals exceed 18")
	ErrDivisionByZero      = errors.New("fixedpoint: division by zero")
)

var one = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// One returns 1.0 in 18-decimal fixed point (10^18) as a fresh copy.
func One() *big.Int {
	return new(big.Int).Set(one)
}

// MaxUint256 returns 2^256 - 1, the maximum representable ratio.
func MaxUint256() *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	return max.Sub(max, big.NewInt(1))
}

// ScaleUp converts an amount from a token's native decimals to 18-decimal
// fixed point by exact integer scaling. Decimals above 18 are a domain error.
func ScaleUp(amount *big.Int, decimals uint8) (*big.Int, error) {
	if amount == nil {
		return nil, ErrNilValue
	}
	if decimals > Decimals {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDecimals, decimals)
	}
	factor := pow10(Decimals - decimals)
	return new(big.Int).Mul(amount, factor), nil
}

// ScaleDown converts an 18-decimal fixed-point amount back to a token's
// native decimals. Division truncates toward zero.
func ScaleDown(amount *big.Int, decimals uint8) (*big.Int, error) {
	if amount == nil {
		return nil, ErrNilValue
	}
	if decimals > Decimals {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDecimals, decimals)
	}
	factor := pow10(Decimals - decimals)
	return new(big.Int).Quo(amount, factor), nil
}

// Mul multiplies two 18-decimal fixed-point values: x * y / 10^18.
// Truncates toward zero.
func Mul(x, y *big.Int) *big.Int {
	p := new(big.Int).Mul(x, y)
	return p.Quo(p, one)
}

// Div divides two 18-decimal fixed-point values: x * 10^18 / y.
// Truncates toward zero.
func Div(x, y *big.Int) (*big.Int, error) {
	if y == nil || y.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	p := new(big.Int).Mul(x, one)
	return p.Quo(p, y), nil
}

// Min returns the smaller of two values as a fresh copy.
func Min(x, y *big.Int) *big.Int {
	if x.Cmp(y) <= 0 {
		return new(big.Int).Set(x)
	}
	return new(big.Int).Set(y)
}

// FromDecimalString parses a decimal string (e.g. "0.5") into 18-decimal
// fixed point. Digits beyond the 18th decimal place are truncated.
func FromDecimalString(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("fixedpoint: invalid decimal string %q: %w", s, err)
	}
	return d.Shift(Decimals).Truncate(0).BigInt(), nil
}

// Format renders an 18-decimal fixed-point value as a decimal string.
// Display only, never feed the result back into arithmetic.
func Format(x *big.Int) string {
	if x == nil {
		return "0"
	}
	return decimal.NewFromBigInt(x, -Decimals).String()
}

// FormatUnits renders a native-decimals amount as a decimal string.
func FormatUnits(x *big.Int, decimals uint8) string {
	if x == nil {
		return "0"
	}
	return decimal.NewFromBigInt(x, -int32(decimals)).String()
}

func pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
