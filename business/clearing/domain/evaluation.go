package domain

import "math/big"

// EvaluationResult holds the two values an order's pricing expression
// produces, both in 18-decimal fixed point.
type EvaluationResult struct {
	// MaxOutput caps how much of the sell token the order will part with.
	MaxOutput *big.Int
	// Ratio is the minimum buy/sell price the order accepts.
	Ratio *big.Int
}
