package domain

// Stage tracks how far a clearing attempt progressed. Stages advance
// strictly forward; an attempt either reaches StageMined or terminates
// in a skip or a failure.
type Stage string

const (
	StageIdle           Stage = "idle"
	StageEvaluated      Stage = "evaluated"
	StageQuoted         Stage = "quoted"
	StagePriceFavorable Stage = "price_favorable"
	StageGasEstimated   Stage = "gas_estimated"
	StageSubmitted      Stage = "submitted"
	StageMined          Stage = "mined"
)

// SkipReason explains why an attempt ended without a transaction.
// Skips are expected outcomes, not errors.
type SkipReason string

const (
	SkipEmptyVault       SkipReason = "empty_vault"
	SkipZeroQuoteAmount  SkipReason = "zero_quote_amount"
	SkipUnfavorablePrice SkipReason = "unfavorable_price"
	SkipNegativeProfit   SkipReason = "negative_profit"
)

// Attempt is the per-order progress record the engine threads through
// a clearing pass.
type Attempt struct {
	Index int
	Pair  string
	Stage Stage
	Skip  SkipReason
	Err   error
}

// NewAttempt starts an attempt at StageIdle.
func NewAttempt(index int, pair string) *Attempt {
	return &Attempt{Index: index, Pair: pair, Stage: StageIdle}
}

// Advance moves the attempt to the next stage.
func (a *Attempt) Advance(stage Stage) {
	a.Stage = stage
}

// SkipWith terminates the attempt with an expected, non-error outcome.
func (a *Attempt) SkipWith(reason SkipReason) {
	a.Skip = reason
}

// FailWith terminates the attempt with an error at its current stage.
func (a *Attempt) FailWith(err error) {
	a.Err = err
}

// Terminal reports whether the attempt can make no further progress.
func (a *Attempt) Terminal() bool {
	return a.Skip != "" || a.Err != nil || a.Stage == StageMined
}
