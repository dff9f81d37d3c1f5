package zeroex

import "fmt"

// quoteResponse is the subset of the swap quote payload the engine
// consumes. All numeric fields arrive as decimal strings.
type quoteResponse struct {
	Price             string `json:"price"`
	GuaranteedPrice   string `json:"guaranteedPrice"`
	BuyTokenToEthRate string `json:"buyTokenToEthRate"`
	GasPrice          string `json:"gasPrice"`
	AllowanceTarget   string `json:"allowanceTarget"`
	Data              string `json:"data"`
}

// apiError is the structured error body returned on non-2xx responses.
type apiError struct {
	Code             int    `json:"code"`
	Reason           string `json:"reason"`
	ValidationErrors []struct {
		Field  string `json:"field"`
		Reason string `json:"reason"`
	} `json:"validationErrors"`
}

func (e *apiError) String() string {
	msg := fmt.Sprintf("code=%d reason=%q", e.Code, e.Reason)
	for _, v := range e.ValidationErrors {
		msg += fmt.Sprintf(" field=%s(%s)", v.Field, v.Reason)
	}
	return msg
}
