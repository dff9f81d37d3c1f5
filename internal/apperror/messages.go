package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",
	CodeUnknownNetwork:     "No configuration for this chain id",
	CodeInvalidAddress:     "Invalid contract address",
	CodeInvalidPrivateKey:  "Invalid wallet private key",
	CodeInvalidOrderList:   "Invalid order list",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	// Chain access errors
	CodeEthereumConnectionFailed: "Failed to connect to Ethereum node",
	CodeEthereumRPCError:         "Ethereum RPC call failed",
	CodeChainIDMismatch:          "RPC chain id does not match configuration",
	CodeContractCallFailed:       "Smart contract call failed",

	// Per-order clearing stages
	CodeVaultBalanceFailed:  "Failed to read vault balance",
	CodeEvalFailed:          "Order expression evaluation failed",
	CodeMalformedEvalResult: "Interpreter returned a malformed stack",
	CodeQuoteFetchFailed:    "Failed to fetch swap quote",
	CodeInvalidQuote:        "Invalid quote data",
	CodeGasEstimationFailed: "Gas estimation failed",
	CodeSubmissionFailed:    "Transaction submission failed",
	CodeTransactionFailed:   "Transaction execution failed",
	CodeReceiptParseFailed:  "Failed to parse transaction receipt",

	// Circuit breaker errors
	CodeCircuitOpen: "Circuit breaker is open",
}
