package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeUnknownNetwork     Code = "UNKNOWN_NETWORK"
	CodeInvalidAddress     Code = "INVALID_ADDRESS"
	CodeInvalidPrivateKey  Code = "INVALID_PRIVATE_KEY"
	CodeInvalidOrderList   Code = "INVALID_ORDER_LIST"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Clearing-specific error codes
const (
	// Chain access errors
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"
	CodeChainIDMismatch          Code = "CHAIN_ID_MISMATCH"
	CodeContractCallFailed       Code = "CONTRACT_CALL_FAILED"

	// Per-order clearing stages
	CodeVaultBalanceFailed  Code = "VAULT_BALANCE_FAILED"
	CodeEvalFailed          Code = "EVAL_FAILED"
	CodeMalformedEvalResult Code = "MALFORMED_EVAL_RESULT"
	CodeQuoteFetchFailed    Code = "QUOTE_FETCH_FAILED"
	CodeInvalidQuote        Code = "INVALID_QUOTE"
	CodeGasEstimationFailed Code = "GAS_ESTIMATION_FAILED"
	CodeSubmissionFailed    Code = "SUBMISSION_FAILED"
	CodeTransactionFailed   Code = "TRANSACTION_FAILED"
	CodeReceiptParseFailed  Code = "RECEIPT_PARSE_FAILED"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
