package model

// Validation rule codes. Errors block execution; warnings never do.
const (
	ErrNoPayments          = "NO_PAYMENTS"
	ErrInsufficientBalance = "INSUFFICIENT_BALANCE"

	WarnDuplicateAddress = "DUPLICATE_ADDRESS"
	WarnInvalidAmount    = "INVALID_AMOUNT"
	WarnLargeAmount      = "LARGE_AMOUNT"
	WarnSmallAmount      = "SMALL_AMOUNT"
	WarnMissingMemo      = "MISSING_MEMO"
)

// ValidationResult is the side artifact of validating an instruction against
// an available balance. Valid is true iff Errors is empty; warnings are
// informational and never affect Valid.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Errors   []ValidationError   `json:"errors"`
	Warnings []ValidationWarning `json:"warnings"`
}

type ValidationError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	PaymentID string `json:"paymentId,omitempty"`
	Field     string `json:"field,omitempty"`
}

type ValidationWarning struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	PaymentID string `json:"paymentId,omitempty"`
}
