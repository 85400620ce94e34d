// Package error defines domain-specific errors for the ledger service.
package error

import "errors"

// Ledger domain errors.
var (
	// ErrInsufficientBalance is returned when an operation would drive an account balance negative.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrTransactionNotFound is returned when a transaction is not found in the system.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAnalyticsNotFound is returned when an account has no analytics record.
	ErrAnalyticsNotFound = errors.New("analytics not found for account")

	// ErrNotAuthorizedToModifyTransaction is returned when a user other than the creator edits or deletes a transaction.
	ErrNotAuthorizedToModifyTransaction = errors.New("not authorized to modify transaction")

	// ErrInvalidTransactionAmount is returned when the amount is not positive or has more than two decimals.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrInvalidTransactionText is returned when the transaction text is empty or too long.
	ErrInvalidTransactionText = errors.New("invalid transaction text")

	// ErrInvalidDateRange is returned when a range query has its bounds reversed.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrConcurrentAggregateUpdate is returned when the account row changed between read and write.
	ErrConcurrentAggregateUpdate = errors.New("account aggregates were modified concurrently")
)

// LedgerErrorCode defines error codes for ledger errors.
// Format: LDG-XXYYYY where XX is category and YYYY is specific error.
type LedgerErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAmount           LedgerErrorCode = "LDG-010001"
	ErrCodeInvalidTransactionText  LedgerErrorCode = "LDG-010002"
	ErrCodeInvalidDateRange        LedgerErrorCode = "LDG-010003"
	ErrCodeMissingTransactionField LedgerErrorCode = "LDG-010004"

	// Lookup and authorization errors (02XXXX)
	ErrCodeTransactionNotFound    LedgerErrorCode = "LDG-020001"
	ErrCodeAnalyticsNotFound      LedgerErrorCode = "LDG-020002"
	ErrCodeLedgerAccountNotFound  LedgerErrorCode = "LDG-020003"
	ErrCodeNotAuthorizedLedger    LedgerErrorCode = "LDG-020004"
	ErrCodeLedgerCategoryNotFound LedgerErrorCode = "LDG-020005"

	// Balance rule errors (03XXXX)
	ErrCodeInsufficientBalance LedgerErrorCode = "LDG-030001"

	// Concurrency and infrastructure errors (09XXXX)
	ErrCodeConcurrentUpdate LedgerErrorCode = "LDG-090001"
	ErrCodeLedgerInternal   LedgerErrorCode = "LDG-090002"
)

// LedgerError represents a ledger error with code and message.
type LedgerError struct {
	Code    LedgerErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError with the given code and message.
func NewLedgerError(code LedgerErrorCode, message string, err error) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
