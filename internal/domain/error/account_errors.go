package error

import "errors"

// Account domain errors.
var (
	// ErrAccountNotFound is returned when an account is not found in the system.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAccountName is returned when the account name is empty or too long.
	ErrInvalidAccountName = errors.New("invalid account name")

	// ErrInvalidOpeningBalance is returned when the opening balance is negative or has more than two decimals.
	ErrInvalidOpeningBalance = errors.New("invalid opening balance")

	// ErrInvalidCurrency is returned when the currency is not a known ISO 4217 code.
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrNotAuthorizedForAccount is returned when a user accesses an account they do not own.
	ErrNotAuthorizedForAccount = errors.New("not authorized for account")
)

// AccountErrorCode defines error codes for account errors.
// Format: ACC-XXYYYY where XX is category and YYYY is specific error.
type AccountErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAccountName    AccountErrorCode = "ACC-010001"
	ErrCodeInvalidOpeningBalance AccountErrorCode = "ACC-010002"
	ErrCodeInvalidCurrency       AccountErrorCode = "ACC-010003"

	// Lookup and authorization errors (02XXXX)
	ErrCodeAccountNotFound      AccountErrorCode = "ACC-020001"
	ErrCodeNotAuthorizedAccount AccountErrorCode = "ACC-020002"

	// Infrastructure errors (09XXXX)
	ErrCodeAccountInternal AccountErrorCode = "ACC-090001"
)

// AccountError represents an account error with code and message.
type AccountError struct {
	Code    AccountErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AccountError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AccountError) Unwrap() error {
	return e.Err
}

// NewAccountError creates a new AccountError with the given code and message.
func NewAccountError(code AccountErrorCode, message string, err error) *AccountError {
	return &AccountError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
