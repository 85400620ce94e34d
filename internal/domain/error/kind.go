package error

import "errors"

// Kind is the coarse classification reported to callers next to an error code.
type Kind string

const (
	KindInsufficientBalance   Kind = "InsufficientBalance"
	KindAccountNotFound       Kind = "AccountNotFound"
	KindTransactionNotFound   Kind = "TransactionNotFound"
	KindAnalyticsNotFound     Kind = "AnalyticsNotFound"
	KindUnauthorized          Kind = "Unauthorized"
	KindInvalidAmount         Kind = "InvalidAmount"
	KindImportValidationError Kind = "ImportValidationError"
	KindPartialImportFailure  Kind = "PartialImportFailure"
	KindImportBatchNotFound   Kind = "ImportBatchNotFound"
	KindImportInProgress      Kind = "ImportInProgress"
	KindConcurrentUpdate      Kind = "ConcurrentUpdate"
	KindValidation            Kind = "ValidationError"
	KindInternal              Kind = "InternalError"
)

var kindBySentinel = []struct {
	sentinel error
	kind     Kind
}{
	{ErrInsufficientBalance, KindInsufficientBalance},
	{ErrAccountNotFound, KindAccountNotFound},
	{ErrTransactionNotFound, KindTransactionNotFound},
	{ErrAnalyticsNotFound, KindAnalyticsNotFound},
	{ErrNotAuthorizedToModifyTransaction, KindUnauthorized},
	{ErrNotAuthorizedForAccount, KindUnauthorized},
	{ErrInvalidTransactionAmount, KindInvalidAmount},
	{ErrInvalidOpeningBalance, KindInvalidAmount},
	{ErrNoSheet, KindImportValidationError},
	{ErrNoRows, KindImportValidationError},
	{ErrMissingHeaders, KindImportValidationError},
	{ErrUnsupportedFileType, KindImportValidationError},
	{ErrUnreadableFile, KindImportValidationError},
	{ErrFileTooLarge, KindImportValidationError},
	{ErrPartialImportFailure, KindPartialImportFailure},
	{ErrImportBatchNotFound, KindImportBatchNotFound},
	{ErrImportInProgress, KindImportInProgress},
	{ErrImportAlreadyConfirmed, KindImportInProgress},
	{ErrConcurrentAggregateUpdate, KindConcurrentUpdate},
	{ErrInvalidTransactionText, KindValidation},
	{ErrInvalidDateRange, KindValidation},
	{ErrInvalidAccountName, KindValidation},
	{ErrInvalidCurrency, KindValidation},
	{ErrEmptyCategoryName, KindValidation},
	{ErrCategoryNameTooLong, KindValidation},
	{ErrCategoryNotFound, KindValidation},
}

// KindOf classifies err by the first domain sentinel it wraps.
// Errors that wrap no sentinel are KindInternal.
func KindOf(err error) Kind {
	for _, entry := range kindBySentinel {
		if errors.Is(err, entry.sentinel) {
			return entry.kind
		}
	}
	return KindInternal
}
