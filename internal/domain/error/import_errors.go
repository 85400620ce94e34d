package error

import "errors"

// Import domain errors.
var (
	// ErrNoSheet is returned when a workbook contains no worksheet.
	ErrNoSheet = errors.New("spreadsheet has no sheet")

	// ErrNoRows is returned when a spreadsheet has a header but no data rows, or nothing at all.
	ErrNoRows = errors.New("spreadsheet has no rows")

	// ErrMissingHeaders is returned when one or more required columns are absent.
	ErrMissingHeaders = errors.New("spreadsheet is missing required headers")

	// ErrUnsupportedFileType is returned for uploads that are neither xlsx nor csv.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrUnreadableFile is returned when an upload cannot be decoded in its declared format.
	ErrUnreadableFile = errors.New("file could not be read")

	// ErrFileTooLarge is returned when an upload exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrPartialImportFailure is returned when at least one staged row failed coercion or category resolution.
	ErrPartialImportFailure = errors.New("one or more rows could not be staged")

	// ErrImportBatchNotFound is returned when a staged batch does not exist or has expired.
	ErrImportBatchNotFound = errors.New("import batch not found")

	// ErrImportInProgress is returned when another confirmation of the same batch holds the lock.
	ErrImportInProgress = errors.New("import confirmation already in progress")

	// ErrImportAlreadyConfirmed is returned when a batch has already been fully imported.
	ErrImportAlreadyConfirmed = errors.New("import batch already confirmed")
)

// ImportErrorCode defines error codes for import errors.
// Format: IMP-XXYYYY where XX is category and YYYY is specific error.
type ImportErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeImportValidation     ImportErrorCode = "IMP-010001"
	ErrCodeNoSheet              ImportErrorCode = "IMP-010002"
	ErrCodeNoRows               ImportErrorCode = "IMP-010003"
	ErrCodeMissingHeaders       ImportErrorCode = "IMP-010004"
	ErrCodeUnsupportedFileType  ImportErrorCode = "IMP-010005"
	ErrCodeFileTooLarge         ImportErrorCode = "IMP-010006"
	ErrCodePartialImportFailure ImportErrorCode = "IMP-010007"

	// State errors (02XXXX)
	ErrCodeImportBatchNotFound    ImportErrorCode = "IMP-020001"
	ErrCodeImportInProgress       ImportErrorCode = "IMP-020002"
	ErrCodeImportAlreadyConfirmed ImportErrorCode = "IMP-020003"
	ErrCodeNotAuthorizedImport    ImportErrorCode = "IMP-020004"

	// Infrastructure errors (09XXXX)
	ErrCodeImportInternal ImportErrorCode = "IMP-090001"
)

// ImportError represents an import error with code and message.
type ImportError struct {
	Code    ImportErrorCode
	Message string
	Err     error
	// RowErrors lists per-row failures, keyed by 1-based spreadsheet row number.
	RowErrors map[int]string
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError with the given code and message.
func NewImportError(code ImportErrorCode, message string, err error) *ImportError {
	return &ImportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
