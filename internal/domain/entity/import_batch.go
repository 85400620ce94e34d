package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StagedRowStatus tracks a staged row through confirmation.
type StagedRowStatus string

const (
	StagedRowPending StagedRowStatus = "pending"
	StagedRowApplied StagedRowStatus = "applied"
	StagedRowFailed  StagedRowStatus = "failed"
)

// StagedRow is a parsed spreadsheet row awaiting confirmation.
// TransactionID is assigned at staging time so replays are idempotent.
type StagedRow struct {
	RowNumber     int             `json:"rowNumber"`
	TransactionID uuid.UUID       `json:"transactionId"`
	Text          string          `json:"text"`
	Amount        decimal.Decimal `json:"amount"`
	IsIncome      bool            `json:"isIncome"`
	Transfer      string          `json:"transfer"`
	CategoryName  string          `json:"categoryName"`
	CategoryID    *uuid.UUID      `json:"categoryId,omitempty"`
	Date          time.Time       `json:"date"`
	Status        StagedRowStatus `json:"status"`
	Error         string          `json:"error,omitempty"`
}

// ImportBatch is the transient staging record of one uploaded spreadsheet.
type ImportBatch struct {
	ID           uuid.UUID    `json:"id"`
	AccountID    uuid.UUID    `json:"accountId"`
	OwnerID      uuid.UUID    `json:"ownerId"`
	FileName     string       `json:"fileName"`
	Rows         []*StagedRow `json:"rows"`
	TotalRecords int          `json:"totalRecords"`
	ErrorRecords int          `json:"errorRecords"`
	IsImported   bool         `json:"isImported"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// NewImportBatch creates an ImportBatch for the given rows.
func NewImportBatch(accountID, ownerID uuid.UUID, fileName string, rows []*StagedRow, errorRecords int) *ImportBatch {
	return &ImportBatch{
		ID:           uuid.New(),
		AccountID:    accountID,
		OwnerID:      ownerID,
		FileName:     fileName,
		Rows:         rows,
		TotalRecords: len(rows),
		ErrorRecords: errorRecords,
		CreatedAt:    time.Now().UTC(),
	}
}

// ImportProgress reports how far a confirmation got.
type ImportProgress struct {
	BatchID   uuid.UUID
	Applied   int
	Skipped   int
	FailedRow int // Zero when no row failed
	FailedErr error
	Remaining int
	Cancelled bool
	Completed bool
}
