package dto

import (
	"maps"
	"slices"
	"time"

	"github.com/finance-tracker/ledger/internal/application/usecase/importing"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// StagedRowResponse represents one staged spreadsheet row.
type StagedRowResponse struct {
	RowNumber     int     `json:"rowNumber"`
	TransactionID string  `json:"transactionId"`
	Text          string  `json:"text"`
	Amount        string  `json:"amount"`
	Type          string  `json:"type"`
	Transfer      string  `json:"transfer,omitempty"`
	CategoryName  string  `json:"categoryName"`
	CategoryID    *string `json:"categoryId,omitempty"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	Error         string  `json:"error,omitempty"`
}

// StageImportResponse is the data of a stage response.
type StageImportResponse struct {
	BatchID      string              `json:"batchId"`
	TotalRecords int                 `json:"totalRecords"`
	ErrorRecords int                 `json:"errorRecords"`
	ExpiresAt    time.Time           `json:"expiresAt"`
	Rows         []StagedRowResponse `json:"rows"`
}

// RowErrorResponse reports why one row was rejected.
type RowErrorResponse struct {
	RowNumber int    `json:"rowNumber"`
	Error     string `json:"error"`
}

// ImportProgressResponse reports how far a confirmation got.
type ImportProgressResponse struct {
	BatchID   string `json:"batchId"`
	Applied   int    `json:"applied"`
	Skipped   int    `json:"skipped"`
	FailedRow int    `json:"failedRow,omitempty"`
	Failure   string `json:"failure,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Remaining int    `json:"remaining"`
	Cancelled bool   `json:"cancelled"`
	Completed bool   `json:"completed"`
}

// ImportStatusResponse represents a staged batch with its row status.
type ImportStatusResponse struct {
	BatchID      string              `json:"batchId"`
	AccountID    string              `json:"accountId"`
	FileName     string              `json:"fileName"`
	TotalRecords int                 `json:"totalRecords"`
	ErrorRecords int                 `json:"errorRecords"`
	IsImported   bool                `json:"isImported"`
	Pending      int                 `json:"pending"`
	Applied      int                 `json:"applied"`
	Failed       int                 `json:"failed"`
	Rows         []StagedRowResponse `json:"rows"`
}

// BulkConfirmImportsRequest lists the batches to confirm in one call.
type BulkConfirmImportsRequest struct {
	BatchIDs []string `json:"batchIds" binding:"required,min=1,dive,uuid"`
}

// BatchResultResponse is the outcome of one batch in a bulk confirmation.
type BatchResultResponse struct {
	BatchID  string                  `json:"batchId"`
	Success  bool                    `json:"success"`
	Message  string                  `json:"message,omitempty"`
	Code     string                  `json:"code,omitempty"`
	Kind     string                  `json:"kind,omitempty"`
	Progress *ImportProgressResponse `json:"progress,omitempty"`
}

// ToStagedRowResponses converts staged rows to DTOs.
func ToStagedRowResponses(rows []*entity.StagedRow) []StagedRowResponse {
	out := make([]StagedRowResponse, len(rows))
	for i, row := range rows {
		out[i] = StagedRowResponse{
			RowNumber:     row.RowNumber,
			TransactionID: row.TransactionID.String(),
			Text:          row.Text,
			Amount:        row.Amount.StringFixed(2),
			Type:          string(entity.TypeOf(row.IsIncome)),
			Transfer:      row.Transfer,
			CategoryName:  row.CategoryName,
			Date:          row.Date.Format("2006-01-02"),
			Status:        string(row.Status),
			Error:         row.Error,
		}
		if row.CategoryID != nil {
			categoryID := row.CategoryID.String()
			out[i].CategoryID = &categoryID
		}
	}
	return out
}

// ToStageImportResponse converts a StageImportOutput to a StageImportResponse DTO.
func ToStageImportResponse(output *importing.StageImportOutput) StageImportResponse {
	return StageImportResponse{
		BatchID:      output.BatchID.String(),
		TotalRecords: output.TotalRecords,
		ErrorRecords: output.ErrorRecords,
		ExpiresAt:    output.ExpiresAt,
		Rows:         ToStagedRowResponses(output.Rows),
	}
}

// ToRowErrorResponses flattens per-row errors in row order.
func ToRowErrorResponses(rowErrors map[int]string) []RowErrorResponse {
	rows := slices.Sorted(maps.Keys(rowErrors))
	out := make([]RowErrorResponse, len(rows))
	for i, row := range rows {
		out[i] = RowErrorResponse{RowNumber: row, Error: rowErrors[row]}
	}
	return out
}

// ToImportProgressResponse converts an ImportProgress to an ImportProgressResponse DTO.
func ToImportProgressResponse(progress entity.ImportProgress) ImportProgressResponse {
	response := ImportProgressResponse{
		BatchID:   progress.BatchID.String(),
		Applied:   progress.Applied,
		Skipped:   progress.Skipped,
		FailedRow: progress.FailedRow,
		Remaining: progress.Remaining,
		Cancelled: progress.Cancelled,
		Completed: progress.Completed,
	}
	if progress.FailedErr != nil {
		response.Failure = progress.FailedErr.Error()
		response.Kind = string(domainerror.KindOf(progress.FailedErr))
	}
	return response
}

// ToImportStatusResponse converts a GetImportStatusOutput to an ImportStatusResponse DTO.
func ToImportStatusResponse(output *importing.GetImportStatusOutput) ImportStatusResponse {
	batch := output.Batch
	return ImportStatusResponse{
		BatchID:      batch.ID.String(),
		AccountID:    batch.AccountID.String(),
		FileName:     batch.FileName,
		TotalRecords: batch.TotalRecords,
		ErrorRecords: batch.ErrorRecords,
		IsImported:   batch.IsImported,
		Pending:      output.Pending,
		Applied:      output.Applied,
		Failed:       output.Failed,
		Rows:         ToStagedRowResponses(batch.Rows),
	}
}
