package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/usecase/importing"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// ImportController handles spreadsheet import endpoints.
type ImportController struct {
	stageUseCase       *importing.StageImportUseCase
	statusUseCase      *importing.GetImportStatusUseCase
	confirmUseCase     *importing.ConfirmImportUseCase
	bulkConfirmUseCase *importing.BulkConfirmImportsUseCase
	maxUploadBytes     int64
}

// NewImportController creates a new import controller instance.
func NewImportController(
	stageUseCase *importing.StageImportUseCase,
	statusUseCase *importing.GetImportStatusUseCase,
	confirmUseCase *importing.ConfirmImportUseCase,
	bulkConfirmUseCase *importing.BulkConfirmImportsUseCase,
	maxUploadBytes int64,
) *ImportController {
	return &ImportController{
		stageUseCase:       stageUseCase,
		statusUseCase:      statusUseCase,
		confirmUseCase:     confirmUseCase,
		bulkConfirmUseCase: bulkConfirmUseCase,
		maxUploadBytes:     maxUploadBytes,
	}
}

// Stage handles POST /accounts/:id/imports requests.
// The spreadsheet is sent as the multipart field "file".
func (c *ImportController) Stage(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	accountID, ok := parseUUIDParam(ctx, "id", "account")
	if !ok {
		return
	}

	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(ctx, c.fileTooLarge())
			return
		}
		badRequest(ctx, "A spreadsheet must be uploaded in the \"file\" field")
		return
	}
	if c.maxUploadBytes > 0 && header.Size > c.maxUploadBytes {
		respondError(ctx, c.fileTooLarge())
		return
	}

	file, err := header.Open()
	if err != nil {
		badRequest(ctx, "Uploaded file could not be opened")
		return
	}
	defer file.Close()

	output, err := c.stageUseCase.Execute(ctx.Request.Context(), importing.StageImportInput{
		AccountID: accountID,
		UserID:    userID,
		FileName:  header.Filename,
		File:      file,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.OK("Import staged", dto.ToStageImportResponse(output)))
}

// Status handles GET /imports/:batchId requests.
func (c *ImportController) Status(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	batchID, ok := parseUUIDParam(ctx, "batchId", "batch")
	if !ok {
		return
	}

	output, err := c.statusUseCase.Execute(ctx.Request.Context(), importing.GetImportStatusInput{
		BatchID: batchID,
		UserID:  userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.OK("Import retrieved", dto.ToImportStatusResponse(output)))
}

// Confirm handles POST /imports/:batchId/confirm requests.
func (c *ImportController) Confirm(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	batchID, ok := parseUUIDParam(ctx, "batchId", "batch")
	if !ok {
		return
	}

	output, err := c.confirmUseCase.Execute(ctx.Request.Context(), importing.ConfirmImportInput{
		BatchID: batchID,
		UserID:  userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	progress := output.Progress
	data := dto.ToImportProgressResponse(progress)
	switch {
	case progress.Completed:
		ctx.JSON(http.StatusOK, dto.OK("Import confirmed", data))
	case progress.FailedErr != nil:
		status, response := describeError(progress.FailedErr)
		if status >= http.StatusInternalServerError {
			status = http.StatusUnprocessableEntity
		}
		response.Data = data
		ctx.JSON(status, response)
	default:
		response := dto.Fail("Import was interrupted; confirm again to resume", "", "")
		response.Data = data
		ctx.JSON(http.StatusAccepted, response)
	}
}

// BulkConfirm handles POST /imports/confirm requests.
func (c *ImportController) BulkConfirm(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.BulkConfirmImportsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	batchIDs := make([]uuid.UUID, len(req.BatchIDs))
	for i, idStr := range req.BatchIDs {
		batchIDs[i] = uuid.MustParse(idStr)
	}

	output, err := c.bulkConfirmUseCase.Execute(ctx.Request.Context(), importing.BulkConfirmImportsInput{
		BatchIDs: batchIDs,
		UserID:   userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	results := make([]dto.BatchResultResponse, len(output.Results))
	for i, result := range output.Results {
		results[i] = toBatchResultResponse(result)
	}
	ctx.JSON(http.StatusOK, dto.OK("Imports processed", results))
}

func (c *ImportController) fileTooLarge() error {
	return domainerror.NewImportError(
		domainerror.ErrCodeFileTooLarge,
		"Uploaded file exceeds the size limit",
		domainerror.ErrFileTooLarge,
	)
}

func toBatchResultResponse(result importing.BatchResult) dto.BatchResultResponse {
	response := dto.BatchResultResponse{BatchID: result.BatchID.String()}
	if result.Err != nil {
		_, envelope := describeError(result.Err)
		response.Message, response.Code, response.Kind = envelope.Message, envelope.Code, envelope.Kind
		return response
	}

	progress := dto.ToImportProgressResponse(result.Output.Progress)
	response.Progress = &progress
	response.Success = result.Output.Progress.Completed
	if result.Output.Progress.FailedErr != nil {
		_, envelope := describeError(result.Output.Progress.FailedErr)
		response.Message, response.Code, response.Kind = envelope.Message, envelope.Code, envelope.Kind
	}
	return response
}
