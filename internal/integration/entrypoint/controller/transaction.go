// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	listUseCase   *ledger.ListTransactionsUseCase
	createUseCase *ledger.CreateTransactionUseCase
	editUseCase   *ledger.EditTransactionUseCase
	deleteUseCase *ledger.DeleteTransactionUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	listUseCase *ledger.ListTransactionsUseCase,
	createUseCase *ledger.CreateTransactionUseCase,
	editUseCase *ledger.EditTransactionUseCase,
	deleteUseCase *ledger.DeleteTransactionUseCase,
) *TransactionController {
	return &TransactionController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		editUseCase:   editUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /accounts/:id/transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	accountID, ok := parseUUIDParam(ctx, "id", "account")
	if !ok {
		return
	}

	input := ledger.ListTransactionsInput{
		AccountID: accountID,
		UserID:    userID,
	}

	if startDateStr := ctx.Query("startDate"); startDateStr != "" {
		startDate, err := parseDate(startDateStr)
		if err != nil {
			badRequest(ctx, "Invalid startDate format. Use YYYY-MM-DD")
			return
		}
		input.StartDate = &startDate
	}
	if endDateStr := ctx.Query("endDate"); endDateStr != "" {
		endDate, err := parseDate(endDateStr)
		if err != nil {
			badRequest(ctx, "Invalid endDate format. Use YYYY-MM-DD")
			return
		}
		// Include the whole end day.
		endDate = endDate.Add(24*time.Hour - time.Nanosecond)
		input.EndDate = &endDate
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.OK("Transactions retrieved", dto.ToTransactionListResponse(output)))
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	input := ledger.CreateTransactionInput{
		AccountID: uuid.MustParse(req.AccountID),
		UserID:    userID,
		Text:      req.Text,
		Amount:    req.Amount,
		IsIncome:  entity.TransactionType(req.Type) == entity.TransactionTypeIncome,
		Transfer:  req.Transfer,
	}

	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			badRequest(ctx, "Invalid date format. Use YYYY-MM-DD")
			return
		}
		input.Date = date
	}

	if req.CategoryID != nil && *req.CategoryID != "" {
		id := uuid.MustParse(*req.CategoryID)
		input.CategoryID = &id
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.OK("Transaction created", dto.TransactionResultResponse{
		Transaction: dto.ToTransactionResponse(output.Transaction),
		Aggregate:   dto.ToAggregateResponse(output.Aggregate),
	}))
}

// Edit handles PATCH /transactions/:id requests.
func (c *TransactionController) Edit(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := parseUUIDParam(ctx, "id", "transaction")
	if !ok {
		return
	}

	var req dto.EditTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	input := ledger.EditTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
		Text:          req.Text,
		Amount:        req.Amount,
		ClearCategory: req.ClearCategory,
		Transfer:      req.Transfer,
	}

	if req.Type != nil {
		isIncome := entity.TransactionType(*req.Type) == entity.TransactionTypeIncome
		input.IsIncome = &isIncome
	}

	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			badRequest(ctx, "Invalid date format. Use YYYY-MM-DD")
			return
		}
		input.Date = &date
	}

	if req.CategoryID != nil && *req.CategoryID != "" {
		id := uuid.MustParse(*req.CategoryID)
		input.CategoryID = &id
	}

	output, err := c.editUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.OK("Transaction updated", dto.TransactionResultResponse{
		Transaction: dto.ToTransactionResponse(output.Transaction),
		Aggregate:   dto.ToAggregateResponse(output.Aggregate),
	}))
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := parseUUIDParam(ctx, "id", "transaction")
	if !ok {
		return
	}

	output, err := c.deleteUseCase.Execute(ctx.Request.Context(), ledger.DeleteTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	message := "Transaction deleted"
	if output.AlreadyDeleted {
		message = "Transaction was already deleted"
	}
	ctx.JSON(http.StatusOK, dto.OK(message, dto.DeleteTransactionResponse{
		TransactionID:  output.TransactionID.String(),
		AlreadyDeleted: output.AlreadyDeleted,
		Aggregate:      dto.ToAggregateResponse(output.Aggregate),
	}))
}
