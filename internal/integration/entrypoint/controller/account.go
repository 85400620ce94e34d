package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/usecase/account"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// AccountController handles account endpoints.
type AccountController struct {
	createUseCase  *account.CreateAccountUseCase
	listUseCase    *account.ListAccountsUseCase
	summaryUseCase *account.GetAccountSummaryUseCase
	deleteUseCase  *account.DeleteAccountUseCase
	verifyUseCase  *ledger.VerifyConsistencyUseCase
}

// NewAccountController creates a new account controller instance.
func NewAccountController(
	createUseCase *account.CreateAccountUseCase,
	listUseCase *account.ListAccountsUseCase,
	summaryUseCase *account.GetAccountSummaryUseCase,
	deleteUseCase *account.DeleteAccountUseCase,
	verifyUseCase *ledger.VerifyConsistencyUseCase,
) *AccountController {
	return &AccountController{
		createUseCase:  createUseCase,
		listUseCase:    listUseCase,
		summaryUseCase: summaryUseCase,
		deleteUseCase:  deleteUseCase,
		verifyUseCase:  verifyUseCase,
	}
}

// Create handles POST /accounts requests.
func (c *AccountController) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), account.CreateAccountInput{
		UserID:         userID,
		Name:           req.Name,
		Currency:       req.Currency,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.OK("Account created", dto.ToAccountResponse(output.Account)))
}

// List handles GET /accounts requests.
func (c *AccountController) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), account.ListAccountsInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	accounts := make([]dto.AccountResponse, len(output.Accounts))
	for i, acc := range output.Accounts {
		accounts[i] = dto.ToAccountResponse(acc)
	}
	ctx.JSON(http.StatusOK, dto.OK("Accounts retrieved", accounts))
}

// Get handles GET /accounts/:id requests.
func (c *AccountController) Get(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	accountID, ok := parseUUIDParam(ctx, "id", "account")
	if !ok {
		return
	}

	output, err := c.summaryUseCase.Execute(ctx.Request.Context(), account.GetAccountSummaryInput{
		AccountID: accountID,
		UserID:    userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.OK("Account retrieved", dto.ToAccountSummaryResponse(output)))
}

// Delete handles DELETE /accounts/:id requests.
func (c *AccountController) Delete(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	accountID, ok := parseUUIDParam(ctx, "id", "account")
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), account.DeleteAccountInput{
		AccountID: accountID,
		UserID:    userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Verify handles GET /accounts/:id/verify requests.
func (c *AccountController) Verify(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	accountID, ok := parseUUIDParam(ctx, "id", "account")
	if !ok {
		return
	}

	output, err := c.verifyUseCase.Execute(ctx.Request.Context(), ledger.VerifyConsistencyInput{
		AccountID: accountID,
		UserID:    &userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	message := "Aggregates are consistent"
	if !output.Consistent {
		message = "Aggregates have drifted"
	}
	ctx.JSON(http.StatusOK, dto.OK(message, dto.ToVerifyAccountResponse(output)))
}
