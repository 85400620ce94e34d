package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
)

const dateLayout = "2006-01-02"

var statusByKind = map[domainerror.Kind]int{
	domainerror.KindInsufficientBalance:   http.StatusUnprocessableEntity,
	domainerror.KindAccountNotFound:       http.StatusNotFound,
	domainerror.KindTransactionNotFound:   http.StatusNotFound,
	domainerror.KindAnalyticsNotFound:     http.StatusNotFound,
	domainerror.KindImportBatchNotFound:   http.StatusNotFound,
	domainerror.KindUnauthorized:          http.StatusForbidden,
	domainerror.KindInvalidAmount:         http.StatusBadRequest,
	domainerror.KindImportValidationError: http.StatusBadRequest,
	domainerror.KindValidation:            http.StatusBadRequest,
	domainerror.KindPartialImportFailure:  http.StatusUnprocessableEntity,
	domainerror.KindImportInProgress:      http.StatusConflict,
	domainerror.KindConcurrentUpdate:      http.StatusConflict,
}

// respondError writes the envelope for a use case error.
func respondError(ctx *gin.Context, err error) {
	status, response := describeError(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err,
		)
	}
	ctx.JSON(status, response)
}

// describeError maps err to a status and envelope.
// Coded domain errors keep their code and message; anything else is a 500
// with a generic message.
func describeError(err error) (int, dto.Response) {
	kind := domainerror.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	var (
		ledgerErr   *domainerror.LedgerError
		accountErr  *domainerror.AccountError
		importErr   *domainerror.ImportError
		categoryErr *domainerror.CategoryError
	)

	response := dto.Fail("An unexpected error occurred", "", string(kind))
	switch {
	case errors.As(err, &ledgerErr):
		response.Message, response.Code = ledgerErr.Message, string(ledgerErr.Code)
		if ledgerErr.Code == domainerror.ErrCodeMissingTransactionField {
			status, response.Kind = http.StatusBadRequest, string(domainerror.KindValidation)
		}
	case errors.As(err, &accountErr):
		response.Message, response.Code = accountErr.Message, string(accountErr.Code)
	case errors.As(err, &importErr):
		response.Message, response.Code = importErr.Message, string(importErr.Code)
		if len(importErr.RowErrors) > 0 {
			response.Data = dto.ToRowErrorResponses(importErr.RowErrors)
		}
		if importErr.Code == domainerror.ErrCodeFileTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
	case errors.As(err, &categoryErr):
		response.Message, response.Code = categoryErr.Message, string(categoryErr.Code)
	}

	if status >= http.StatusInternalServerError {
		response.Message = "An unexpected error occurred"
	}
	return status, response
}

// badRequest writes a 400 envelope for malformed input.
func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, dto.Fail(message, "", string(domainerror.KindValidation)))
}

// parseUUIDParam parses a path parameter, writing a 400 on failure.
func parseUUIDParam(ctx *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		badRequest(ctx, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user, writing a 401 when absent.
func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.Fail(
			"User not authenticated",
			string(domainerror.ErrCodeMissingToken),
			string(domainerror.KindUnauthorized),
		))
		return uuid.Nil, false
	}
	return userID, true
}

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
