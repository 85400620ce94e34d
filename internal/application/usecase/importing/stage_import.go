package importing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/category"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// DefaultStagingTTL is how long a staged batch waits for confirmation.
const DefaultStagingTTL = 24 * time.Hour

// StageImportInput represents an uploaded spreadsheet.
type StageImportInput struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
	FileName  string
	File      io.Reader
}

// StageImportOutput describes the staged batch.
type StageImportOutput struct {
	BatchID      uuid.UUID
	TotalRecords int
	ErrorRecords int
	ExpiresAt    time.Time
	Rows         []*entity.StagedRow
}

// StageImportUseCase parses a spreadsheet, resolves its categories and stores
// the rows in the staging store until they are confirmed.
type StageImportUseCase struct {
	parsers     adapter.ParserRegistry
	accountRepo adapter.AccountRepository
	uow         adapter.UnitOfWork
	resolver    *category.ResolveCategoryUseCase
	store       adapter.ImportBatchStore
	ttl         time.Duration
}

// NewStageImportUseCase creates a new StageImportUseCase instance.
func NewStageImportUseCase(
	parsers adapter.ParserRegistry,
	accountRepo adapter.AccountRepository,
	uow adapter.UnitOfWork,
	resolver *category.ResolveCategoryUseCase,
	store adapter.ImportBatchStore,
	ttl time.Duration,
) *StageImportUseCase {
	if ttl <= 0 {
		ttl = DefaultStagingTTL
	}
	return &StageImportUseCase{
		parsers:     parsers,
		accountRepo: accountRepo,
		uow:         uow,
		resolver:    resolver,
		store:       store,
		ttl:         ttl,
	}
}

// Execute stages the upload. Any row that fails coercion or category
// resolution rejects the whole file and nothing is written.
func (uc *StageImportUseCase) Execute(ctx context.Context, input StageImportInput) (*StageImportOutput, error) {
	parser, err := uc.parsers.ParserFor(input.FileName)
	if err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeUnsupportedFileType,
			"Only .xlsx and .csv files are supported",
			err,
		)
	}

	sheet, err := parser.Parse(ctx, input.File)
	if err != nil {
		return nil, parseError(err)
	}

	columns, missing := matchColumns(sheet.Headers)
	if len(missing) > 0 {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeMissingHeaders,
			"Missing required columns: "+strings.Join(missing, ", "),
			domainerror.ErrMissingHeaders,
		)
	}

	if err := uc.checkAccount(ctx, input.AccountID, input.UserID); err != nil {
		return nil, err
	}

	rows := make([]*entity.StagedRow, 0, len(sheet.Rows))
	rowErrors := make(map[int]string)
	for _, sheetRow := range sheet.Rows {
		row, err := coerceRow(sheetRow.Number, sheetRow.Values, columns)
		if err != nil {
			rowErrors[sheetRow.Number] = err.Error()
			continue
		}
		rows = append(rows, row)
	}
	if len(rowErrors) > 0 {
		return nil, partialFailure(len(sheet.Rows), rowErrors)
	}

	if err := uc.resolveCategories(ctx, rows, input.UserID); err != nil {
		return nil, err
	}

	for _, row := range rows {
		row.TransactionID = uuid.New()
	}

	batch := entity.NewImportBatch(input.AccountID, input.UserID, input.FileName, rows, 0)
	if err := uc.store.Save(ctx, batch, uc.ttl); err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportInternal,
			"Failed to stage import",
			fmt.Errorf("failed to save batch: %w", err),
		)
	}

	slog.Info("Import staged",
		"batch_id", batch.ID,
		"account_id", input.AccountID,
		"file_name", input.FileName,
		"total_records", batch.TotalRecords,
	)

	return &StageImportOutput{
		BatchID:      batch.ID,
		TotalRecords: batch.TotalRecords,
		ErrorRecords: batch.ErrorRecords,
		ExpiresAt:    batch.CreatedAt.Add(uc.ttl),
		Rows:         rows,
	}, nil
}

func (uc *StageImportUseCase) checkAccount(ctx context.Context, accountID, userID uuid.UUID) error {
	account, err := uc.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domainerror.ErrAccountNotFound) {
			return domainerror.NewImportError(
				domainerror.ErrCodeImportValidation,
				"Account not found",
				domainerror.ErrAccountNotFound,
			)
		}
		return domainerror.NewImportError(
			domainerror.ErrCodeImportInternal,
			"Failed to load account",
			err,
		)
	}
	if !account.IsOwnedBy(userID) {
		return domainerror.NewImportError(
			domainerror.ErrCodeNotAuthorizedImport,
			"Not authorized to import into this account",
			domainerror.ErrNotAuthorizedForAccount,
		)
	}
	return nil
}

// resolveCategories resolves every distinct category name in one database
// transaction. A failure rolls back every category created for this file.
func (uc *StageImportUseCase) resolveCategories(ctx context.Context, rows []*entity.StagedRow, ownerID uuid.UUID) error {
	return uc.uow.Do(ctx, func(ctx context.Context, repos adapter.TxRepositories) error {
		resolver := uc.resolver.WithRepository(repos.Categories)
		resolved := make(map[string]uuid.UUID)
		rowErrors := make(map[int]string)

		for _, row := range rows {
			key := entity.NormalizeCategoryName(row.CategoryName)
			if id, ok := resolved[key]; ok {
				row.CategoryID = &id
				continue
			}

			out, err := resolver.Execute(ctx, category.ResolveCategoryInput{
				Name:    row.CategoryName,
				OwnerID: ownerID,
			})
			if err != nil {
				var categoryErr *domainerror.CategoryError
				if errors.As(err, &categoryErr) && categoryErr.Code == domainerror.ErrCodeCategoryInternal {
					return domainerror.NewImportError(
						domainerror.ErrCodeImportInternal,
						"Failed to resolve categories",
						err,
					)
				}
				rowErrors[row.RowNumber] = err.Error()
				continue
			}

			id := out.Category.ID
			resolved[key] = id
			row.CategoryID = &id
		}

		if len(rowErrors) > 0 {
			return partialFailure(len(rows), rowErrors)
		}
		return nil
	})
}

func parseError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, domainerror.ErrNoSheet):
		return domainerror.NewImportError(domainerror.ErrCodeNoSheet, "No sheet found in the workbook", err)
	case errors.Is(err, domainerror.ErrNoRows):
		return domainerror.NewImportError(domainerror.ErrCodeNoRows, "No rows found in the file", err)
	default:
		return domainerror.NewImportError(
			domainerror.ErrCodeImportValidation,
			"The file could not be read",
			fmt.Errorf("%w: %v", domainerror.ErrUnreadableFile, err),
		)
	}
}

func partialFailure(total int, rowErrors map[int]string) error {
	importErr := domainerror.NewImportError(
		domainerror.ErrCodePartialImportFailure,
		fmt.Sprintf("%d of %d rows could not be imported", len(rowErrors), total),
		domainerror.ErrPartialImportFailure,
	)
	importErr.RowErrors = rowErrors
	return importErr
}
