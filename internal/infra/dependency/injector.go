// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/application/usecase/account"
	"github.com/finance-tracker/ledger/internal/application/usecase/category"
	"github.com/finance-tracker/ledger/internal/application/usecase/importing"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/infra/db"
	"github.com/finance-tracker/ledger/internal/infra/server/router"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/integration/spreadsheet"
	"github.com/finance-tracker/ledger/internal/integration/staging"
)

// UseCases groups every use case so the HTTP server and the CLI share one wiring.
type UseCases struct {
	CreateAccount      *account.CreateAccountUseCase
	ListAccounts       *account.ListAccountsUseCase
	GetAccountSummary  *account.GetAccountSummaryUseCase
	DeleteAccount      *account.DeleteAccountUseCase
	CreateTransaction  *ledger.CreateTransactionUseCase
	EditTransaction    *ledger.EditTransactionUseCase
	DeleteTransaction  *ledger.DeleteTransactionUseCase
	ListTransactions   *ledger.ListTransactionsUseCase
	VerifyConsistency  *ledger.VerifyConsistencyUseCase
	StageImport        *importing.StageImportUseCase
	GetImportStatus    *importing.GetImportStatusUseCase
	ConfirmImport      *importing.ConfirmImportUseCase
	BulkConfirmImports *importing.BulkConfirmImportsUseCase
	ListCategories     *category.ListCategoriesUseCase
}

// Injector holds all application dependencies.
type Injector struct {
	Config            *config.Config
	Database          *db.Database
	Redis             redis.UniversalClient
	UseCases          *UseCases
	UploadRateLimiter *middleware.RateLimiter
	Router            *router.Router
}

// NewUseCases wires the use cases on top of a database and a Redis client.
func NewUseCases(cfg *config.Config, database *db.Database, redisClient redis.UniversalClient) *UseCases {
	gormDB := database.DB()

	// Create repositories
	accountRepo := persistence.NewAccountRepository(gormDB)
	aggregateStore := persistence.NewAggregateStore(gormDB)
	transactionRepo := persistence.NewTransactionRepository(gormDB)
	categoryRepo := persistence.NewCategoryRepository(gormDB)
	uow := persistence.NewUnitOfWork(gormDB)
	batchStore := staging.NewRedisStore(redisClient)

	// Create ledger core
	txLedger := ledger.NewLedger(uow, cfg.Ledger.MaxRetries)
	resolver := category.NewResolveCategoryUseCase(categoryRepo)
	confirmImport := importing.NewConfirmImportUseCase(batchStore, txLedger, transactionRepo, cfg.Import.ConfirmLockTTL)

	return &UseCases{
		CreateAccount:      account.NewCreateAccountUseCase(accountRepo, cfg.Ledger.DefaultCurrency),
		ListAccounts:       account.NewListAccountsUseCase(accountRepo),
		GetAccountSummary:  account.NewGetAccountSummaryUseCase(accountRepo, aggregateStore, transactionRepo, cfg.Ledger.TrendMonths),
		DeleteAccount:      account.NewDeleteAccountUseCase(accountRepo, uow),
		CreateTransaction:  ledger.NewCreateTransactionUseCase(txLedger),
		EditTransaction:    ledger.NewEditTransactionUseCase(txLedger),
		DeleteTransaction:  ledger.NewDeleteTransactionUseCase(txLedger),
		ListTransactions:   ledger.NewListTransactionsUseCase(accountRepo, transactionRepo),
		VerifyConsistency:  ledger.NewVerifyConsistencyUseCase(uow),
		StageImport:        importing.NewStageImportUseCase(spreadsheet.NewRegistry(), accountRepo, uow, resolver, batchStore, cfg.Import.StagingTTL),
		GetImportStatus:    importing.NewGetImportStatusUseCase(batchStore),
		ConfirmImport:      confirmImport,
		BulkConfirmImports: importing.NewBulkConfirmImportsUseCase(confirmImport, cfg.Import.WorkerConcurrency),
		ListCategories:     category.NewListCategoriesUseCase(categoryRepo),
	}
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, database *db.Database, redisClient redis.UniversalClient) *Injector {
	useCases := NewUseCases(cfg, database, redisClient)

	// Create controllers
	healthController := controller.NewHealthController(
		database.HealthCheck,
		func(ctx context.Context) bool {
			return redisClient.Ping(ctx).Err() == nil
		},
	)

	accountController := controller.NewAccountController(
		useCases.CreateAccount,
		useCases.ListAccounts,
		useCases.GetAccountSummary,
		useCases.DeleteAccount,
		useCases.VerifyConsistency,
	)

	transactionController := controller.NewTransactionController(
		useCases.ListTransactions,
		useCases.CreateTransaction,
		useCases.EditTransaction,
		useCases.DeleteTransaction,
	)

	importController := controller.NewImportController(
		useCases.StageImport,
		useCases.GetImportStatus,
		useCases.ConfirmImport,
		useCases.BulkConfirmImports,
		cfg.Import.MaxUploadBytes,
	)

	categoryController := controller.NewCategoryController(useCases.ListCategories)

	// Create middleware
	// Uploads are not throttled in E2E/test environments to prevent flaky tests
	uploadLimit := cfg.Import.UploadRateLimit
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		uploadLimit = 0
	}
	uploadRateLimiter := middleware.NewRateLimiterWithConfig(uploadLimit, cfg.Import.UploadRateWindow)

	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		accountController,
		transactionController,
		importController,
		categoryController,
		uploadRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:            cfg,
		Database:          database,
		Redis:             redisClient,
		UseCases:          useCases,
		UploadRateLimiter: uploadRateLimiter,
		Router:            r,
	}
}
