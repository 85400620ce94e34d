// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	accountController     *controller.AccountController
	transactionController *controller.TransactionController
	importController      *controller.ImportController
	categoryController    *controller.CategoryController
	uploadRateLimiter     *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	accountController *controller.AccountController,
	transactionController *controller.TransactionController,
	importController *controller.ImportController,
	categoryController *controller.CategoryController,
	uploadRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		accountController:     accountController,
		transactionController: transactionController,
		importController:      importController,
		categoryController:    categoryController,
		uploadRateLimiter:     uploadRateLimiter,
		authMiddleware:        authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	if r.authMiddleware == nil {
		return
	}

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	{
		if r.accountController != nil {
			accounts := v1.Group("/accounts")
			{
				accounts.GET("", r.accountController.List)
				accounts.POST("", r.accountController.Create)
				accounts.GET("/:id", r.accountController.Get)
				accounts.DELETE("/:id", r.accountController.Delete)
				accounts.GET("/:id/verify", r.accountController.Verify)

				if r.transactionController != nil {
					accounts.GET("/:id/transactions", r.transactionController.List)
				}
				if r.importController != nil {
					uploads := []gin.HandlerFunc{r.importController.Stage}
					if r.uploadRateLimiter != nil {
						uploads = append([]gin.HandlerFunc{r.uploadRateLimiter.Middleware()}, uploads...)
					}
					accounts.POST("/:id/imports", uploads...)
				}
			}
		}

		if r.transactionController != nil {
			transactions := v1.Group("/transactions")
			{
				transactions.POST("", r.transactionController.Create)
				transactions.PATCH("/:id", r.transactionController.Edit)
				transactions.DELETE("/:id", r.transactionController.Delete)
			}
		}

		if r.importController != nil {
			imports := v1.Group("/imports")
			{
				imports.POST("/confirm", r.importController.BulkConfirm)
				imports.GET("/:batchId", r.importController.Status)
				imports.POST("/:batchId/confirm", r.importController.Confirm)
			}
		}

		if r.categoryController != nil {
			v1.GET("/categories", r.categoryController.List)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
