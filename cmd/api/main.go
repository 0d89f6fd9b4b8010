package main

import (
	"fmt"
	"net/http"
	"obralink/internal/budget"
	"obralink/internal/config"
	"obralink/internal/database"
	"obralink/internal/handlers"
	"obralink/internal/logger"
	"obralink/internal/middleware"
	"obralink/internal/rates"
	"obralink/internal/services"
	"obralink/internal/store"
	"obralink/internal/validator"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           ObraLink Budget API
// @version         1.0
// @description     Budget lifecycle and audit engine for construction back offices: budgets with indexation previews, revaluations, supplements and tamper-evident change history.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	db := dbManager.DB()

	// Rate providers
	provider := rates.NewHTTPProvider(&http.Client{Timeout: appConfig.RateTimeout}, appConfig.FXRateURL, appConfig.IndexRateURL)
	rateService := rates.NewService(provider, appConfig.RateTimeout)

	// Budget store: local system of record or remote back end
	var budgetStore store.BudgetStore
	switch appConfig.StoreMode {
	case config.StoreModeRemote:
		if appConfig.StoreBaseURL == "" {
			return fmt.Errorf("BUDGET_STORE_URL is required when BUDGET_STORE_MODE is %q", config.StoreModeRemote)
		}
		budgetStore = store.NewRemote(&http.Client{Timeout: 30 * time.Second}, appConfig.StoreBaseURL)
	default:
		budgetStore = store.NewLocal(db, rateService)
	}

	// Initialize services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	lifecycle := budget.NewService(budgetStore)
	panels := budget.NewManager(lifecycle, rateService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	budgetHandler := handlers.NewBudgetHandler(lifecycle, panels, auditService)
	panelHandler := handlers.NewPanelHandler(panels, auditService)
	ratesHandler := handlers.NewRatesHandler(rateService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.GET("/:id/history", budgetHandler.GetBudgetHistory)
	budgets.POST("/:id/revalue", budgetHandler.RevalueBudget)
	budgets.POST("/:id/supplements", budgetHandler.AddSupplement)

	// Project-scoped creation
	protected.POST("/projects/:projectID/budgets", budgetHandler.CreateProjectBudget)

	// Panel routes
	panelRoutes := protected.Group("/panels")
	panelRoutes.POST("", panelHandler.OpenPanel)
	panelRoutes.GET("/:id", panelHandler.GetPanel)
	panelRoutes.DELETE("/:id", panelHandler.ClosePanel)
	panelRoutes.GET("/:id/preview", panelHandler.GetPreview)
	panelRoutes.POST("/:id/delete", panelHandler.DeleteBudget)

	// Rate routes
	rateRoutes := protected.Group("/rates")
	rateRoutes.GET("/latest", ratesHandler.GetLatest)
	rateRoutes.POST("/refresh", ratesHandler.RefreshRates)

	log.Infof("Starting ObraLink backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
