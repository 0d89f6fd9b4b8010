package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"obralink/internal/budget"
	"obralink/internal/handlers"
	"obralink/internal/logger"
	"obralink/internal/middleware"
	"obralink/internal/models"
	"obralink/internal/rates"
	"obralink/internal/services"
	"obralink/internal/store"
	"obralink/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Rates  *rates.Service
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// fixedRates serves deterministic rates so previews and creation snapshots
// never reach the network. A non-nil err simulates an unreachable source.
type fixedRates struct {
	foreign decimal.Decimal
	index   decimal.Decimal
	err     error
}

func (p *fixedRates) LatestForeignRate(_ context.Context) (decimal.Decimal, error) {
	if p.err != nil {
		return decimal.Zero, p.err
	}
	return p.foreign, nil
}

func (p *fixedRates) LatestIndexRate(_ context.Context) (decimal.Decimal, error) {
	if p.err != nil {
		return decimal.Zero, p.err
	}
	return p.index, nil
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Budget{},
		&models.HistoryEntry{},
		&models.CashMovement{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and a deterministic rate source.
func setupApp(t *testing.T) *testApp {
	return setupAppWithRates(t, &fixedRates{
		foreign: decimal.NewFromInt(1200),
		index:   decimal.NewFromInt(1000),
	})
}

// setupAppWithRates is setupApp with a caller-supplied rate source.
func setupAppWithRates(t *testing.T, provider rates.Provider) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	rateService := rates.NewService(provider, time.Second)
	rateService.Refresh(context.Background())

	budgetStore := store.NewLocal(db, rateService)
	lifecycle := budget.NewService(budgetStore)
	panels := budget.NewManager(lifecycle, rateService)

	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)

	authHandler := handlers.NewAuthHandler(userService)
	budgetHandler := handlers.NewBudgetHandler(lifecycle, panels, auditService)
	panelHandler := handlers.NewPanelHandler(panels, auditService)
	ratesHandler := handlers.NewRatesHandler(rateService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.GET("/:id/history", budgetHandler.GetBudgetHistory)
	budgets.POST("/:id/revalue", budgetHandler.RevalueBudget)
	budgets.POST("/:id/supplements", budgetHandler.AddSupplement)

	protected.POST("/projects/:projectID/budgets", budgetHandler.CreateProjectBudget)

	panelRoutes := protected.Group("/panels")
	panelRoutes.POST("", panelHandler.OpenPanel)
	panelRoutes.GET("/:id", panelHandler.GetPanel)
	panelRoutes.DELETE("/:id", panelHandler.ClosePanel)
	panelRoutes.GET("/:id/preview", panelHandler.GetPreview)
	panelRoutes.POST("/:id/delete", panelHandler.DeleteBudget)

	rateRoutes := protected.Group("/rates")
	rateRoutes.GET("/latest", ratesHandler.GetLatest)
	rateRoutes.POST("/refresh", ratesHandler.RefreshRates)

	return &testApp{DB: db, Rates: rateService, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and org ID.
func (app *testApp) registerUser(t *testing.T, email, displayName string) (token, orgID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","display_name":%q}`, email, displayName)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["org_id"].(string)
}

// openPanel opens an editing panel and returns its ID.
func (app *testApp) openPanel(t *testing.T, token, budgetID string) string {
	t.Helper()
	body := "{}"
	if budgetID != "" {
		body = fmt.Sprintf(`{"budget_id":%q}`, budgetID)
	}
	rec := app.request("POST", "/api/v1/panels", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("opening panel failed: %d %s", rec.Code, rec.Body.String())
	}
	panel := parseJSON(t, rec)["panel"].(map[string]interface{})
	return panel["id"].(string)
}
