package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"obralink/internal/budget"
	apperrors "obralink/internal/errors"
	"obralink/internal/models"
	"obralink/internal/pagination"
	"obralink/internal/services"
	"obralink/internal/store"
)

// BudgetHandler handles budget lifecycle requests. Mutating requests may
// carry a panel_id; when present the operation runs through that panel's
// guards (single in-flight operation, delete confirmation reset).
type BudgetHandler struct {
	lifecycle    *budget.Service
	panels       *budget.Manager
	auditService services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(lifecycle *budget.Service, panels *budget.Manager, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{lifecycle: lifecycle, panels: panels, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	PanelID         string                 `json:"panel_id" binding:"omitempty,uuid"`
	ProjectID       string                 `json:"project_id" binding:"omitempty,uuid"`
	Kind            models.BudgetKind      `json:"kind" binding:"required,budget_kind"`
	Amount          *decimal.Decimal       `json:"amount" binding:"required"`
	Currency        models.Currency        `json:"currency" binding:"required,budget_currency"`
	IndexationMode  models.IndexationMode  `json:"indexation_mode" binding:"omitempty,indexation_mode"`
	ComparisonBasis models.ComparisonBasis `json:"comparison_basis" binding:"omitempty,comparison_basis"`
	CategoryID      *string                `json:"category_id" binding:"omitempty,uuid"`
	SubcategoryID   *string                `json:"subcategory_id" binding:"omitempty,uuid"`
	StageID         *string                `json:"stage_id" binding:"omitempty,uuid"`
	ProviderID      *string                `json:"provider_id" binding:"omitempty,uuid"`
}

// RevalueBudgetRequest represents the request payload for revaluing a budget.
type RevalueBudgetRequest struct {
	PanelID         string                 `json:"panel_id" binding:"omitempty,uuid"`
	Amount          *decimal.Decimal       `json:"amount" binding:"required"`
	Currency        models.Currency        `json:"currency" binding:"required,budget_currency"`
	IndexationMode  models.IndexationMode  `json:"indexation_mode" binding:"omitempty,indexation_mode"`
	ComparisonBasis models.ComparisonBasis `json:"comparison_basis" binding:"omitempty,comparison_basis"`
	Reason          string                 `json:"reason" binding:"max=255"`
}

// SupplementRequest represents the request payload for adding a supplement.
type SupplementRequest struct {
	PanelID string           `json:"panel_id" binding:"omitempty,uuid"`
	Concept string           `json:"concept" binding:"max=255"`
	Amount  *decimal.Decimal `json:"amount" binding:"required"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a new budget for a project
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Another operation in flight"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	draft := budget.CreateDraft{
		ProjectID:       req.ProjectID,
		Kind:            req.Kind,
		Amount:          req.Amount,
		Currency:        req.Currency,
		IndexationMode:  req.IndexationMode,
		ComparisonBasis: req.ComparisonBasis,
		CategoryID:      req.CategoryID,
		SubcategoryID:   req.SubcategoryID,
		StageID:         req.StageID,
		ProviderID:      req.ProviderID,
	}

	var created *models.Budget
	if req.PanelID != "" {
		created, err = h.panels.Create(c.Request.Context(), req.PanelID, orgID, draft, true)
	} else {
		created, err = h.lifecycle.Create(c.Request.Context(), orgID, draft, true)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, orgID, "CREATE_BUDGET", created.ID,
		map[string]interface{}{"project_id": created.ProjectID, "kind": created.Kind, "amount": created.Amount, "currency": created.Currency})

	c.JSON(http.StatusCreated, gin.H{"budget": created})
}

// CreateProjectBudget handles creation from inside a project context, where
// the project is taken from the path instead of the form.
// @Summary     Create a budget within a project
// @Description Create a new budget for the project in the path
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       projectID path string              true "Project ID"
// @Param       request   body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /projects/{projectID}/budgets [post]
func (h *BudgetHandler) CreateProjectBudget(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathUUID(c, "projectID")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	draft := budget.CreateDraft{
		ProjectID:       projectID,
		Kind:            req.Kind,
		Amount:          req.Amount,
		Currency:        req.Currency,
		IndexationMode:  req.IndexationMode,
		ComparisonBasis: req.ComparisonBasis,
		CategoryID:      req.CategoryID,
		SubcategoryID:   req.SubcategoryID,
		StageID:         req.StageID,
		ProviderID:      req.ProviderID,
	}

	var created *models.Budget
	if req.PanelID != "" {
		created, err = h.panels.Create(c.Request.Context(), req.PanelID, orgID, draft, false)
	} else {
		created, err = h.lifecycle.Create(c.Request.Context(), orgID, draft, false)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, orgID, "CREATE_BUDGET", created.ID,
		map[string]interface{}{"project_id": projectID, "kind": created.Kind, "amount": created.Amount, "currency": created.Currency})

	c.JSON(http.StatusCreated, gin.H{"budget": created})
}

// GetBudgets handles listing budgets for the authenticated organization.
// @Summary     Get budgets
// @Description Get a paginated list of budgets for the authenticated organization
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       project_id query string false "Filter by project"
// @Param       kind       query string false "Filter by kind (income/expense)"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter store.ListFilter
	if v := c.Query("project_id"); v != "" {
		filter.ProjectID = &v
	}
	if v := c.Query("kind"); v != "" {
		kind := models.BudgetKind(v)
		if kind != models.BudgetKindIncome && kind != models.BudgetKindExpense {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'income' or 'expense'"))
			return
		}
		filter.Kind = &kind
	}

	result, err := h.lifecycle.List(c.Request.Context(), orgID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a specific budget with its history and executed amount
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	b, err := h.lifecycle.GetByID(c.Request.Context(), orgID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": b})
}

// GetBudgetHistory handles retrieving the display-ready change history.
// @Summary     Get budget history
// @Description Get the budget's change history, newest first
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} map[string][]budget.HistoryLine "History lines"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /budgets/{id}/history [get]
func (h *BudgetHandler) GetBudgetHistory(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	b, err := h.lifecycle.GetByID(c.Request.Context(), orgID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": budget.RenderHistory(b.History)})
}

// RevalueBudget handles replacing a budget's amount.
// @Summary     Revalue a budget
// @Description Replace the budget's amount and policy, recording the change in history
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Budget ID"
// @Param       request body RevalueBudgetRequest true "Revaluation details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Another operation in flight"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /budgets/{id}/revalue [post]
func (h *BudgetHandler) RevalueBudget(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RevalueBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	draft := budget.RevalueDraft{
		Amount:          req.Amount,
		Currency:        req.Currency,
		IndexationMode:  req.IndexationMode,
		ComparisonBasis: req.ComparisonBasis,
		Reason:          req.Reason,
	}

	var updated *models.Budget
	if req.PanelID != "" {
		updated, err = h.panels.Revalue(c.Request.Context(), req.PanelID, orgID, budgetID, draft, getAuthor(c))
	} else {
		updated, err = h.lifecycle.Revalue(c.Request.Context(), orgID, budgetID, draft, getAuthor(c))
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, orgID, "REVALUE_BUDGET", budgetID,
		map[string]interface{}{"amount": updated.Amount, "currency": updated.Currency, "reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"budget": updated})
}

// AddSupplement handles adding an additional charge to a budget.
// @Summary     Add a supplement
// @Description Add an additional charge on top of the budget's amount
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Budget ID"
// @Param       request body SupplementRequest true "Supplement details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Another operation in flight"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /budgets/{id}/supplements [post]
func (h *BudgetHandler) AddSupplement(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	draft := budget.SupplementDraft{Concept: req.Concept, Amount: req.Amount}

	var updated *models.Budget
	if req.PanelID != "" {
		updated, err = h.panels.AddSupplement(c.Request.Context(), req.PanelID, orgID, budgetID, draft, getAuthor(c))
	} else {
		updated, err = h.lifecycle.AddSupplement(c.Request.Context(), orgID, budgetID, draft, getAuthor(c))
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, orgID, "ADD_SUPPLEMENT", budgetID,
		map[string]interface{}{"concept": req.Concept, "amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"budget": updated})
}

func (h *BudgetHandler) audit(c *gin.Context, orgID, action, resourceID string, changes map[string]interface{}) {
	userID, _ := getUserID(c)
	h.auditService.Log(orgID, userID, action, "budget", resourceID, c.ClientIP(), changes)
}
