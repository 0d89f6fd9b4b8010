package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"obralink/internal/budget"
	apperrors "obralink/internal/errors"
	"obralink/internal/models"
	"obralink/internal/services"
)

// PanelHandler handles editing panel sessions. A panel scopes the guards
// around the budget lifecycle: one operation in flight at a time and the
// two-step delete confirmation. Opening a panel also kicks off a background
// rate refresh so the indexation preview is warm by the time it is needed.
type PanelHandler struct {
	panels       *budget.Manager
	auditService services.AuditServicer
}

// NewPanelHandler creates a new PanelHandler.
func NewPanelHandler(panels *budget.Manager, auditService services.AuditServicer) *PanelHandler {
	return &PanelHandler{panels: panels, auditService: auditService}
}

// OpenPanelRequest represents the request payload for opening a panel.
// budget_id is empty when opening a creation panel.
type OpenPanelRequest struct {
	BudgetID string `json:"budget_id" binding:"omitempty,uuid"`
}

// PanelResponse represents a panel session.
type PanelResponse struct {
	ID          string `json:"id"`
	BudgetID    string `json:"budget_id,omitempty"`
	Busy        bool   `json:"busy"`
	DeleteState string `json:"delete_state"`
}

// PreviewResponse represents an indexation preview.
type PreviewResponse struct {
	State     string `json:"state"`
	Amount    string `json:"amount,omitempty"`
	Formatted string `json:"formatted,omitempty"`
}

// DeleteResponse reports the outcome of a delete request.
type DeleteResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func panelJSON(p *budget.Panel) PanelResponse {
	return PanelResponse{
		ID:          p.ID,
		BudgetID:    p.BudgetID,
		Busy:        p.Busy(),
		DeleteState: p.State().String(),
	}
}

// OpenPanel handles opening an editing panel.
// @Summary     Open a panel
// @Description Open an editing panel session, optionally bound to an existing budget
// @Tags        panels
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body OpenPanelRequest true "Panel details"
// @Success     201 {object} PanelResponse "Panel opened"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /panels [post]
func (h *PanelHandler) OpenPanel(c *gin.Context) {
	if _, err := getOrgID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req OpenPanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	panel := h.panels.Open(req.BudgetID)

	c.JSON(http.StatusCreated, gin.H{"panel": panelJSON(panel)})
}

// GetPanel handles retrieving a panel's state.
// @Summary     Get panel
// @Description Get an open panel's state
// @Tags        panels
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Panel ID"
// @Success     200 {object} PanelResponse "Panel state"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Panel not found"
// @Router      /panels/{id} [get]
func (h *PanelHandler) GetPanel(c *gin.Context) {
	if _, err := getOrgID(c); err != nil {
		respondWithError(c, err)
		return
	}

	panel, err := h.panels.Get(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"panel": panelJSON(panel)})
}

// ClosePanel handles discarding a panel session. Closing a panel resets any
// pending delete confirmation and drops pending form state; an in-flight
// write is not retracted.
// @Summary     Close panel
// @Description Close an open panel session
// @Tags        panels
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Panel ID"
// @Success     200 {object} MessageResponse "Panel closed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Panel not found"
// @Router      /panels/{id} [delete]
func (h *PanelHandler) ClosePanel(c *gin.Context) {
	if _, err := getOrgID(c); err != nil {
		respondWithError(c, err)
		return
	}

	panelID := c.Param("id")
	if _, err := h.panels.Get(panelID); err != nil {
		respondWithError(c, err)
		return
	}

	h.panels.Close(panelID)

	c.JSON(http.StatusOK, gin.H{"message": "Panel closed"})
}

// GetPreview handles deriving an indexation preview for a pending amount.
// @Summary     Get indexation preview
// @Description Derive the index-unit or dollar equivalent of a pending peso amount
// @Tags        panels
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path  string true  "Panel ID"
// @Param       amount query string true  "Pending peso amount"
// @Param       mode   query string true  "Indexation mode (none/cac/usd)"
// @Success     200 {object} PreviewResponse "Preview"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Panel not found"
// @Router      /panels/{id}/preview [get]
func (h *PanelHandler) GetPreview(c *gin.Context) {
	if _, err := getOrgID(c); err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.panels.Get(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a decimal number"))
		return
	}

	mode := models.IndexationMode(c.Query("mode"))
	switch mode {
	case models.IndexationNone, models.IndexationCAC, models.IndexationUSD:
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "mode must be 'none', 'cac' or 'usd'"))
		return
	}

	preview := h.panels.Preview(amount, mode)

	resp := PreviewResponse{State: preview.State.String()}
	if preview.State == budget.PreviewReady {
		resp.Amount = preview.Amount.Value.StringFixed(2)
		resp.Formatted = preview.Amount.Format()
	}

	c.JSON(http.StatusOK, gin.H{"preview": resp})
}

// DeleteBudget advances the panel's two-step delete confirmation. The first
// request arms the confirmation and deletes nothing; repeating the request
// while armed performs the deletion and closes the panel.
// @Summary     Delete the panel's budget
// @Description First request arms the confirmation; the second performs the deletion
// @Tags        panels
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Panel ID"
// @Success     200 {object} DeleteResponse "Armed or deleted"
// @Failure     400 {object} ErrorResponse "Panel has no budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Panel or budget not found"
// @Failure     409 {object} ErrorResponse "Another operation in flight"
// @Failure     502 {object} ErrorResponse "Store unavailable"
// @Router      /panels/{id}/delete [post]
func (h *PanelHandler) DeleteBudget(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	panel, err := h.panels.Get(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if panel.BudgetID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Panel has no budget to delete"))
		return
	}

	deleted, err := h.panels.Delete(c.Request.Context(), panel.ID, orgID, panel.BudgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !deleted {
		c.JSON(http.StatusOK, gin.H{
			"status":  "armed",
			"message": "Repeat the request to confirm the deletion",
		})
		return
	}

	userID, _ := getUserID(c)
	h.auditService.Log(orgID, userID, "DELETE_BUDGET", "budget", panel.BudgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{
		"status":  "deleted",
		"message": "Budget deleted successfully",
	})
}
