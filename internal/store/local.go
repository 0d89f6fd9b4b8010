package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "obralink/internal/errors"
	"obralink/internal/models"
	"obralink/internal/pagination"
	"obralink/internal/rates"
)

// Local is the GORM-backed budget store. It owns the store-side rules:
// revaluations capture the previous amount and currency in a history entry
// written in the same transaction as the budget update, supplements
// accumulate into the effective amount, deletion is a hard delete that
// leaves no history behind, and the executed amount is projected from cash
// movements under the budget's comparison basis.
type Local struct {
	db    *gorm.DB
	rates *rates.Service
}

// NewLocal creates a local budget store. The rate service may be nil; it is
// only used to capture the creation rate snapshot for indexed budgets.
func NewLocal(db *gorm.DB, rateService *rates.Service) *Local {
	return &Local{db: db, rates: rateService}
}

// Create persists a new budget. For indexed budgets the latest known rates
// are captured as the creation snapshot; if a rate is unavailable the
// snapshot field stays empty rather than recording zero.
func (s *Local) Create(ctx context.Context, orgID string, in CreateInput) (*models.Budget, error) {
	budget := &models.Budget{
		OrgID:           orgID,
		ProjectID:       in.ProjectID,
		Kind:            in.Kind,
		Amount:          in.Amount,
		Currency:        in.Currency,
		IndexationMode:  in.IndexationMode,
		ComparisonBasis: in.ComparisonBasis,
		CategoryID:      in.CategoryID,
		SubcategoryID:   in.SubcategoryID,
		StageID:         in.StageID,
		ProviderID:      in.ProviderID,
	}

	if in.IndexationMode != models.IndexationNone && s.rates != nil {
		snap := s.rates.Latest()
		if snap.Foreign.State == rates.StateReady {
			fx := snap.Foreign.Rate
			budget.CreationFXRate = &fx
		}
		if snap.Index.State == rates.StateReady {
			idx := snap.Index.Rate
			budget.CreationIndexRate = &idx
		}
	}

	if err := s.db.WithContext(ctx).Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetByID(ctx, orgID, budget.ID)
}

// Revalue replaces the budget's amount/currency/policy and appends the
// revaluation entry in the same transaction, capturing the prior values.
func (s *Local) Revalue(ctx context.Context, orgID, budgetID string, in RevalueInput) (*models.Budget, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, err := s.lockBudget(tx, orgID, budgetID)
		if err != nil {
			return err
		}

		prevAmount := budget.Amount
		prevCurrency := budget.Currency

		entry := &models.HistoryEntry{
			BudgetID:         budget.ID,
			Timestamp:        models.NewTimestamp(time.Now().UTC()),
			Kind:             models.HistoryRevaluation,
			PreviousAmount:   &prevAmount,
			PreviousCurrency: &prevCurrency,
			NewAmount:        in.NewAmount,
			NewCurrency:      in.NewCurrency,
			Reason:           in.Reason,
			Author:           in.Author,
		}
		if err := tx.Create(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updates := map[string]interface{}{
			"amount":           in.NewAmount,
			"currency":         in.NewCurrency,
			"indexation_mode":  in.NewIndexationMode,
			"comparison_basis": in.NewComparisonBasis,
		}
		if err := tx.Model(budget).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, orgID, budgetID)
}

// AddSupplement appends a supplement entry and increases the effective
// budgeted amount. Currency, indexation and comparison basis are untouched.
func (s *Local) AddSupplement(ctx context.Context, orgID, budgetID string, in SupplementInput) (*models.Budget, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, err := s.lockBudget(tx, orgID, budgetID)
		if err != nil {
			return err
		}

		entry := &models.HistoryEntry{
			BudgetID:    budget.ID,
			Timestamp:   models.NewTimestamp(time.Now().UTC()),
			Kind:        models.HistorySupplement,
			NewAmount:   in.Amount,
			NewCurrency: budget.Currency,
			Reason:      in.Concept,
			Author:      in.Author,
		}
		if err := tx.Create(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		newAmount := budget.Amount.Add(in.Amount)
		if err := tx.Model(budget).Update("amount", newAmount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, orgID, budgetID)
}

// Delete hard-deletes a budget together with its history. The deletion
// itself is not recorded anywhere in the change history.
func (s *Local) Delete(ctx context.Context, orgID, budgetID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, err := s.lockBudget(tx, orgID, budgetID)
		if err != nil {
			return err
		}
		if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.HistoryEntry{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetByID returns a budget with its history and executed-amount projection.
func (s *Local) GetByID(ctx context.Context, orgID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.WithContext(ctx).
		Preload("History").
		Where("id = ? AND org_id = ?", budgetID, orgID).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	executed, err := s.executedAmount(ctx, &budget)
	if err != nil {
		return nil, err
	}
	budget.ExecutedAmount = executed

	return &budget, nil
}

// List returns a page of budgets with executed amounts projected.
func (s *Local) List(ctx context.Context, orgID string, page pagination.PageRequest, filter ListFilter) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Budget{}).Where("org_id = ?", orgID)
	if filter.ProjectID != nil {
		base = base.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Kind != nil {
		base = base.Where("kind = ?", *filter.Kind)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range budgets {
		executed, err := s.executedAmount(ctx, &budgets[i])
		if err != nil {
			return nil, err
		}
		budgets[i].ExecutedAmount = executed
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// executedAmount sums the cash movements attributed to the budget using the
// invoice total the comparison basis selects.
func (s *Local) executedAmount(ctx context.Context, budget *models.Budget) (decimal.Decimal, error) {
	column := "gross_amount"
	if budget.ComparisonBasis == models.BasisNet {
		column = "net_amount"
	}

	var executed decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.CashMovement{}).
		Select("COALESCE(SUM("+column+"), 0)").
		Where("budget_id = ?", budget.ID).
		Scan(&executed).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return executed, nil
}

// lockBudget loads a budget for update inside a transaction.
func (s *Local) lockBudget(tx *gorm.DB, orgID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := tx.Where("id = ? AND org_id = ?", budgetID, orgID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}
