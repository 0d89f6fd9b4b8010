package budget

import (
	"context"
	"errors"

	apperrors "obralink/internal/errors"
	"obralink/internal/models"
	"obralink/internal/pagination"
	"obralink/internal/store"
)

// Service orchestrates the four mutating lifecycle operations against the
// budget store. Validation runs first and short-circuits without touching
// the store; store failures are converted into a retryable error and never
// escape as unhandled faults. The caller's draft is untouched either way,
// so user input survives a failed submission.
type Service struct {
	store store.BudgetStore
}

// NewService creates a lifecycle service over the given store.
func NewService(st store.BudgetStore) *Service {
	return &Service{store: st}
}

// Create validates the draft and submits the creation payload. The
// comparison basis defaults to gross and the indexation mode is forced to
// none unless the currency is ARS.
func (s *Service) Create(ctx context.Context, orgID string, draft CreateDraft, fullForm bool) (*models.Budget, error) {
	if err := ValidateCreate(draft, fullForm); err != nil {
		return nil, err
	}

	basis := draft.ComparisonBasis
	if basis == "" {
		basis = models.BasisGross
	}

	in := store.CreateInput{
		ProjectID:       draft.ProjectID,
		Kind:            draft.Kind,
		Amount:          *draft.Amount,
		Currency:        draft.Currency,
		IndexationMode:  NormalizeIndexation(draft.Currency, draft.IndexationMode),
		ComparisonBasis: basis,
		CategoryID:      draft.CategoryID,
		SubcategoryID:   draft.SubcategoryID,
		StageID:         draft.StageID,
		ProviderID:      draft.ProviderID,
	}

	created, err := s.store.Create(ctx, orgID, in)
	if err != nil {
		return nil, storeError(err)
	}
	return created, nil
}

// Revalue validates the draft and submits the delta. The store appends the
// revaluation history entry itself, capturing the prior amount and
// currency; the returned budget carries the refreshed history.
func (s *Service) Revalue(ctx context.Context, orgID, budgetID string, draft RevalueDraft, author string) (*models.Budget, error) {
	draft, err := ValidateRevaluation(draft)
	if err != nil {
		return nil, err
	}

	basis := draft.ComparisonBasis
	if basis == "" {
		basis = models.BasisGross
	}

	in := store.RevalueInput{
		NewAmount:          *draft.Amount,
		NewCurrency:        draft.Currency,
		NewIndexationMode:  NormalizeIndexation(draft.Currency, draft.IndexationMode),
		NewComparisonBasis: basis,
		Reason:             draft.Reason,
		Author:             author,
	}

	updated, err := s.store.Revalue(ctx, orgID, budgetID, in)
	if err != nil {
		return nil, storeError(err)
	}
	return updated, nil
}

// AddSupplement validates the draft and submits the additional charge.
func (s *Service) AddSupplement(ctx context.Context, orgID, budgetID string, draft SupplementDraft, author string) (*models.Budget, error) {
	draft, err := ValidateSupplement(draft)
	if err != nil {
		return nil, err
	}

	in := store.SupplementInput{
		Concept: draft.Concept,
		Amount:  *draft.Amount,
		Author:  author,
	}

	updated, err := s.store.AddSupplement(ctx, orgID, budgetID, in)
	if err != nil {
		return nil, storeError(err)
	}
	return updated, nil
}

// Delete issues the destructive call. The two-step confirmation guard lives
// in the panel layer; by the time this runs the deletion is confirmed.
func (s *Service) Delete(ctx context.Context, orgID, budgetID string) error {
	if err := s.store.Delete(ctx, orgID, budgetID); err != nil {
		return storeError(err)
	}
	return nil
}

// GetByID refetches a budget with history and executed amount.
func (s *Service) GetByID(ctx context.Context, orgID, budgetID string) (*models.Budget, error) {
	budget, err := s.store.GetByID(ctx, orgID, budgetID)
	if err != nil {
		return nil, storeError(err)
	}
	return budget, nil
}

// List returns a page of budgets.
func (s *Service) List(ctx context.Context, orgID string, page pagination.PageRequest, filter store.ListFilter) (*pagination.PageResponse[models.Budget], error) {
	result, err := s.store.List(ctx, orgID, page, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return result, nil
}

// storeError keeps structured application errors intact and converts any
// other store failure into the generic retryable condition.
func storeError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
}
