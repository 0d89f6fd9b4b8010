// Package store defines the budget store contract: the system of record
// that persists budgets and owns the authoritative side of every change —
// history-entry construction, supplement accumulation, executed-amount
// projection and creation rate snapshots.
//
// Two implementations exist: Local is a Postgres/GORM-backed store for
// deployments where this service is the system of record, and Remote is an
// HTTP client for deployments where an external back end owns the data.
package store

import (
	"context"

	"github.com/shopspring/decimal"

	"obralink/internal/models"
	"obralink/internal/pagination"
)

// CreateInput is the creation payload. IndexationMode and ComparisonBasis
// are expected to be normalized by the caller (indexation forced to none
// unless the currency is ARS, basis defaulted to gross).
type CreateInput struct {
	ProjectID       string
	Kind            models.BudgetKind
	Amount          decimal.Decimal
	Currency        models.Currency
	IndexationMode  models.IndexationMode
	ComparisonBasis models.ComparisonBasis

	CategoryID    *string
	SubcategoryID *string
	StageID       *string
	ProviderID    *string
}

// RevalueInput replaces a budget's top-level amount/currency/policy. The
// store captures the previous amount and currency itself when it appends
// the revaluation history entry; callers only supply the delta and reason.
type RevalueInput struct {
	NewAmount          decimal.Decimal
	NewCurrency        models.Currency
	NewIndexationMode  models.IndexationMode
	NewComparisonBasis models.ComparisonBasis
	Reason             string
	Author             string
}

// SupplementInput appends an additional charge to a budget.
type SupplementInput struct {
	Concept string
	Amount  decimal.Decimal
	Author  string
}

// ListFilter holds optional filters for listing budgets.
type ListFilter struct {
	ProjectID *string
	Kind      *models.BudgetKind
}

// BudgetStore is the transport-agnostic contract with the system of record.
// Each call is atomic at the store boundary; a successful Revalue or
// AddSupplement is guaranteed to have appended its history entry before the
// updated budget is returned, so callers refresh history from the returned
// budget instead of splicing locally constructed entries.
type BudgetStore interface {
	Create(ctx context.Context, orgID string, in CreateInput) (*models.Budget, error)
	Revalue(ctx context.Context, orgID, budgetID string, in RevalueInput) (*models.Budget, error)
	AddSupplement(ctx context.Context, orgID, budgetID string, in SupplementInput) (*models.Budget, error)
	Delete(ctx context.Context, orgID, budgetID string) error
	GetByID(ctx context.Context, orgID, budgetID string) (*models.Budget, error)
	List(ctx context.Context, orgID string, page pagination.PageRequest, filter ListFilter) (*pagination.PageResponse[models.Budget], error)
}
