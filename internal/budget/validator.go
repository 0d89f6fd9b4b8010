package budget

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "obralink/internal/errors"
	"obralink/internal/models"
)

// Defaults applied when the caller leaves free-text fields blank. These are
// the labels the back office shows, so they are stored as-is.
const (
	DefaultRevaluationReason = "Edición de monto"
	DefaultSupplementConcept = "Adicional"
)

// CreateDraft holds the fields a creation form collects. Amount is a
// pointer so "missing" is distinguishable from zero; both are rejected.
type CreateDraft struct {
	ProjectID       string
	Kind            models.BudgetKind
	Amount          *decimal.Decimal
	Currency        models.Currency
	IndexationMode  models.IndexationMode
	ComparisonBasis models.ComparisonBasis

	CategoryID    *string
	SubcategoryID *string
	StageID       *string
	ProviderID    *string
}

// RevalueDraft holds the fields a revaluation form collects.
type RevalueDraft struct {
	Amount          *decimal.Decimal
	Currency        models.Currency
	IndexationMode  models.IndexationMode
	ComparisonBasis models.ComparisonBasis
	Reason          string
}

// SupplementDraft holds the fields a supplement form collects.
type SupplementDraft struct {
	Concept string
	Amount  *decimal.Decimal
}

// ValidateAmount rejects missing or non-positive amounts. Runs before any
// store call; a draft failing here never reaches the transport layer.
func ValidateAmount(amount *decimal.Decimal) error {
	if amount == nil || !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	return nil
}

// ValidateCreate checks a creation draft. fullForm indicates the form also
// selects the project; otherwise the project is supplied externally and is
// not re-validated here.
func ValidateCreate(d CreateDraft, fullForm bool) error {
	if err := ValidateAmount(d.Amount); err != nil {
		return err
	}
	if fullForm && strings.TrimSpace(d.ProjectID) == "" {
		return apperrors.ErrProjectRequired
	}
	if groupingCount(d) > 1 {
		return apperrors.ErrConflictingGrouping
	}
	return nil
}

// ValidateRevaluation checks a revaluation draft and fills the default
// reason when blank.
func ValidateRevaluation(d RevalueDraft) (RevalueDraft, error) {
	if err := ValidateAmount(d.Amount); err != nil {
		return d, err
	}
	if strings.TrimSpace(d.Reason) == "" {
		d.Reason = DefaultRevaluationReason
	}
	return d, nil
}

// ValidateSupplement checks a supplement draft and fills the default
// concept when blank.
func ValidateSupplement(d SupplementDraft) (SupplementDraft, error) {
	if err := ValidateAmount(d.Amount); err != nil {
		return d, err
	}
	if strings.TrimSpace(d.Concept) == "" {
		d.Concept = DefaultSupplementConcept
	}
	return d, nil
}

// NormalizeIndexation forces the indexation mode to none unless the
// currency is ARS. Switching a budget to USD clears any previously chosen
// mode in the same submission, never the reverse.
func NormalizeIndexation(currency models.Currency, mode models.IndexationMode) models.IndexationMode {
	if currency != models.CurrencyARS {
		return models.IndexationNone
	}
	if mode == "" {
		return models.IndexationNone
	}
	return mode
}

func groupingCount(d CreateDraft) int {
	n := 0
	if d.CategoryID != nil {
		n++
	}
	if d.StageID != nil {
		n++
	}
	if d.ProviderID != nil {
		n++
	}
	return n
}
