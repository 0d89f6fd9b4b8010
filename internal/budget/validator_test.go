package budget

import (
	"testing"

	"github.com/shopspring/decimal"

	"obralink/internal/models"
	"obralink/internal/testutil"
)

func amountOf(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidateAmount(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		testutil.AssertAppError(t, ValidateAmount(nil), "INVALID_AMOUNT")
	})

	t.Run("zero", func(t *testing.T) {
		testutil.AssertAppError(t, ValidateAmount(amountOf("0")), "INVALID_AMOUNT")
	})

	t.Run("negative", func(t *testing.T) {
		testutil.AssertAppError(t, ValidateAmount(amountOf("-150.25")), "INVALID_AMOUNT")
	})

	t.Run("positive", func(t *testing.T) {
		testutil.AssertNoError(t, ValidateAmount(amountOf("150000.50")))
	})
}

func TestValidateCreate(t *testing.T) {
	valid := func() CreateDraft {
		return CreateDraft{
			ProjectID: "5f0c71ac-98f1-4a6d-9e55-0c4646a4d98a",
			Kind:      models.BudgetKindExpense,
			Amount:    amountOf("100000"),
			Currency:  models.CurrencyARS,
		}
	}

	t.Run("valid", func(t *testing.T) {
		testutil.AssertNoError(t, ValidateCreate(valid(), true))
	})

	t.Run("invalid_amount_wins_over_missing_project", func(t *testing.T) {
		d := valid()
		d.ProjectID = ""
		d.Amount = nil
		testutil.AssertAppError(t, ValidateCreate(d, true), "INVALID_AMOUNT")
	})

	t.Run("project_required_on_full_form", func(t *testing.T) {
		d := valid()
		d.ProjectID = "   "
		testutil.AssertAppError(t, ValidateCreate(d, true), "PROJECT_REQUIRED")
	})

	t.Run("project_not_required_in_context", func(t *testing.T) {
		d := valid()
		d.ProjectID = ""
		testutil.AssertNoError(t, ValidateCreate(d, false))
	})

	t.Run("single_grouping_allowed", func(t *testing.T) {
		cat := "bca9fd1e-27a1-4d89-8f0e-2c2135b7a001"
		sub := "bca9fd1e-27a1-4d89-8f0e-2c2135b7a002"
		d := valid()
		d.CategoryID = &cat
		d.SubcategoryID = &sub
		testutil.AssertNoError(t, ValidateCreate(d, true))
	})

	t.Run("conflicting_grouping", func(t *testing.T) {
		cat := "bca9fd1e-27a1-4d89-8f0e-2c2135b7a001"
		stage := "bca9fd1e-27a1-4d89-8f0e-2c2135b7a003"
		d := valid()
		d.CategoryID = &cat
		d.StageID = &stage
		testutil.AssertAppError(t, ValidateCreate(d, true), "CONFLICTING_GROUPING")
	})
}

func TestValidateRevaluation(t *testing.T) {
	t.Run("fills_default_reason", func(t *testing.T) {
		d, err := ValidateRevaluation(RevalueDraft{
			Amount:   amountOf("250000"),
			Currency: models.CurrencyARS,
			Reason:   "  ",
		})
		testutil.AssertNoError(t, err)
		if d.Reason != DefaultRevaluationReason {
			t.Errorf("expected default reason %q, got %q", DefaultRevaluationReason, d.Reason)
		}
	})

	t.Run("keeps_explicit_reason", func(t *testing.T) {
		d, err := ValidateRevaluation(RevalueDraft{
			Amount:   amountOf("250000"),
			Currency: models.CurrencyARS,
			Reason:   "Ajuste por inflación",
		})
		testutil.AssertNoError(t, err)
		if d.Reason != "Ajuste por inflación" {
			t.Errorf("expected explicit reason to survive, got %q", d.Reason)
		}
	})

	t.Run("rejects_invalid_amount", func(t *testing.T) {
		_, err := ValidateRevaluation(RevalueDraft{Amount: amountOf("0"), Currency: models.CurrencyARS})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})
}

func TestValidateSupplement(t *testing.T) {
	t.Run("fills_default_concept", func(t *testing.T) {
		d, err := ValidateSupplement(SupplementDraft{Amount: amountOf("5000")})
		testutil.AssertNoError(t, err)
		if d.Concept != DefaultSupplementConcept {
			t.Errorf("expected default concept %q, got %q", DefaultSupplementConcept, d.Concept)
		}
	})

	t.Run("rejects_negative_amount", func(t *testing.T) {
		_, err := ValidateSupplement(SupplementDraft{Amount: amountOf("-1")})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})
}

func TestNormalizeIndexation(t *testing.T) {
	t.Run("usd_budget_loses_indexation", func(t *testing.T) {
		if got := NormalizeIndexation(models.CurrencyUSD, models.IndexationCAC); got != models.IndexationNone {
			t.Errorf("expected none, got %s", got)
		}
	})

	t.Run("ars_budget_keeps_mode", func(t *testing.T) {
		if got := NormalizeIndexation(models.CurrencyARS, models.IndexationUSD); got != models.IndexationUSD {
			t.Errorf("expected usd, got %s", got)
		}
	})

	t.Run("blank_mode_becomes_none", func(t *testing.T) {
		if got := NormalizeIndexation(models.CurrencyARS, ""); got != models.IndexationNone {
			t.Errorf("expected none, got %s", got)
		}
	})
}
