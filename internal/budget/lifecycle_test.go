package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "obralink/internal/errors"
	"obralink/internal/models"
	"obralink/internal/pagination"
	"obralink/internal/store"
	"obralink/internal/testutil"
)

// stubStore counts calls and lets tests script results.
type stubStore struct {
	creates     int
	revalues    int
	supplements int
	deletes     int

	lastCreate  store.CreateInput
	lastRevalue store.RevalueInput
	lastSupp    store.SupplementInput

	err error
}

func (s *stubStore) Create(_ context.Context, _ string, in store.CreateInput) (*models.Budget, error) {
	s.creates++
	s.lastCreate = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.Budget{Amount: in.Amount, Currency: in.Currency}, nil
}

func (s *stubStore) Revalue(_ context.Context, _, _ string, in store.RevalueInput) (*models.Budget, error) {
	s.revalues++
	s.lastRevalue = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.Budget{Amount: in.NewAmount, Currency: in.NewCurrency}, nil
}

func (s *stubStore) AddSupplement(_ context.Context, _, _ string, in store.SupplementInput) (*models.Budget, error) {
	s.supplements++
	s.lastSupp = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.Budget{}, nil
}

func (s *stubStore) Delete(_ context.Context, _, _ string) error {
	s.deletes++
	return s.err
}

func (s *stubStore) GetByID(_ context.Context, _, _ string) (*models.Budget, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Budget{}, nil
}

func (s *stubStore) List(_ context.Context, _ string, page pagination.PageRequest, _ store.ListFilter) (*pagination.PageResponse[models.Budget], error) {
	if s.err != nil {
		return nil, s.err
	}
	resp := pagination.NewPageResponse([]models.Budget{}, page.Page, page.PageSize, 0)
	return &resp, nil
}

var _ store.BudgetStore = (*stubStore)(nil)

const testOrgID = "0192e7a0-0000-7000-8000-000000000001"

func TestServiceCreate(t *testing.T) {
	t.Run("invalid_draft_never_reaches_store", func(t *testing.T) {
		st := &stubStore{}
		svc := NewService(st)

		_, err := svc.Create(context.Background(), testOrgID, CreateDraft{
			ProjectID: testOrgID,
			Kind:      models.BudgetKindExpense,
			Amount:    amountOf("0"),
			Currency:  models.CurrencyARS,
		}, true)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")

		if st.creates != 0 {
			t.Errorf("store must not be called for an invalid draft, got %d calls", st.creates)
		}
	})

	t.Run("normalizes_usd_indexation", func(t *testing.T) {
		st := &stubStore{}
		svc := NewService(st)

		_, err := svc.Create(context.Background(), testOrgID, CreateDraft{
			ProjectID:      testOrgID,
			Kind:           models.BudgetKindExpense,
			Amount:         amountOf("1500"),
			Currency:       models.CurrencyUSD,
			IndexationMode: models.IndexationCAC,
		}, true)
		testutil.AssertNoError(t, err)

		if st.lastCreate.IndexationMode != models.IndexationNone {
			t.Errorf("expected indexation forced to none, got %s", st.lastCreate.IndexationMode)
		}
		if st.lastCreate.ComparisonBasis != models.BasisGross {
			t.Errorf("expected basis defaulted to gross, got %s", st.lastCreate.ComparisonBasis)
		}
	})

	t.Run("store_failure_is_retryable", func(t *testing.T) {
		st := &stubStore{err: errors.New("connection refused")}
		svc := NewService(st)

		_, err := svc.Create(context.Background(), testOrgID, CreateDraft{
			ProjectID: testOrgID,
			Kind:      models.BudgetKindExpense,
			Amount:    amountOf("1500"),
			Currency:  models.CurrencyARS,
		}, true)
		testutil.AssertAppError(t, err, "STORE_UNAVAILABLE")
	})
}

func TestServiceRevalue(t *testing.T) {
	t.Run("default_reason_applied", func(t *testing.T) {
		st := &stubStore{}
		svc := NewService(st)

		_, err := svc.Revalue(context.Background(), testOrgID, testOrgID, RevalueDraft{
			Amount:   amountOf("250000"),
			Currency: models.CurrencyARS,
		}, "Ana")
		testutil.AssertNoError(t, err)

		if st.lastRevalue.Reason != DefaultRevaluationReason {
			t.Errorf("expected default reason, got %q", st.lastRevalue.Reason)
		}
		if st.lastRevalue.Author != "Ana" {
			t.Errorf("expected author Ana, got %q", st.lastRevalue.Author)
		}
	})

	t.Run("switch_to_usd_clears_indexation", func(t *testing.T) {
		st := &stubStore{}
		svc := NewService(st)

		_, err := svc.Revalue(context.Background(), testOrgID, testOrgID, RevalueDraft{
			Amount:         amountOf("100"),
			Currency:       models.CurrencyUSD,
			IndexationMode: models.IndexationCAC,
		}, "Ana")
		testutil.AssertNoError(t, err)

		if st.lastRevalue.NewIndexationMode != models.IndexationNone {
			t.Errorf("expected indexation cleared, got %s", st.lastRevalue.NewIndexationMode)
		}
	})

	t.Run("invalid_amount_short_circuits", func(t *testing.T) {
		st := &stubStore{}
		svc := NewService(st)

		_, err := svc.Revalue(context.Background(), testOrgID, testOrgID, RevalueDraft{
			Amount:   amountOf("-5"),
			Currency: models.CurrencyARS,
		}, "Ana")
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")

		if st.revalues != 0 {
			t.Errorf("store must not be called, got %d calls", st.revalues)
		}
	})

	t.Run("structured_store_error_passes_through", func(t *testing.T) {
		st := &stubStore{err: apperrors.ErrBudgetNotFound}
		svc := NewService(st)

		_, err := svc.Revalue(context.Background(), testOrgID, testOrgID, RevalueDraft{
			Amount:   amountOf("100"),
			Currency: models.CurrencyARS,
		}, "Ana")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestServiceAddSupplement(t *testing.T) {
	t.Run("default_concept_applied", func(t *testing.T) {
		st := &stubStore{}
		svc := NewService(st)

		_, err := svc.AddSupplement(context.Background(), testOrgID, testOrgID, SupplementDraft{
			Amount: amountOf("5000"),
		}, "Ana")
		testutil.AssertNoError(t, err)

		if st.lastSupp.Concept != DefaultSupplementConcept {
			t.Errorf("expected default concept, got %q", st.lastSupp.Concept)
		}
		if !st.lastSupp.Amount.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("expected amount 5000, got %s", st.lastSupp.Amount)
		}
	})
}

func TestServiceDelete(t *testing.T) {
	t.Run("store_failure_is_retryable", func(t *testing.T) {
		st := &stubStore{err: errors.New("timeout")}
		svc := NewService(st)

		err := svc.Delete(context.Background(), testOrgID, testOrgID)
		testutil.AssertAppError(t, err, "STORE_UNAVAILABLE")
	})
}
