package budget

import (
	"context"
	"testing"

	apperrors "obralink/internal/errors"
	"obralink/internal/models"
	"obralink/internal/testutil"
)

func newTestManager(st *stubStore) *Manager {
	return NewManager(NewService(st), nil)
}

func TestManagerOpen(t *testing.T) {
	t.Run("panel_starts_idle", func(t *testing.T) {
		m := newTestManager(&stubStore{})
		panel := m.Open("")

		if panel.ID == "" {
			t.Fatal("expected a panel ID")
		}
		if panel.State() != DeleteIdle {
			t.Errorf("expected idle, got %s", panel.State())
		}
		if panel.Busy() {
			t.Error("new panel must not be busy")
		}
	})

	t.Run("opening_a_panel_disarms_others", func(t *testing.T) {
		st := &stubStore{}
		m := newTestManager(st)
		first := m.Open(testOrgID)

		// Arm the first panel's confirmation.
		deleted, err := m.Delete(context.Background(), first.ID, testOrgID, testOrgID)
		testutil.AssertNoError(t, err)
		if deleted {
			t.Fatal("first request must only arm")
		}
		if first.State() != DeleteArmed {
			t.Fatalf("expected armed, got %s", first.State())
		}

		m.Open("")

		if first.State() != DeleteIdle {
			t.Errorf("expected other panel disarmed, got %s", first.State())
		}
	})
}

func TestManagerGet(t *testing.T) {
	t.Run("unknown_panel", func(t *testing.T) {
		m := newTestManager(&stubStore{})
		_, err := m.Get("0192e7a0-0000-7000-8000-00000000dead")
		testutil.AssertAppError(t, err, "PANEL_NOT_FOUND")
	})

	t.Run("closed_panel_is_gone", func(t *testing.T) {
		m := newTestManager(&stubStore{})
		panel := m.Open("")
		m.Close(panel.ID)

		_, err := m.Get(panel.ID)
		testutil.AssertAppError(t, err, "PANEL_NOT_FOUND")
	})
}

func TestManagerDelete(t *testing.T) {
	t.Run("arm_then_confirm", func(t *testing.T) {
		st := &stubStore{}
		m := newTestManager(st)
		panel := m.Open(testOrgID)

		deleted, err := m.Delete(context.Background(), panel.ID, testOrgID, testOrgID)
		testutil.AssertNoError(t, err)
		if deleted {
			t.Fatal("first request must not delete")
		}
		if st.deletes != 0 {
			t.Fatalf("store must not be called while arming, got %d calls", st.deletes)
		}

		deleted, err = m.Delete(context.Background(), panel.ID, testOrgID, testOrgID)
		testutil.AssertNoError(t, err)
		if !deleted {
			t.Fatal("second request must delete")
		}
		if st.deletes != 1 {
			t.Fatalf("expected exactly one store delete, got %d", st.deletes)
		}

		// The panel is closed after a successful deletion.
		_, err = m.Get(panel.ID)
		testutil.AssertAppError(t, err, "PANEL_NOT_FOUND")
	})

	t.Run("other_action_resets_confirmation", func(t *testing.T) {
		st := &stubStore{}
		m := newTestManager(st)
		panel := m.Open(testOrgID)

		_, err := m.Delete(context.Background(), panel.ID, testOrgID, testOrgID)
		testutil.AssertNoError(t, err)
		if panel.State() != DeleteArmed {
			t.Fatalf("expected armed, got %s", panel.State())
		}

		_, err = m.AddSupplement(context.Background(), panel.ID, testOrgID, testOrgID, SupplementDraft{
			Amount: amountOf("5000"),
		}, "Ana")
		testutil.AssertNoError(t, err)

		if panel.State() != DeleteIdle {
			t.Fatalf("expected confirmation reset, got %s", panel.State())
		}

		// The next delete request arms again instead of deleting.
		deleted, err := m.Delete(context.Background(), panel.ID, testOrgID, testOrgID)
		testutil.AssertNoError(t, err)
		if deleted {
			t.Error("delete after reset must only arm")
		}
		if st.deletes != 0 {
			t.Errorf("store delete must not have run, got %d calls", st.deletes)
		}
	})

	t.Run("failed_delete_returns_to_idle", func(t *testing.T) {
		st := &stubStore{}
		m := newTestManager(st)
		panel := m.Open(testOrgID)

		_, err := m.Delete(context.Background(), panel.ID, testOrgID, testOrgID)
		testutil.AssertNoError(t, err)

		st.err = apperrors.ErrStoreUnavailable
		deleted, err := m.Delete(context.Background(), panel.ID, testOrgID, testOrgID)
		testutil.AssertAppError(t, err, "STORE_UNAVAILABLE")
		if deleted {
			t.Fatal("failed delete must not report success")
		}

		// The panel survives and the confirmation is back to idle.
		if panel.State() != DeleteIdle {
			t.Errorf("expected idle after failure, got %s", panel.State())
		}
		if panel.Busy() {
			t.Error("panel must not stay busy after failure")
		}
		if _, err := m.Get(panel.ID); err != nil {
			t.Errorf("panel must remain open after failure: %v", err)
		}
	})
}

func TestManagerBusyGuard(t *testing.T) {
	t.Run("second_operation_rejected_while_busy", func(t *testing.T) {
		st := &stubStore{}
		m := newTestManager(st)
		panel := m.Open(testOrgID)

		// Simulate an operation in flight.
		testutil.AssertNoError(t, panel.begin())

		_, err := m.Revalue(context.Background(), panel.ID, testOrgID, testOrgID, RevalueDraft{
			Amount:   amountOf("100"),
			Currency: models.CurrencyARS,
		}, "Ana")
		testutil.AssertAppError(t, err, "OPERATION_IN_FLIGHT")

		_, err = m.Delete(context.Background(), panel.ID, testOrgID, testOrgID)
		testutil.AssertAppError(t, err, "OPERATION_IN_FLIGHT")

		panel.end()

		_, err = m.Revalue(context.Background(), panel.ID, testOrgID, testOrgID, RevalueDraft{
			Amount:   amountOf("100"),
			Currency: models.CurrencyARS,
		}, "Ana")
		testutil.AssertNoError(t, err)
	})
}
